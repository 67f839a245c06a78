package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clasificación ABC de producto.
const (
	ClaseA = "A"
	ClaseB = "B"
	ClaseC = "C"
)

// Producto del catálogo con su stock de almacén agregado.
type Producto struct {
	ID          string
	Nombre      string
	SKU         string
	StockActual decimal.Decimal

	// Derivados (pipeline de métricas).
	IngresosPeriodo      decimal.Decimal
	UtilidadPeriodo      decimal.Decimal
	PrecioVentaPromedio  decimal.Decimal
	PrecioCompraPromedio decimal.Decimal
	MargenBruto          decimal.Decimal // %
	MargenNeto           decimal.Decimal // % tras fletes
	RotacionAnual        decimal.Decimal
	DiasStockRestante    decimal.Decimal
	ScoreABC             decimal.Decimal // 0-100, media de tres sub-scores
	ClasificacionABC     string
	MetricasActualizadas time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
