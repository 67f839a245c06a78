package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Distribuidor es el proveedor de las órdenes de compra.
type Distribuidor struct {
	ID       string
	Nombre   string
	Contacto string

	// Derivados (pipeline de métricas).
	TotalOrdenado        decimal.Decimal
	TotalPagado          decimal.Decimal
	SaldoPendiente       decimal.Decimal
	StockTotal           decimal.Decimal
	UtilidadRealizada    decimal.Decimal
	MargenPromedio       decimal.Decimal // %
	MetricasActualizadas time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
