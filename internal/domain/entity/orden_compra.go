package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	OrdenAbierta = "abierta"
	OrdenCerrada = "cerrada"
)

// Eficiencia de rotación de una orden, por días promedio por unidad vendida.
const (
	RotacionExcelente = "excelente"
	RotacionBuena     = "buena"
	RotacionNormal    = "normal"
	RotacionLenta     = "lenta"
	RotacionMuyLenta  = "muy_lenta"
)

// OrdenCompra es un pedido a un distribuidor del que se descuenta stock
// con cada venta trazada a la orden.
type OrdenCompra struct {
	ID             string
	DistribuidorID string
	ProductoID     string

	CantidadOriginal decimal.Decimal
	StockActual      decimal.Decimal
	CostoTotal       decimal.Decimal
	MontoPagado      decimal.Decimal
	SaldoPendiente   decimal.Decimal
	Estado           string

	// Derivados (pipeline de métricas).
	DiasDesdeCompra      int
	PorcentajeVendido    decimal.Decimal
	EficienciaRotacion   string
	MetricasActualizadas time.Time

	FechaCompra time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
