package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de cliente, en orden de precedencia del clasificador.
const (
	ClienteMoroso    = "moroso"
	ClienteInactivo  = "inactivo"
	ClienteVIP       = "vip"
	ClienteFrecuente = "frecuente"
	ClienteNuevo     = "nuevo"
	ClienteOcasional = "ocasional"
)

// Cliente compra a crédito. Los campos bajo "derivados" son propiedad
// exclusiva del pipeline de métricas y ningún otro componente los escribe.
type Cliente struct {
	ID       string
	Nombre   string
	Telefono string

	SaldoPendiente decimal.Decimal
	TotalCompras   decimal.Decimal
	TotalPagado    decimal.Decimal

	// Derivados.
	TicketPromedio       decimal.Decimal
	DiasSinComprar       int
	FrecuenciaCompra     decimal.Decimal // compras/mes sobre los últimos 6 meses
	PorcentajePuntual    decimal.Decimal // % de ventas pagadas por completo
	ScoreCredito         decimal.Decimal // 0-100
	Categoria            string
	FechaUltimaCompra    *time.Time
	MetricasActualizadas time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
