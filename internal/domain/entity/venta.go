package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una venta.
const (
	EstadoPagoPendiente = "pendiente"
	EstadoPagoParcial   = "parcial"
	EstadoPagoCompleto  = "completo"
	EstadoPagoDevuelta  = "devuelta" // cierre lógico por devolución total
)

// Venta registra una venta a crédito con su distribución GYA.
//
// Invariantes: MontoBovedaMonte + MontoFletes + MontoUtilidades == PrecioTotalVenta,
// y CapitalX == MontoX × (MontoPagado / PrecioTotalVenta) hasta que ocurra una
// devolución.
type Venta struct {
	ID            string
	ClienteID     string
	ProductoID    string // opcional, trazabilidad
	OrdenCompraID string

	Cantidad           decimal.Decimal
	PrecioVentaUnidad  decimal.Decimal
	PrecioCompraUnidad decimal.Decimal
	PrecioFleteUnidad  decimal.Decimal
	PrecioTotalVenta   decimal.Decimal

	MontoPagado   decimal.Decimal
	MontoRestante decimal.Decimal
	EstadoPago    string

	// Montos históricos: la distribución completa comprometida al crear la venta.
	MontoBovedaMonte decimal.Decimal
	MontoFletes      decimal.Decimal
	MontoUtilidades  decimal.Decimal

	// Capital: la porción de cada monto histórico realizada como efectivo.
	CapitalBovedaMonte decimal.Decimal
	CapitalFletes      decimal.Decimal
	CapitalUtilidades  decimal.Decimal

	FechaVenta time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Abono es el registro append-only de un pago parcial contra una venta.
// Nunca se muta después de creado; solo la venta padre y los tres bancos
// cambian como consecuencia.
type Abono struct {
	ID                   string
	VentaID              string
	Monto                decimal.Decimal
	MontoPagadoAcumulado decimal.Decimal

	// Sub-split GYA proporcional de este pago concreto.
	BovedaMonte decimal.Decimal
	Fletes      decimal.Decimal
	Utilidades  decimal.Decimal

	Fecha     time.Time
	CreatedAt time.Time
}

// Devolucion revierte parte o la totalidad de la cantidad de una venta.
// EsTotal cuando CantidadDevuelta == cantidad original.
type Devolucion struct {
	ID               string
	VentaID          string
	CantidadDevuelta decimal.Decimal
	Motivo           string

	// Montos GYA revertidos (proporcionales a la cantidad devuelta).
	MontoBovedaMonte decimal.Decimal
	MontoFletes      decimal.Decimal
	MontoUtilidades  decimal.Decimal

	// Reembolso adeudado al cliente: solo la fracción efectivamente cobrada.
	MontoReembolso decimal.Decimal

	EsTotal         bool
	StockRestaurado bool
	Fecha           time.Time
	CreatedAt       time.Time
}
