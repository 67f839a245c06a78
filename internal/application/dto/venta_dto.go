package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CrearVentaRequest cuerpo de POST /api/ventas.
// OrdenCompraID es obligatoria: el stock siempre se valida contra la orden.
type CrearVentaRequest struct {
	ClienteID          string          `json:"clienteId" validate:"required"`
	ProductoID         string          `json:"productoId"`
	OrdenCompraID      string          `json:"ocRelacionada" validate:"required"`
	Cantidad           decimal.Decimal `json:"cantidad" validate:"required"`
	PrecioVentaUnidad  decimal.Decimal `json:"precioVentaUnidad" validate:"required"`
	PrecioCompraUnidad decimal.Decimal `json:"precioCompraUnidad"`
	PrecioFleteUnidad  decimal.Decimal `json:"precioFlete"`
	MontoPagado        decimal.Decimal `json:"montoPagado"` // pago inicial opcional
}

// DistribucionDTO el split GYA para display.
type DistribucionDTO struct {
	BovedaMonte decimal.Decimal `json:"bovedaMonte"`
	Fletes      decimal.Decimal `json:"fletes"`
	Utilidades  decimal.Decimal `json:"utilidades"`
	Total       decimal.Decimal `json:"total"`
}

// CrearVentaResponse respuesta de POST /api/ventas.
type CrearVentaResponse struct {
	VentaID      string          `json:"ventaId"`
	Distribucion DistribucionDTO `json:"distribucion"`
	EstadoPago   string          `json:"estadoPago"`
	TotalVenta   decimal.Decimal `json:"totalVenta"`
}

// RegistrarAbonoRequest cuerpo de POST /api/ventas/:id/abonos.
type RegistrarAbonoRequest struct {
	Monto decimal.Decimal `json:"monto" validate:"required"`
}

// AbonoResponse respuesta tras registrar un abono.
type AbonoResponse struct {
	AbonoID              string          `json:"abonoId"`
	VentaID              string          `json:"ventaId"`
	Monto                decimal.Decimal `json:"monto"`
	MontoPagadoAcumulado decimal.Decimal `json:"montoPagadoAcumulado"`
	MontoRestante        decimal.Decimal `json:"montoRestante"`
	EstadoPago           string          `json:"estadoPago"`
	Distribucion         DistribucionDTO `json:"distribucion"`
}

// ProcesarDevolucionRequest cuerpo de POST /api/ventas/:id/devoluciones.
type ProcesarDevolucionRequest struct {
	CantidadDevuelta decimal.Decimal `json:"cantidadDevuelta" validate:"required"`
	Motivo           string          `json:"motivo" validate:"required"`
	RestaurarStock   bool            `json:"restaurarStock"`
}

// DevolucionResponse respuesta tras procesar una devolución.
type DevolucionResponse struct {
	DevolucionID   string          `json:"devolucionId"`
	VentaID        string          `json:"ventaId"`
	EsTotal        bool            `json:"esTotal"`
	MontoReembolso decimal.Decimal `json:"montoReembolso"`
	Reversion      DistribucionDTO `json:"reversion"`
	EstadoPago     string          `json:"estadoPago"`
}

// CorregirVentaRequest cuerpo del modo corrección de PUT /api/ventas/:id
// (override administrativo de los montos históricos del split).
type CorregirVentaRequest struct {
	MontoBovedaMonte *decimal.Decimal `json:"montoBovedaMonte"`
	MontoFletes      *decimal.Decimal `json:"montoFletes"`
	MontoUtilidades  *decimal.Decimal `json:"montoUtilidades"`
	MontoPagado      *decimal.Decimal `json:"montoPagado"` // incremental: se trata como abono
}

// RentabilidadDTO métricas de margen de una venta para el listado.
type RentabilidadDTO struct {
	Utilidad decimal.Decimal `json:"utilidad"`
	MargenPct decimal.Decimal `json:"margenPct"`
}

// VentaResponse fila del listado GET /api/ventas.
type VentaResponse struct {
	ID                 string          `json:"id"`
	ClienteID          string          `json:"clienteId"`
	ClienteNombre      string          `json:"clienteNombre"`
	ProductoID         string          `json:"productoId,omitempty"`
	ProductoNombre     string          `json:"productoNombre,omitempty"`
	OrdenCompraID      string          `json:"ordenCompraId"`
	DistribuidorNombre string          `json:"distribuidorNombre,omitempty"`
	Cantidad           decimal.Decimal `json:"cantidad"`
	PrecioVentaUnidad  decimal.Decimal `json:"precioVentaUnidad"`
	PrecioTotalVenta   decimal.Decimal `json:"precioTotalVenta"`
	MontoPagado        decimal.Decimal `json:"montoPagado"`
	MontoRestante      decimal.Decimal `json:"montoRestante"`
	EstadoPago         string          `json:"estadoPago"`
	DistribucionGYA    DistribucionDTO `json:"distribucionGYA"`
	Rentabilidad       RentabilidadDTO `json:"rentabilidad"`
	FechaVenta         time.Time       `json:"fechaVenta"`
}

// VentaListResponse respuesta paginada de GET /api/ventas.
type VentaListResponse struct {
	Ventas []VentaResponse `json:"ventas"`
	Page   PageResponse    `json:"page"`
}

// AbonoItemDTO un abono dentro del detalle de venta.
type AbonoItemDTO struct {
	ID                   string          `json:"id"`
	Monto                decimal.Decimal `json:"monto"`
	MontoPagadoAcumulado decimal.Decimal `json:"montoPagadoAcumulado"`
	Distribucion         DistribucionDTO `json:"distribucion"`
	Fecha                time.Time       `json:"fecha"`
}

// DevolucionItemDTO una devolución dentro del detalle de venta.
type DevolucionItemDTO struct {
	ID               string          `json:"id"`
	CantidadDevuelta decimal.Decimal `json:"cantidadDevuelta"`
	Motivo           string          `json:"motivo"`
	MontoReembolso   decimal.Decimal `json:"montoReembolso"`
	EsTotal          bool            `json:"esTotal"`
	Reversion        DistribucionDTO `json:"reversion"`
	Fecha            time.Time       `json:"fecha"`
}

// VentaDetalleResponse respuesta de GET /api/ventas/:id.
type VentaDetalleResponse struct {
	ID                 string              `json:"id"`
	ClienteID          string              `json:"clienteId"`
	ProductoID         string              `json:"productoId,omitempty"`
	OrdenCompraID      string              `json:"ordenCompraId"`
	Cantidad           decimal.Decimal     `json:"cantidad"`
	PrecioVentaUnidad  decimal.Decimal     `json:"precioVentaUnidad"`
	PrecioCompraUnidad decimal.Decimal     `json:"precioCompraUnidad"`
	PrecioFleteUnidad  decimal.Decimal     `json:"precioFlete"`
	PrecioTotalVenta   decimal.Decimal     `json:"precioTotalVenta"`
	MontoPagado        decimal.Decimal     `json:"montoPagado"`
	MontoRestante      decimal.Decimal     `json:"montoRestante"`
	EstadoPago         string              `json:"estadoPago"`
	DistribucionGYA    DistribucionDTO     `json:"distribucionGYA"`
	CapitalGYA         DistribucionDTO     `json:"capitalGYA"`
	FechaVenta         time.Time           `json:"fechaVenta"`
	Abonos             []AbonoItemDTO      `json:"abonos"`
	Devoluciones       []DevolucionItemDTO `json:"devoluciones"`
}
