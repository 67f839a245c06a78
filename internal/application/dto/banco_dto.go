package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransferenciaRequest cuerpo de POST /api/bancos/transferencias.
type TransferenciaRequest struct {
	BancoOrigenID  string          `json:"bancoOrigenId" validate:"required"`
	BancoDestinoID string          `json:"bancoDestinoId" validate:"required"`
	Monto          decimal.Decimal `json:"monto" validate:"required"`
	Concepto       string          `json:"concepto"`
}

// TransferenciaResponse respuesta tras una transferencia.
type TransferenciaResponse struct {
	TransferenciaID string          `json:"transferenciaId"`
	BancoOrigenID   string          `json:"bancoOrigenId"`
	BancoDestinoID  string          `json:"bancoDestinoId"`
	Monto           decimal.Decimal `json:"monto"`
}

// PagoDistribuidorRequest cuerpo de POST /api/ordenes/:id/pagos.
type PagoDistribuidorRequest struct {
	Monto         decimal.Decimal `json:"monto" validate:"required"`
	BancoOrigenID string          `json:"bancoOrigenId" validate:"required"`
}

// PagoDistribuidorResponse respuesta tras pagar a un distribuidor.
type PagoDistribuidorResponse struct {
	OrdenCompraID  string          `json:"ordenCompraId"`
	Monto          decimal.Decimal `json:"monto"`
	SaldoPendiente decimal.Decimal `json:"saldoPendiente"`
}

// BancoResponse estado de un banco para GET /api/bancos.
type BancoResponse struct {
	ID                string          `json:"id"`
	Nombre            string          `json:"nombre"`
	Codigo            string          `json:"codigo"`
	Tipo              string          `json:"tipo"`
	CapitalActual     decimal.Decimal `json:"capitalActual"`
	HistoricoIngresos decimal.Decimal `json:"historicoIngresos"`
	HistoricoGastos   decimal.Decimal `json:"historicoGastos"`
	Tendencia         string          `json:"tendencia,omitempty"`
	SaludFinanciera   string          `json:"saludFinanciera,omitempty"`
	DiasAgotamiento   int             `json:"diasAgotamiento,omitempty"`
}

// AlertaResponse fila de GET /api/alertas.
type AlertaResponse struct {
	ID          string     `json:"id"`
	Tipo        string     `json:"tipo"`
	EntidadTipo string     `json:"entidadTipo"`
	EntidadID   string     `json:"entidadId"`
	Severidad   string     `json:"severidad"`
	Mensaje     string     `json:"mensaje"`
	Estado      string     `json:"estado"`
	CreatedAt   time.Time  `json:"createdAt"`
	ResueltaAt  *time.Time `json:"resueltaAt,omitempty"`
}

// MovimientoDTO fila de GET /api/bancos/:id/movimientos.
type MovimientoDTO struct {
	ID             string          `json:"id"`
	BancoID        string          `json:"bancoId"`
	Tipo           string          `json:"tipo"`
	Monto          decimal.Decimal `json:"monto"`
	Descripcion    string          `json:"descripcion,omitempty"`
	ReferenciaID   string          `json:"referenciaId,omitempty"`
	ReferenciaTipo string          `json:"referenciaTipo,omitempty"`
	Fecha          time.Time       `json:"fecha"`
}

// AuditEntryDTO fila de GET /api/auditoria.
type AuditEntryDTO struct {
	ID              string          `json:"id"`
	Accion          string          `json:"accion"`
	EntidadTipo     string          `json:"entidadTipo"`
	EntidadID       string          `json:"entidadId"`
	Actor           string          `json:"actor"`
	Antes           json.RawMessage `json:"antes,omitempty"`
	Despues         json.RawMessage `json:"despues,omitempty"`
	Descripcion     string          `json:"descripcion,omitempty"`
	Monto           decimal.Decimal `json:"monto"`
	BancosAfectados []string        `json:"bancosAfectados,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// DashboardResponse resumen cacheado de GET /api/dashboard.
type DashboardResponse struct {
	VentasHoy        int64             `json:"ventasHoy"`
	IngresosHoy      decimal.Decimal   `json:"ingresosHoy"`
	DeudaTotal       decimal.Decimal   `json:"deudaTotal"`
	VentasPendientes int64             `json:"ventasPendientes"`
	AlertasActivas   int               `json:"alertasActivas"`
	Bancos           []BancoResponse   `json:"bancos"`
}
