package entity

import "time"

// Tipos de alerta.
const (
	AlertaStockBajo     = "stock_bajo"
	AlertaClienteMoroso = "cliente_moroso"
)

// Severidades.
const (
	SeveridadInfo        = "info"
	SeveridadAdvertencia = "advertencia"
	SeveridadCritica     = "critica"
)

// Estados del ciclo de vida: activa → resuelta | descartada.
const (
	AlertaActiva     = "activa"
	AlertaResuelta   = "resuelta"
	AlertaDescartada = "descartada"
)

// Alerta abierta por el motor de reglas cuando una condición de umbral se
// cumple por primera vez; deduplicada por (tipo, entidadID) mientras está activa.
type Alerta struct {
	ID          string
	Tipo        string
	EntidadTipo string
	EntidadID   string
	Severidad   string
	Mensaje     string
	Estado      string
	CreatedAt   time.Time
	ResueltaAt  *time.Time
}
