package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditLogEntry es el registro inmutable de una acción de negocio: una fila
// por mutación, con snapshots antes/después en JSON. Solo escritura desde el
// motor de transacciones, solo lectura para el resto.
type AuditLogEntry struct {
	ID              string
	Accion          string // crear_venta, registrar_abono, procesar_devolucion, ...
	EntidadTipo     string
	EntidadID       string
	Actor           string
	Antes           []byte // snapshot JSON previo (nil si no aplica)
	Despues         []byte // snapshot JSON posterior
	Descripcion     string
	Monto           decimal.Decimal
	BancosAfectados []string
	CreatedAt       time.Time
}
