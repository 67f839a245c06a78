// Package audit escribe el log de auditoría: una entrada inmutable por
// mutación de negocio, con snapshots antes/después serializados a JSON.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
	"github.com/gyadistribucion/gya-api/pkg/logger"
)

// Entrada describe la acción a auditar. Antes/Despues aceptan cualquier
// struct serializable; nil omite el snapshot.
type Entrada struct {
	Accion      string
	EntidadTipo string
	EntidadID   string
	Actor       string
	Descripcion string
	Antes       any
	Despues     any
	Monto       decimal.Decimal
	Bancos      []string
}

// Recorder persiste entradas de auditoría en la misma transacción que la
// operación auditada. Un fallo al escribir la entrada se registra en el log
// pero no revierte la operación de negocio: el repo de auditoría aísla su
// INSERT en un savepoint para que el fallo no deje abortada la tx del caller.
type Recorder struct {
	log *logger.Logger
}

func NewRecorder(log *logger.Logger) *Recorder {
	return &Recorder{log: log}
}

// Registrar escribe la entrada usando el repo ligado a la tx del caller.
func (rec *Recorder) Registrar(repo repository.AuditRepository, e Entrada) {
	entry := &entity.AuditLogEntry{
		ID:              uuid.NewString(),
		Accion:          e.Accion,
		EntidadTipo:     e.EntidadTipo,
		EntidadID:       e.EntidadID,
		Actor:           e.Actor,
		Antes:           marshal(e.Antes),
		Despues:         marshal(e.Despues),
		Descripcion:     e.Descripcion,
		Monto:           e.Monto,
		BancosAfectados: e.Bancos,
		CreatedAt:       time.Now(),
	}
	if err := repo.Create(entry); err != nil {
		rec.log.Warn().Err(err).
			Str("accion", e.Accion).
			Str("entidad_id", e.EntidadID).
			Msg("no se pudo escribir la entrada de auditoría")
	}
}

func marshal(v any) []byte {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
