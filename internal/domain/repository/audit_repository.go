package repository

import (
	"time"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
)

// AuditRepository define el puerto append-only del log de auditoría.
type AuditRepository interface {
	Create(entry *entity.AuditLogEntry) error
	ListByEntidad(entidadTipo, entidadID string, limit int) ([]*entity.AuditLogEntry, error)
}

// AlertaRepository define el puerto de persistencia para Alerta.
type AlertaRepository interface {
	Create(alerta *entity.Alerta) error
	// FindActiva busca una alerta activa por (tipo, entidadID); nil si no existe.
	FindActiva(tipo, entidadID string) (*entity.Alerta, error)
	ListActivas() ([]*entity.Alerta, error)
	ListPorEstado(estado string, limit int) ([]*entity.Alerta, error)
	Resolver(id string, cuando time.Time) error
	Descartar(id string, cuando time.Time) error
}
