package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)
var _ repository.AlertaRepository = (*AlertaRepo)(nil)

// AuditRepo log de auditoría append-only. No hay Update ni Delete: las
// entradas son inmutables por diseño de la tabla (sin permisos de UPDATE).
type AuditRepo struct {
	q Querier
}

func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

func (r *AuditRepo) Create(e *entity.AuditLogEntry) error {
	ctx := context.Background()
	query := `
		INSERT INTO audit_log (id, accion, entidad_tipo, entidad_id, actor, antes, despues,
			descripcion, monto, bancos_afectados, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	args := []any{
		e.ID, e.Accion, e.EntidadTipo, e.EntidadID, e.Actor,
		e.Antes, e.Despues, e.Descripcion, e.Monto, e.BancosAfectados, e.CreatedAt,
	}

	// Dentro de una transacción un INSERT fallido deja la tx entera en estado
	// abortado y el Commit del caller fallaría aunque el error se ignore. El
	// savepoint (Begin anidado de pgx) limita el aborto a esta escritura: se
	// revierte solo el savepoint y la operación de negocio puede confirmar.
	if tx, ok := r.q.(pgx.Tx); ok {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return fmt.Errorf("savepoint audit: %w", err)
		}
		if _, err := sp.Exec(ctx, query, args...); err != nil {
			_ = sp.Rollback(ctx)
			return fmt.Errorf("insert audit: %w", err)
		}
		return sp.Commit(ctx)
	}

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

func (r *AuditRepo) ListByEntidad(entidadTipo, entidadID string, limit int) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT id, accion, entidad_tipo, entidad_id, actor, antes, despues,
		       descripcion, monto, bancos_afectados, created_at
		FROM audit_log
		WHERE entidad_tipo = $1 AND entidad_id = $2
		ORDER BY created_at DESC LIMIT $3`
	rows, err := r.q.Query(context.Background(), query, entidadTipo, entidadID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditLogEntry
	for rows.Next() {
		var e entity.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.Accion, &e.EntidadTipo, &e.EntidadID, &e.Actor,
			&e.Antes, &e.Despues, &e.Descripcion, &e.Monto, &e.BancosAfectados, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// AlertaRepo persistencia del motor de alertas.
type AlertaRepo struct {
	q Querier
}

func NewAlertaRepository(q Querier) *AlertaRepo {
	return &AlertaRepo{q: q}
}

const alertaColumns = `id, tipo, entidad_tipo, entidad_id, severidad, mensaje, estado, created_at, resuelta_at`

func (r *AlertaRepo) Create(a *entity.Alerta) error {
	query := `
		INSERT INTO alertas (` + alertaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.Tipo, a.EntidadTipo, a.EntidadID, a.Severidad, a.Mensaje, a.Estado,
		a.CreatedAt, a.ResueltaAt)
	if err != nil {
		return fmt.Errorf("insert alerta: %w", err)
	}
	return nil
}

// FindActiva busca la alerta activa de (tipo, entidad); nil si no hay.
func (r *AlertaRepo) FindActiva(tipo, entidadID string) (*entity.Alerta, error) {
	query := `SELECT ` + alertaColumns + ` FROM alertas
		WHERE tipo = $1 AND entidad_id = $2 AND estado = 'activa' LIMIT 1`
	var a entity.Alerta
	err := r.q.QueryRow(context.Background(), query, tipo, entidadID).Scan(
		&a.ID, &a.Tipo, &a.EntidadTipo, &a.EntidadID, &a.Severidad, &a.Mensaje, &a.Estado,
		&a.CreatedAt, &a.ResueltaAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find alerta activa: %w", err)
	}
	return &a, nil
}

func (r *AlertaRepo) ListActivas() ([]*entity.Alerta, error) {
	return r.list(`SELECT `+alertaColumns+` FROM alertas WHERE estado = 'activa' ORDER BY created_at DESC`)
}

func (r *AlertaRepo) ListPorEstado(estado string, limit int) ([]*entity.Alerta, error) {
	return r.list(`SELECT `+alertaColumns+` FROM alertas WHERE estado = $1 ORDER BY created_at DESC LIMIT $2`,
		estado, limit)
}

func (r *AlertaRepo) list(query string, args ...any) ([]*entity.Alerta, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alertas: %w", err)
	}
	defer rows.Close()

	var list []*entity.Alerta
	for rows.Next() {
		var a entity.Alerta
		if err := rows.Scan(&a.ID, &a.Tipo, &a.EntidadTipo, &a.EntidadID, &a.Severidad,
			&a.Mensaje, &a.Estado, &a.CreatedAt, &a.ResueltaAt); err != nil {
			return nil, fmt.Errorf("scan alerta: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *AlertaRepo) Resolver(id string, cuando time.Time) error {
	return r.cerrar(id, entity.AlertaResuelta, cuando)
}

func (r *AlertaRepo) Descartar(id string, cuando time.Time) error {
	return r.cerrar(id, entity.AlertaDescartada, cuando)
}

func (r *AlertaRepo) cerrar(id, estado string, cuando time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE alertas SET estado = $2, resuelta_at = $3 WHERE id = $1 AND estado = 'activa'`,
		id, estado, cuando)
	if err != nil {
		return fmt.Errorf("cerrar alerta: %w", err)
	}
	return nil
}
