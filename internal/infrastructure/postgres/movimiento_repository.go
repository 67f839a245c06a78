package postgres

import (
	"context"
	"fmt"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

// MovimientoRepo rastro append-only de los bancos.
type MovimientoRepo struct {
	q Querier
}

func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

func (r *MovimientoRepo) Create(m *entity.Movimiento) error {
	query := `
		INSERT INTO movimientos (id, banco_id, tipo, monto, descripcion, referencia_id, referencia_tipo, fecha, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.BancoID, m.Tipo, m.Monto, m.Descripcion,
		m.ReferenciaID, m.ReferenciaTipo, m.Fecha, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movimiento: %w", err)
	}
	return nil
}

func (r *MovimientoRepo) ListByBanco(bancoID string, limit int) ([]*entity.Movimiento, error) {
	query := `
		SELECT id, banco_id, tipo, monto, descripcion, referencia_id, referencia_tipo, fecha, created_at
		FROM movimientos WHERE banco_id = $1 ORDER BY fecha DESC LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, bancoID, limit)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movimiento
	for rows.Next() {
		var m entity.Movimiento
		if err := rows.Scan(&m.ID, &m.BancoID, &m.Tipo, &m.Monto, &m.Descripcion,
			&m.ReferenciaID, &m.ReferenciaTipo, &m.Fecha, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// DeleteByReferencia borra el rastro de una entidad revertida (eliminación de venta).
func (r *MovimientoRepo) DeleteByReferencia(referenciaTipo, referenciaID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM movimientos WHERE referencia_tipo = $1 AND referencia_id = $2`,
		referenciaTipo, referenciaID)
	if err != nil {
		return fmt.Errorf("delete movimientos: %w", err)
	}
	return nil
}
