package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/metrics"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

var _ repository.DistribuidorRepository = (*DistribuidorRepo)(nil)

// DistribuidorRepo implementación de DistribuidorRepository.
type DistribuidorRepo struct {
	q Querier
}

func NewDistribuidorRepository(q Querier) *DistribuidorRepo {
	return &DistribuidorRepo{q: q}
}

func (r *DistribuidorRepo) Create(d *entity.Distribuidor) error {
	query := `
		INSERT INTO distribuidores (id, nombre, contacto, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.Nombre, nullIfEmpty(d.Contacto), d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert distribuidor: %w", err)
	}
	return nil
}

func (r *DistribuidorRepo) GetByID(id string) (*entity.Distribuidor, error) {
	query := `
		SELECT id, nombre, COALESCE(contacto, ''),
		       total_ordenado, total_pagado, saldo_pendiente, stock_total,
		       utilidad_realizada, margen_promedio, metricas_actualizadas,
		       created_at, updated_at
		FROM distribuidores WHERE id = $1`
	var d entity.Distribuidor
	var metricasActualizadas *time.Time
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.Nombre, &d.Contacto,
		&d.TotalOrdenado, &d.TotalPagado, &d.SaldoPendiente, &d.StockTotal,
		&d.UtilidadRealizada, &d.MargenPromedio, &metricasActualizadas,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get distribuidor: %w", err)
	}
	if metricasActualizadas != nil {
		d.MetricasActualizadas = *metricasActualizadas
	}
	return &d, nil
}

// UpdateMetricas escribe los totales derivados calculados por el pipeline.
func (r *DistribuidorRepo) UpdateMetricas(id string, m metrics.MetricasDistribuidor, actualizadas time.Time) error {
	query := `
		UPDATE distribuidores
		SET total_ordenado        = $2,
		    total_pagado          = $3,
		    saldo_pendiente       = $4,
		    stock_total           = $5,
		    utilidad_realizada    = $6,
		    margen_promedio       = $7,
		    metricas_actualizadas = $8,
		    updated_at            = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		id, m.TotalOrdenado, m.TotalPagado, m.SaldoPendiente, m.StockTotal,
		m.UtilidadRealizada, m.MargenPromedio, actualizadas)
	if err != nil {
		return fmt.Errorf("update metricas distribuidor: %w", err)
	}
	return nil
}

func (r *DistribuidorRepo) ListIDs() ([]string, error) {
	return listIDs(r.q, `SELECT id FROM distribuidores`)
}
