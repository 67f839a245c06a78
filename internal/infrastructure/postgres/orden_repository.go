package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/metrics"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

var _ repository.OrdenCompraRepository = (*OrdenCompraRepo)(nil)

// OrdenCompraRepo implementación de OrdenCompraRepository.
type OrdenCompraRepo struct {
	q Querier
}

func NewOrdenCompraRepository(q Querier) *OrdenCompraRepo {
	return &OrdenCompraRepo{q: q}
}

const ordenColumns = `
	id, distribuidor_id, producto_id,
	cantidad_original, stock_actual, costo_total, monto_pagado, saldo_pendiente, estado,
	dias_desde_compra, porcentaje_vendido, COALESCE(eficiencia_rotacion, ''), metricas_actualizadas,
	fecha_compra, created_at, updated_at`

func (r *OrdenCompraRepo) Create(o *entity.OrdenCompra) error {
	query := `
		INSERT INTO ordenes_compra (id, distribuidor_id, producto_id, cantidad_original, stock_actual,
			costo_total, monto_pagado, saldo_pendiente, estado, fecha_compra, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.DistribuidorID, o.ProductoID, o.CantidadOriginal, o.StockActual,
		o.CostoTotal, o.MontoPagado, o.SaldoPendiente, o.Estado,
		o.FechaCompra, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert orden: %w", err)
	}
	return nil
}

func (r *OrdenCompraRepo) GetByID(id string) (*entity.OrdenCompra, error) {
	return r.get(`SELECT `+ordenColumns+` FROM ordenes_compra WHERE id = $1`, id)
}

func (r *OrdenCompraRepo) GetForUpdate(id string) (*entity.OrdenCompra, error) {
	return r.get(`SELECT `+ordenColumns+` FROM ordenes_compra WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrdenCompraRepo) get(query, id string) (*entity.OrdenCompra, error) {
	var o entity.OrdenCompra
	var metricasActualizadas *time.Time
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.DistribuidorID, &o.ProductoID,
		&o.CantidadOriginal, &o.StockActual, &o.CostoTotal, &o.MontoPagado, &o.SaldoPendiente, &o.Estado,
		&o.DiasDesdeCompra, &o.PorcentajeVendido, &o.EficienciaRotacion, &metricasActualizadas,
		&o.FechaCompra, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get orden: %w", err)
	}
	if metricasActualizadas != nil {
		o.MetricasActualizadas = *metricasActualizadas
	}
	return &o, nil
}

// AjustarStock aplica un delta relativo al stock de la orden.
func (r *OrdenCompraRepo) AjustarStock(id string, delta decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE ordenes_compra SET stock_actual = stock_actual + $2, updated_at = now() WHERE id = $1`,
		id, delta)
	if err != nil {
		return fmt.Errorf("ajustar stock orden: %w", err)
	}
	return nil
}

// AplicarPago incrementa monto_pagado, reduce saldo_pendiente y cierra la
// orden cuando el saldo llega a cero.
func (r *OrdenCompraRepo) AplicarPago(id string, monto decimal.Decimal) error {
	query := `
		UPDATE ordenes_compra
		SET monto_pagado    = monto_pagado + $2,
		    saldo_pendiente = saldo_pendiente - $2,
		    estado          = CASE WHEN saldo_pendiente - $2 <= 0 THEN 'cerrada' ELSE estado END,
		    updated_at      = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, monto)
	if err != nil {
		return fmt.Errorf("aplicar pago orden: %w", err)
	}
	return nil
}

// UpdateRotacion escribe las métricas de rotación calculadas por el pipeline.
func (r *OrdenCompraRepo) UpdateRotacion(id string, m metrics.MetricasOrden, actualizadas time.Time) error {
	query := `
		UPDATE ordenes_compra
		SET dias_desde_compra     = $2,
		    porcentaje_vendido    = $3,
		    eficiencia_rotacion   = $4,
		    metricas_actualizadas = $5,
		    updated_at            = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		id, m.DiasDesdeCompra, m.PorcentajeVendido, m.EficienciaRotacion, actualizadas)
	if err != nil {
		return fmt.Errorf("update rotacion orden: %w", err)
	}
	return nil
}

func (r *OrdenCompraRepo) ListAbiertas() ([]*entity.OrdenCompra, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+ordenColumns+` FROM ordenes_compra WHERE estado = 'abierta' ORDER BY fecha_compra`)
	if err != nil {
		return nil, fmt.Errorf("list ordenes abiertas: %w", err)
	}
	defer rows.Close()

	var list []*entity.OrdenCompra
	for rows.Next() {
		var o entity.OrdenCompra
		var metricasActualizadas *time.Time
		if err := rows.Scan(
			&o.ID, &o.DistribuidorID, &o.ProductoID,
			&o.CantidadOriginal, &o.StockActual, &o.CostoTotal, &o.MontoPagado, &o.SaldoPendiente, &o.Estado,
			&o.DiasDesdeCompra, &o.PorcentajeVendido, &o.EficienciaRotacion, &metricasActualizadas,
			&o.FechaCompra, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan orden: %w", err)
		}
		if metricasActualizadas != nil {
			o.MetricasActualizadas = *metricasActualizadas
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

func (r *OrdenCompraRepo) ListIDs() ([]string, error) {
	return listIDs(r.q, `SELECT id FROM ordenes_compra`)
}
