package postgres

import (
	"context"
	"fmt"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

var _ repository.AbonoRepository = (*AbonoRepo)(nil)
var _ repository.DevolucionRepository = (*DevolucionRepo)(nil)

// AbonoRepo registros append-only de pagos parciales.
type AbonoRepo struct {
	q Querier
}

func NewAbonoRepository(q Querier) *AbonoRepo {
	return &AbonoRepo{q: q}
}

func (r *AbonoRepo) Create(a *entity.Abono) error {
	query := `
		INSERT INTO abonos (id, venta_id, monto, monto_pagado_acumulado, boveda_monte, fletes, utilidades, fecha, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.VentaID, a.Monto, a.MontoPagadoAcumulado,
		a.BovedaMonte, a.Fletes, a.Utilidades, a.Fecha, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert abono: %w", err)
	}
	return nil
}

func (r *AbonoRepo) ListByVenta(ventaID string) ([]*entity.Abono, error) {
	query := `
		SELECT id, venta_id, monto, monto_pagado_acumulado, boveda_monte, fletes, utilidades, fecha, created_at
		FROM abonos WHERE venta_id = $1 ORDER BY fecha`
	rows, err := r.q.Query(context.Background(), query, ventaID)
	if err != nil {
		return nil, fmt.Errorf("list abonos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Abono
	for rows.Next() {
		var a entity.Abono
		if err := rows.Scan(&a.ID, &a.VentaID, &a.Monto, &a.MontoPagadoAcumulado,
			&a.BovedaMonte, &a.Fletes, &a.Utilidades, &a.Fecha, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan abono: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *AbonoRepo) DeleteByVenta(ventaID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM abonos WHERE venta_id = $1`, ventaID)
	if err != nil {
		return fmt.Errorf("delete abonos: %w", err)
	}
	return nil
}

// DevolucionRepo devoluciones de ventas.
type DevolucionRepo struct {
	q Querier
}

func NewDevolucionRepository(q Querier) *DevolucionRepo {
	return &DevolucionRepo{q: q}
}

func (r *DevolucionRepo) Create(d *entity.Devolucion) error {
	query := `
		INSERT INTO devoluciones (id, venta_id, cantidad_devuelta, motivo,
			monto_boveda_monte, monto_fletes, monto_utilidades, monto_reembolso,
			es_total, stock_restaurado, fecha, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.VentaID, d.CantidadDevuelta, d.Motivo,
		d.MontoBovedaMonte, d.MontoFletes, d.MontoUtilidades, d.MontoReembolso,
		d.EsTotal, d.StockRestaurado, d.Fecha, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert devolucion: %w", err)
	}
	return nil
}

func (r *DevolucionRepo) ListByVenta(ventaID string) ([]*entity.Devolucion, error) {
	query := `
		SELECT id, venta_id, cantidad_devuelta, motivo,
		       monto_boveda_monte, monto_fletes, monto_utilidades, monto_reembolso,
		       es_total, stock_restaurado, fecha, created_at
		FROM devoluciones WHERE venta_id = $1 ORDER BY fecha`
	rows, err := r.q.Query(context.Background(), query, ventaID)
	if err != nil {
		return nil, fmt.Errorf("list devoluciones: %w", err)
	}
	defer rows.Close()

	var list []*entity.Devolucion
	for rows.Next() {
		var d entity.Devolucion
		if err := rows.Scan(&d.ID, &d.VentaID, &d.CantidadDevuelta, &d.Motivo,
			&d.MontoBovedaMonte, &d.MontoFletes, &d.MontoUtilidades, &d.MontoReembolso,
			&d.EsTotal, &d.StockRestaurado, &d.Fecha, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan devolucion: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

func (r *DevolucionRepo) DeleteByVenta(ventaID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM devoluciones WHERE venta_id = $1`, ventaID)
	if err != nil {
		return fmt.Errorf("delete devoluciones: %w", err)
	}
	return nil
}
