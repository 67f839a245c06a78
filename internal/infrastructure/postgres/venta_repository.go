package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

var _ repository.VentaRepository = (*VentaRepo)(nil)

// VentaRepo implementación de VentaRepository (usable con pool o tx).
type VentaRepo struct {
	q Querier
}

func NewVentaRepository(q Querier) *VentaRepo {
	return &VentaRepo{q: q}
}

const ventaColumns = `
	id, cliente_id, producto_id, orden_compra_id,
	cantidad, precio_venta_unidad, precio_compra_unidad, precio_flete_unidad, precio_total_venta,
	monto_pagado, monto_restante, estado_pago,
	monto_boveda_monte, monto_fletes, monto_utilidades,
	capital_boveda_monte, capital_fletes, capital_utilidades,
	fecha_venta, created_at, updated_at`

// Create persiste la venta con su distribución completa.
func (r *VentaRepo) Create(v *entity.Venta) error {
	query := `
		INSERT INTO ventas (` + ventaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.ClienteID, nullIfEmpty(v.ProductoID), v.OrdenCompraID,
		v.Cantidad, v.PrecioVentaUnidad, v.PrecioCompraUnidad, v.PrecioFleteUnidad, v.PrecioTotalVenta,
		v.MontoPagado, v.MontoRestante, v.EstadoPago,
		v.MontoBovedaMonte, v.MontoFletes, v.MontoUtilidades,
		v.CapitalBovedaMonte, v.CapitalFletes, v.CapitalUtilidades,
		v.FechaVenta, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("venta duplicada: %w", err)
		}
		return fmt.Errorf("insert venta: %w", err)
	}
	return nil
}

func (r *VentaRepo) GetByID(id string) (*entity.Venta, error) {
	return r.get(`SELECT ` + ventaColumns + ` FROM ventas WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la venta dentro de la tx activa.
func (r *VentaRepo) GetForUpdate(id string) (*entity.Venta, error) {
	return r.get(`SELECT `+ventaColumns+` FROM ventas WHERE id = $1 FOR UPDATE`, id)
}

func (r *VentaRepo) get(query, id string) (*entity.Venta, error) {
	var v entity.Venta
	var productoID *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&v.ID, &v.ClienteID, &productoID, &v.OrdenCompraID,
		&v.Cantidad, &v.PrecioVentaUnidad, &v.PrecioCompraUnidad, &v.PrecioFleteUnidad, &v.PrecioTotalVenta,
		&v.MontoPagado, &v.MontoRestante, &v.EstadoPago,
		&v.MontoBovedaMonte, &v.MontoFletes, &v.MontoUtilidades,
		&v.CapitalBovedaMonte, &v.CapitalFletes, &v.CapitalUtilidades,
		&v.FechaVenta, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}
	if productoID != nil {
		v.ProductoID = *productoID
	}
	return &v, nil
}

// Update reescribe los campos mutables de la venta.
func (r *VentaRepo) Update(v *entity.Venta) error {
	query := `
		UPDATE ventas
		SET cantidad             = $2,
		    precio_total_venta   = $3,
		    monto_pagado         = $4,
		    monto_restante       = $5,
		    estado_pago          = $6,
		    monto_boveda_monte   = $7,
		    monto_fletes         = $8,
		    monto_utilidades     = $9,
		    capital_boveda_monte = $10,
		    capital_fletes       = $11,
		    capital_utilidades   = $12,
		    updated_at           = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.Cantidad, v.PrecioTotalVenta,
		v.MontoPagado, v.MontoRestante, v.EstadoPago,
		v.MontoBovedaMonte, v.MontoFletes, v.MontoUtilidades,
		v.CapitalBovedaMonte, v.CapitalFletes, v.CapitalUtilidades,
		v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update venta: %w", err)
	}
	return nil
}

func (r *VentaRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM ventas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete venta: %w", err)
	}
	return nil
}

// List devuelve una página de ventas con los nombres relacionados resueltos
// y el total de filas para la paginación.
func (r *VentaRepo) List(limit, offset int) ([]*repository.VentaDetalle, int, error) {
	query := `
		SELECT v.id, v.cliente_id, COALESCE(v.producto_id::text, ''), v.orden_compra_id,
		       v.cantidad, v.precio_venta_unidad, v.precio_compra_unidad, v.precio_flete_unidad, v.precio_total_venta,
		       v.monto_pagado, v.monto_restante, v.estado_pago,
		       v.monto_boveda_monte, v.monto_fletes, v.monto_utilidades,
		       v.capital_boveda_monte, v.capital_fletes, v.capital_utilidades,
		       v.fecha_venta, v.created_at, v.updated_at,
		       c.nombre,
		       COALESCE(p.nombre, ''),
		       COALESCE(d.nombre, ''),
		       COUNT(*) OVER ()
		FROM ventas v
		JOIN clientes c          ON c.id = v.cliente_id
		LEFT JOIN productos p    ON p.id = v.producto_id
		JOIN ordenes_compra oc   ON oc.id = v.orden_compra_id
		LEFT JOIN distribuidores d ON d.id = oc.distribuidor_id
		ORDER BY v.fecha_venta DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list ventas: %w", err)
	}
	defer rows.Close()

	var (
		list  []*repository.VentaDetalle
		total int
	)
	for rows.Next() {
		var f repository.VentaDetalle
		if err := rows.Scan(
			&f.ID, &f.ClienteID, &f.ProductoID, &f.OrdenCompraID,
			&f.Cantidad, &f.PrecioVentaUnidad, &f.PrecioCompraUnidad, &f.PrecioFleteUnidad, &f.PrecioTotalVenta,
			&f.MontoPagado, &f.MontoRestante, &f.EstadoPago,
			&f.MontoBovedaMonte, &f.MontoFletes, &f.MontoUtilidades,
			&f.CapitalBovedaMonte, &f.CapitalFletes, &f.CapitalUtilidades,
			&f.FechaVenta, &f.CreatedAt, &f.UpdatedAt,
			&f.ClienteNombre, &f.ProductoNombre, &f.DistribuidorNombre,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan venta: %w", err)
		}
		list = append(list, &f)
	}
	return list, total, rows.Err()
}

func (r *VentaRepo) ListByCliente(clienteID string) ([]*entity.Venta, error) {
	query := `SELECT ` + ventaColumns + ` FROM ventas WHERE cliente_id = $1 ORDER BY fecha_venta DESC`
	rows, err := r.q.Query(context.Background(), query, clienteID)
	if err != nil {
		return nil, fmt.Errorf("list ventas por cliente: %w", err)
	}
	defer rows.Close()

	var list []*entity.Venta
	for rows.Next() {
		var v entity.Venta
		var productoID *string
		if err := rows.Scan(
			&v.ID, &v.ClienteID, &productoID, &v.OrdenCompraID,
			&v.Cantidad, &v.PrecioVentaUnidad, &v.PrecioCompraUnidad, &v.PrecioFleteUnidad, &v.PrecioTotalVenta,
			&v.MontoPagado, &v.MontoRestante, &v.EstadoPago,
			&v.MontoBovedaMonte, &v.MontoFletes, &v.MontoUtilidades,
			&v.CapitalBovedaMonte, &v.CapitalFletes, &v.CapitalUtilidades,
			&v.FechaVenta, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan venta: %w", err)
		}
		if productoID != nil {
			v.ProductoID = *productoID
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
