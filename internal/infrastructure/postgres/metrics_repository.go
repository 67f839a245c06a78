package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/domain/metrics"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

var _ repository.MetricsRepository = (*MetricsRepo)(nil)

// MetricsRepo agrega el libro mayor para el pipeline de métricas. Solo
// lecturas; siempre contra el pool, nunca dentro de una tx del motor.
type MetricsRepo struct {
	q Querier
}

func NewMetricsRepository(q Querier) *MetricsRepo {
	return &MetricsRepo{q: q}
}

// AgregadosCliente resume las ventas vivas de un cliente.
func (r *MetricsRepo) AgregadosCliente(ctx context.Context, clienteID string, ahora time.Time) (metrics.AgregadosCliente, error) {
	query := `
		SELECT COALESCE(SUM(precio_total_venta), 0),
		       COALESCE(SUM(monto_pagado), 0),
		       COALESCE(SUM(monto_restante), 0),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE estado_pago = 'completo'),
		       COUNT(*) FILTER (WHERE fecha_venta >= $2 - interval '6 months'),
		       COALESCE(SUM(monto_utilidades), 0),
		       MAX(fecha_venta)
		FROM ventas
		WHERE cliente_id = $1 AND estado_pago <> 'devuelta'`
	var a metrics.AgregadosCliente
	err := r.q.QueryRow(ctx, query, clienteID, ahora).Scan(
		&a.TotalCompras, &a.TotalPagado, &a.SaldoPendiente,
		&a.NumVentas, &a.VentasCompletas, &a.Compras6Meses,
		&a.UtilidadGenerada, &a.FechaUltimaCompra,
	)
	if err != nil {
		return metrics.AgregadosCliente{}, fmt.Errorf("agregados cliente: %w", err)
	}
	return a, nil
}

// AgregadosProducto resume las ventas de un producto en la ventana de días dada.
func (r *MetricsRepo) AgregadosProducto(ctx context.Context, productoID string, dias int, ahora time.Time) (metrics.AgregadosProducto, error) {
	desde := ahora.AddDate(0, 0, -dias)
	query := `
		SELECT COALESCE(SUM(precio_total_venta), 0),
		       COALESCE(SUM(cantidad * precio_compra_unidad), 0),
		       COALESCE(SUM(cantidad * precio_flete_unidad), 0),
		       COALESCE(SUM(monto_utilidades), 0),
		       COALESCE(SUM(cantidad), 0),
		       COUNT(*),
		       MIN(fecha_venta)
		FROM ventas
		WHERE producto_id = $1 AND fecha_venta >= $2 AND estado_pago <> 'devuelta'`
	a := metrics.AgregadosProducto{DiasPeriodo: dias}
	err := r.q.QueryRow(ctx, query, productoID, desde).Scan(
		&a.Ingresos, &a.Costo, &a.Fletes, &a.Utilidad,
		&a.UnidadesVendidas, &a.NumVentas, &a.PrimeraVenta,
	)
	if err != nil {
		return metrics.AgregadosProducto{}, fmt.Errorf("agregados producto: %w", err)
	}

	err = r.q.QueryRow(ctx, `SELECT stock_actual FROM productos WHERE id = $1`, productoID).
		Scan(&a.StockActual)
	if err != nil {
		return metrics.AgregadosProducto{}, fmt.Errorf("stock producto: %w", err)
	}
	return a, nil
}

// AgregadosBanco resume los movimientos del banco por ventana temporal.
func (r *MetricsRepo) AgregadosBanco(ctx context.Context, bancoID string, ahora time.Time) (metrics.AgregadosBanco, error) {
	var a metrics.AgregadosBanco

	err := r.q.QueryRow(ctx, `SELECT capital_actual FROM bancos WHERE id = $1`, bancoID).
		Scan(&a.CapitalActual)
	if err != nil {
		return metrics.AgregadosBanco{}, fmt.Errorf("capital banco: %w", err)
	}

	hoy := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, ahora.Location())
	semana := ahora.AddDate(0, 0, -7)
	mes := ahora.AddDate(0, 0, -30)
	mesAnterior := ahora.AddDate(0, 0, -60)

	query := `
		SELECT COALESCE(SUM(monto)  FILTER (WHERE monto > 0 AND fecha >= $2), 0),
		       COALESCE(-SUM(monto) FILTER (WHERE monto < 0 AND fecha >= $2), 0),
		       COALESCE(SUM(monto)  FILTER (WHERE monto > 0 AND fecha >= $3), 0),
		       COALESCE(-SUM(monto) FILTER (WHERE monto < 0 AND fecha >= $3), 0),
		       COALESCE(SUM(monto)  FILTER (WHERE monto > 0 AND fecha >= $4), 0),
		       COALESCE(-SUM(monto) FILTER (WHERE monto < 0 AND fecha >= $4), 0),
		       COALESCE(SUM(monto)  FILTER (WHERE monto > 0 AND fecha >= $5 AND fecha < $4), 0),
		       COALESCE(-SUM(monto) FILTER (WHERE monto < 0 AND fecha >= $5 AND fecha < $4), 0)
		FROM movimientos
		WHERE banco_id = $1`
	err = r.q.QueryRow(ctx, query, bancoID, hoy, semana, mes, mesAnterior).Scan(
		&a.IngresosHoy, &a.GastosHoy,
		&a.IngresosSemana, &a.GastosSemana,
		&a.IngresosMes, &a.GastosMes,
		&a.IngresosMesAnterior, &a.GastosMesAnterior,
	)
	if err != nil {
		return metrics.AgregadosBanco{}, fmt.Errorf("ventanas banco: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT tipo, COALESCE(SUM(monto), 0)
		FROM movimientos
		WHERE banco_id = $1 AND monto > 0 AND fecha >= $2
		GROUP BY tipo`, bancoID, mes)
	if err != nil {
		return metrics.AgregadosBanco{}, fmt.Errorf("origenes banco: %w", err)
	}
	defer rows.Close()

	a.IngresosPorOrigen = make(map[string]decimal.Decimal)
	for rows.Next() {
		var tipo string
		var total decimal.Decimal
		if err := rows.Scan(&tipo, &total); err != nil {
			return metrics.AgregadosBanco{}, fmt.Errorf("scan origen: %w", err)
		}
		a.IngresosPorOrigen[tipo] = total
	}
	return a, rows.Err()
}

// AgregadosDistribuidor resume órdenes y ventas trazadas a un distribuidor.
func (r *MetricsRepo) AgregadosDistribuidor(ctx context.Context, distribuidorID string) (metrics.AgregadosDistribuidor, error) {
	var a metrics.AgregadosDistribuidor

	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(costo_total), 0),
		       COALESCE(SUM(monto_pagado), 0),
		       COALESCE(SUM(stock_actual), 0)
		FROM ordenes_compra
		WHERE distribuidor_id = $1`, distribuidorID).Scan(
		&a.TotalOrdenado, &a.TotalPagado, &a.StockTotal)
	if err != nil {
		return metrics.AgregadosDistribuidor{}, fmt.Errorf("ordenes distribuidor: %w", err)
	}

	err = r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(v.monto_utilidades), 0),
		       COALESCE(SUM(v.precio_total_venta), 0)
		FROM ventas v
		JOIN ordenes_compra oc ON oc.id = v.orden_compra_id
		WHERE oc.distribuidor_id = $1 AND v.estado_pago <> 'devuelta'`, distribuidorID).Scan(
		&a.UtilidadRealizada, &a.IngresosVentas)
	if err != nil {
		return metrics.AgregadosDistribuidor{}, fmt.Errorf("ventas distribuidor: %w", err)
	}
	return a, nil
}

// ResumenDashboard agrega los indicadores del día.
func (r *MetricsRepo) ResumenDashboard(ctx context.Context, ahora time.Time) (repository.ResumenDashboard, error) {
	hoy := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, ahora.Location())
	query := `
		SELECT COUNT(*) FILTER (WHERE fecha_venta >= $1),
		       COALESCE(SUM(precio_total_venta) FILTER (WHERE fecha_venta >= $1), 0),
		       COALESCE(SUM(monto_restante), 0),
		       COUNT(*) FILTER (WHERE estado_pago IN ('pendiente', 'parcial'))
		FROM ventas
		WHERE estado_pago <> 'devuelta'`
	var res repository.ResumenDashboard
	err := r.q.QueryRow(ctx, query, hoy).Scan(
		&res.VentasHoy, &res.IngresosHoy, &res.DeudaTotal, &res.VentasPendientes)
	if err != nil {
		return repository.ResumenDashboard{}, fmt.Errorf("resumen dashboard: %w", err)
	}
	return res, nil
}
