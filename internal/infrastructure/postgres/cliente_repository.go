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

var _ repository.ClienteRepository = (*ClienteRepo)(nil)

// ClienteRepo implementación de ClienteRepository.
type ClienteRepo struct {
	q Querier
}

func NewClienteRepository(q Querier) *ClienteRepo {
	return &ClienteRepo{q: q}
}

const clienteColumns = `
	id, nombre, COALESCE(telefono, ''),
	saldo_pendiente, total_compras, total_pagado,
	ticket_promedio, dias_sin_comprar, frecuencia_compra, porcentaje_puntual,
	score_credito, COALESCE(categoria, ''), fecha_ultima_compra, metricas_actualizadas,
	created_at, updated_at`

func (r *ClienteRepo) Create(c *entity.Cliente) error {
	query := `
		INSERT INTO clientes (id, nombre, telefono, saldo_pendiente, total_compras, total_pagado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Nombre, nullIfEmpty(c.Telefono),
		c.SaldoPendiente, c.TotalCompras, c.TotalPagado,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cliente: %w", err)
	}
	return nil
}

func (r *ClienteRepo) GetByID(id string) (*entity.Cliente, error) {
	return r.get(`SELECT `+clienteColumns+` FROM clientes WHERE id = $1`, id)
}

func (r *ClienteRepo) GetForUpdate(id string) (*entity.Cliente, error) {
	return r.get(`SELECT `+clienteColumns+` FROM clientes WHERE id = $1 FOR UPDATE`, id)
}

func (r *ClienteRepo) get(query, id string) (*entity.Cliente, error) {
	var c entity.Cliente
	var metricasActualizadas *time.Time
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Nombre, &c.Telefono,
		&c.SaldoPendiente, &c.TotalCompras, &c.TotalPagado,
		&c.TicketPromedio, &c.DiasSinComprar, &c.FrecuenciaCompra, &c.PorcentajePuntual,
		&c.ScoreCredito, &c.Categoria, &c.FechaUltimaCompra, &metricasActualizadas,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente: %w", err)
	}
	if metricasActualizadas != nil {
		c.MetricasActualizadas = *metricasActualizadas
	}
	return &c, nil
}

// AplicarDeltas incrementa los saldos del cliente de forma relativa.
func (r *ClienteRepo) AplicarDeltas(id string, d repository.ClienteDeltas) error {
	query := `
		UPDATE clientes
		SET saldo_pendiente = saldo_pendiente + $2,
		    total_compras   = total_compras + $3,
		    total_pagado    = total_pagado + $4,
		    updated_at      = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, d.SaldoPendiente, d.TotalCompras, d.TotalPagado)
	if err != nil {
		return fmt.Errorf("aplicar deltas cliente: %w", err)
	}
	return nil
}

// UpdateMetricas escribe los campos derivados calculados por el pipeline.
func (r *ClienteRepo) UpdateMetricas(id string, m metrics.MetricasCliente, ultimaCompra *time.Time, actualizadas time.Time) error {
	query := `
		UPDATE clientes
		SET ticket_promedio       = $2,
		    dias_sin_comprar      = $3,
		    frecuencia_compra     = $4,
		    porcentaje_puntual    = $5,
		    score_credito         = $6,
		    categoria             = $7,
		    fecha_ultima_compra   = $8,
		    metricas_actualizadas = $9,
		    updated_at            = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		id, m.TicketPromedio, m.DiasSinComprar, m.FrecuenciaCompra,
		m.PorcentajePuntual, m.ScoreCredito, nullIfEmpty(m.Categoria),
		ultimaCompra, actualizadas,
	)
	if err != nil {
		return fmt.Errorf("update metricas cliente: %w", err)
	}
	return nil
}

func (r *ClienteRepo) ListIDs() ([]string, error) {
	return listIDs(r.q, `SELECT id FROM clientes`)
}

// ListConDeuda devuelve los clientes con saldo pendiente positivo (morosidad).
func (r *ClienteRepo) ListConDeuda() ([]*entity.Cliente, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+clienteColumns+` FROM clientes WHERE saldo_pendiente > 0 ORDER BY saldo_pendiente DESC`)
	if err != nil {
		return nil, fmt.Errorf("list clientes con deuda: %w", err)
	}
	defer rows.Close()

	var list []*entity.Cliente
	for rows.Next() {
		var c entity.Cliente
		var metricasActualizadas *time.Time
		if err := rows.Scan(
			&c.ID, &c.Nombre, &c.Telefono,
			&c.SaldoPendiente, &c.TotalCompras, &c.TotalPagado,
			&c.TicketPromedio, &c.DiasSinComprar, &c.FrecuenciaCompra, &c.PorcentajePuntual,
			&c.ScoreCredito, &c.Categoria, &c.FechaUltimaCompra, &metricasActualizadas,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		if metricasActualizadas != nil {
			c.MetricasActualizadas = *metricasActualizadas
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func listIDs(q Querier, query string) ([]string, error) {
	rows, err := q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
