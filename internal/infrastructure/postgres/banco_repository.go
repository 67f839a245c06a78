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

var _ repository.BancoRepository = (*BancoRepo)(nil)

// BancoRepo implementación de BancoRepository. Las mutaciones de saldos son
// siempre relativas (SET x = x + delta) para que dos transacciones
// concurrentes no se pisen el capital.
type BancoRepo struct {
	q Querier
}

func NewBancoRepository(q Querier) *BancoRepo {
	return &BancoRepo{q: q}
}

const bancoColumns = `
	id, nombre, codigo, tipo,
	capital_actual, historico_ingresos, historico_gastos,
	transferencias_entrada, transferencias_salida,
	ingresos_hoy, gastos_hoy, ingresos_semana, gastos_semana, ingresos_mes, gastos_mes,
	COALESCE(tendencia, ''), proyeccion_dias_30, proyeccion_dias_90, dias_agotamiento,
	COALESCE(salud_financiera, ''),
	created_at, updated_at`

func (r *BancoRepo) Create(b *entity.Banco) error {
	query := `
		INSERT INTO bancos (id, nombre, codigo, tipo, capital_actual, historico_ingresos, historico_gastos,
			transferencias_entrada, transferencias_salida, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.Nombre, b.Codigo, b.Tipo,
		b.CapitalActual, b.HistoricoIngresos, b.HistoricoGastos,
		b.TransferenciasEntrada, b.TransferenciasSalida,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("código de banco ya existe: %w", err)
		}
		return fmt.Errorf("insert banco: %w", err)
	}
	return nil
}

func (r *BancoRepo) GetByID(id string) (*entity.Banco, error) {
	return r.get(`SELECT `+bancoColumns+` FROM bancos WHERE id = $1`, id)
}

func (r *BancoRepo) GetByCodigo(codigo string) (*entity.Banco, error) {
	return r.get(`SELECT `+bancoColumns+` FROM bancos WHERE codigo = $1`, codigo)
}

// GetForUpdate bloquea la fila del banco dentro de la tx activa.
func (r *BancoRepo) GetForUpdate(id string) (*entity.Banco, error) {
	return r.get(`SELECT `+bancoColumns+` FROM bancos WHERE id = $1 FOR UPDATE`, id)
}

func (r *BancoRepo) get(query, arg string) (*entity.Banco, error) {
	var b entity.Banco
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&b.ID, &b.Nombre, &b.Codigo, &b.Tipo,
		&b.CapitalActual, &b.HistoricoIngresos, &b.HistoricoGastos,
		&b.TransferenciasEntrada, &b.TransferenciasSalida,
		&b.IngresosHoy, &b.GastosHoy, &b.IngresosSemana, &b.GastosSemana, &b.IngresosMes, &b.GastosMes,
		&b.Tendencia, &b.ProyeccionDias30, &b.ProyeccionDias90, &b.DiasAgotamiento,
		&b.SaludFinanciera,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get banco: %w", err)
	}
	return &b, nil
}

func (r *BancoRepo) ListAll() ([]*entity.Banco, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+bancoColumns+` FROM bancos ORDER BY tipo, nombre`)
	if err != nil {
		return nil, fmt.Errorf("list bancos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Banco
	for rows.Next() {
		var b entity.Banco
		if err := rows.Scan(
			&b.ID, &b.Nombre, &b.Codigo, &b.Tipo,
			&b.CapitalActual, &b.HistoricoIngresos, &b.HistoricoGastos,
			&b.TransferenciasEntrada, &b.TransferenciasSalida,
			&b.IngresosHoy, &b.GastosHoy, &b.IngresosSemana, &b.GastosSemana, &b.IngresosMes, &b.GastosMes,
			&b.Tendencia, &b.ProyeccionDias30, &b.ProyeccionDias90, &b.DiasAgotamiento,
			&b.SaludFinanciera,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan banco: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// AplicarDeltas incrementa los contadores del banco de forma relativa.
func (r *BancoRepo) AplicarDeltas(id string, d repository.BancoDeltas) error {
	query := `
		UPDATE bancos
		SET capital_actual         = capital_actual + $2,
		    historico_ingresos     = historico_ingresos + $3,
		    historico_gastos       = historico_gastos + $4,
		    transferencias_entrada = transferencias_entrada + $5,
		    transferencias_salida  = transferencias_salida + $6,
		    updated_at             = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		id, d.Capital, d.HistoricoIngresos, d.HistoricoGastos,
		d.TransferenciasEntrada, d.TransferenciasSalida,
	)
	if err != nil {
		return fmt.Errorf("aplicar deltas banco: %w", err)
	}
	return nil
}

// UpdateMetricas escribe los campos derivados calculados por el pipeline.
func (r *BancoRepo) UpdateMetricas(id string, m metrics.MetricasBanco, actualizadas time.Time) error {
	query := `
		UPDATE bancos
		SET ingresos_hoy       = $2,
		    gastos_hoy         = $3,
		    ingresos_semana    = $4,
		    gastos_semana      = $5,
		    ingresos_mes       = $6,
		    gastos_mes         = $7,
		    tendencia          = $8,
		    proyeccion_dias_30 = $9,
		    proyeccion_dias_90 = $10,
		    dias_agotamiento   = $11,
		    salud_financiera   = $12,
		    updated_at         = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		id, m.IngresosHoy, m.GastosHoy, m.IngresosSemana, m.GastosSemana,
		m.IngresosMes, m.GastosMes, nullIfEmpty(m.Tendencia),
		m.ProyeccionDias30, m.ProyeccionDias90, m.DiasAgotamiento,
		nullIfEmpty(m.SaludFinanciera), actualizadas,
	)
	if err != nil {
		return fmt.Errorf("update metricas banco: %w", err)
	}
	return nil
}
