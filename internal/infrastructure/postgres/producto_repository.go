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

var _ repository.ProductoRepository = (*ProductoRepo)(nil)

// ProductoRepo implementación de ProductoRepository.
type ProductoRepo struct {
	q Querier
}

func NewProductoRepository(q Querier) *ProductoRepo {
	return &ProductoRepo{q: q}
}

const productoColumns = `
	id, nombre, COALESCE(sku, ''), stock_actual,
	ingresos_periodo, utilidad_periodo, precio_venta_promedio, precio_compra_promedio,
	margen_bruto, margen_neto, rotacion_anual, dias_stock_restante,
	score_abc, COALESCE(clasificacion_abc, ''), metricas_actualizadas,
	created_at, updated_at`

func (r *ProductoRepo) Create(p *entity.Producto) error {
	query := `
		INSERT INTO productos (id, nombre, sku, stock_actual, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Nombre, nullIfEmpty(p.SKU), p.StockActual, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sku ya existe: %w", err)
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

func (r *ProductoRepo) GetByID(id string) (*entity.Producto, error) {
	return r.get(`SELECT `+productoColumns+` FROM productos WHERE id = $1`, id)
}

func (r *ProductoRepo) GetForUpdate(id string) (*entity.Producto, error) {
	return r.get(`SELECT `+productoColumns+` FROM productos WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductoRepo) get(query, id string) (*entity.Producto, error) {
	var p entity.Producto
	var metricasActualizadas *time.Time
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Nombre, &p.SKU, &p.StockActual,
		&p.IngresosPeriodo, &p.UtilidadPeriodo, &p.PrecioVentaPromedio, &p.PrecioCompraPromedio,
		&p.MargenBruto, &p.MargenNeto, &p.RotacionAnual, &p.DiasStockRestante,
		&p.ScoreABC, &p.ClasificacionABC, &metricasActualizadas,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	if metricasActualizadas != nil {
		p.MetricasActualizadas = *metricasActualizadas
	}
	return &p, nil
}

// AjustarStock aplica un delta relativo al stock del producto.
func (r *ProductoRepo) AjustarStock(id string, delta decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE productos SET stock_actual = stock_actual + $2, updated_at = now() WHERE id = $1`,
		id, delta)
	if err != nil {
		return fmt.Errorf("ajustar stock producto: %w", err)
	}
	return nil
}

// UpdateMetricas escribe los campos derivados calculados por el pipeline.
func (r *ProductoRepo) UpdateMetricas(id string, m metrics.MetricasProducto, actualizadas time.Time) error {
	query := `
		UPDATE productos
		SET ingresos_periodo       = $2,
		    utilidad_periodo       = $3,
		    precio_venta_promedio  = $4,
		    precio_compra_promedio = $5,
		    margen_bruto           = $6,
		    margen_neto            = $7,
		    rotacion_anual         = $8,
		    dias_stock_restante    = $9,
		    score_abc              = $10,
		    clasificacion_abc      = $11,
		    metricas_actualizadas  = $12,
		    updated_at             = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		id, m.IngresosPeriodo, m.UtilidadPeriodo, m.PrecioVentaPromedio, m.PrecioCompraPromedio,
		m.MargenBruto, m.MargenNeto, m.RotacionAnual, m.DiasStockRestante,
		m.ScoreABC, nullIfEmpty(m.ClasificacionABC), actualizadas,
	)
	if err != nil {
		return fmt.Errorf("update metricas producto: %w", err)
	}
	return nil
}

func (r *ProductoRepo) ListIDs() ([]string, error) {
	return listIDs(r.q, `SELECT id FROM productos`)
}
