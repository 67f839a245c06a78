// Package alert implementa el motor de alertas: un escaneo periódico que
// abre alertas cuando una condición de umbral se cumple, las deduplica por
// (tipo, entidad) mientras siguen activas y las resuelve solo cuando la
// condición deja de cumplirse.
package alert

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
	"github.com/gyadistribucion/gya-api/pkg/config"
	"github.com/gyadistribucion/gya-api/pkg/logger"
)

var cien = decimal.NewFromInt(100)

// Engine evalúa las reglas de alertas contra el estado actual.
type Engine struct {
	alertas  repository.AlertaRepository
	ordenes  repository.OrdenCompraRepository
	clientes repository.ClienteRepository
	cfg      config.AlertasConfig
	log      *logger.Logger
}

func NewEngine(alertas repository.AlertaRepository, ordenes repository.OrdenCompraRepository,
	clientes repository.ClienteRepository, cfg config.AlertasConfig, log *logger.Logger) *Engine {
	return &Engine{alertas: alertas, ordenes: ordenes, clientes: clientes, cfg: cfg, log: log}
}

// Scan corre todas las reglas y concilia el conjunto de alertas activas:
// abre las nuevas, conserva las vigentes y resuelve las que ya no aplican.
func (e *Engine) Scan(ahora time.Time) error {
	vigentes := make(map[string]bool)

	if err := e.scanStock(vigentes); err != nil {
		return err
	}
	if err := e.scanClientesMorosos(vigentes, ahora); err != nil {
		return err
	}

	// Auto-resolución: alertas activas cuya condición desapareció.
	activas, err := e.alertas.ListActivas()
	if err != nil {
		return fmt.Errorf("listar alertas activas: %w", err)
	}
	for _, a := range activas {
		if a.Tipo != entity.AlertaStockBajo && a.Tipo != entity.AlertaClienteMoroso {
			continue
		}
		if vigentes[clave(a.Tipo, a.EntidadID)] {
			continue
		}
		if err := e.alertas.Resolver(a.ID, ahora); err != nil {
			return fmt.Errorf("resolver alerta %s: %w", a.ID, err)
		}
		e.log.Info().Str("alerta_id", a.ID).Str("tipo", a.Tipo).Msg("alerta resuelta automáticamente")
	}
	return nil
}

func (e *Engine) scanStock(vigentes map[string]bool) error {
	ordenes, err := e.ordenes.ListAbiertas()
	if err != nil {
		return fmt.Errorf("listar órdenes abiertas: %w", err)
	}
	umbral := float64(e.cfg.StockUmbralPct)

	for _, o := range ordenes {
		if !o.CantidadOriginal.IsPositive() {
			continue
		}
		// Alerta con el stock en el umbral o por debajo.
		pct, _ := o.StockActual.Div(o.CantidadOriginal).Mul(cien).Float64()
		if pct > umbral {
			continue
		}
		vigentes[clave(entity.AlertaStockBajo, o.ID)] = true

		severidad := entity.SeveridadAdvertencia
		mensaje := fmt.Sprintf("Stock al %.1f%% en la orden %s", pct, o.ID)
		if o.StockActual.IsZero() {
			severidad = entity.SeveridadCritica
			mensaje = fmt.Sprintf("Orden %s agotada", o.ID)
		}
		if err := e.abrir(entity.AlertaStockBajo, "orden_compra", o.ID, severidad, mensaje); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) scanClientesMorosos(vigentes map[string]bool, ahora time.Time) error {
	clientes, err := e.clientes.ListConDeuda()
	if err != nil {
		return fmt.Errorf("listar clientes con deuda: %w", err)
	}

	for _, c := range clientes {
		if c.FechaUltimaCompra == nil {
			continue
		}
		// Moroso cuando los días sin comprar superan estrictamente el límite;
		// en el día exacto del límite todavía no.
		dias := int(ahora.Sub(*c.FechaUltimaCompra).Hours() / 24)
		if dias <= e.cfg.DiasMora {
			continue
		}
		vigentes[clave(entity.AlertaClienteMoroso, c.ID)] = true

		severidad := entity.SeveridadAdvertencia
		if dias > e.cfg.DiasMoraCritica {
			severidad = entity.SeveridadCritica
		}
		mensaje := fmt.Sprintf("%s debe %s desde hace %d días", c.Nombre, c.SaldoPendiente, dias)
		if err := e.abrir(entity.AlertaClienteMoroso, "cliente", c.ID, severidad, mensaje); err != nil {
			return err
		}
	}
	return nil
}

// abrir crea la alerta solo si no hay una activa para (tipo, entidad).
func (e *Engine) abrir(tipo, entidadTipo, entidadID, severidad, mensaje string) error {
	existente, err := e.alertas.FindActiva(tipo, entidadID)
	if err != nil {
		return fmt.Errorf("buscar alerta activa: %w", err)
	}
	if existente != nil {
		return nil
	}
	a := &entity.Alerta{
		ID:          uuid.NewString(),
		Tipo:        tipo,
		EntidadTipo: entidadTipo,
		EntidadID:   entidadID,
		Severidad:   severidad,
		Mensaje:     mensaje,
		Estado:      entity.AlertaActiva,
		CreatedAt:   time.Now(),
	}
	if err := e.alertas.Create(a); err != nil {
		return fmt.Errorf("crear alerta: %w", err)
	}
	e.log.Warn().Str("tipo", tipo).Str("entidad_id", entidadID).Str("severidad", severidad).Msg(mensaje)
	return nil
}

// ListActivas expone las alertas abiertas para la capa HTTP.
func (e *Engine) ListActivas() ([]*entity.Alerta, error) {
	return e.alertas.ListActivas()
}

// ListPorEstado lista alertas filtrando por estado.
func (e *Engine) ListPorEstado(estado string, limit int) ([]*entity.Alerta, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return e.alertas.ListPorEstado(estado, limit)
}

// Descartar marca una alerta como descartada por un operador.
func (e *Engine) Descartar(id string) error {
	return e.alertas.Descartar(id, time.Now())
}

// Resolver marca una alerta como resuelta manualmente.
func (e *Engine) Resolver(id string) error {
	return e.alertas.Resolver(id, time.Now())
}

func clave(tipo, entidadID string) string { return tipo + "|" + entidadID }
