// Package pipeline recalcula los campos derivados (scores, categorías,
// tendencias, rotaciones) cuando el motor de transacciones confirma una
// operación. El recálculo corre fuera de la transacción de origen: consume
// eventos de un canal con workers y relee el estado ya confirmado, así una
// falla del pipeline nunca revierte una venta.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/gyadistribucion/gya-api/internal/application/ledger"
	"github.com/gyadistribucion/gya-api/internal/domain/metrics"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
	"github.com/gyadistribucion/gya-api/pkg/logger"
)

// Ventana del agregado de producto, en días.
const diasPeriodoProducto = 90

// Pipeline consume eventos del motor y escribe métricas derivadas.
type Pipeline struct {
	repos     *ledger.Repos
	agregados repository.MetricsRepository
	log       *logger.Logger

	cola chan ledger.Evento
	wg   sync.WaitGroup
}

// New crea el pipeline con un buffer de eventos y workers sin arrancar.
func New(repos *ledger.Repos, agregados repository.MetricsRepository, log *logger.Logger, buffer int) *Pipeline {
	if buffer <= 0 {
		buffer = 256
	}
	return &Pipeline{
		repos:     repos,
		agregados: agregados,
		log:       log,
		cola:      make(chan ledger.Evento, buffer),
	}
}

// Start lanza los workers. Se detienen cuando ctx se cancela; Wait espera
// a que terminen el evento en curso.
func (p *Pipeline) Start(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 2
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case evt := <-p.cola:
					p.Procesar(ctx, evt)
				}
			}
		}()
	}
}

// Wait bloquea hasta que los workers terminen (tras cancelar el ctx de Start).
func (p *Pipeline) Wait() { p.wg.Wait() }

// Publicar encola un evento sin bloquear. Si el buffer está lleno el evento
// se descarta: el barrido periódico de RecomputarTodo lo recupera después.
func (p *Pipeline) Publicar(evt ledger.Evento) {
	select {
	case p.cola <- evt:
	default:
		p.log.Warn().Str("tipo", evt.Tipo).Msg("buffer del pipeline lleno, evento descartado")
	}
}

// Procesar recalcula las métricas de cada entidad tocada por el evento.
// Los fallos se registran y no se propagan: el estado derivado es
// reconstruible y el siguiente evento o barrido lo corrige.
func (p *Pipeline) Procesar(ctx context.Context, evt ledger.Evento) {
	ahora := time.Now()

	if evt.ClienteID != "" {
		if err := p.RecomputarCliente(ctx, evt.ClienteID, ahora); err != nil {
			p.log.Error().Err(err).Str("cliente_id", evt.ClienteID).Msg("recálculo de cliente falló")
		}
	}
	if evt.ProductoID != "" {
		if err := p.RecomputarProducto(ctx, evt.ProductoID, ahora); err != nil {
			p.log.Error().Err(err).Str("producto_id", evt.ProductoID).Msg("recálculo de producto falló")
		}
	}
	if evt.OrdenCompraID != "" {
		if err := p.RecomputarOrden(ctx, evt.OrdenCompraID, ahora); err != nil {
			p.log.Error().Err(err).Str("orden_id", evt.OrdenCompraID).Msg("recálculo de orden falló")
		}
	}
	if evt.DistribuidorID != "" {
		if err := p.RecomputarDistribuidor(ctx, evt.DistribuidorID, ahora); err != nil {
			p.log.Error().Err(err).Str("distribuidor_id", evt.DistribuidorID).Msg("recálculo de distribuidor falló")
		}
	}
	for _, bancoID := range evt.BancoIDs {
		if err := p.RecomputarBanco(ctx, bancoID, ahora); err != nil {
			p.log.Error().Err(err).Str("banco_id", bancoID).Msg("recálculo de banco falló")
		}
	}
}

func (p *Pipeline) RecomputarCliente(ctx context.Context, id string, ahora time.Time) error {
	ag, err := p.agregados.AgregadosCliente(ctx, id, ahora)
	if err != nil {
		return err
	}
	m := metrics.CalcularCliente(ag, ahora)
	return p.repos.Clientes.UpdateMetricas(id, m, ag.FechaUltimaCompra, ahora)
}

func (p *Pipeline) RecomputarProducto(ctx context.Context, id string, ahora time.Time) error {
	ag, err := p.agregados.AgregadosProducto(ctx, id, diasPeriodoProducto, ahora)
	if err != nil {
		return err
	}
	m := metrics.CalcularProducto(ag, ahora)
	return p.repos.Productos.UpdateMetricas(id, m, ahora)
}

func (p *Pipeline) RecomputarOrden(ctx context.Context, id string, ahora time.Time) error {
	orden, err := p.repos.Ordenes.GetByID(id)
	if err != nil || orden == nil {
		return err
	}
	m := metrics.CalcularOrden(orden.CantidadOriginal, orden.StockActual, orden.FechaCompra, ahora)
	return p.repos.Ordenes.UpdateRotacion(id, m, ahora)
}

func (p *Pipeline) RecomputarDistribuidor(ctx context.Context, id string, ahora time.Time) error {
	ag, err := p.agregados.AgregadosDistribuidor(ctx, id)
	if err != nil {
		return err
	}
	m := metrics.CalcularDistribuidor(ag)
	return p.repos.Distribuidores.UpdateMetricas(id, m, ahora)
}

func (p *Pipeline) RecomputarBanco(ctx context.Context, id string, ahora time.Time) error {
	ag, err := p.agregados.AgregadosBanco(ctx, id, ahora)
	if err != nil {
		return err
	}
	m := metrics.CalcularBanco(ag)
	return p.repos.Bancos.UpdateMetricas(id, m, ahora)
}

// RecomputarTodo barre todas las entidades. Lo dispara el endpoint de
// recálculo manual y sirve de red de seguridad ante eventos perdidos.
func (p *Pipeline) RecomputarTodo(ctx context.Context) error {
	ahora := time.Now()

	clientes, err := p.repos.Clientes.ListIDs()
	if err != nil {
		return err
	}
	for _, id := range clientes {
		if err := p.RecomputarCliente(ctx, id, ahora); err != nil {
			p.log.Error().Err(err).Str("cliente_id", id).Msg("barrido: cliente falló")
		}
	}

	productos, err := p.repos.Productos.ListIDs()
	if err != nil {
		return err
	}
	for _, id := range productos {
		if err := p.RecomputarProducto(ctx, id, ahora); err != nil {
			p.log.Error().Err(err).Str("producto_id", id).Msg("barrido: producto falló")
		}
	}

	ordenes, err := p.repos.Ordenes.ListIDs()
	if err != nil {
		return err
	}
	for _, id := range ordenes {
		if err := p.RecomputarOrden(ctx, id, ahora); err != nil {
			p.log.Error().Err(err).Str("orden_id", id).Msg("barrido: orden falló")
		}
	}

	distribuidores, err := p.repos.Distribuidores.ListIDs()
	if err != nil {
		return err
	}
	for _, id := range distribuidores {
		if err := p.RecomputarDistribuidor(ctx, id, ahora); err != nil {
			p.log.Error().Err(err).Str("distribuidor_id", id).Msg("barrido: distribuidor falló")
		}
	}

	bancos, err := p.repos.Bancos.ListAll()
	if err != nil {
		return err
	}
	for _, b := range bancos {
		if err := p.RecomputarBanco(ctx, b.ID, ahora); err != nil {
			p.log.Error().Err(err).Str("banco_id", b.ID).Msg("barrido: banco falló")
		}
	}
	return nil
}
