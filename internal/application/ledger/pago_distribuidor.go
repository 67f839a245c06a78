package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/application/audit"
	"github.com/gyadistribucion/gya-api/internal/application/dto"
	"github.com/gyadistribucion/gya-api/internal/domain"
	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

// PagarDistribuidor abona al saldo de una orden de compra desde el capital
// de un banco. El pago es un gasto: debita CapitalActual y acumula en
// HistoricoGastos del banco de origen.
func (e *Engine) PagarDistribuidor(ctx context.Context, actor, ordenID string, req dto.PagoDistribuidorRequest) (*dto.PagoDistribuidorResponse, error) {
	if !req.Monto.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var (
		saldoPendiente decimal.Decimal
		distribuidorID string
	)
	err := e.tx.Run(ctx, func(r *Repos) error {
		orden, err := r.Ordenes.GetForUpdate(ordenID)
		if err != nil {
			return fmt.Errorf("cargar orden: %w", err)
		}
		if orden == nil {
			return fmt.Errorf("orden %s: %w", ordenID, domain.ErrNotFound)
		}
		if req.Monto.GreaterThan(orden.SaldoPendiente) {
			return domain.ErrMontoExcedeSaldoOC
		}
		distribuidorID = orden.DistribuidorID

		banco, err := r.Bancos.GetForUpdate(req.BancoOrigenID)
		if err != nil {
			return fmt.Errorf("bloquear banco: %w", err)
		}
		if banco == nil {
			return fmt.Errorf("banco %s: %w", req.BancoOrigenID, domain.ErrNotFound)
		}
		if banco.CapitalActual.LessThan(req.Monto) {
			return domain.ErrSaldoInsuficiente
		}

		if err := r.Bancos.AplicarDeltas(banco.ID, repository.BancoDeltas{
			Capital:         req.Monto.Neg(),
			HistoricoGastos: req.Monto,
		}); err != nil {
			return fmt.Errorf("debitar banco: %w", err)
		}
		if err := r.Ordenes.AplicarPago(orden.ID, req.Monto); err != nil {
			return fmt.Errorf("aplicar pago a la orden: %w", err)
		}
		saldoPendiente = orden.SaldoPendiente.Sub(req.Monto)

		ahora := time.Now()
		mov := nuevoMovimiento(banco, entity.MovimientoPago, req.Monto.Neg(),
			fmt.Sprintf("Pago a distribuidor, orden %s", orden.ID),
			entity.RefOrdenCompra, orden.ID, ahora)
		if err := r.Movimientos.Create(mov); err != nil {
			return err
		}

		e.aud.Registrar(r.Audit, audit.Entrada{
			Accion:      "pagar_distribuidor",
			EntidadTipo: "orden_compra",
			EntidadID:   orden.ID,
			Actor:       actor,
			Descripcion: fmt.Sprintf("Pago de %s contra saldo de la orden %s", req.Monto, orden.ID),
			Monto:       req.Monto,
			Bancos:      []string{banco.ID},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("orden_id", ordenID).
		Str("banco_id", req.BancoOrigenID).
		Str("monto", req.Monto.String()).
		Msg("pago a distribuidor aplicado")

	e.publicar(Evento{
		Tipo:           EventoPago,
		OrdenCompraID:  ordenID,
		DistribuidorID: distribuidorID,
		BancoIDs:       []string{req.BancoOrigenID},
	})

	return &dto.PagoDistribuidorResponse{
		OrdenCompraID:  ordenID,
		Monto:          req.Monto,
		SaldoPendiente: saldoPendiente,
	}, nil
}
