package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/application/audit"
	"github.com/gyadistribucion/gya-api/internal/application/dto"
	"github.com/gyadistribucion/gya-api/internal/domain"
	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

// Transferir mueve capital entre dos bancos. Afecta solo CapitalActual y los
// acumulados de transferencias; los históricos de ingresos y gastos quedan
// intactos porque una transferencia no es ni venta ni gasto.
func (e *Engine) Transferir(ctx context.Context, actor string, req dto.TransferenciaRequest) (*dto.TransferenciaResponse, error) {
	if !req.Monto.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if req.BancoOrigenID == req.BancoDestinoID {
		return nil, domain.ErrMismoBanco
	}

	transferenciaID := uuid.NewString()
	err := e.tx.Run(ctx, func(r *Repos) error {
		// Bloqueo en orden determinista por ID para evitar deadlocks con
		// transferencias cruzadas concurrentes.
		primero, segundo := req.BancoOrigenID, req.BancoDestinoID
		if segundo < primero {
			primero, segundo = segundo, primero
		}
		var origen, destino *entity.Banco
		for _, id := range []string{primero, segundo} {
			banco, err := r.Bancos.GetForUpdate(id)
			if err != nil {
				return fmt.Errorf("bloquear banco %s: %w", id, err)
			}
			if banco == nil {
				return fmt.Errorf("banco %s: %w", id, domain.ErrNotFound)
			}
			if id == req.BancoOrigenID {
				origen = banco
			} else {
				destino = banco
			}
		}

		if origen.CapitalActual.LessThan(req.Monto) {
			return domain.ErrSaldoInsuficiente
		}

		if err := r.Bancos.AplicarDeltas(origen.ID, repository.BancoDeltas{
			Capital:              req.Monto.Neg(),
			TransferenciasSalida: req.Monto,
		}); err != nil {
			return fmt.Errorf("debitar origen: %w", err)
		}
		if err := r.Bancos.AplicarDeltas(destino.ID, repository.BancoDeltas{
			Capital:               req.Monto,
			TransferenciasEntrada: req.Monto,
		}); err != nil {
			return fmt.Errorf("acreditar destino: %w", err)
		}

		ahora := time.Now()
		concepto := req.Concepto
		if concepto == "" {
			concepto = fmt.Sprintf("Transferencia %s → %s", origen.Nombre, destino.Nombre)
		}
		salida := nuevoMovimiento(origen, entity.MovimientoTransferenciaSalida, req.Monto.Neg(),
			concepto, entity.RefTransferencia, transferenciaID, ahora)
		if err := r.Movimientos.Create(salida); err != nil {
			return err
		}
		entrada := nuevoMovimiento(destino, entity.MovimientoTransferenciaEntrada, req.Monto,
			concepto, entity.RefTransferencia, transferenciaID, ahora)
		if err := r.Movimientos.Create(entrada); err != nil {
			return err
		}

		e.aud.Registrar(r.Audit, audit.Entrada{
			Accion:      "transferir",
			EntidadTipo: "transferencia",
			EntidadID:   transferenciaID,
			Actor:       actor,
			Descripcion: concepto,
			Monto:       req.Monto,
			Bancos:      []string{origen.ID, destino.ID},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("transferencia_id", transferenciaID).
		Str("origen", req.BancoOrigenID).
		Str("destino", req.BancoDestinoID).
		Str("monto", req.Monto.String()).
		Msg("transferencia aplicada")

	e.publicar(Evento{
		Tipo:     EventoTransferencia,
		BancoIDs: []string{req.BancoOrigenID, req.BancoDestinoID},
	})

	return &dto.TransferenciaResponse{
		TransferenciaID: transferenciaID,
		BancoOrigenID:   req.BancoOrigenID,
		BancoDestinoID:  req.BancoDestinoID,
		Monto:           req.Monto,
	}, nil
}
