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
	"github.com/gyadistribucion/gya-api/internal/domain/gya"
)

// RegistrarAbono aplica un pago parcial a una venta. El monto se reparte
// entre los tres bancos con la misma proporción del split original, de modo
// que al completarse el pago el capital acreditado iguala al histórico
// comprometido al crear la venta.
func (e *Engine) RegistrarAbono(ctx context.Context, actor, ventaID string, req dto.RegistrarAbonoRequest) (*dto.AbonoResponse, error) {
	if !req.Monto.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var (
		venta    *entity.Venta
		abono    *entity.Abono
		sub      gya.Distribucion
		bancoIDs []string
	)
	err := e.tx.Run(ctx, func(r *Repos) error {
		var err error
		venta, err = r.Ventas.GetForUpdate(ventaID)
		if err != nil {
			return fmt.Errorf("cargar venta: %w", err)
		}
		if venta == nil {
			return fmt.Errorf("venta %s: %w", ventaID, domain.ErrNotFound)
		}
		if venta.EstadoPago == entity.EstadoPagoDevuelta {
			return domain.ErrVentaDevuelta
		}
		if venta.EstadoPago == entity.EstadoPagoCompleto {
			return domain.ErrMontoExcedeRestante
		}

		bancos, err := cargarBancosGYA(r)
		if err != nil {
			return err
		}
		bancoIDs = bancos.ids()

		ahora := time.Now()
		antes := *venta
		abono, sub, err = registrarAbonoTx(r, venta, bancos, req.Monto, ahora)
		if err != nil {
			return err
		}
		if err := r.Ventas.Update(venta); err != nil {
			return fmt.Errorf("actualizar venta: %w", err)
		}

		e.aud.Registrar(r.Audit, audit.Entrada{
			Accion:      "registrar_abono",
			EntidadTipo: "venta",
			EntidadID:   venta.ID,
			Actor:       actor,
			Descripcion: fmt.Sprintf("Abono de %s sobre venta %s", req.Monto, venta.ID),
			Antes:       antes,
			Despues:     venta,
			Monto:       req.Monto,
			Bancos:      bancoIDs,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("venta_id", venta.ID).
		Str("abono_id", abono.ID).
		Str("monto", abono.Monto.String()).
		Str("estado_pago", venta.EstadoPago).
		Msg("abono registrado")

	e.publicar(Evento{
		Tipo:          EventoAbono,
		ClienteID:     venta.ClienteID,
		ProductoID:    venta.ProductoID,
		OrdenCompraID: venta.OrdenCompraID,
		BancoIDs:      bancoIDs,
	})

	return &dto.AbonoResponse{
		AbonoID:              abono.ID,
		VentaID:              venta.ID,
		Monto:                abono.Monto,
		MontoPagadoAcumulado: venta.MontoPagado,
		MontoRestante:        venta.MontoRestante,
		EstadoPago:           venta.EstadoPago,
		Distribucion: dto.DistribucionDTO{
			BovedaMonte: sub.BovedaMonte,
			Fletes:      sub.Fletes,
			Utilidades:  sub.Utilidades,
			Total:       sub.Total,
		},
	}, nil
}
