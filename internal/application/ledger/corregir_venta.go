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
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

// CorregirVenta es el override administrativo: reescribe la distribución
// histórica de una venta (manteniendo el total) y opcionalmente sube el monto
// pagado, aplicando la diferencia como un abono normal. Los bancos reciben
// solo las diferencias contra lo ya comprometido.
func (e *Engine) CorregirVenta(ctx context.Context, actor, ventaID string, req dto.CorregirVentaRequest) (*entity.Venta, error) {
	var (
		venta    *entity.Venta
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

		bancos, err := cargarBancosGYA(r)
		if err != nil {
			return err
		}
		bancoIDs = bancos.ids()

		ahora := time.Now()
		antes := *venta

		if req.MontoBovedaMonte != nil || req.MontoFletes != nil || req.MontoUtilidades != nil {
			nuevo := distribucionDe(venta)
			if req.MontoBovedaMonte != nil {
				nuevo.BovedaMonte = *req.MontoBovedaMonte
			}
			if req.MontoFletes != nil {
				nuevo.Fletes = *req.MontoFletes
			}
			if req.MontoUtilidades != nil {
				nuevo.Utilidades = *req.MontoUtilidades
			}
			// La corrección redistribuye, no cambia el total de la venta.
			if !nuevo.Suma().Sub(venta.PrecioTotalVenta).Round(6).IsZero() {
				return domain.ErrInvalidInput
			}
			if nuevo.BovedaMonte.LessThan(decimal.Zero) || nuevo.Fletes.LessThan(decimal.Zero) ||
				nuevo.Utilidades.LessThan(decimal.Zero) {
				return domain.ErrMargenNegativo
			}

			fraccion := gya.FraccionPagada(venta.MontoPagado, venta.PrecioTotalVenta)
			nuevoCapital := gya.Proporcional(nuevo, fraccion)
			viejoCapital := gya.Distribucion{
				BovedaMonte: venta.CapitalBovedaMonte,
				Fletes:      venta.CapitalFletes,
				Utilidades:  venta.CapitalUtilidades,
			}

			aplicar := func(banco *entity.Banco, deltaHist, deltaCap decimal.Decimal) error {
				if deltaHist.IsZero() && deltaCap.IsZero() {
					return nil
				}
				if err := r.Bancos.AplicarDeltas(banco.ID, repository.BancoDeltas{
					Capital:           deltaCap,
					HistoricoIngresos: deltaHist,
				}); err != nil {
					return fmt.Errorf("ajustar banco %s: %w", banco.Codigo, err)
				}
				mov := nuevoMovimiento(banco, entity.MovimientoDistribucionGYA, deltaHist,
					fmt.Sprintf("Corrección venta %s", venta.ID), entity.RefVenta, venta.ID, ahora)
				return r.Movimientos.Create(mov)
			}
			if err := aplicar(bancos.BovedaMonte, nuevo.BovedaMonte.Sub(venta.MontoBovedaMonte), nuevoCapital.BovedaMonte.Sub(viejoCapital.BovedaMonte)); err != nil {
				return err
			}
			if err := aplicar(bancos.Fletes, nuevo.Fletes.Sub(venta.MontoFletes), nuevoCapital.Fletes.Sub(viejoCapital.Fletes)); err != nil {
				return err
			}
			if err := aplicar(bancos.Utilidades, nuevo.Utilidades.Sub(venta.MontoUtilidades), nuevoCapital.Utilidades.Sub(viejoCapital.Utilidades)); err != nil {
				return err
			}

			venta.MontoBovedaMonte = nuevo.BovedaMonte
			venta.MontoFletes = nuevo.Fletes
			venta.MontoUtilidades = nuevo.Utilidades
			venta.CapitalBovedaMonte = nuevoCapital.BovedaMonte
			venta.CapitalFletes = nuevoCapital.Fletes
			venta.CapitalUtilidades = nuevoCapital.Utilidades
		}

		if req.MontoPagado != nil {
			delta := req.MontoPagado.Sub(venta.MontoPagado)
			if delta.LessThan(decimal.Zero) {
				// Reducir pagos requiere devolución, no corrección.
				return domain.ErrInvalidInput
			}
			if delta.GreaterThan(decimal.Zero) {
				if _, _, err := registrarAbonoTx(r, venta, bancos, delta, ahora); err != nil {
					return err
				}
			}
		}

		venta.UpdatedAt = ahora
		if err := r.Ventas.Update(venta); err != nil {
			return fmt.Errorf("actualizar venta: %w", err)
		}

		e.aud.Registrar(r.Audit, audit.Entrada{
			Accion:      "corregir_venta",
			EntidadTipo: "venta",
			EntidadID:   venta.ID,
			Actor:       actor,
			Descripcion: fmt.Sprintf("Corrección administrativa de la venta %s", venta.ID),
			Antes:       antes,
			Despues:     venta,
			Monto:       venta.PrecioTotalVenta,
			Bancos:      bancoIDs,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("venta_id", venta.ID).
		Str("actor", actor).
		Msg("venta corregida")

	e.publicar(Evento{
		Tipo:          EventoCorreccion,
		ClienteID:     venta.ClienteID,
		ProductoID:    venta.ProductoID,
		OrdenCompraID: venta.OrdenCompraID,
		BancoIDs:      bancoIDs,
	})
	return venta, nil
}
