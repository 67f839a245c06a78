package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/application/audit"
	"github.com/gyadistribucion/gya-api/internal/domain"
	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/gya"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

// EliminarVenta borra una venta registrada por error, revirtiendo todos sus
// efectos: capital e histórico en los bancos, deuda y pagos del cliente,
// stock de la orden y del producto, y el rastro de movimientos de la venta,
// sus abonos y sus devoluciones. La entrada de auditoría conserva el
// snapshot completo como único registro superviviente.
func (e *Engine) EliminarVenta(ctx context.Context, actor, ventaID string) error {
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

		bancos, err := cargarBancosGYA(r)
		if err != nil {
			return err
		}
		bancoIDs = bancos.ids()

		// Los campos vigentes de la venta ya descuentan devoluciones
		// parciales previas, así que revertirlos revierte exactamente lo
		// que sigue vivo en los bancos.
		capital := gya.Distribucion{
			BovedaMonte: venta.CapitalBovedaMonte,
			Fletes:      venta.CapitalFletes,
			Utilidades:  venta.CapitalUtilidades,
		}
		err = bancos.porBanco(distribucionDe(venta), func(banco *entity.Banco, historico decimal.Decimal) error {
			var capParte decimal.Decimal
			switch banco.Codigo {
			case entity.BancoBovedaMonte:
				capParte = capital.BovedaMonte
			case entity.BancoFletes:
				capParte = capital.Fletes
			case entity.BancoUtilidades:
				capParte = capital.Utilidades
			}
			if historico.IsZero() && capParte.IsZero() {
				return nil
			}
			if err := r.Bancos.AplicarDeltas(banco.ID, repository.BancoDeltas{
				Capital:           capParte.Neg(),
				HistoricoIngresos: historico.Neg(),
			}); err != nil {
				return fmt.Errorf("revertir banco %s: %w", banco.Codigo, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		if err := r.Clientes.AplicarDeltas(venta.ClienteID, repository.ClienteDeltas{
			SaldoPendiente: venta.MontoRestante.Neg(),
			TotalCompras:   venta.PrecioTotalVenta.Neg(),
			TotalPagado:    venta.MontoPagado.Neg(),
		}); err != nil {
			return fmt.Errorf("revertir saldos del cliente: %w", err)
		}

		if venta.Cantidad.GreaterThan(decimal.Zero) {
			if err := r.Ordenes.AjustarStock(venta.OrdenCompraID, venta.Cantidad); err != nil {
				return fmt.Errorf("devolver stock a la orden: %w", err)
			}
			if venta.ProductoID != "" {
				if err := r.Productos.AjustarStock(venta.ProductoID, venta.Cantidad); err != nil {
					return fmt.Errorf("devolver stock al producto: %w", err)
				}
			}
		}

		abonos, err := r.Abonos.ListByVenta(venta.ID)
		if err != nil {
			return fmt.Errorf("listar abonos: %w", err)
		}
		for _, a := range abonos {
			if err := r.Movimientos.DeleteByReferencia(entity.RefAbono, a.ID); err != nil {
				return fmt.Errorf("borrar movimientos de abono: %w", err)
			}
		}
		devoluciones, err := r.Devoluciones.ListByVenta(venta.ID)
		if err != nil {
			return fmt.Errorf("listar devoluciones: %w", err)
		}
		for _, d := range devoluciones {
			if err := r.Movimientos.DeleteByReferencia(entity.RefDevolucion, d.ID); err != nil {
				return fmt.Errorf("borrar movimientos de devolución: %w", err)
			}
		}
		if err := r.Movimientos.DeleteByReferencia(entity.RefVenta, venta.ID); err != nil {
			return fmt.Errorf("borrar movimientos de la venta: %w", err)
		}
		if err := r.Abonos.DeleteByVenta(venta.ID); err != nil {
			return fmt.Errorf("borrar abonos: %w", err)
		}
		if err := r.Devoluciones.DeleteByVenta(venta.ID); err != nil {
			return fmt.Errorf("borrar devoluciones: %w", err)
		}
		if err := r.Ventas.Delete(venta.ID); err != nil {
			return fmt.Errorf("borrar venta: %w", err)
		}

		e.aud.Registrar(r.Audit, audit.Entrada{
			Accion:      "eliminar_venta",
			EntidadTipo: "venta",
			EntidadID:   venta.ID,
			Actor:       actor,
			Descripcion: fmt.Sprintf("Eliminación con reversión completa de la venta %s", venta.ID),
			Antes:       venta,
			Monto:       venta.PrecioTotalVenta,
			Bancos:      bancoIDs,
		})
		return nil
	})
	if err != nil {
		return err
	}

	e.log.Info().
		Str("venta_id", venta.ID).
		Str("actor", actor).
		Msg("venta eliminada con reversión completa")

	e.publicar(Evento{
		Tipo:          EventoCorreccion,
		ClienteID:     venta.ClienteID,
		ProductoID:    venta.ProductoID,
		OrdenCompraID: venta.OrdenCompraID,
		BancoIDs:      bancoIDs,
	})
	return nil
}
