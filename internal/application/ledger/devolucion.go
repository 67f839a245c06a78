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
	"github.com/gyadistribucion/gya-api/internal/domain/gya"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

// ProcesarDevolucion revierte la fracción devuelta de una venta: retira de
// los bancos el capital cobrado y el histórico comprometido en esa
// proporción, reduce la venta y descarga la deuda del cliente. Una
// devolución total deja los bancos exactamente como si la venta no hubiera
// existido y cierra la venta con estado "devuelta".
func (e *Engine) ProcesarDevolucion(ctx context.Context, actor, ventaID string, req dto.ProcesarDevolucionRequest) (*dto.DevolucionResponse, error) {
	if !req.CantidadDevuelta.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var (
		venta      *entity.Venta
		devolucion *entity.Devolucion
		reversion  gya.Distribucion
		bancoIDs   []string
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
		if req.CantidadDevuelta.GreaterThan(venta.Cantidad) {
			return domain.ErrInvalidInput
		}

		bancos, err := cargarBancosGYA(r)
		if err != nil {
			return err
		}
		bancoIDs = bancos.ids()

		esTotal := req.CantidadDevuelta.Equal(venta.Cantidad)
		fraccion := decimal.NewFromInt(1)
		if !esTotal {
			fraccion = req.CantidadDevuelta.Div(venta.Cantidad)
		}

		// Reversión histórica y de capital, ambas proporcionales a la
		// cantidad devuelta sobre el estado vigente de la venta.
		reversion = gya.Proporcional(distribucionDe(venta), fraccion)
		capital := gya.Proporcional(gya.Distribucion{
			BovedaMonte: venta.CapitalBovedaMonte,
			Fletes:      venta.CapitalFletes,
			Utilidades:  venta.CapitalUtilidades,
			Total:       venta.MontoPagado,
		}, fraccion)
		reembolso := capital.Total

		ahora := time.Now()
		antes := *venta

		devolucion = &entity.Devolucion{
			ID:               uuid.NewString(),
			VentaID:          venta.ID,
			CantidadDevuelta: req.CantidadDevuelta,
			Motivo:           req.Motivo,
			MontoBovedaMonte: reversion.BovedaMonte,
			MontoFletes:      reversion.Fletes,
			MontoUtilidades:  reversion.Utilidades,
			MontoReembolso:   reembolso,
			EsTotal:          esTotal,
			StockRestaurado:  req.RestaurarStock,
			Fecha:            ahora,
			CreatedAt:        ahora,
		}
		if err := r.Devoluciones.Create(devolucion); err != nil {
			return fmt.Errorf("crear devolución: %w", err)
		}

		err = bancos.porBanco(reversion, func(banco *entity.Banco, parte decimal.Decimal) error {
			var capParte decimal.Decimal
			switch banco.Codigo {
			case entity.BancoBovedaMonte:
				capParte = capital.BovedaMonte
			case entity.BancoFletes:
				capParte = capital.Fletes
			case entity.BancoUtilidades:
				capParte = capital.Utilidades
			}
			if err := r.Bancos.AplicarDeltas(banco.ID, repository.BancoDeltas{
				Capital:           capParte.Neg(),
				HistoricoIngresos: parte.Neg(),
			}); err != nil {
				return fmt.Errorf("revertir banco %s: %w", banco.Codigo, err)
			}
			mov := nuevoMovimiento(banco, entity.MovimientoDevolucion, parte.Neg(),
				fmt.Sprintf("Devolución venta %s: %s", venta.ID, req.Motivo),
				entity.RefDevolucion, devolucion.ID, ahora)
			return r.Movimientos.Create(mov)
		})
		if err != nil {
			return err
		}

		// La porción no cobrada de lo devuelto deja de ser deuda; lo
		// cobrado se convierte en reembolso adeudado al cliente.
		if err := r.Clientes.AplicarDeltas(venta.ClienteID, repository.ClienteDeltas{
			SaldoPendiente: reversion.Total.Sub(reembolso).Neg(),
			TotalCompras:   reversion.Total.Neg(),
			TotalPagado:    reembolso.Neg(),
		}); err != nil {
			return fmt.Errorf("descargar deuda del cliente: %w", err)
		}

		if req.RestaurarStock {
			if err := r.Ordenes.AjustarStock(venta.OrdenCompraID, req.CantidadDevuelta); err != nil {
				return fmt.Errorf("restaurar stock de la orden: %w", err)
			}
			if venta.ProductoID != "" {
				if err := r.Productos.AjustarStock(venta.ProductoID, req.CantidadDevuelta); err != nil {
					return fmt.Errorf("restaurar stock del producto: %w", err)
				}
			}
		}

		venta.Cantidad = venta.Cantidad.Sub(req.CantidadDevuelta)
		venta.PrecioTotalVenta = venta.PrecioTotalVenta.Sub(reversion.Total)
		venta.MontoBovedaMonte = venta.MontoBovedaMonte.Sub(reversion.BovedaMonte)
		venta.MontoFletes = venta.MontoFletes.Sub(reversion.Fletes)
		venta.MontoUtilidades = venta.MontoUtilidades.Sub(reversion.Utilidades)
		venta.CapitalBovedaMonte = venta.CapitalBovedaMonte.Sub(capital.BovedaMonte)
		venta.CapitalFletes = venta.CapitalFletes.Sub(capital.Fletes)
		venta.CapitalUtilidades = venta.CapitalUtilidades.Sub(capital.Utilidades)
		venta.MontoPagado = venta.MontoPagado.Sub(reembolso)
		venta.MontoRestante = venta.PrecioTotalVenta.Sub(venta.MontoPagado)
		if esTotal {
			venta.EstadoPago = entity.EstadoPagoDevuelta
		} else {
			venta.EstadoPago = estadoPagoPara(venta.MontoPagado, venta.MontoRestante)
		}
		venta.UpdatedAt = ahora
		if err := r.Ventas.Update(venta); err != nil {
			return fmt.Errorf("actualizar venta: %w", err)
		}

		e.aud.Registrar(r.Audit, audit.Entrada{
			Accion:      "procesar_devolucion",
			EntidadTipo: "venta",
			EntidadID:   venta.ID,
			Actor:       actor,
			Descripcion: fmt.Sprintf("Devolución de %s unidades: %s", req.CantidadDevuelta, req.Motivo),
			Antes:       antes,
			Despues:     venta,
			Monto:       reversion.Total,
			Bancos:      bancoIDs,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("venta_id", venta.ID).
		Str("devolucion_id", devolucion.ID).
		Bool("es_total", devolucion.EsTotal).
		Str("reembolso", devolucion.MontoReembolso.String()).
		Msg("devolución procesada")

	e.publicar(Evento{
		Tipo:          EventoDevolucion,
		ClienteID:     venta.ClienteID,
		ProductoID:    venta.ProductoID,
		OrdenCompraID: venta.OrdenCompraID,
		BancoIDs:      bancoIDs,
	})

	return &dto.DevolucionResponse{
		DevolucionID:   devolucion.ID,
		VentaID:        venta.ID,
		EsTotal:        devolucion.EsTotal,
		MontoReembolso: devolucion.MontoReembolso,
		Reversion: dto.DistribucionDTO{
			BovedaMonte: reversion.BovedaMonte,
			Fletes:      reversion.Fletes,
			Utilidades:  reversion.Utilidades,
			Total:       reversion.Total,
		},
		EstadoPago: venta.EstadoPago,
	}, nil
}
