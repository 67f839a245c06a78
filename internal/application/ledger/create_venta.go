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

// CrearVenta registra una venta: valida el margen, descuenta stock de la
// orden de compra, compromete la distribución GYA en los históricos de los
// tres bancos y, si hay pago inicial, acredita el capital proporcional.
// Todo o nada: cualquier validación fallida deja la base intacta.
func (e *Engine) CrearVenta(ctx context.Context, actor string, req dto.CrearVentaRequest) (*dto.CrearVentaResponse, error) {
	dist, err := gya.Distribuir(req.Cantidad, req.PrecioVentaUnidad, req.PrecioCompraUnidad, req.PrecioFleteUnidad)
	if err != nil {
		return nil, err
	}
	if req.MontoPagado.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if req.MontoPagado.GreaterThan(dist.Total) {
		return nil, domain.ErrMontoExcedeRestante
	}

	var (
		venta          *entity.Venta
		distribuidorID string
		bancoIDs       []string
	)
	err = e.tx.Run(ctx, func(r *Repos) error {
		cliente, err := r.Clientes.GetForUpdate(req.ClienteID)
		if err != nil {
			return fmt.Errorf("cargar cliente: %w", err)
		}
		if cliente == nil {
			return fmt.Errorf("cliente %s: %w", req.ClienteID, domain.ErrNotFound)
		}

		orden, err := r.Ordenes.GetForUpdate(req.OrdenCompraID)
		if err != nil {
			return fmt.Errorf("cargar orden de compra: %w", err)
		}
		if orden == nil {
			return fmt.Errorf("orden %s: %w", req.OrdenCompraID, domain.ErrNotFound)
		}
		if orden.StockActual.LessThan(req.Cantidad) {
			return domain.ErrInsufficientStock
		}
		distribuidorID = orden.DistribuidorID

		bancos, err := cargarBancosGYA(r)
		if err != nil {
			return err
		}
		bancoIDs = bancos.ids()

		ahora := time.Now()
		venta = &entity.Venta{
			ID:                 uuid.NewString(),
			ClienteID:          req.ClienteID,
			ProductoID:         req.ProductoID,
			OrdenCompraID:      req.OrdenCompraID,
			Cantidad:           req.Cantidad,
			PrecioVentaUnidad:  req.PrecioVentaUnidad,
			PrecioCompraUnidad: req.PrecioCompraUnidad,
			PrecioFleteUnidad:  req.PrecioFleteUnidad,
			PrecioTotalVenta:   dist.Total,
			MontoRestante:      dist.Total,
			EstadoPago:         entity.EstadoPagoPendiente,
			MontoBovedaMonte:   dist.BovedaMonte,
			MontoFletes:        dist.Fletes,
			MontoUtilidades:    dist.Utilidades,
			FechaVenta:         ahora,
			CreatedAt:          ahora,
			UpdatedAt:          ahora,
		}
		if err := r.Ventas.Create(venta); err != nil {
			return fmt.Errorf("crear venta: %w", err)
		}

		if err := r.Ordenes.AjustarStock(orden.ID, req.Cantidad.Neg()); err != nil {
			return fmt.Errorf("descontar stock de la orden: %w", err)
		}
		if req.ProductoID != "" {
			if err := r.Productos.AjustarStock(req.ProductoID, req.Cantidad.Neg()); err != nil {
				return fmt.Errorf("descontar stock del producto: %w", err)
			}
		}

		// Compromiso histórico: la distribución completa entra a los
		// históricos aunque la venta nazca impaga.
		err = bancos.porBanco(dist, func(banco *entity.Banco, parte decimal.Decimal) error {
			if err := r.Bancos.AplicarDeltas(banco.ID, repository.BancoDeltas{HistoricoIngresos: parte}); err != nil {
				return fmt.Errorf("comprometer histórico en %s: %w", banco.Codigo, err)
			}
			mov := nuevoMovimiento(banco, entity.MovimientoDistribucionGYA, parte,
				fmt.Sprintf("Distribución venta %s", venta.ID), entity.RefVenta, venta.ID, ahora)
			return r.Movimientos.Create(mov)
		})
		if err != nil {
			return err
		}

		if err := r.Clientes.AplicarDeltas(venta.ClienteID, repository.ClienteDeltas{
			SaldoPendiente: dist.Total,
			TotalCompras:   dist.Total,
		}); err != nil {
			return fmt.Errorf("cargar deuda al cliente: %w", err)
		}

		if req.MontoPagado.GreaterThan(decimal.Zero) {
			if _, _, err := registrarAbonoTx(r, venta, bancos, req.MontoPagado, ahora); err != nil {
				return err
			}
			if err := r.Ventas.Update(venta); err != nil {
				return fmt.Errorf("aplicar pago inicial: %w", err)
			}
		}

		e.aud.Registrar(r.Audit, audit.Entrada{
			Accion:      "crear_venta",
			EntidadTipo: "venta",
			EntidadID:   venta.ID,
			Actor:       actor,
			Descripcion: fmt.Sprintf("Venta de %s unidades a cliente %s", req.Cantidad, cliente.Nombre),
			Despues:     venta,
			Monto:       dist.Total,
			Bancos:      bancoIDs,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("venta_id", venta.ID).
		Str("cliente_id", venta.ClienteID).
		Str("total", dist.Total.String()).
		Str("estado_pago", venta.EstadoPago).
		Msg("venta creada")

	e.publicar(Evento{
		Tipo:           EventoVenta,
		ClienteID:      venta.ClienteID,
		ProductoID:     venta.ProductoID,
		OrdenCompraID:  venta.OrdenCompraID,
		DistribuidorID: distribuidorID,
		BancoIDs:       bancoIDs,
	})

	return &dto.CrearVentaResponse{
		VentaID: venta.ID,
		Distribucion: dto.DistribucionDTO{
			BovedaMonte: dist.BovedaMonte,
			Fletes:      dist.Fletes,
			Utilidades:  dist.Utilidades,
			Total:       dist.Total,
		},
		EstadoPago: venta.EstadoPago,
		TotalVenta: dist.Total,
	}, nil
}

func (e *Engine) publicar(evt Evento) {
	if e.pub != nil {
		e.pub.Publicar(evt)
	}
}
