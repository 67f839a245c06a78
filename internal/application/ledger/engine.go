// Package ledger implementa el motor de transacciones: las operaciones
// atómicas que mueven dinero entre ventas, clientes, órdenes y los tres
// bancos GYA. Cada operación corre completa dentro de una transacción de
// base de datos, escribe su rastro de movimientos y su entrada de auditoría,
// y publica un evento para el pipeline de métricas solo tras el commit.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/application/audit"
	"github.com/gyadistribucion/gya-api/internal/domain"
	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/gya"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
	"github.com/gyadistribucion/gya-api/pkg/logger"
)

// Engine ejecuta las operaciones de escritura del libro mayor.
type Engine struct {
	tx  TxRunner
	aud *audit.Recorder
	pub Publicador
	log *logger.Logger
}

func NewEngine(tx TxRunner, aud *audit.Recorder, pub Publicador, log *logger.Logger) *Engine {
	return &Engine{tx: tx, aud: aud, pub: pub, log: log}
}

// bancosGYA carga los tres bancos del split en orden fijo (bóveda monte,
// fletes, utilidades). El orden fijo también ordena los locks y evita
// deadlocks entre operaciones concurrentes.
type bancosGYA struct {
	BovedaMonte *entity.Banco
	Fletes      *entity.Banco
	Utilidades  *entity.Banco
}

func cargarBancosGYA(r *Repos) (bancosGYA, error) {
	var b bancosGYA
	for _, par := range []struct {
		codigo string
		dst    **entity.Banco
	}{
		{entity.BancoBovedaMonte, &b.BovedaMonte},
		{entity.BancoFletes, &b.Fletes},
		{entity.BancoUtilidades, &b.Utilidades},
	} {
		banco, err := r.Bancos.GetByCodigo(par.codigo)
		if err != nil {
			return bancosGYA{}, fmt.Errorf("cargar banco %s: %w", par.codigo, err)
		}
		if banco == nil {
			return bancosGYA{}, fmt.Errorf("banco %s no existe: %w", par.codigo, domain.ErrNotFound)
		}
		*par.dst = banco
	}
	return b, nil
}

func (b bancosGYA) ids() []string {
	return []string{b.BovedaMonte.ID, b.Fletes.ID, b.Utilidades.ID}
}

// porBanco itera (banco, monto) sobre una distribución en el orden canónico.
func (b bancosGYA) porBanco(d gya.Distribucion, fn func(banco *entity.Banco, monto decimal.Decimal) error) error {
	for _, par := range []struct {
		banco *entity.Banco
		monto decimal.Decimal
	}{
		{b.BovedaMonte, d.BovedaMonte},
		{b.Fletes, d.Fletes},
		{b.Utilidades, d.Utilidades},
	} {
		if err := fn(par.banco, par.monto); err != nil {
			return err
		}
	}
	return nil
}

// esSaldado decide si un restante quedó en cero tolerando el residuo de la
// aritmética decimal proporcional.
func esSaldado(restante decimal.Decimal) bool {
	return restante.Round(6).LessThanOrEqual(decimal.Zero)
}

func estadoPagoPara(pagado, restante decimal.Decimal) string {
	switch {
	case esSaldado(restante):
		return entity.EstadoPagoCompleto
	case pagado.GreaterThan(decimal.Zero):
		return entity.EstadoPagoParcial
	default:
		return entity.EstadoPagoPendiente
	}
}

// distribucionDe reconstruye el split histórico vigente de una venta.
func distribucionDe(v *entity.Venta) gya.Distribucion {
	return gya.Distribucion{
		BovedaMonte: v.MontoBovedaMonte,
		Fletes:      v.MontoFletes,
		Utilidades:  v.MontoUtilidades,
		Total:       v.PrecioTotalVenta,
	}
}

func nuevoMovimiento(banco *entity.Banco, tipo string, monto decimal.Decimal, descripcion, refTipo, refID string, cuando time.Time) *entity.Movimiento {
	return &entity.Movimiento{
		ID:             uuid.NewString(),
		BancoID:        banco.ID,
		Tipo:           tipo,
		Monto:          monto,
		Descripcion:    descripcion,
		ReferenciaID:   refID,
		ReferenciaTipo: refTipo,
		Fecha:          cuando,
		CreatedAt:      cuando,
	}
}

// registrarAbonoTx aplica un pago parcial contra una venta ya bloqueada:
// muta la venta en memoria, crea el registro de abono con su sub-split, los
// movimientos de capital y los deltas de bancos y cliente. Lo comparten la
// creación de venta (pago inicial), el abono directo y la corrección.
func registrarAbonoTx(r *Repos, venta *entity.Venta, bancos bancosGYA, monto decimal.Decimal, cuando time.Time) (*entity.Abono, gya.Distribucion, error) {
	if !monto.GreaterThan(decimal.Zero) {
		return nil, gya.Distribucion{}, domain.ErrInvalidInput
	}
	if monto.GreaterThan(venta.MontoRestante) && !esSaldado(monto.Sub(venta.MontoRestante)) {
		return nil, gya.Distribucion{}, domain.ErrMontoExcedeRestante
	}

	fraccion := gya.FraccionPagada(monto, venta.PrecioTotalVenta)
	sub := gya.Proporcional(distribucionDe(venta), fraccion)

	venta.MontoPagado = venta.MontoPagado.Add(monto)
	venta.MontoRestante = venta.MontoRestante.Sub(monto)
	venta.CapitalBovedaMonte = venta.CapitalBovedaMonte.Add(sub.BovedaMonte)
	venta.CapitalFletes = venta.CapitalFletes.Add(sub.Fletes)
	venta.CapitalUtilidades = venta.CapitalUtilidades.Add(sub.Utilidades)
	venta.EstadoPago = estadoPagoPara(venta.MontoPagado, venta.MontoRestante)
	venta.UpdatedAt = cuando

	abono := &entity.Abono{
		ID:                   uuid.NewString(),
		VentaID:              venta.ID,
		Monto:                monto,
		MontoPagadoAcumulado: venta.MontoPagado,
		BovedaMonte:          sub.BovedaMonte,
		Fletes:               sub.Fletes,
		Utilidades:           sub.Utilidades,
		Fecha:                cuando,
		CreatedAt:            cuando,
	}
	if err := r.Abonos.Create(abono); err != nil {
		return nil, gya.Distribucion{}, fmt.Errorf("crear abono: %w", err)
	}

	err := bancos.porBanco(sub, func(banco *entity.Banco, parte decimal.Decimal) error {
		if err := r.Bancos.AplicarDeltas(banco.ID, repository.BancoDeltas{Capital: parte}); err != nil {
			return fmt.Errorf("acreditar capital en %s: %w", banco.Codigo, err)
		}
		mov := nuevoMovimiento(banco, entity.MovimientoAbono, parte,
			fmt.Sprintf("Abono venta %s", venta.ID), entity.RefAbono, abono.ID, cuando)
		return r.Movimientos.Create(mov)
	})
	if err != nil {
		return nil, gya.Distribucion{}, err
	}

	if err := r.Clientes.AplicarDeltas(venta.ClienteID, repository.ClienteDeltas{
		SaldoPendiente: monto.Neg(),
		TotalPagado:    monto,
	}); err != nil {
		return nil, gya.Distribucion{}, fmt.Errorf("actualizar saldos del cliente: %w", err)
	}

	return abono, sub, nil
}
