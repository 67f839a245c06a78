// Package metrics contiene los cálculos puros de los campos derivados de cada
// entidad. Cada función es determinista dado el agregado de entrada y la fecha
// de referencia, de modo que el pipeline puede re-ejecutarla sin efectos
// acumulativos.
package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
)

// AgregadosCliente es el resumen de todas las ventas de un cliente leído del
// libro mayor.
type AgregadosCliente struct {
	TotalCompras      decimal.Decimal
	TotalPagado       decimal.Decimal
	SaldoPendiente    decimal.Decimal
	NumVentas         int64
	VentasCompletas   int64 // ventas pagadas en su totalidad
	Compras6Meses     int64
	UtilidadGenerada  decimal.Decimal // suma de montoUtilidades de sus ventas
	FechaUltimaCompra *time.Time
}

// MetricasCliente resultado del recálculo.
type MetricasCliente struct {
	TicketPromedio    decimal.Decimal
	DiasSinComprar    int
	FrecuenciaCompra  decimal.Decimal // compras por mes, ventana de 6 meses
	PorcentajePuntual decimal.Decimal
	ScoreCredito      decimal.Decimal
	Categoria         string
}

var cien = decimal.NewFromInt(100)

// Umbral de utilidad acumulada para la categoría VIP.
var umbralUtilidadVIP = decimal.NewFromInt(50000)

// CalcularCliente deriva score crediticio y categoría a partir del agregado.
//
// Score = 40% puntualidad de pago + 30% relación deuda/compras (invertida)
// + 30% frecuencia de compra. Precedencia de categorías:
// moroso > inactivo > vip > frecuente > nuevo > ocasional.
func CalcularCliente(a AgregadosCliente, ahora time.Time) MetricasCliente {
	var m MetricasCliente

	if a.NumVentas > 0 {
		m.TicketPromedio = a.TotalCompras.Div(decimal.NewFromInt(a.NumVentas)).Round(2)
		m.PorcentajePuntual = decimal.NewFromInt(a.VentasCompletas).
			Div(decimal.NewFromInt(a.NumVentas)).Mul(cien).Round(2)
	}

	if a.FechaUltimaCompra != nil {
		m.DiasSinComprar = int(ahora.Sub(*a.FechaUltimaCompra).Hours() / 24)
	}

	// compras/mes en los últimos 6 meses
	m.FrecuenciaCompra = decimal.NewFromInt(a.Compras6Meses).Div(decimal.NewFromInt(6)).Round(4)

	// Componente deuda: 100 cuando no debe nada, 0 cuando debe todo lo comprado.
	scoreDeuda := cien
	if a.TotalCompras.GreaterThan(decimal.Zero) {
		ratio := a.SaldoPendiente.Div(a.TotalCompras)
		scoreDeuda = cien.Sub(ratio.Mul(cien))
		if scoreDeuda.LessThan(decimal.Zero) {
			scoreDeuda = decimal.Zero
		}
	}

	// Componente frecuencia: 3 compras/mes o más puntúan 100.
	scoreFrecuencia := m.FrecuenciaCompra.Div(decimal.NewFromInt(3)).Mul(cien)
	if scoreFrecuencia.GreaterThan(cien) {
		scoreFrecuencia = cien
	}

	m.ScoreCredito = m.PorcentajePuntual.Mul(decimal.NewFromFloat(0.4)).
		Add(scoreDeuda.Mul(decimal.NewFromFloat(0.3))).
		Add(scoreFrecuencia.Mul(decimal.NewFromFloat(0.3))).
		Round(2)

	m.Categoria = categoriaCliente(a, m)
	return m
}

func categoriaCliente(a AgregadosCliente, m MetricasCliente) string {
	tieneDeuda := a.SaldoPendiente.GreaterThan(decimal.Zero)

	switch {
	case tieneDeuda && m.DiasSinComprar > 30:
		return entity.ClienteMoroso
	case m.DiasSinComprar > 90:
		return entity.ClienteInactivo
	case m.ScoreCredito.GreaterThanOrEqual(decimal.NewFromInt(80)) &&
		m.FrecuenciaCompra.GreaterThanOrEqual(decimal.NewFromInt(2)) &&
		a.UtilidadGenerada.GreaterThanOrEqual(umbralUtilidadVIP):
		return entity.ClienteVIP
	case m.ScoreCredito.GreaterThanOrEqual(decimal.NewFromInt(60)) &&
		m.FrecuenciaCompra.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return entity.ClienteFrecuente
	case m.FrecuenciaCompra.LessThan(decimal.NewFromFloat(0.5)):
		return entity.ClienteNuevo
	default:
		return entity.ClienteOcasional
	}
}
