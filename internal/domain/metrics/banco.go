package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
)

// Etiquetas de salud financiera de un banco.
const (
	SaludSaludable = "saludable"
	SaludEstable   = "estable"
	SaludRiesgo    = "riesgo"
	SaludCritica   = "critica"
)

// AgregadosBanco resume los movimientos de un banco por ventana temporal.
type AgregadosBanco struct {
	CapitalActual decimal.Decimal

	IngresosHoy    decimal.Decimal
	GastosHoy      decimal.Decimal
	IngresosSemana decimal.Decimal
	GastosSemana   decimal.Decimal
	IngresosMes    decimal.Decimal
	GastosMes      decimal.Decimal

	IngresosMesAnterior decimal.Decimal
	GastosMesAnterior   decimal.Decimal

	// Ingresos por origen (tipo de movimiento → total del mes), para el
	// desglose porcentual de fuentes.
	IngresosPorOrigen map[string]decimal.Decimal
}

// MetricasBanco resultado del recálculo.
type MetricasBanco struct {
	IngresosHoy      decimal.Decimal
	GastosHoy        decimal.Decimal
	IngresosSemana   decimal.Decimal
	GastosSemana     decimal.Decimal
	IngresosMes      decimal.Decimal
	GastosMes        decimal.Decimal
	PorcentajeOrigen map[string]decimal.Decimal
	Tendencia        string
	ProyeccionDias30 decimal.Decimal
	ProyeccionDias90 decimal.Decimal
	DiasAgotamiento  int
	SaludFinanciera  string
}

var umbralTendencia = decimal.NewFromFloat(0.10)

// CalcularBanco deriva tendencia, proyecciones y salud a partir del agregado.
//
// Tendencia mes contra mes con banda de ±10%; proyecciones lineales sobre el
// flujo neto mensual; DiasAgotamiento solo cuando el flujo neto es negativo.
func CalcularBanco(a AgregadosBanco) MetricasBanco {
	m := MetricasBanco{
		IngresosHoy:    a.IngresosHoy,
		GastosHoy:      a.GastosHoy,
		IngresosSemana: a.IngresosSemana,
		GastosSemana:   a.GastosSemana,
		IngresosMes:    a.IngresosMes,
		GastosMes:      a.GastosMes,
	}

	// Desglose porcentual de las fuentes de ingreso del mes.
	if len(a.IngresosPorOrigen) > 0 {
		totalOrigen := decimal.Zero
		for _, v := range a.IngresosPorOrigen {
			totalOrigen = totalOrigen.Add(v)
		}
		if totalOrigen.GreaterThan(decimal.Zero) {
			m.PorcentajeOrigen = make(map[string]decimal.Decimal, len(a.IngresosPorOrigen))
			for k, v := range a.IngresosPorOrigen {
				m.PorcentajeOrigen[k] = v.Div(totalOrigen).Mul(cien).Round(2)
			}
		}
	}

	m.Tendencia = tendenciaMensual(a.IngresosMes.Sub(a.GastosMes), a.IngresosMesAnterior.Sub(a.GastosMesAnterior))

	flujoMes := a.IngresosMes.Sub(a.GastosMes)
	m.ProyeccionDias30 = a.CapitalActual.Add(flujoMes).Round(2)
	m.ProyeccionDias90 = a.CapitalActual.Add(flujoMes.Mul(decimal.NewFromInt(3))).Round(2)

	if flujoMes.LessThan(decimal.Zero) && a.CapitalActual.GreaterThan(decimal.Zero) {
		flujoDiario := flujoMes.Div(decimal.NewFromInt(30)).Neg()
		if flujoDiario.GreaterThan(decimal.Zero) {
			m.DiasAgotamiento = int(a.CapitalActual.Div(flujoDiario).IntPart())
		}
	}

	m.SaludFinanciera = saludBanco(a, m)
	return m
}

func tendenciaMensual(flujoActual, flujoAnterior decimal.Decimal) string {
	if flujoAnterior.IsZero() {
		if flujoActual.IsZero() {
			return entity.TendenciaEstable
		}
		if flujoActual.GreaterThan(decimal.Zero) {
			return entity.TendenciaSubiendo
		}
		return entity.TendenciaBajando
	}
	cambio := flujoActual.Sub(flujoAnterior).Div(flujoAnterior.Abs())
	switch {
	case cambio.GreaterThan(umbralTendencia):
		return entity.TendenciaSubiendo
	case cambio.LessThan(umbralTendencia.Neg()):
		return entity.TendenciaBajando
	default:
		return entity.TendenciaEstable
	}
}

// saludBanco combina tres sub-scores: capital disponible, tendencia y relación
// ingresos/gastos del mes.
func saludBanco(a AgregadosBanco, m MetricasBanco) string {
	score := decimal.Zero

	// Capital: positivo aporta hasta 100 (contra una base de 100.000).
	if a.CapitalActual.GreaterThan(decimal.Zero) {
		score = score.Add(acotar(a.CapitalActual.Div(decimal.NewFromInt(100000)).Mul(cien)))
	}

	// Tendencia.
	switch m.Tendencia {
	case entity.TendenciaSubiendo:
		score = score.Add(cien)
	case entity.TendenciaEstable:
		score = score.Add(decimal.NewFromInt(60))
	}

	// Cobertura: ingresos del mes sobre gastos del mes.
	if a.GastosMes.GreaterThan(decimal.Zero) {
		score = score.Add(acotar(a.IngresosMes.Div(a.GastosMes).Mul(decimal.NewFromInt(50))))
	} else if a.IngresosMes.GreaterThan(decimal.Zero) {
		score = score.Add(cien)
	}

	promedio := score.Div(decimal.NewFromInt(3))
	switch {
	case promedio.GreaterThanOrEqual(decimal.NewFromInt(75)):
		return SaludSaludable
	case promedio.GreaterThanOrEqual(decimal.NewFromInt(50)):
		return SaludEstable
	case promedio.GreaterThanOrEqual(decimal.NewFromInt(25)):
		return SaludRiesgo
	default:
		return SaludCritica
	}
}
