package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
)

// MetricasOrden rotación de una orden de compra.
type MetricasOrden struct {
	DiasDesdeCompra    int
	PorcentajeVendido  decimal.Decimal
	EficienciaRotacion string
}

// CalcularOrden deriva la rotación de una orden: días transcurridos, % vendido
// y la etiqueta de eficiencia por días promedio por unidad vendida
// (≤7 excelente, ≤15 buena, ≤30 normal, ≤60 lenta, resto muy_lenta).
func CalcularOrden(cantidadOriginal, stockActual decimal.Decimal, fechaCompra, ahora time.Time) MetricasOrden {
	m := MetricasOrden{
		DiasDesdeCompra:    int(ahora.Sub(fechaCompra).Hours() / 24),
		EficienciaRotacion: entity.RotacionNormal,
	}

	vendido := cantidadOriginal.Sub(stockActual)
	if cantidadOriginal.GreaterThan(decimal.Zero) {
		m.PorcentajeVendido = vendido.Div(cantidadOriginal).Mul(cien).Round(2)
	}

	if !vendido.GreaterThan(decimal.Zero) {
		// Sin ventas todavía: la eficiencia depende solo de la antigüedad.
		if m.DiasDesdeCompra > 60 {
			m.EficienciaRotacion = entity.RotacionMuyLenta
		} else if m.DiasDesdeCompra > 30 {
			m.EficienciaRotacion = entity.RotacionLenta
		}
		return m
	}

	diasPorUnidad := decimal.NewFromInt(int64(m.DiasDesdeCompra)).Div(vendido)
	switch {
	case diasPorUnidad.LessThanOrEqual(decimal.NewFromInt(7)):
		m.EficienciaRotacion = entity.RotacionExcelente
	case diasPorUnidad.LessThanOrEqual(decimal.NewFromInt(15)):
		m.EficienciaRotacion = entity.RotacionBuena
	case diasPorUnidad.LessThanOrEqual(decimal.NewFromInt(30)):
		m.EficienciaRotacion = entity.RotacionNormal
	case diasPorUnidad.LessThanOrEqual(decimal.NewFromInt(60)):
		m.EficienciaRotacion = entity.RotacionLenta
	default:
		m.EficienciaRotacion = entity.RotacionMuyLenta
	}
	return m
}

// AgregadosDistribuidor resume las órdenes de compra de un distribuidor.
type AgregadosDistribuidor struct {
	TotalOrdenado     decimal.Decimal
	TotalPagado       decimal.Decimal
	StockTotal        decimal.Decimal
	UtilidadRealizada decimal.Decimal // utilidad de ventas trazadas a sus órdenes
	IngresosVentas    decimal.Decimal
}

// MetricasDistribuidor resultado del recálculo.
type MetricasDistribuidor struct {
	TotalOrdenado     decimal.Decimal
	TotalPagado       decimal.Decimal
	SaldoPendiente    decimal.Decimal
	StockTotal        decimal.Decimal
	UtilidadRealizada decimal.Decimal
	MargenPromedio    decimal.Decimal
}

// CalcularDistribuidor deriva totales y margen promedio.
func CalcularDistribuidor(a AgregadosDistribuidor) MetricasDistribuidor {
	m := MetricasDistribuidor{
		TotalOrdenado:     a.TotalOrdenado,
		TotalPagado:       a.TotalPagado,
		SaldoPendiente:    a.TotalOrdenado.Sub(a.TotalPagado),
		StockTotal:        a.StockTotal,
		UtilidadRealizada: a.UtilidadRealizada,
	}
	if a.IngresosVentas.GreaterThan(decimal.Zero) {
		m.MargenPromedio = a.UtilidadRealizada.Div(a.IngresosVentas).Mul(cien).Round(2)
	}
	return m
}
