package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
)

// AgregadosProducto resume las ventas de un producto en el período analizado.
type AgregadosProducto struct {
	Ingresos          decimal.Decimal
	Costo             decimal.Decimal
	Fletes            decimal.Decimal
	Utilidad          decimal.Decimal
	UnidadesVendidas  decimal.Decimal
	NumVentas         int64
	StockActual       decimal.Decimal
	DiasPeriodo       int // ventana del agregado, normalmente 90
	PrimeraVenta      *time.Time
}

// MetricasProducto resultado del recálculo.
type MetricasProducto struct {
	IngresosPeriodo      decimal.Decimal
	UtilidadPeriodo      decimal.Decimal
	PrecioVentaPromedio  decimal.Decimal
	PrecioCompraPromedio decimal.Decimal
	MargenBruto          decimal.Decimal
	MargenNeto           decimal.Decimal
	RotacionAnual        decimal.Decimal
	DiasStockRestante    decimal.Decimal
	ScoreABC             decimal.Decimal
	ClasificacionABC     string
}

// CalcularProducto deriva márgenes, rotación anualizada y la clase ABC.
// La clase sale de la media de tres sub-scores 0-100 (rentabilidad, rotación,
// demanda) con cortes A≥70 y B≥40.
func CalcularProducto(a AgregadosProducto, ahora time.Time) MetricasProducto {
	m := MetricasProducto{
		IngresosPeriodo: a.Ingresos,
		UtilidadPeriodo: a.Utilidad,
	}

	if a.UnidadesVendidas.GreaterThan(decimal.Zero) {
		m.PrecioVentaPromedio = a.Ingresos.Div(a.UnidadesVendidas).Round(2)
		m.PrecioCompraPromedio = a.Costo.Div(a.UnidadesVendidas).Round(2)
	}

	if a.Ingresos.GreaterThan(decimal.Zero) {
		m.MargenBruto = a.Ingresos.Sub(a.Costo).Div(a.Ingresos).Mul(cien).Round(2)
		m.MargenNeto = a.Utilidad.Div(a.Ingresos).Mul(cien).Round(2)
	}

	dias := a.DiasPeriodo
	if dias <= 0 {
		dias = 90
	}
	// Ventana efectiva: para un producto cuya primera venta es más reciente
	// que el período, la venta diaria se calcula sobre su vida real y no
	// sobre días sin historial.
	if a.PrimeraVenta != nil {
		vida := int(ahora.Sub(*a.PrimeraVenta).Hours()/24) + 1
		if vida > 0 && vida < dias {
			dias = vida
		}
	}
	ventaDiaria := a.UnidadesVendidas.Div(decimal.NewFromInt(int64(dias)))

	if a.StockActual.GreaterThan(decimal.Zero) {
		// rotación anualizada = unidades vendidas al año / stock en mano
		m.RotacionAnual = ventaDiaria.Mul(decimal.NewFromInt(365)).Div(a.StockActual).Round(2)
		if ventaDiaria.GreaterThan(decimal.Zero) {
			m.DiasStockRestante = a.StockActual.Div(ventaDiaria).Round(0)
		}
	}

	m.ScoreABC = scoreABC(m)
	switch {
	case m.ScoreABC.GreaterThanOrEqual(decimal.NewFromInt(70)):
		m.ClasificacionABC = entity.ClaseA
	case m.ScoreABC.GreaterThanOrEqual(decimal.NewFromInt(40)):
		m.ClasificacionABC = entity.ClaseB
	default:
		m.ClasificacionABC = entity.ClaseC
	}
	return m
}

// scoreABC promedia rentabilidad, rotación y demanda, cada una acotada a 0-100.
func scoreABC(m MetricasProducto) decimal.Decimal {
	// Rentabilidad: margen neto de 50% o más puntúa 100.
	rentabilidad := acotar(m.MargenNeto.Mul(decimal.NewFromInt(2)))

	// Rotación: 12 rotaciones/año o más puntúan 100.
	rotacion := acotar(m.RotacionAnual.Div(decimal.NewFromInt(12)).Mul(cien))

	// Demanda: ingresos del período contra una base de 100.000.
	demanda := acotar(m.IngresosPeriodo.Div(decimal.NewFromInt(100000)).Mul(cien))

	return rentabilidad.Add(rotacion).Add(demanda).Div(decimal.NewFromInt(3)).Round(2)
}

func acotar(v decimal.Decimal) decimal.Decimal {
	if v.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if v.GreaterThan(cien) {
		return cien
	}
	return v
}
