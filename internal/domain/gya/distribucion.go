// Package gya implementa el cálculo puro de la distribución GYA: la partición
// de cada peso de una venta en tres cubos (bóveda monte, fletes, utilidades).
//
// Todo camino de código que reparte dinero — creación de venta, abonos,
// reversión por devolución — pasa por estas funciones; derivar la aritmética
// en otro sitio rompe la garantía de que los cubos suman el total.
package gya

import (
	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/domain"
)

// Distribucion es el resultado del split tres-vías de una venta.
type Distribucion struct {
	BovedaMonte decimal.Decimal // recuperación de costo: cantidad × precio de compra
	Fletes      decimal.Decimal // cantidad × flete unitario
	Utilidades  decimal.Decimal // total − costo − fletes
	Total       decimal.Decimal // cantidad × precio de venta
}

// Distribuir calcula el split GYA de una venta.
// Retorna ErrMargenNegativo cuando la utilidad resultante es negativa
// (venta por debajo del costo); el caller debe rechazar antes de persistir.
func Distribuir(cantidad, precioVentaUnidad, precioCompraUnidad, precioFleteUnidad decimal.Decimal) (Distribucion, error) {
	if !cantidad.GreaterThan(decimal.Zero) || precioVentaUnidad.LessThan(decimal.Zero) ||
		precioCompraUnidad.LessThan(decimal.Zero) || precioFleteUnidad.LessThan(decimal.Zero) {
		return Distribucion{}, domain.ErrInvalidInput
	}

	total := cantidad.Mul(precioVentaUnidad)
	costo := cantidad.Mul(precioCompraUnidad)
	fletes := cantidad.Mul(precioFleteUnidad)
	utilidad := total.Sub(costo).Sub(fletes)

	if utilidad.LessThan(decimal.Zero) {
		return Distribucion{}, domain.ErrMargenNegativo
	}

	return Distribucion{
		BovedaMonte: costo,
		Fletes:      fletes,
		Utilidades:  utilidad,
		Total:       total,
	}, nil
}

// Proporcional escala los tres cubos por la fracción indicada. Se usa con la
// fracción pagada para el capital inicial y para cada abono, y con la fracción
// devuelta (negada por el caller) para reversiones.
func Proporcional(d Distribucion, fraccion decimal.Decimal) Distribucion {
	return Distribucion{
		BovedaMonte: d.BovedaMonte.Mul(fraccion),
		Fletes:      d.Fletes.Mul(fraccion),
		Utilidades:  d.Utilidades.Mul(fraccion),
		Total:       d.Total.Mul(fraccion),
	}
}

// FraccionPagada devuelve montoPagado / total, acotada a [0, 1].
// Un total cero devuelve cero para evitar división por cero.
func FraccionPagada(montoPagado, total decimal.Decimal) decimal.Decimal {
	if !total.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	f := montoPagado.Div(total)
	if f.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if f.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return f
}

// Suma devuelve BovedaMonte + Fletes + Utilidades.
func (d Distribucion) Suma() decimal.Decimal {
	return d.BovedaMonte.Add(d.Fletes).Add(d.Utilidades)
}

// Neg devuelve la distribución con los cuatro montos negados (reversiones).
func (d Distribucion) Neg() Distribucion {
	return Distribucion{
		BovedaMonte: d.BovedaMonte.Neg(),
		Fletes:      d.Fletes.Neg(),
		Utilidades:  d.Utilidades.Neg(),
		Total:       d.Total.Neg(),
	}
}
