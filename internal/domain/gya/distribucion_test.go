package gya_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyadistribucion/gya-api/internal/domain"
	"github.com/gyadistribucion/gya-api/internal/domain/gya"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// Escenario de referencia: 3 unidades a 28.000 con costo 20.000 y flete 500.
func TestDistribuir_EscenarioReferencia(t *testing.T) {
	dist, err := gya.Distribuir(d(3), d(28000), d(20000), d(500))
	require.NoError(t, err)

	assert.True(t, dist.Total.Equal(d(84000)), "total = 3 × 28000")
	assert.True(t, dist.BovedaMonte.Equal(d(60000)), "costo = 3 × 20000")
	assert.True(t, dist.Fletes.Equal(d(1500)), "fletes = 3 × 500")
	assert.True(t, dist.Utilidades.Equal(d(22500)), "utilidad = 84000 − 60000 − 1500")
}

// Invariante: los tres cubos suman exactamente el total para cualquier entrada válida.
func TestDistribuir_SumaSiempreIgualTotal(t *testing.T) {
	casos := []struct {
		nombre                        string
		cantidad, venta, compra, flete decimal.Decimal
	}{
		{"enteros", d(7), d(13500), d(9000), d(250)},
		{"cantidad fraccionaria", decimal.NewFromFloat(2.5), d(1000), d(600), d(40)},
		{"precios con centavos", d(11), decimal.NewFromFloat(99.99), decimal.NewFromFloat(55.55), decimal.NewFromFloat(1.11)},
		{"sin flete", d(4), d(500), d(300), decimal.Zero},
		{"utilidad cero", d(2), d(100), d(90), d(10)},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			dist, err := gya.Distribuir(c.cantidad, c.venta, c.compra, c.flete)
			require.NoError(t, err)
			assert.True(t, dist.Suma().Equal(dist.Total),
				"boveda+fletes+utilidades debe igualar el total: %s vs %s", dist.Suma(), dist.Total)
		})
	}
}

func TestDistribuir_MargenNegativoRechazado(t *testing.T) {
	// costo + flete = 20500 > 20000 de venta
	_, err := gya.Distribuir(d(3), d(20000), d(20000), d(500))
	assert.ErrorIs(t, err, domain.ErrMargenNegativo)
}

func TestDistribuir_EntradasInvalidas(t *testing.T) {
	_, err := gya.Distribuir(decimal.Zero, d(100), d(50), d(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = gya.Distribuir(d(1), d(-100), d(50), d(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")
}

// Proporcional con fracción 0.5 debe devolver exactamente la mitad de cada cubo.
func TestProporcional_MitadExacta(t *testing.T) {
	dist, err := gya.Distribuir(d(3), d(28000), d(20000), d(500))
	require.NoError(t, err)

	mitad := gya.Proporcional(dist, decimal.NewFromFloat(0.5))
	assert.True(t, mitad.BovedaMonte.Equal(d(30000)))
	assert.True(t, mitad.Fletes.Equal(d(750)))
	assert.True(t, mitad.Utilidades.Equal(d(11250)))
	assert.True(t, mitad.Total.Equal(d(42000)))
}

// La misma fórmula proporcional aplicada con la fracción de un abono debe
// preservar las razones GYA de la venta original.
func TestProporcional_PreservaRazones(t *testing.T) {
	dist, err := gya.Distribuir(d(10), d(150), d(100), d(10))
	require.NoError(t, err)

	fraccion := gya.FraccionPagada(d(600), dist.Total) // 600 de 1500 = 0.4
	parte := gya.Proporcional(dist, fraccion)

	assert.True(t, parte.Suma().Round(6).Equal(d(600).Round(6)),
		"el sub-split del abono debe sumar el monto abonado")
	assert.True(t, parte.BovedaMonte.Equal(d(400)), "40%% del costo")
	assert.True(t, parte.Fletes.Equal(d(40)))
	assert.True(t, parte.Utilidades.Equal(d(160)))
}

func TestFraccionPagada_Acotada(t *testing.T) {
	assert.True(t, gya.FraccionPagada(d(50), d(100)).Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, gya.FraccionPagada(d(0), d(100)).IsZero())
	assert.True(t, gya.FraccionPagada(d(150), d(100)).Equal(d(1)), "se acota a 1")
	assert.True(t, gya.FraccionPagada(d(50), decimal.Zero).IsZero(), "total cero no divide")
	assert.True(t, gya.FraccionPagada(d(-10), d(100)).IsZero(), "negativo se acota a 0")
}

func TestNeg_InvierteSignos(t *testing.T) {
	dist, err := gya.Distribuir(d(2), d(100), d(60), d(5))
	require.NoError(t, err)

	neg := dist.Neg()
	assert.True(t, neg.BovedaMonte.Equal(d(-120)))
	assert.True(t, neg.Total.Equal(d(-200)))
	assert.True(t, neg.Suma().Equal(neg.Total))
}
