package metrics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/metrics"
)

var ahora = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func hace(dias int) *time.Time {
	t := ahora.AddDate(0, 0, -dias)
	return &t
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ──────────────────────────────────────────────────────────────────────────────
// Cliente
// ──────────────────────────────────────────────────────────────────────────────

// Precedencia: moroso gana aunque el resto del perfil sea excelente.
func TestCalcularCliente_MorosoTienePrecedencia(t *testing.T) {
	m := metrics.CalcularCliente(metrics.AgregadosCliente{
		TotalCompras:      dec(500000),
		TotalPagado:       dec(400000),
		SaldoPendiente:    dec(100000),
		NumVentas:         20,
		VentasCompletas:   18,
		Compras6Meses:     15,
		UtilidadGenerada:  dec(120000),
		FechaUltimaCompra: hace(45),
	}, ahora)

	assert.Equal(t, entity.ClienteMoroso, m.Categoria,
		"deuda + más de 30 días sin comprar debe clasificar como moroso")
	assert.Equal(t, 45, m.DiasSinComprar)
}

func TestCalcularCliente_InactivoSinDeuda(t *testing.T) {
	m := metrics.CalcularCliente(metrics.AgregadosCliente{
		TotalCompras:      dec(200000),
		TotalPagado:       dec(200000),
		NumVentas:         5,
		VentasCompletas:   5,
		FechaUltimaCompra: hace(120),
	}, ahora)

	assert.Equal(t, entity.ClienteInactivo, m.Categoria)
}

func TestCalcularCliente_VIP(t *testing.T) {
	m := metrics.CalcularCliente(metrics.AgregadosCliente{
		TotalCompras:      dec(900000),
		TotalPagado:       dec(900000),
		NumVentas:         30,
		VentasCompletas:   30,
		Compras6Meses:     18, // 3/mes
		UtilidadGenerada:  dec(80000),
		FechaUltimaCompra: hace(3),
	}, ahora)

	assert.Equal(t, entity.ClienteVIP, m.Categoria)
	assert.True(t, m.ScoreCredito.GreaterThanOrEqual(dec(80)),
		"perfil perfecto debe puntuar al menos 80, fue %s", m.ScoreCredito)
}

func TestCalcularCliente_NuevoPorBajaFrecuencia(t *testing.T) {
	m := metrics.CalcularCliente(metrics.AgregadosCliente{
		TotalCompras:      dec(50000),
		TotalPagado:       dec(50000),
		NumVentas:         1,
		VentasCompletas:   1,
		Compras6Meses:     1, // 0.1667/mes < 0.5
		FechaUltimaCompra: hace(10),
	}, ahora)

	assert.Equal(t, entity.ClienteNuevo, m.Categoria)
}

func TestCalcularCliente_SinVentas(t *testing.T) {
	m := metrics.CalcularCliente(metrics.AgregadosCliente{}, ahora)

	assert.True(t, m.TicketPromedio.IsZero())
	assert.True(t, m.PorcentajePuntual.IsZero())
	assert.Equal(t, entity.ClienteNuevo, m.Categoria)
}

// Idempotencia: dos ejecuciones sobre el mismo agregado dan el mismo resultado.
func TestCalcularCliente_Idempotente(t *testing.T) {
	a := metrics.AgregadosCliente{
		TotalCompras:      dec(300000),
		TotalPagado:       dec(250000),
		SaldoPendiente:    dec(50000),
		NumVentas:         10,
		VentasCompletas:   7,
		Compras6Meses:     8,
		FechaUltimaCompra: hace(5),
	}
	m1 := metrics.CalcularCliente(a, ahora)
	m2 := metrics.CalcularCliente(a, ahora)
	assert.Equal(t, m1, m2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Producto
// ──────────────────────────────────────────────────────────────────────────────

func TestCalcularProducto_ClaseA(t *testing.T) {
	m := metrics.CalcularProducto(metrics.AgregadosProducto{
		Ingresos:         dec(200000),
		Costo:            dec(100000),
		Fletes:           dec(10000),
		Utilidad:         dec(90000),
		UnidadesVendidas: dec(100),
		StockActual:      dec(20),
		DiasPeriodo:      90,
	}, ahora)

	assert.Equal(t, entity.ClaseA, m.ClasificacionABC,
		"margen alto + rotación alta + demanda alta debe ser clase A (score %s)", m.ScoreABC)
	assert.True(t, m.MargenNeto.Equal(dec(45)), "90000/200000 = 45%%")
}

func TestCalcularProducto_ClaseC_SinVentas(t *testing.T) {
	m := metrics.CalcularProducto(metrics.AgregadosProducto{
		StockActual: dec(50),
		DiasPeriodo: 90,
	}, ahora)

	assert.Equal(t, entity.ClaseC, m.ClasificacionABC)
	assert.True(t, m.RotacionAnual.IsZero())
}

func TestCalcularProducto_DiasStock(t *testing.T) {
	// 90 unidades en 90 días = 1/día; 30 en stock → 30 días restantes
	m := metrics.CalcularProducto(metrics.AgregadosProducto{
		Ingresos:         dec(9000),
		Costo:            dec(4500),
		Utilidad:         dec(4000),
		UnidadesVendidas: dec(90),
		StockActual:      dec(30),
		DiasPeriodo:      90,
	}, ahora)

	assert.True(t, m.DiasStockRestante.Equal(dec(30)), "fue %s", m.DiasStockRestante)
}

func TestCalcularProducto_VentanaSeAcortaParaProductoJoven(t *testing.T) {
	// Primera venta hace 9 días: la venta diaria sale de 10 días de vida,
	// no de los 90 de la ventana. 30 unidades / 10 días = 3/día.
	m := metrics.CalcularProducto(metrics.AgregadosProducto{
		Ingresos:         dec(30000),
		Costo:            dec(15000),
		Utilidad:         dec(12000),
		UnidadesVendidas: dec(30),
		StockActual:      dec(30),
		DiasPeriodo:      90,
		PrimeraVenta:     hace(9),
	}, ahora)

	assert.True(t, m.DiasStockRestante.Equal(dec(10)), "fue %s", m.DiasStockRestante)
	assert.True(t, m.RotacionAnual.Equal(decimal.RequireFromString("36.5")),
		"3/día × 365 / 30 en stock; fue %s", m.RotacionAnual)
}

func TestCalcularProducto_PrimeraVentaAnteriorALaVentanaNoCambiaNada(t *testing.T) {
	base := metrics.AgregadosProducto{
		Ingresos:         dec(9000),
		Costo:            dec(4500),
		Utilidad:         dec(4000),
		UnidadesVendidas: dec(90),
		StockActual:      dec(30),
		DiasPeriodo:      90,
	}
	sinFecha := metrics.CalcularProducto(base, ahora)

	base.PrimeraVenta = hace(400)
	conFecha := metrics.CalcularProducto(base, ahora)

	assert.True(t, sinFecha.RotacionAnual.Equal(conFecha.RotacionAnual))
	assert.True(t, sinFecha.DiasStockRestante.Equal(conFecha.DiasStockRestante))
}

// ──────────────────────────────────────────────────────────────────────────────
// Banco
// ──────────────────────────────────────────────────────────────────────────────

func TestCalcularBanco_TendenciaConUmbral(t *testing.T) {
	casos := []struct {
		nombre             string
		mesActual, mesPrev int64
		esperada           string
	}{
		{"sube más de 10%", 120, 100, entity.TendenciaSubiendo},
		{"dentro de banda", 105, 100, entity.TendenciaEstable},
		{"cae más de 10%", 80, 100, entity.TendenciaBajando},
		{"justo en +10%", 110, 100, entity.TendenciaEstable},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			m := metrics.CalcularBanco(metrics.AgregadosBanco{
				CapitalActual: dec(50000),
				IngresosMes:   dec(c.mesActual),
				IngresosMesAnterior: dec(c.mesPrev),
			})
			assert.Equal(t, c.esperada, m.Tendencia)
		})
	}
}

func TestCalcularBanco_ProyeccionesLineales(t *testing.T) {
	m := metrics.CalcularBanco(metrics.AgregadosBanco{
		CapitalActual: dec(100000),
		IngresosMes:   dec(30000),
		GastosMes:     dec(10000),
	})

	assert.True(t, m.ProyeccionDias30.Equal(dec(120000)))
	assert.True(t, m.ProyeccionDias90.Equal(dec(160000)))
	assert.Equal(t, 0, m.DiasAgotamiento, "flujo positivo no proyecta agotamiento")
}

func TestCalcularBanco_DiasAgotamiento(t *testing.T) {
	// Flujo neto -30.000/mes = -1.000/día; capital 60.000 → 60 días
	m := metrics.CalcularBanco(metrics.AgregadosBanco{
		CapitalActual: dec(60000),
		IngresosMes:   dec(0),
		GastosMes:     dec(30000),
	})

	assert.Equal(t, 60, m.DiasAgotamiento)
}

func TestCalcularBanco_PorcentajesDeOrigen(t *testing.T) {
	m := metrics.CalcularBanco(metrics.AgregadosBanco{
		CapitalActual: dec(10000),
		IngresosMes:   dec(1000),
		IngresosPorOrigen: map[string]decimal.Decimal{
			entity.MovimientoDistribucionGYA: dec(750),
			entity.MovimientoAbono:           dec(250),
		},
	})

	assert.True(t, m.PorcentajeOrigen[entity.MovimientoDistribucionGYA].Equal(dec(75)))
	assert.True(t, m.PorcentajeOrigen[entity.MovimientoAbono].Equal(dec(25)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden de compra
// ──────────────────────────────────────────────────────────────────────────────

func TestCalcularOrden_BucketsDeEficiencia(t *testing.T) {
	casos := []struct {
		nombre   string
		dias     int
		original int64
		stock    int64
		esperada string
	}{
		{"excelente", 10, 100, 90, entity.RotacionExcelente}, // 10/10 = 1 día/unidad
		{"buena", 30, 100, 97, entity.RotacionBuena},          // 30/3 = 10
		{"normal", 60, 100, 97, entity.RotacionNormal},        // 60/3 = 20
		{"lenta", 50, 100, 99, entity.RotacionLenta},          // 50/1 = 50
		{"muy lenta", 90, 100, 99, entity.RotacionMuyLenta},   // 90/1 = 90
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			m := metrics.CalcularOrden(dec(c.original), dec(c.stock),
				ahora.AddDate(0, 0, -c.dias), ahora)
			assert.Equal(t, c.esperada, m.EficienciaRotacion)
			assert.Equal(t, c.dias, m.DiasDesdeCompra)
		})
	}
}

func TestCalcularOrden_PorcentajeVendido(t *testing.T) {
	m := metrics.CalcularOrden(dec(200), dec(50), ahora.AddDate(0, 0, -20), ahora)
	assert.True(t, m.PorcentajeVendido.Equal(dec(75)), "150 de 200 = 75%%")
}

func TestCalcularDistribuidor(t *testing.T) {
	m := metrics.CalcularDistribuidor(metrics.AgregadosDistribuidor{
		TotalOrdenado:     dec(500000),
		TotalPagado:       dec(300000),
		StockTotal:        dec(120),
		UtilidadRealizada: dec(40000),
		IngresosVentas:    dec(200000),
	})

	assert.True(t, m.SaldoPendiente.Equal(dec(200000)))
	assert.True(t, m.MargenPromedio.Equal(dec(20)), "40000/200000 = 20%%")
}
