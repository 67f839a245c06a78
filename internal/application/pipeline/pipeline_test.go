package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyadistribucion/gya-api/internal/application/ledger"
	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/metrics"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
	"github.com/gyadistribucion/gya-api/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// registro acumula qué métricas escribió el pipeline.
type registro struct {
	mu             sync.Mutex
	clientes       map[string]metrics.MetricasCliente
	productos      map[string]metrics.MetricasProducto
	ordenes        map[string]metrics.MetricasOrden
	distribuidores map[string]metrics.MetricasDistribuidor
	bancos         map[string]metrics.MetricasBanco
}

func nuevoRegistro() *registro {
	return &registro{
		clientes:       map[string]metrics.MetricasCliente{},
		productos:      map[string]metrics.MetricasProducto{},
		ordenes:        map[string]metrics.MetricasOrden{},
		distribuidores: map[string]metrics.MetricasDistribuidor{},
		bancos:         map[string]metrics.MetricasBanco{},
	}
}

type agregadosStub struct {
	cliente metrics.AgregadosCliente
	banco   metrics.AgregadosBanco
}

func (a agregadosStub) AgregadosCliente(_ context.Context, _ string, _ time.Time) (metrics.AgregadosCliente, error) {
	return a.cliente, nil
}
func (a agregadosStub) AgregadosProducto(_ context.Context, _ string, _ int, _ time.Time) (metrics.AgregadosProducto, error) {
	return metrics.AgregadosProducto{
		Ingresos:         d("120000"),
		Costo:            d("60000"),
		Utilidad:         d("40000"),
		UnidadesVendidas: d("30"),
		StockActual:      d("10"),
		DiasPeriodo:      90,
	}, nil
}
func (a agregadosStub) AgregadosBanco(_ context.Context, _ string, _ time.Time) (metrics.AgregadosBanco, error) {
	return a.banco, nil
}
func (a agregadosStub) AgregadosDistribuidor(_ context.Context, _ string) (metrics.AgregadosDistribuidor, error) {
	return metrics.AgregadosDistribuidor{
		TotalOrdenado:     d("500000"),
		TotalPagado:       d("300000"),
		UtilidadRealizada: d("90000"),
		IngresosVentas:    d("450000"),
	}, nil
}
func (a agregadosStub) ResumenDashboard(_ context.Context, _ time.Time) (repository.ResumenDashboard, error) {
	return repository.ResumenDashboard{}, nil
}

type clientesReg struct{ r *registro }

func (c clientesReg) Create(*entity.Cliente) error                         { return nil }
func (c clientesReg) GetByID(string) (*entity.Cliente, error)              { return nil, nil }
func (c clientesReg) GetForUpdate(string) (*entity.Cliente, error)         { return nil, nil }
func (c clientesReg) AplicarDeltas(string, repository.ClienteDeltas) error { return nil }
func (c clientesReg) UpdateMetricas(id string, m metrics.MetricasCliente, _ *time.Time, _ time.Time) error {
	c.r.mu.Lock()
	defer c.r.mu.Unlock()
	c.r.clientes[id] = m
	return nil
}
func (c clientesReg) ListIDs() ([]string, error)               { return []string{"cli-1"}, nil }
func (c clientesReg) ListConDeuda() ([]*entity.Cliente, error) { return nil, nil }

type productosReg struct{ r *registro }

func (p productosReg) Create(*entity.Producto) error                 { return nil }
func (p productosReg) GetByID(string) (*entity.Producto, error)      { return nil, nil }
func (p productosReg) GetForUpdate(string) (*entity.Producto, error) { return nil, nil }
func (p productosReg) AjustarStock(string, decimal.Decimal) error    { return nil }
func (p productosReg) UpdateMetricas(id string, m metrics.MetricasProducto, _ time.Time) error {
	p.r.productos[id] = m
	return nil
}
func (p productosReg) ListIDs() ([]string, error) { return []string{"prod-1"}, nil }

type ordenesReg struct {
	r     *registro
	orden *entity.OrdenCompra
}

func (o ordenesReg) Create(*entity.OrdenCompra) error { return nil }
func (o ordenesReg) GetByID(id string) (*entity.OrdenCompra, error) {
	if o.orden != nil && o.orden.ID == id {
		return o.orden, nil
	}
	return nil, nil
}
func (o ordenesReg) GetForUpdate(string) (*entity.OrdenCompra, error) { return nil, nil }
func (o ordenesReg) AjustarStock(string, decimal.Decimal) error       { return nil }
func (o ordenesReg) AplicarPago(string, decimal.Decimal) error        { return nil }
func (o ordenesReg) UpdateRotacion(id string, m metrics.MetricasOrden, _ time.Time) error {
	o.r.ordenes[id] = m
	return nil
}
func (o ordenesReg) ListAbiertas() ([]*entity.OrdenCompra, error) { return nil, nil }
func (o ordenesReg) ListIDs() ([]string, error) {
	if o.orden != nil {
		return []string{o.orden.ID}, nil
	}
	return nil, nil
}

type distsReg struct{ r *registro }

func (dr distsReg) Create(*entity.Distribuidor) error            { return nil }
func (dr distsReg) GetByID(string) (*entity.Distribuidor, error) { return nil, nil }
func (dr distsReg) UpdateMetricas(id string, m metrics.MetricasDistribuidor, _ time.Time) error {
	dr.r.distribuidores[id] = m
	return nil
}
func (dr distsReg) ListIDs() ([]string, error) { return []string{"dist-1"}, nil }

type bancosReg struct{ r *registro }

func (b bancosReg) Create(*entity.Banco) error                       { return nil }
func (b bancosReg) GetByID(string) (*entity.Banco, error)            { return nil, nil }
func (b bancosReg) GetByCodigo(string) (*entity.Banco, error)        { return nil, nil }
func (b bancosReg) GetForUpdate(string) (*entity.Banco, error)       { return nil, nil }
func (b bancosReg) ListAll() ([]*entity.Banco, error)                { return []*entity.Banco{{ID: "b-monte"}}, nil }
func (b bancosReg) AplicarDeltas(string, repository.BancoDeltas) error { return nil }
func (b bancosReg) UpdateMetricas(id string, m metrics.MetricasBanco, _ time.Time) error {
	b.r.bancos[id] = m
	return nil
}

func nuevoPipeline(reg *registro, ag agregadosStub, orden *entity.OrdenCompra) *Pipeline {
	repos := &ledger.Repos{
		Clientes:       clientesReg{reg},
		Productos:      productosReg{reg},
		Ordenes:        ordenesReg{reg, orden},
		Distribuidores: distsReg{reg},
		Bancos:         bancosReg{reg},
	}
	return New(repos, ag, logger.Nop(), 8)
}

func TestProcesar_RecalculaTodasLasEntidadesDelEvento(t *testing.T) {
	reg := nuevoRegistro()
	ultimaCompra := time.Now().AddDate(0, 0, -5)
	ag := agregadosStub{
		cliente: metrics.AgregadosCliente{
			TotalCompras:      d("300000"),
			TotalPagado:       d("300000"),
			NumVentas:         10,
			VentasCompletas:   10,
			Compras6Meses:     18,
			UtilidadGenerada:  d("80000"),
			FechaUltimaCompra: &ultimaCompra,
		},
		banco: metrics.AgregadosBanco{
			CapitalActual: d("200000"),
			IngresosMes:   d("90000"),
			GastosMes:     d("30000"),
		},
	}
	orden := &entity.OrdenCompra{
		ID:               "oc-1",
		CantidadOriginal: d("100"),
		StockActual:      d("40"),
		FechaCompra:      time.Now().AddDate(0, 0, -30),
	}
	p := nuevoPipeline(reg, ag, orden)

	p.Procesar(context.Background(), ledger.Evento{
		Tipo:           ledger.EventoVenta,
		ClienteID:      "cli-1",
		ProductoID:     "prod-1",
		OrdenCompraID:  "oc-1",
		DistribuidorID: "dist-1",
		BancoIDs:       []string{"b-monte"},
	})

	// Cliente: pagó todo, compra 3/mes → score alto y categoría VIP.
	mc, ok := reg.clientes["cli-1"]
	require.True(t, ok)
	assert.Equal(t, entity.ClienteVIP, mc.Categoria)
	assert.True(t, mc.ScoreCredito.GreaterThanOrEqual(d("80")))

	// Producto: margen neto 33.33% y rotación alta.
	mp, ok := reg.productos["prod-1"]
	require.True(t, ok)
	assert.True(t, mp.MargenNeto.Equal(d("33.33")))
	assert.NotEmpty(t, mp.ClasificacionABC)

	// Orden: 60% vendida en 30 días → 0.5 días/unidad, excelente.
	mo, ok := reg.ordenes["oc-1"]
	require.True(t, ok)
	assert.True(t, mo.PorcentajeVendido.Equal(d("60")))
	assert.Equal(t, entity.RotacionExcelente, mo.EficienciaRotacion)

	// Distribuidor: saldo = ordenado − pagado; margen = 90000/450000.
	md, ok := reg.distribuidores["dist-1"]
	require.True(t, ok)
	assert.True(t, md.SaldoPendiente.Equal(d("200000")))
	assert.True(t, md.MargenPromedio.Equal(d("20")))

	// Banco: flujo positivo sin mes anterior → subiendo.
	mb, ok := reg.bancos["b-monte"]
	require.True(t, ok)
	assert.Equal(t, entity.TendenciaSubiendo, mb.Tendencia)
	assert.True(t, mb.ProyeccionDias30.Equal(d("260000")))
}

func TestPublicar_NoBloqueaConBufferLleno(t *testing.T) {
	reg := nuevoRegistro()
	p := nuevoPipeline(reg, agregadosStub{}, nil)

	// Sin workers arrancados: llenar el buffer y verificar que las
	// publicaciones extra retornan de inmediato en vez de bloquear.
	hecho := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			p.Publicar(ledger.Evento{Tipo: ledger.EventoAbono})
		}
		close(hecho)
	}()
	select {
	case <-hecho:
	case <-time.After(2 * time.Second):
		t.Fatal("Publicar bloqueó con el buffer lleno")
	}
}

func TestRecomputarTodo_BarreTodasLasEntidades(t *testing.T) {
	reg := nuevoRegistro()
	orden := &entity.OrdenCompra{
		ID:               "oc-1",
		CantidadOriginal: d("100"),
		StockActual:      d("100"),
		FechaCompra:      time.Now(),
	}
	p := nuevoPipeline(reg, agregadosStub{}, orden)

	require.NoError(t, p.RecomputarTodo(context.Background()))

	assert.Contains(t, reg.clientes, "cli-1")
	assert.Contains(t, reg.productos, "prod-1")
	assert.Contains(t, reg.ordenes, "oc-1")
	assert.Contains(t, reg.distribuidores, "dist-1")
	assert.Contains(t, reg.bancos, "b-monte")
}

func TestStart_ProcesaEventosEncolados(t *testing.T) {
	reg := nuevoRegistro()
	p := nuevoPipeline(reg, agregadosStub{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx, 2)

	p.Publicar(ledger.Evento{Tipo: ledger.EventoAbono, ClienteID: "cli-1"})

	require.Eventually(t, func() bool {
		reg.mu.Lock()
		defer reg.mu.Unlock()
		_, ok := reg.clientes["cli-1"]
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	p.Wait()
}
