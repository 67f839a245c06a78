package alert

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/metrics"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
	"github.com/gyadistribucion/gya-api/pkg/config"
	"github.com/gyadistribucion/gya-api/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type alertasStub struct {
	porID map[string]*entity.Alerta
}

func nuevasAlertas() *alertasStub { return &alertasStub{porID: map[string]*entity.Alerta{}} }

func (a *alertasStub) Create(al *entity.Alerta) error {
	c := *al
	a.porID[al.ID] = &c
	return nil
}
func (a *alertasStub) FindActiva(tipo, entidadID string) (*entity.Alerta, error) {
	for _, al := range a.porID {
		if al.Estado == entity.AlertaActiva && al.Tipo == tipo && al.EntidadID == entidadID {
			c := *al
			return &c, nil
		}
	}
	return nil, nil
}
func (a *alertasStub) ListActivas() ([]*entity.Alerta, error) {
	var out []*entity.Alerta
	for _, al := range a.porID {
		if al.Estado == entity.AlertaActiva {
			c := *al
			out = append(out, &c)
		}
	}
	return out, nil
}
func (a *alertasStub) ListPorEstado(estado string, limit int) ([]*entity.Alerta, error) {
	var out []*entity.Alerta
	for _, al := range a.porID {
		if al.Estado == estado {
			c := *al
			out = append(out, &c)
		}
	}
	return out, nil
}
func (a *alertasStub) Resolver(id string, cuando time.Time) error {
	a.porID[id].Estado = entity.AlertaResuelta
	a.porID[id].ResueltaAt = &cuando
	return nil
}
func (a *alertasStub) Descartar(id string, cuando time.Time) error {
	a.porID[id].Estado = entity.AlertaDescartada
	a.porID[id].ResueltaAt = &cuando
	return nil
}

type ordenesStub struct{ abiertas []*entity.OrdenCompra }

func (o *ordenesStub) Create(*entity.OrdenCompra) error                  { return nil }
func (o *ordenesStub) GetByID(string) (*entity.OrdenCompra, error)      { return nil, nil }
func (o *ordenesStub) GetForUpdate(string) (*entity.OrdenCompra, error) { return nil, nil }
func (o *ordenesStub) AjustarStock(string, decimal.Decimal) error       { return nil }
func (o *ordenesStub) AplicarPago(string, decimal.Decimal) error        { return nil }
func (o *ordenesStub) UpdateRotacion(string, metrics.MetricasOrden, time.Time) error {
	return nil
}
func (o *ordenesStub) ListAbiertas() ([]*entity.OrdenCompra, error) { return o.abiertas, nil }
func (o *ordenesStub) ListIDs() ([]string, error)                   { return nil, nil }

type clientesStub struct{ conDeuda []*entity.Cliente }

func (c *clientesStub) Create(*entity.Cliente) error                    { return nil }
func (c *clientesStub) GetByID(string) (*entity.Cliente, error)         { return nil, nil }
func (c *clientesStub) GetForUpdate(string) (*entity.Cliente, error)    { return nil, nil }
func (c *clientesStub) AplicarDeltas(string, repository.ClienteDeltas) error { return nil }
func (c *clientesStub) UpdateMetricas(string, metrics.MetricasCliente, *time.Time, time.Time) error {
	return nil
}
func (c *clientesStub) ListIDs() ([]string, error)                { return nil, nil }
func (c *clientesStub) ListConDeuda() ([]*entity.Cliente, error)  { return c.conDeuda, nil }

var cfgPrueba = config.AlertasConfig{
	StockUmbralPct:      20,
	ScanIntervalMinutes: 15,
	DiasMora:            30,
	DiasMoraCritica:     60,
}

func orden(id string, original, stock string) *entity.OrdenCompra {
	return &entity.OrdenCompra{
		ID:               id,
		CantidadOriginal: d(original),
		StockActual:      d(stock),
		Estado:           entity.OrdenAbierta,
	}
}

func TestScan_AbreAlertaDeStockBajo(t *testing.T) {
	alertas := nuevasAlertas()
	ordenes := &ordenesStub{abiertas: []*entity.OrdenCompra{
		orden("oc-ok", "100", "80"),   // 80%: sin alerta
		orden("oc-baja", "100", "15"), // 15%: advertencia
		orden("oc-cero", "100", "0"),  // agotada: crítica
	}}
	e := NewEngine(alertas, ordenes, &clientesStub{}, cfgPrueba, logger.Nop())

	require.NoError(t, e.Scan(time.Now()))

	activas, _ := alertas.ListActivas()
	require.Len(t, activas, 2)

	baja, _ := alertas.FindActiva(entity.AlertaStockBajo, "oc-baja")
	require.NotNil(t, baja)
	assert.Equal(t, entity.SeveridadAdvertencia, baja.Severidad)

	cero, _ := alertas.FindActiva(entity.AlertaStockBajo, "oc-cero")
	require.NotNil(t, cero)
	assert.Equal(t, entity.SeveridadCritica, cero.Severidad)
}

func TestScan_DeduplicaMientrasSigueActiva(t *testing.T) {
	alertas := nuevasAlertas()
	ordenes := &ordenesStub{abiertas: []*entity.OrdenCompra{orden("oc-baja", "100", "10")}}
	e := NewEngine(alertas, ordenes, &clientesStub{}, cfgPrueba, logger.Nop())

	require.NoError(t, e.Scan(time.Now()))
	require.NoError(t, e.Scan(time.Now()))
	require.NoError(t, e.Scan(time.Now()))

	activas, _ := alertas.ListActivas()
	assert.Len(t, activas, 1, "escaneos repetidos no duplican la alerta")
}

func TestScan_AutoResuelveCuandoLaCondicionDesaparece(t *testing.T) {
	alertas := nuevasAlertas()
	ordenes := &ordenesStub{abiertas: []*entity.OrdenCompra{orden("oc-baja", "100", "10")}}
	e := NewEngine(alertas, ordenes, &clientesStub{}, cfgPrueba, logger.Nop())

	require.NoError(t, e.Scan(time.Now()))
	activas, _ := alertas.ListActivas()
	require.Len(t, activas, 1)

	// Reposición: el stock vuelve sobre el umbral.
	ordenes.abiertas[0].StockActual = d("90")
	require.NoError(t, e.Scan(time.Now()))

	activas, _ = alertas.ListActivas()
	assert.Empty(t, activas)
	resueltas, _ := alertas.ListPorEstado(entity.AlertaResuelta, 10)
	assert.Len(t, resueltas, 1)
}

func TestScan_ClienteMorosoPorDiasSinComprar(t *testing.T) {
	ahora := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	hace := func(dias int) *time.Time {
		f := ahora.AddDate(0, 0, -dias)
		return &f
	}
	alertas := nuevasAlertas()
	clientes := &clientesStub{conDeuda: []*entity.Cliente{
		{ID: "cli-reciente", Nombre: "Al día", SaldoPendiente: d("50000"), FechaUltimaCompra: hace(10)},
		{ID: "cli-moroso", Nombre: "Moroso", SaldoPendiente: d("80000"), FechaUltimaCompra: hace(45)},
		{ID: "cli-critico", Nombre: "Crítico", SaldoPendiente: d("120000"), FechaUltimaCompra: hace(90)},
	}}
	e := NewEngine(alertas, &ordenesStub{}, clientes, cfgPrueba, logger.Nop())

	require.NoError(t, e.Scan(ahora))

	reciente, _ := alertas.FindActiva(entity.AlertaClienteMoroso, "cli-reciente")
	assert.Nil(t, reciente)

	moroso, _ := alertas.FindActiva(entity.AlertaClienteMoroso, "cli-moroso")
	require.NotNil(t, moroso)
	assert.Equal(t, entity.SeveridadAdvertencia, moroso.Severidad)

	critico, _ := alertas.FindActiva(entity.AlertaClienteMoroso, "cli-critico")
	require.NotNil(t, critico)
	assert.Equal(t, entity.SeveridadCritica, critico.Severidad)
}

func TestDescartar_NoSeReabreEnElMismoEstado(t *testing.T) {
	alertas := nuevasAlertas()
	ordenes := &ordenesStub{abiertas: []*entity.OrdenCompra{orden("oc-baja", "100", "10")}}
	e := NewEngine(alertas, ordenes, &clientesStub{}, cfgPrueba, logger.Nop())

	require.NoError(t, e.Scan(time.Now()))
	activas, _ := alertas.ListActivas()
	require.Len(t, activas, 1)
	require.NoError(t, e.Descartar(activas[0].ID))

	// Mientras la condición persista, el siguiente escaneo vuelve a abrirla:
	// descartar silencia la alerta vigente, no la regla.
	require.NoError(t, e.Scan(time.Now()))
	activas, _ = alertas.ListActivas()
	assert.Len(t, activas, 1)
}

func TestScan_StockExactoEnElUmbralAbreAlerta(t *testing.T) {
	alertas := nuevasAlertas()
	ordenes := &ordenesStub{abiertas: []*entity.OrdenCompra{
		orden("oc-umbral", "100", "20"), // 20% = umbral exacto: alerta
		orden("oc-encima", "100", "21"), // 21%: sin alerta
	}}
	e := NewEngine(alertas, ordenes, &clientesStub{}, cfgPrueba, logger.Nop())

	require.NoError(t, e.Scan(time.Now()))

	enUmbral, _ := alertas.FindActiva(entity.AlertaStockBajo, "oc-umbral")
	require.NotNil(t, enUmbral, "el umbral es inclusivo: 20% con umbral 20 alerta")
	assert.Equal(t, entity.SeveridadAdvertencia, enUmbral.Severidad)

	encima, _ := alertas.FindActiva(entity.AlertaStockBajo, "oc-encima")
	assert.Nil(t, encima)
}

func TestScan_MorosidadEnLosLimitesDeDias(t *testing.T) {
	ahora := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	hace := func(dias int) *time.Time {
		f := ahora.AddDate(0, 0, -dias)
		return &f
	}
	alertas := nuevasAlertas()
	clientes := &clientesStub{conDeuda: []*entity.Cliente{
		{ID: "cli-30", Nombre: "Treinta", SaldoPendiente: d("10000"), FechaUltimaCompra: hace(30)},
		{ID: "cli-31", Nombre: "Treintaiuno", SaldoPendiente: d("10000"), FechaUltimaCompra: hace(31)},
		{ID: "cli-60", Nombre: "Sesenta", SaldoPendiente: d("10000"), FechaUltimaCompra: hace(60)},
		{ID: "cli-61", Nombre: "Sesentaiuno", SaldoPendiente: d("10000"), FechaUltimaCompra: hace(61)},
	}}
	e := NewEngine(alertas, &ordenesStub{}, clientes, cfgPrueba, logger.Nop())

	require.NoError(t, e.Scan(ahora))

	// La mora empieza pasado el límite, no en el día exacto.
	treinta, _ := alertas.FindActiva(entity.AlertaClienteMoroso, "cli-30")
	assert.Nil(t, treinta)

	treintaiuno, _ := alertas.FindActiva(entity.AlertaClienteMoroso, "cli-31")
	require.NotNil(t, treintaiuno)
	assert.Equal(t, entity.SeveridadAdvertencia, treintaiuno.Severidad)

	// Igual para la escalada: a los 60 sigue en advertencia, a los 61 es crítica.
	sesenta, _ := alertas.FindActiva(entity.AlertaClienteMoroso, "cli-60")
	require.NotNil(t, sesenta)
	assert.Equal(t, entity.SeveridadAdvertencia, sesenta.Severidad)

	sesentaiuno, _ := alertas.FindActiva(entity.AlertaClienteMoroso, "cli-61")
	require.NotNil(t, sesentaiuno)
	assert.Equal(t, entity.SeveridadCritica, sesentaiuno.Severidad)
}
