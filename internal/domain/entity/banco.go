package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Códigos de los tres bancos GYA. Los bancos independientes (ahorro/inversión)
// usan códigos libres con Tipo = BancoTipoIndependiente.
const (
	BancoBovedaMonte = "boveda_monte" // recuperación de costo
	BancoFletes      = "fletes"       // fletes
	BancoUtilidades  = "utilidades"   // utilidad
)

// Tipos de banco.
const (
	BancoTipoGYA           = "gya"
	BancoTipoIndependiente = "independiente"
)

// Tendencia mensual del flujo de un banco.
const (
	TendenciaSubiendo = "subiendo"
	TendenciaEstable  = "estable"
	TendenciaBajando  = "bajando"
)

// Banco es una cuenta del libro mayor que acumula una categoría de fondos.
//
// CapitalActual se mueve solo con dinero efectivamente cobrado (proporción
// pagada de cada venta), mientras que HistoricoIngresos registra la
// distribución completa comprometida al crear la venta aunque esté impaga.
// Por eso HistoricoIngresos - HistoricoGastos no tiene por qué coincidir con
// CapitalActual en ningún instante.
type Banco struct {
	ID     string
	Nombre string
	Codigo string
	Tipo   string

	CapitalActual     decimal.Decimal
	HistoricoIngresos decimal.Decimal
	HistoricoGastos   decimal.Decimal

	TransferenciasEntrada decimal.Decimal
	TransferenciasSalida  decimal.Decimal

	// Campos derivados: propiedad exclusiva del pipeline de métricas.
	IngresosHoy      decimal.Decimal
	GastosHoy        decimal.Decimal
	IngresosSemana   decimal.Decimal
	GastosSemana     decimal.Decimal
	IngresosMes      decimal.Decimal
	GastosMes        decimal.Decimal
	Tendencia        string
	ProyeccionDias30 decimal.Decimal
	ProyeccionDias90 decimal.Decimal
	DiasAgotamiento  int // 0 = sin riesgo de agotamiento
	SaludFinanciera  string

	CreatedAt time.Time
	UpdatedAt time.Time
}
