package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/domain/metrics"
)

// ResumenDashboard es el agregado de solo lectura que alimenta el dashboard.
type ResumenDashboard struct {
	VentasHoy        int64
	IngresosHoy      decimal.Decimal
	DeudaTotal       decimal.Decimal
	VentasPendientes int64
}

// MetricsRepository agrega el estado del libro mayor para el pipeline de
// métricas derivadas. Solo lectura; consultas fuera del camino de escritura.
type MetricsRepository interface {
	AgregadosCliente(ctx context.Context, clienteID string, ahora time.Time) (metrics.AgregadosCliente, error)
	AgregadosProducto(ctx context.Context, productoID string, dias int, ahora time.Time) (metrics.AgregadosProducto, error)
	AgregadosBanco(ctx context.Context, bancoID string, ahora time.Time) (metrics.AgregadosBanco, error)
	AgregadosDistribuidor(ctx context.Context, distribuidorID string) (metrics.AgregadosDistribuidor, error)
	ResumenDashboard(ctx context.Context, ahora time.Time) (ResumenDashboard, error)
}
