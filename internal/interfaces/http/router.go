package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/gyadistribucion/gya-api/internal/application/alert"
	"github.com/gyadistribucion/gya-api/internal/application/dashboard"
	"github.com/gyadistribucion/gya-api/internal/application/ledger"
	"github.com/gyadistribucion/gya-api/internal/application/pipeline"
	"github.com/gyadistribucion/gya-api/internal/infrastructure/cache"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine      *ledger.Engine
	Queries     *ledger.Queries
	AlertEngine *alert.Engine
	Pipeline    *pipeline.Pipeline
	DashboardUC *dashboard.Usecase
	Recibos     ReciboGenerator
	Cache       *cache.Cache
	JWTSecret   string
}

// Router registra las rutas de la API. Todo va protegido con Bearer Token;
// las escrituras llevan además rate limiting y las operaciones destructivas
// exigen rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Limita escrituras por IP; las lecturas no pasan por aquí.
	escrituras := limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	})

	// Ventas
	ventas := api.Group("/ventas")
	ventaHandler := NewVentaHandler(deps.Engine, deps.Queries, deps.Recibos, deps.Cache)
	ventas.Get("/", ventaHandler.List)
	ventas.Post("/", escrituras, ventaHandler.Create)
	ventas.Get("/:id", ventaHandler.GetByID)
	ventas.Put("/:id", escrituras, RequireRole(RolAdmin), ventaHandler.Corregir)
	ventas.Delete("/:id", escrituras, RequireRole(RolAdmin), ventaHandler.Eliminar)
	ventas.Post("/:id/abonos", escrituras, ventaHandler.Abono)
	ventas.Post("/:id/devoluciones", escrituras, ventaHandler.Devolucion)
	ventas.Get("/:id/recibo", ventaHandler.Recibo)
	ventas.Get("/:id/auditoria", ventaHandler.Auditoria)

	// Bancos
	bancos := api.Group("/bancos")
	bancoHandler := NewBancoHandler(deps.Engine, deps.Queries, deps.Cache)
	bancos.Get("/", bancoHandler.List)
	bancos.Get("/:id/movimientos", bancoHandler.Movimientos)
	bancos.Post("/transferencias", escrituras, bancoHandler.Transferir)

	// Órdenes de compra (pagos a distribuidores)
	ordenes := api.Group("/ordenes")
	ordenHandler := NewOrdenHandler(deps.Engine, deps.Cache)
	ordenes.Post("/:id/pagos", escrituras, ordenHandler.Pagar)

	// Alertas
	alertas := api.Group("/alertas")
	alertaHandler := NewAlertaHandler(deps.AlertEngine)
	alertas.Get("/", alertaHandler.List)
	alertas.Post("/scan", alertaHandler.Scan)
	alertas.Put("/:id/resolver", alertaHandler.Resolver)
	alertas.Put("/:id/descartar", alertaHandler.Descartar)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Cache)
	api.Get("/dashboard", dashboardHandler.Get)

	// Métricas (recálculo manual, solo admin)
	metricasHandler := NewMetricasHandler(deps.Pipeline)
	api.Post("/metricas/recalcular", RequireRole(RolAdmin), metricasHandler.Recalcular)
}
