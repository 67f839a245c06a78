package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gyadistribucion/gya-api/internal/application/alert"
	"github.com/gyadistribucion/gya-api/internal/application/audit"
	"github.com/gyadistribucion/gya-api/internal/application/dashboard"
	"github.com/gyadistribucion/gya-api/internal/application/ledger"
	"github.com/gyadistribucion/gya-api/internal/application/pipeline"
	"github.com/gyadistribucion/gya-api/internal/infrastructure/cache"
	infrapdf "github.com/gyadistribucion/gya-api/internal/infrastructure/pdf"
	"github.com/gyadistribucion/gya-api/internal/infrastructure/postgres"
	httpRouter "github.com/gyadistribucion/gya-api/internal/interfaces/http"
	"github.com/gyadistribucion/gya-api/pkg/config"
	"github.com/gyadistribucion/gya-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	rdb, err := cache.NewRedis(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer rdb.Close()
	cacheTTL := time.Duration(cfg.Redis.CacheTTLSec) * time.Second
	readCache := cache.New(rdb, cacheTTL, log)

	// Repos contra el pool para lecturas; el motor usa el TxRunner.
	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)
	metricsRepo := postgres.NewMetricsRepository(pool)

	// Pipeline de métricas derivadas: consume los eventos post-commit del motor.
	metricsPipeline := pipeline.New(repos, metricsRepo, log, 0)
	metricsPipeline.Start(ctx, 0)

	recorder := audit.NewRecorder(log)
	engine := ledger.NewEngine(txRunner, recorder, metricsPipeline, log)
	queries := ledger.NewQueries(repos)

	alertaRepo := postgres.NewAlertaRepository(pool)
	alertEngine := alert.NewEngine(alertaRepo, repos.Ordenes, repos.Clientes, cfg.Alertas, log)

	// Scan programado de alertas.
	scanInterval := time.Duration(cfg.Alertas.ScanIntervalMinutes) * time.Minute
	go func() {
		ticker := time.NewTicker(scanInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := alertEngine.Scan(time.Now()); err != nil {
					log.Error().Err(err).Msg("scan de alertas")
				}
			}
		}
	}()

	dashboardUC := dashboard.NewUsecase(metricsRepo, repos.Bancos, alertaRepo)
	recibos := infrapdf.NewReciboGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:      engine,
		Queries:     queries,
		AlertEngine: alertEngine,
		Pipeline:    metricsPipeline,
		DashboardUC: dashboardUC,
		Recibos:     recibos,
		Cache:       readCache,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// Parar el pipeline y esperar a que drene los eventos en vuelo.
	cancel()
	metricsPipeline.Wait()

	log.Info().Msg("aplicación detenida")
}
