package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/atrezzo-rental/almacen-api/internal/application/catalog"
	"github.com/atrezzo-rental/almacen-api/internal/application/ledger"
	"github.com/atrezzo-rental/almacen-api/internal/application/recon"
	"github.com/atrezzo-rental/almacen-api/internal/application/reporting"
	"github.com/atrezzo-rental/almacen-api/internal/infrastructure/metrics"
	"github.com/atrezzo-rental/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/atrezzo-rental/almacen-api/internal/interfaces/http"
	"github.com/atrezzo-rental/almacen-api/pkg/config"
	"github.com/atrezzo-rental/almacen-api/pkg/logger"
)

// runMigrations aplica las migraciones de migrations/ al arrancar.
func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if err := runMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Msg("migraciones aplicadas")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	operationRepo := postgres.NewOperationRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := ledger.NewUseCase(txRunner, itemRepo, operationRepo, log)
	categoryUC := catalog.NewCategoryUseCase(categoryRepo)
	itemUC := catalog.NewItemUseCase(itemRepo, categoryRepo, txRunner, ledgerUC)
	reconUC := recon.NewUseCase(txRunner, inventoryRepo, ledgerUC)
	reportUC := reporting.NewUseCase(reportRepo)

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
		CategoryUC: categoryUC,
		ItemUC:     itemUC,
		LedgerUC:   ledgerUC,
		ReconUC:    reconUC,
		ReportUC:   reportUC,
	})

	var metricsSrv *metrics.Server
	if cfg.Metrics.Enabled {
		metricsSrv = metrics.NewServer(cfg.Metrics.Addr)
		go func() {
			if err := metricsSrv.Start(); err != nil && err.Error() != "http: Server closed" {
				log.Error().Err(err).Msg("servidor de métricas finalizado")
			}
		}()
		log.Info().Str("addr", cfg.Metrics.Addr).Msg("métricas expuestas")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}

	log.Info().Msg("aplicación detenida")
}
