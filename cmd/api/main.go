package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hibiken/asynq"

	"github.com/jhoicas/campus-store/internal/application/auth"
	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/infrastructure/backend"
	"github.com/jhoicas/campus-store/internal/infrastructure/jobs"
	"github.com/jhoicas/campus-store/internal/infrastructure/redislock"
	httpRouter "github.com/jhoicas/campus-store/internal/interfaces/http"
	"github.com/jhoicas/campus-store/pkg/config"
	"github.com/jhoicas/campus-store/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("backend de almacenamiento")
	}
	defer be.Close()

	// Bloqueo por artículo en Redis (opcional, para varias réplicas de la API)
	var locker store.ItemLocker
	if cfg.Redis.LockEnabled {
		rdb, err := redislock.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = redislock.New(rdb, redislock.OptionsFor(cfg.Store.LockTimeout), logger.Component(log, "redislock"))
	}

	// Avisos de stock bajo: cola asynq o descarte
	var notifier store.LowStockNotifier = jobs.NopNotifier{}
	if cfg.Jobs.Enabled {
		client := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		notifier = jobs.NewNotifier(client, cfg.Jobs.Queue)
	}

	storeCfg := backend.StoreConfig(cfg)
	ledger := store.NewApplyStockTransactionUseCase(be.Runner, locker, notifier, storeCfg, log)
	itemUC := store.NewItemUseCase(be.Runner, be.Repos, ledger, storeCfg)
	reportUC := store.NewReportUseCase(be.Repos)
	requestUC := store.NewRequestUseCase(be.Runner, be.Repos, ledger, storeCfg)
	authUC := auth.NewAuthUseCase(be.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(logger.Component(log, "http")))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.HTTP.DocsEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Campus Store API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		Ledger:      ledger,
		ItemUC:      itemUC,
		ReportUC:    reportUC,
		RequestUC:   requestUC,
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
