// Worker de avisos de stock bajo.
//
// Consume la cola asynq que alimenta la API cuando JOBS_ENABLED=true y registra
// cada artículo que quedó en o por debajo de su nivel de reorden.
//
// Uso:
//
//	go run ./cmd/worker
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/campus-store/internal/infrastructure/jobs"
	"github.com/jhoicas/campus-store/pkg/config"
	"github.com/jhoicas/campus-store/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name + "-worker",
	})

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		Queue:       cfg.Jobs.Queue,
		Concurrency: cfg.Jobs.Concurrency,
		Logger:      logger.Component(log, "worker"),
		LowStock:    jobs.NewLowStockHandler(logger.Component(log, "low_stock"), nil),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar worker")
	}

	log.Info().Str("redis", cfg.Redis.Addr).Str("queue", cfg.Jobs.Queue).Msg("worker iniciado")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker finalizado")
		return
	}
	log.Info().Msg("worker detenido")
}
