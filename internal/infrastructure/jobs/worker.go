package jobs

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// WorkerConfig dependencias del worker.
type WorkerConfig struct {
	RedisOpts   asynq.RedisClientOpt
	Queue       string
	Concurrency int
	Logger      zerolog.Logger
	LowStock    *LowStockHandler
}

// Worker envuelve el servidor asynq.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    zerolog.Logger
}

// NewWorker construye el worker y registra los handlers.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.LowStock == nil {
		return nil, errors.New("worker: handler de stock bajo requerido")
	}
	if cfg.Queue == "" {
		cfg.Queue = QueueDefault
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	log := cfg.Logger
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      map[string]int{cfg.Queue: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error().Err(err).Str("task", task.Type()).Msg("tarea fallida")
		}),
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskLowStock, cfg.LowStock.Handle)
	return &Worker{server: srv, mux: mux, log: log}, nil
}

// Run procesa tareas hasta que se cancele ctx.
func (w *Worker) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
