package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain/entity"
)

var (
	_ store.LowStockNotifier = (*Notifier)(nil)
	_ store.LowStockNotifier = NopNotifier{}
)

// Enqueuer subconjunto de *asynq.Client usado por el notificador.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Notifier encola avisos de stock bajo en asynq.
type Notifier struct {
	client Enqueuer
	queue  string
}

// NewNotifier construye el notificador sobre un cliente asynq.
func NewNotifier(client Enqueuer, queue string) *Notifier {
	if queue == "" {
		queue = QueueDefault
	}
	return &Notifier{client: client, queue: queue}
}

// NotifyLowStock encola el aviso. TaskID = código de la transacción: un reintento no lo duplica.
func (n *Notifier) NotifyLowStock(ctx context.Context, alert entity.LowStockAlert) error {
	task, err := NewLowStockTask(alert)
	if err != nil {
		return err
	}
	opts := []asynq.Option{asynq.Queue(n.queue), asynq.MaxRetry(5)}
	if alert.TransactionCode != "" {
		opts = append(opts, asynq.TaskID(TaskLowStock+":"+alert.TransactionCode))
	}
	if _, err := n.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue %s: %w", TaskLowStock, err)
	}
	return nil
}

// NopNotifier descarta los avisos (jobs deshabilitados).
type NopNotifier struct{}

// NotifyLowStock no hace nada.
func (NopNotifier) NotifyLowStock(context.Context, entity.LowStockAlert) error { return nil }
