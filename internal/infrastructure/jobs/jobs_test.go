package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/infrastructure/jobs"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func sampleAlert() entity.LowStockAlert {
	return entity.LowStockAlert{
		ItemID:          "c9b1e0de-0000-4000-8000-000000000001",
		ItemCode:        "ITM000001",
		ItemName:        "Hojas A4",
		CurrentStock:    3,
		ReorderLevel:    10,
		MinimumStock:    5,
		TransactionCode: "TXN000042",
		OccurredAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

// ─── Notifier ────────────────────────────────────────────────────────────────

func TestNotifier_EncolaAviso(t *testing.T) {
	fe := &fakeEnqueuer{}
	n := jobs.NewNotifier(fe, "alerts")

	require.NoError(t, n.NotifyLowStock(context.Background(), sampleAlert()))
	require.Len(t, fe.tasks, 1)
	assert.Equal(t, jobs.TaskLowStock, fe.tasks[0].Type())

	got, err := jobs.ParseLowStockTask(fe.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, sampleAlert(), got)

	var queue, taskID string
	for _, o := range fe.opts[0] {
		switch o.Type() {
		case asynq.QueueOpt:
			queue = o.Value().(string)
		case asynq.TaskIDOpt:
			taskID = o.Value().(string)
		}
	}
	assert.Equal(t, "alerts", queue)
	assert.Equal(t, "store:low_stock:TXN000042", taskID)
}

func TestNotifier_DuplicadoNoEsError(t *testing.T) {
	n := jobs.NewNotifier(&fakeEnqueuer{err: asynq.ErrTaskIDConflict}, "")
	assert.NoError(t, n.NotifyLowStock(context.Background(), sampleAlert()))
}

func TestNotifier_ErrorDeCola(t *testing.T) {
	n := jobs.NewNotifier(&fakeEnqueuer{err: errors.New("redis caído")}, "")
	assert.Error(t, n.NotifyLowStock(context.Background(), sampleAlert()))
}

// ─── Handler ─────────────────────────────────────────────────────────────────

func TestLowStockHandler_EntregaAlSink(t *testing.T) {
	var received []entity.LowStockAlert
	h := jobs.NewLowStockHandler(zerolog.Nop(), func(_ context.Context, a entity.LowStockAlert) error {
		received = append(received, a)
		return nil
	})
	task, err := jobs.NewLowStockTask(sampleAlert())
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), task))
	require.Len(t, received, 1)
	assert.Equal(t, "ITM000001", received[0].ItemCode)
}

func TestLowStockHandler_PayloadInvalidoNoReintenta(t *testing.T) {
	h := jobs.NewLowStockHandler(zerolog.Nop(), nil)

	err := h.Handle(context.Background(), asynq.NewTask(jobs.TaskLowStock, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	err = h.Handle(context.Background(), asynq.NewTask(jobs.TaskLowStock, []byte(`{"item_code":"X"}`)))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestLowStockHandler_ErrorDelSinkReintenta(t *testing.T) {
	h := jobs.NewLowStockHandler(zerolog.Nop(), func(context.Context, entity.LowStockAlert) error {
		return errors.New("smtp no disponible")
	})
	task, err := jobs.NewLowStockTask(sampleAlert())
	require.NoError(t, err)

	err = h.Handle(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestNopNotifier(t *testing.T) {
	assert.NoError(t, jobs.NopNotifier{}.NotifyLowStock(context.Background(), sampleAlert()))
}
