package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jhoicas/campus-store/internal/domain/entity"
)

// AlertSink destino adicional del aviso (correo, chat). Un error provoca reintento.
type AlertSink func(ctx context.Context, alert entity.LowStockAlert) error

// LowStockHandler procesa TaskLowStock.
type LowStockHandler struct {
	log  zerolog.Logger
	sink AlertSink
}

// NewLowStockHandler construye el handler; sink puede ser nil.
func NewLowStockHandler(log zerolog.Logger, sink AlertSink) *LowStockHandler {
	return &LowStockHandler{log: log, sink: sink}
}

// Handle registra el aviso y lo reenvía al sink. Payload inválido: sin reintentos.
func (h *LowStockHandler) Handle(ctx context.Context, t *asynq.Task) error {
	alert, err := ParseLowStockTask(t)
	if err != nil {
		h.log.Error().Err(err).Str("task", t.Type()).Msg("aviso descartado")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	h.log.Warn().
		Str("item_id", alert.ItemID).
		Str("item_code", alert.ItemCode).
		Str("item_name", alert.ItemName).
		Int64("current_stock", alert.CurrentStock).
		Int64("reorder_level", alert.ReorderLevel).
		Str("transaction", alert.TransactionCode).
		Msg("stock bajo: reponer artículo")

	if h.sink == nil {
		return nil
	}
	return h.sink(ctx, alert)
}
