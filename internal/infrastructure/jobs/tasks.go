package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/campus-store/internal/domain/entity"
)

const (
	// QueueDefault cola por defecto de los avisos.
	QueueDefault = "default"
	// TaskLowStock aviso de artículo en o bajo el nivel de reorden.
	TaskLowStock = "store:low_stock"
)

// NewLowStockTask serializa el aviso como payload JSON.
func NewLowStockTask(alert entity.LowStockAlert) (*asynq.Task, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return nil, fmt.Errorf("marshal low stock alert: %w", err)
	}
	return asynq.NewTask(TaskLowStock, data), nil
}

// ParseLowStockTask decodifica y valida el payload.
func ParseLowStockTask(t *asynq.Task) (entity.LowStockAlert, error) {
	var alert entity.LowStockAlert
	if err := json.Unmarshal(t.Payload(), &alert); err != nil {
		return alert, fmt.Errorf("payload inválido: %w", err)
	}
	if alert.ItemID == "" {
		return alert, fmt.Errorf("payload inválido: item_id vacío")
	}
	return alert, nil
}
