package entity

import "time"

// LowStockAlert aviso emitido tras confirmar una transacción que deja el artículo
// en o por debajo de su nivel de reorden.
type LowStockAlert struct {
	ItemID          string    `json:"item_id"`
	ItemCode        string    `json:"item_code"`
	ItemName        string    `json:"item_name"`
	CurrentStock    int64     `json:"current_stock"`
	ReorderLevel    int64     `json:"reorder_level"`
	MinimumStock    int64     `json:"minimum_stock"`
	TransactionCode string    `json:"transaction_code"`
	OccurredAt      time.Time `json:"occurred_at"`
}
