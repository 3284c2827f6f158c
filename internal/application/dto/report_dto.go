package dto

import "github.com/shopspring/decimal"

// LowStockItemDTO artículo en o bajo su nivel de reorden con la reposición sugerida.
type LowStockItemDTO struct {
	ItemID            string          `json:"item_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Unit              string          `json:"unit"`
	CurrentStock      int64           `json:"current_stock"`
	MinimumStock      int64           `json:"minimum_stock"`
	ReorderLevel      int64           `json:"reorder_level"`
	MaximumStock      int64           `json:"maximum_stock"`
	Deficit           int64           `json:"deficit"`             // reorder_level - current_stock
	SuggestedOrderQty int64           `json:"suggested_order_qty"` // hasta el máximo o 1.5 × reorden
	UnitPrice         decimal.Decimal `json:"unit_price"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"` // SuggestedOrderQty × UnitPrice
	BelowMinimum      bool            `json:"below_minimum"`
}

// CategoryValuationDTO valor del inventario de una categoría.
type CategoryValuationDTO struct {
	Category   string          `json:"category"`
	ItemCount  int             `json:"item_count"`
	TotalUnits int64           `json:"total_units"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// ValuationDTO valor total del inventario activo: Σ current_stock × unit_price.
type ValuationDTO struct {
	TotalValue decimal.Decimal        `json:"total_value"`
	ItemCount  int                    `json:"item_count"`
	TotalUnits int64                  `json:"total_units"`
	Categories []CategoryValuationDTO `json:"categories"`
}

// CategoryCountDTO cantidad de artículos activos por categoría.
type CategoryCountDTO struct {
	Category  string `json:"category"`
	ItemCount int    `json:"item_count"`
}

// CatalogDTO enumeraciones cerradas para formularios.
type CatalogDTO struct {
	Categories       []CategoryCountDTO `json:"categories"`
	Units            []string           `json:"units"`
	TransactionTypes []string           `json:"transaction_types"`
	ItemStatuses     []string           `json:"item_statuses"`
}
