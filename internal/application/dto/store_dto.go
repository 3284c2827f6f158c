package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/campus-store/internal/domain/entity"
)

// CreateItemRequest body para POST /api/store/items.
type CreateItemRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description" validate:"max=1000"`
	Category     string          `json:"category" validate:"required"`
	Unit         string          `json:"unit" validate:"required"`
	MinimumStock int64           `json:"minimum_stock" validate:"gte=0"`
	MaximumStock int64           `json:"maximum_stock" validate:"gte=0"`
	ReorderLevel int64           `json:"reorder_level" validate:"gte=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Location     string          `json:"location" validate:"max=200"`
	OpeningStock int64           `json:"opening_stock" validate:"gte=0,lte=1000000000"`
}

// UpdateItemRequest body para PUT /api/store/items/:id (sin stock).
type UpdateItemRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description" validate:"omitempty,max=1000"`
	Category     *string          `json:"category"`
	Unit         *string          `json:"unit"`
	MinimumStock *int64           `json:"minimum_stock" validate:"omitempty,gte=0"`
	MaximumStock *int64           `json:"maximum_stock" validate:"omitempty,gte=0"`
	ReorderLevel *int64           `json:"reorder_level" validate:"omitempty,gte=0"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	Location     *string          `json:"location" validate:"omitempty,max=200"`
}

// UpdateItemStatusRequest body para PATCH /api/store/items/:id/status.
type UpdateItemStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive discontinued"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	CurrentStock int64           `json:"current_stock"`
	MinimumStock int64           `json:"minimum_stock"`
	MaximumStock int64           `json:"maximum_stock"`
	ReorderLevel int64           `json:"reorder_level"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Location     string          `json:"location"`
	Status       string          `json:"status"`
	LowStock     bool            `json:"low_stock"`
	CreatedBy    string          `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ItemMutationResponse artículo más advertencias de niveles (alta/edición).
type ItemMutationResponse struct {
	Item               ItemResponse         `json:"item"`
	OpeningTransaction *TransactionResponse `json:"opening_transaction,omitempty"`
	Warnings           []string             `json:"warnings,omitempty"`
}

// InvoiceInfoRequest datos de factura del proveedor.
type InvoiceInfoRequest struct {
	Number   string     `json:"number" validate:"max=100"`
	Date     *time.Time `json:"date"`
	Supplier string     `json:"supplier" validate:"max=200"`
}

// ApplyTransactionRequest body para POST /api/store/transactions.
type ApplyTransactionRequest struct {
	ItemID          string              `json:"item_id" validate:"required"`
	Type            string              `json:"type" validate:"required,oneof=inward outward adjustment return"`
	Quantity        int64               `json:"quantity" validate:"gte=0,lte=1000000000"`
	UnitPrice       *decimal.Decimal    `json:"unit_price"`
	Department      string              `json:"department" validate:"max=120"`
	RequestedBy     string              `json:"requested_by" validate:"max=120"`
	Reason          string              `json:"reason" validate:"max=500"`
	Remarks         string              `json:"remarks" validate:"max=1000"`
	Invoice         *InvoiceInfoRequest `json:"invoice"`
	TransactionDate *time.Time          `json:"transaction_date"`
}

// TransactionResponse salida de una transacción del libro.
type TransactionResponse struct {
	ID              string              `json:"id"`
	Code            string              `json:"code"`
	ItemID          string              `json:"item_id"`
	ItemCode        string              `json:"item_code"`
	Type            string              `json:"type"`
	Quantity        int64               `json:"quantity"`
	UnitPrice       decimal.Decimal     `json:"unit_price"`
	TotalValue      decimal.Decimal     `json:"total_value"`
	PreviousStock   int64               `json:"previous_stock"`
	NewStock        int64               `json:"new_stock"`
	Department      string              `json:"department,omitempty"`
	RequestedBy     string              `json:"requested_by,omitempty"`
	Reason          string              `json:"reason,omitempty"`
	Remarks         string              `json:"remarks,omitempty"`
	Invoice         *entity.InvoiceInfo `json:"invoice,omitempty"`
	RequestID       string              `json:"request_id,omitempty"`
	TransactionDate time.Time           `json:"transaction_date"`
	CreatedBy       string              `json:"created_by"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
}

// ApplyTransactionResponse transacción creada y stock resultante del artículo.
type ApplyTransactionResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	NewStock    int64               `json:"new_stock"`
	LowStock    bool                `json:"low_stock"`
}

// TransactionListResponse historial paginado.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// NewItemResponse convierte la entidad en su DTO de salida.
func NewItemResponse(i *entity.Item) ItemResponse {
	return ItemResponse{
		ID:           i.ID,
		Code:         i.Code,
		Name:         i.Name,
		Description:  i.Description,
		Category:     i.Category,
		Unit:         i.Unit,
		CurrentStock: i.CurrentStock,
		MinimumStock: i.MinimumStock,
		MaximumStock: i.MaximumStock,
		ReorderLevel: i.ReorderLevel,
		UnitPrice:    i.UnitPrice,
		Location:     i.Location,
		Status:       i.Status,
		LowStock:     i.IsLowStock(),
		CreatedBy:    i.CreatedBy,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

// NewTransactionResponse convierte la entidad en su DTO de salida.
func NewTransactionResponse(t *entity.StockTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		Code:            t.Code,
		ItemID:          t.ItemID,
		ItemCode:        t.ItemCode,
		Type:            t.Type,
		Quantity:        t.Quantity,
		UnitPrice:       t.UnitPrice,
		TotalValue:      t.TotalValue,
		PreviousStock:   t.PreviousStock,
		NewStock:        t.NewStock,
		Department:      t.Department,
		RequestedBy:     t.RequestedBy,
		Reason:          t.Reason,
		Remarks:         t.Remarks,
		Invoice:         t.Invoice,
		RequestID:       t.RequestID,
		TransactionDate: t.TransactionDate,
		CreatedBy:       t.CreatedBy,
		Status:          t.Status,
		CreatedAt:       t.CreatedAt,
	}
}
