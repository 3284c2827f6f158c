package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de stock.
const (
	TransactionTypeInward     = "inward"     // entrada
	TransactionTypeOutward    = "outward"    // salida
	TransactionTypeAdjustment = "adjustment" // ajuste a nivel absoluto
	TransactionTypeReturn     = "return"     // devolución
)

// Estados de una transacción.
const (
	TransactionStatusCompleted = "completed"
	TransactionStatusPending   = "pending"
	TransactionStatusCancelled = "cancelled"
)

// InvoiceInfo datos opcionales de la factura del proveedor (entradas).
type InvoiceInfo struct {
	Number   string     `json:"number"`
	Date     *time.Time `json:"date,omitempty"`
	Supplier string     `json:"supplier"`
}

// StockTransaction es una entrada inmutable del libro de stock.
// Quantity es positiva en inward/outward/return y el nivel objetivo en adjustment.
type StockTransaction struct {
	ID              string
	Code            string // TXN000001
	ItemID          string
	ItemCode        string
	Type            string
	Quantity        int64
	UnitPrice       decimal.Decimal
	TotalValue      decimal.Decimal
	PreviousStock   int64
	NewStock        int64
	Department      string
	RequestedBy     string
	Reason          string
	Remarks         string
	Invoice         *InvoiceInfo
	RequestID       string
	TransactionDate time.Time
	CreatedBy       string
	Status          string
	CreatedAt       time.Time
}

// IsValidTransactionType indica si t es un tipo de transacción soportado.
func IsValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeInward, TransactionTypeOutward, TransactionTypeAdjustment, TransactionTypeReturn:
		return true
	}
	return false
}
