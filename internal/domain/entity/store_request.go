package entity

import "time"

// Estados de una solicitud al almacén.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// StoreRequest solicitud de un departamento; al aprobarse genera una salida (outward).
type StoreRequest struct {
	ID            string
	Code          string // REQ000001
	ItemID        string
	Quantity      int64
	Department    string
	RequestedBy   string
	Purpose       string
	Status        string
	DecidedBy     string
	DecisionNote  string
	TransactionID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DecidedAt     *time.Time
}
