package dto

import (
	"time"

	"github.com/jhoicas/campus-store/internal/domain/entity"
)

// CreateStoreRequestRequest body para POST /api/store/requests.
type CreateStoreRequestRequest struct {
	ItemID     string `json:"item_id" validate:"required"`
	Quantity   int64  `json:"quantity" validate:"required,gt=0,lte=1000000000"`
	Department string `json:"department" validate:"max=120"`
	Purpose    string `json:"purpose" validate:"max=500"`
}

// DecideStoreRequestRequest body para aprobar/rechazar una solicitud.
type DecideStoreRequestRequest struct {
	Note string `json:"note" validate:"max=500"`
}

// StoreRequestResponse salida de una solicitud.
type StoreRequestResponse struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	ItemID        string     `json:"item_id"`
	Quantity      int64      `json:"quantity"`
	Department    string     `json:"department"`
	RequestedBy   string     `json:"requested_by"`
	Purpose       string     `json:"purpose,omitempty"`
	Status        string     `json:"status"`
	DecidedBy     string     `json:"decided_by,omitempty"`
	DecisionNote  string     `json:"decision_note,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
}

// StoreRequestListResponse lista paginada de solicitudes.
type StoreRequestListResponse struct {
	Items []StoreRequestResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// NewStoreRequestResponse convierte la entidad en su DTO de salida.
func NewStoreRequestResponse(r *entity.StoreRequest) StoreRequestResponse {
	return StoreRequestResponse{
		ID:            r.ID,
		Code:          r.Code,
		ItemID:        r.ItemID,
		Quantity:      r.Quantity,
		Department:    r.Department,
		RequestedBy:   r.RequestedBy,
		Purpose:       r.Purpose,
		Status:        r.Status,
		DecidedBy:     r.DecidedBy,
		DecisionNote:  r.DecisionNote,
		TransactionID: r.TransactionID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		DecidedAt:     r.DecidedAt,
	}
}
