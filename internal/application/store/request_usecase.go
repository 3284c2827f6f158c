package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
	ledger "github.com/jhoicas/campus-store/internal/domain/store"
)

// CreateRequestInput solicitud de material de un departamento.
type CreateRequestInput struct {
	ItemID      string
	Quantity    int64
	Department  string
	RequestedBy string
	Purpose     string
}

// RequestUseCase flujo de solicitudes al almacén: crear, aprobar (genera salida) y rechazar.
type RequestUseCase struct {
	txRunner TxRunner
	repos    Repositories
	applier  *ApplyStockTransactionUseCase
	cfg      Config
}

// NewRequestUseCase construye el caso de uso.
func NewRequestUseCase(txRunner TxRunner, repos Repositories, applier *ApplyStockTransactionUseCase, cfg Config) *RequestUseCase {
	return &RequestUseCase{txRunner: txRunner, repos: repos, applier: applier, cfg: cfg.withDefaults()}
}

// CreateRequest registra una solicitud pendiente. El artículo debe existir y estar activo.
func (uc *RequestUseCase) CreateRequest(ctx context.Context, in CreateRequestInput) (*entity.StoreRequest, error) {
	if strings.TrimSpace(in.ItemID) == "" {
		return nil, fmt.Errorf("%w: item_id requerido", domain.ErrInvalidArgument)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a 0", domain.ErrInvalidArgument)
	}
	if in.Quantity > ledger.MaxQuantity {
		return nil, fmt.Errorf("%w: la cantidad excede el máximo de %d", domain.ErrInvalidArgument, ledger.MaxQuantity)
	}
	item, err := uc.repos.Items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, classifyError(err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, in.ItemID)
	}
	if item.Status != entity.ItemStatusActive {
		return nil, fmt.Errorf("%w: el artículo %s no está activo", domain.ErrInvalidArgument, item.Code)
	}

	now := time.Now().UTC()
	req := &entity.StoreRequest{
		ID:          uuid.New().String(),
		ItemID:      item.ID,
		Quantity:    in.Quantity,
		Department:  strings.TrimSpace(in.Department),
		RequestedBy: in.RequestedBy,
		Purpose:     strings.TrimSpace(in.Purpose),
		Status:      entity.RequestStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.txRunner.Run(ctx, func(tx StoreTx) error {
		seq, err := tx.Sequences().Next(ctx, repository.SequenceRequest)
		if err != nil {
			return err
		}
		req.Code = ledger.FormatCode(uc.cfg.RequestPrefix, seq)
		return tx.Requests().Create(ctx, req)
	})
	if err != nil {
		return nil, classifyError(err)
	}
	return req, nil
}

// ApproveRequest en una sola transacción: bloquea la solicitud (debe estar pending, si no ErrConflict),
// aplica la salida por la cantidad solicitada y la marca approved con el ID de la transacción.
// ErrInsufficientStock deja la solicitud pendiente.
func (uc *RequestUseCase) ApproveRequest(ctx context.Context, id, decidedBy, note string) (*entity.StoreRequest, *ApplyResult, error) {
	current, err := uc.repos.Requests.GetByID(ctx, id)
	if err != nil {
		return nil, nil, classifyError(err)
	}
	if current == nil {
		return nil, nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}

	var (
		approved *entity.StoreRequest
		applied  *ApplyResult
	)
	err = uc.applier.runLocked(ctx, current.ItemID, func(opCtx context.Context) error {
		return uc.txRunner.Run(opCtx, func(tx StoreTx) error {
			req, err := tx.Requests().GetForUpdate(opCtx, id)
			if err != nil {
				return err
			}
			if req == nil {
				return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
			}
			if req.Status != entity.RequestStatusPending {
				return fmt.Errorf("%w: la solicitud %s ya está %s", domain.ErrConflict, req.Code, req.Status)
			}
			res, err := uc.applier.ApplyInTx(opCtx, tx, ApplyInput{
				ItemID:      req.ItemID,
				Type:        entity.TransactionTypeOutward,
				Quantity:    req.Quantity,
				Department:  req.Department,
				RequestedBy: req.RequestedBy,
				Reason:      "solicitud " + req.Code,
				Remarks:     req.Purpose,
				RequestID:   req.ID,
				CreatedBy:   decidedBy,
			})
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			req.Status = entity.RequestStatusApproved
			req.DecidedBy = decidedBy
			req.DecisionNote = strings.TrimSpace(note)
			req.TransactionID = res.Transaction.ID
			req.DecidedAt = &now
			req.UpdatedAt = now
			if err := tx.Requests().UpdateDecision(opCtx, req); err != nil {
				return err
			}
			approved, applied = req, res
			return nil
		})
	})
	if err != nil {
		uc.applier.logFailure(err, current.ItemID, entity.TransactionTypeOutward)
		return nil, nil, err
	}
	uc.applier.afterCommit(ctx, applied)
	return approved, applied, nil
}

// RejectRequest pasa una solicitud pendiente a rejected con una nota.
func (uc *RequestUseCase) RejectRequest(ctx context.Context, id, decidedBy, note string) (*entity.StoreRequest, error) {
	var rejected *entity.StoreRequest
	err := uc.txRunner.Run(ctx, func(tx StoreTx) error {
		req, err := tx.Requests().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
		}
		if req.Status != entity.RequestStatusPending {
			return fmt.Errorf("%w: la solicitud %s ya está %s", domain.ErrConflict, req.Code, req.Status)
		}
		now := time.Now().UTC()
		req.Status = entity.RequestStatusRejected
		req.DecidedBy = decidedBy
		req.DecisionNote = strings.TrimSpace(note)
		req.DecidedAt = &now
		req.UpdatedAt = now
		if err := tx.Requests().UpdateDecision(ctx, req); err != nil {
			return err
		}
		rejected = req
		return nil
	})
	if err != nil {
		return nil, classifyError(err)
	}
	return rejected, nil
}

// ListRequests lista solicitudes por estado y departamento.
func (uc *RequestUseCase) ListRequests(ctx context.Context, filter repository.RequestFilter) ([]*entity.StoreRequest, int, error) {
	switch filter.Status {
	case "", entity.RequestStatusPending, entity.RequestStatusApproved, entity.RequestStatusRejected:
	default:
		return nil, 0, fmt.Errorf("%w: estado %q", domain.ErrInvalidArgument, filter.Status)
	}
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	list, total, err := uc.repos.Requests.List(ctx, filter)
	if err != nil {
		return nil, 0, classifyError(err)
	}
	return list, total, nil
}
