package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
	ledger "github.com/jhoicas/campus-store/internal/domain/store"
)

// CreateItemInput datos para dar de alta un artículo. OpeningStock > 0 se registra como ajuste.
type CreateItemInput struct {
	Name         string
	Description  string
	Category     string
	Unit         string
	MinimumStock int64
	MaximumStock int64
	ReorderLevel int64
	UnitPrice    decimal.Decimal
	Location     string
	OpeningStock int64
	CreatedBy    string
}

// UpdateItemInput campos administrativos editables; nil no modifica. El stock no es editable aquí.
type UpdateItemInput struct {
	Name         *string
	Description  *string
	Category     *string
	Unit         *string
	MinimumStock *int64
	MaximumStock *int64
	ReorderLevel *int64
	UnitPrice    *decimal.Decimal
	Location     *string
}

// CreateItemResult artículo creado, transacción de stock inicial (si hubo) y advertencias de niveles.
type CreateItemResult struct {
	Item               *entity.Item
	OpeningTransaction *entity.StockTransaction
	Warnings           []string
}

// ItemUseCase administración del catálogo de artículos.
type ItemUseCase struct {
	txRunner TxRunner
	repos    Repositories
	applier  *ApplyStockTransactionUseCase
	cfg      Config
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner TxRunner, repos Repositories, applier *ApplyStockTransactionUseCase, cfg Config) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, repos: repos, applier: applier, cfg: cfg.withDefaults()}
}

// CreateItem valida, asigna ID y código de secuencia y persiste el artículo con stock 0.
// El stock inicial se registra como transacción adjustment en la misma transacción.
func (uc *ItemUseCase) CreateItem(ctx context.Context, in CreateItemInput) (*CreateItemResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidArgument)
	}
	if !entity.IsValidCategory(in.Category) {
		return nil, fmt.Errorf("%w: categoría %q", domain.ErrInvalidArgument, in.Category)
	}
	if !entity.IsValidUnit(in.Unit) {
		return nil, fmt.Errorf("%w: unidad %q", domain.ErrInvalidArgument, in.Unit)
	}
	if err := ledger.ValidateUnitPrice(in.UnitPrice); err != nil {
		return nil, err
	}
	if in.OpeningStock < 0 {
		return nil, fmt.Errorf("%w: el stock inicial no puede ser negativo", domain.ErrInvalidArgument)
	}
	warnings, err := uc.checkThresholds(in.MinimumStock, in.MaximumStock, in.ReorderLevel)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &CreateItemResult{Warnings: warnings}
	err = uc.txRunner.Run(ctx, func(tx StoreTx) error {
		seq, err := tx.Sequences().Next(ctx, repository.SequenceItem)
		if err != nil {
			return err
		}
		item := &entity.Item{
			ID:           uuid.New().String(),
			Code:         ledger.FormatCode(uc.cfg.ItemPrefix, seq),
			Name:         in.Name,
			Description:  strings.TrimSpace(in.Description),
			Category:     in.Category,
			Unit:         in.Unit,
			MinimumStock: in.MinimumStock,
			MaximumStock: in.MaximumStock,
			ReorderLevel: in.ReorderLevel,
			UnitPrice:    in.UnitPrice,
			Location:     strings.TrimSpace(in.Location),
			Status:       entity.ItemStatusActive,
			CreatedBy:    in.CreatedBy,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Items().Create(ctx, item); err != nil {
			return err
		}
		result.Item = item
		if in.OpeningStock == 0 {
			return nil
		}
		res, err := uc.applier.ApplyInTx(ctx, tx, ApplyInput{
			ItemID:    item.ID,
			Type:      entity.TransactionTypeAdjustment,
			Quantity:  in.OpeningStock,
			Reason:    "stock inicial",
			CreatedBy: in.CreatedBy,
		})
		if err != nil {
			return err
		}
		result.Item = res.Item
		result.OpeningTransaction = res.Transaction
		return nil
	})
	if err != nil {
		return nil, classifyError(err)
	}
	return result, nil
}

// UpdateItem modifica los campos administrativos. Devuelve advertencias de niveles.
func (uc *ItemUseCase) UpdateItem(ctx context.Context, id string, in UpdateItemInput) (*entity.Item, []string, error) {
	var (
		updated  *entity.Item
		warnings []string
	)
	err := uc.txRunner.Run(ctx, func(tx StoreTx) error {
		item, err := tx.Items().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
		}
		if err := applyItemChanges(item, in); err != nil {
			return err
		}
		warnings, err = uc.checkThresholds(item.MinimumStock, item.MaximumStock, item.ReorderLevel)
		if err != nil {
			return err
		}
		item.UpdatedAt = time.Now().UTC()
		if err := tx.Items().Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, nil, classifyError(err)
	}
	return updated, warnings, nil
}

// SetItemStatus cambia el estado (active, inactive, discontinued). Los artículos nunca se borran.
func (uc *ItemUseCase) SetItemStatus(ctx context.Context, id, status string) (*entity.Item, error) {
	if !entity.IsValidItemStatus(status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidArgument, status)
	}
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(tx StoreTx) error {
		item, err := tx.Items().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
		}
		item.Status = status
		item.UpdatedAt = time.Now().UTC()
		if err := tx.Items().Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, classifyError(err)
	}
	return updated, nil
}

// GetItem busca por ID o, si no existe, por código (ITM000001).
func (uc *ItemUseCase) GetItem(ctx context.Context, idOrCode string) (*entity.Item, error) {
	item, err := uc.repos.Items.GetByID(ctx, idOrCode)
	if err != nil {
		return nil, classifyError(err)
	}
	if item == nil {
		item, err = uc.repos.Items.GetByCode(ctx, strings.ToUpper(idOrCode))
		if err != nil {
			return nil, classifyError(err)
		}
	}
	if item == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, idOrCode)
	}
	return item, nil
}

// CurrentStock devuelve el stock confirmado de un artículo.
func (uc *ItemUseCase) CurrentStock(ctx context.Context, idOrCode string) (int64, error) {
	item, err := uc.GetItem(ctx, idOrCode)
	if err != nil {
		return 0, err
	}
	return item.CurrentStock, nil
}

// ListItems lista artículos con filtros y paginación; devuelve también el total.
func (uc *ItemUseCase) ListItems(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, int, error) {
	if filter.Category != "" && !entity.IsValidCategory(filter.Category) {
		return nil, 0, fmt.Errorf("%w: categoría %q", domain.ErrInvalidArgument, filter.Category)
	}
	if filter.Status != "" && !entity.IsValidItemStatus(filter.Status) {
		return nil, 0, fmt.Errorf("%w: estado %q", domain.ErrInvalidArgument, filter.Status)
	}
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	items, total, err := uc.repos.Items.List(ctx, filter)
	if err != nil {
		return nil, 0, classifyError(err)
	}
	return items, total, nil
}

func (uc *ItemUseCase) checkThresholds(minimum, maximum, reorder int64) ([]string, error) {
	warnings, err := ledger.ValidateThresholds(ledger.Thresholds{Minimum: minimum, Maximum: maximum, Reorder: reorder})
	if err != nil {
		return nil, err
	}
	if uc.cfg.EnforceThresholds && len(warnings) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidArgument, strings.Join(warnings, "; "))
	}
	return warnings, nil
}

func applyItemChanges(item *entity.Item, in UpdateItemInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return fmt.Errorf("%w: nombre requerido", domain.ErrInvalidArgument)
		}
		item.Name = name
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		if !entity.IsValidCategory(*in.Category) {
			return fmt.Errorf("%w: categoría %q", domain.ErrInvalidArgument, *in.Category)
		}
		item.Category = *in.Category
	}
	if in.Unit != nil {
		if !entity.IsValidUnit(*in.Unit) {
			return fmt.Errorf("%w: unidad %q", domain.ErrInvalidArgument, *in.Unit)
		}
		item.Unit = *in.Unit
	}
	if in.MinimumStock != nil {
		item.MinimumStock = *in.MinimumStock
	}
	if in.MaximumStock != nil {
		item.MaximumStock = *in.MaximumStock
	}
	if in.ReorderLevel != nil {
		item.ReorderLevel = *in.ReorderLevel
	}
	if in.UnitPrice != nil {
		if err := ledger.ValidateUnitPrice(*in.UnitPrice); err != nil {
			return err
		}
		item.UnitPrice = *in.UnitPrice
	}
	if in.Location != nil {
		item.Location = strings.TrimSpace(*in.Location)
	}
	return nil
}

// clampPage aplica límite por defecto 20 y máximo 100.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
