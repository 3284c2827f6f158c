package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
	ledger "github.com/jhoicas/campus-store/internal/domain/store"
)

// ApplyInput entrada de applyStockTransaction.
// Quantity es positiva en inward/outward/return y el nivel absoluto en adjustment.
// UnitPrice nil toma el precio actual del artículo.
type ApplyInput struct {
	ItemID          string
	Type            string
	Quantity        int64
	UnitPrice       *decimal.Decimal
	Department      string
	RequestedBy     string
	Reason          string
	Remarks         string
	Invoice         *entity.InvoiceInfo
	RequestID       string
	TransactionDate *time.Time
	CreatedBy       string
}

// ApplyResult transacción creada y estado del artículo tras el commit.
type ApplyResult struct {
	Transaction *entity.StockTransaction
	Item        *entity.Item
}

// ApplyStockTransactionUseCase única vía de mutación del stock: valida, bloquea el artículo,
// calcula el nuevo stock, agrega la entrada al libro y actualiza el artículo en una sola transacción.
type ApplyStockTransactionUseCase struct {
	txRunner TxRunner
	locker   ItemLocker
	notifier LowStockNotifier
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewApplyStockTransactionUseCase construye el caso de uso. locker y notifier pueden ser nil.
func NewApplyStockTransactionUseCase(
	txRunner TxRunner,
	locker ItemLocker,
	notifier LowStockNotifier,
	cfg Config,
	log zerolog.Logger,
) *ApplyStockTransactionUseCase {
	return &ApplyStockTransactionUseCase{
		txRunner: txRunner,
		locker:   locker,
		notifier: notifier,
		cfg:      cfg.withDefaults(),
		log:      log.With().Str("component", "stock_ledger").Logger(),
		now:      time.Now,
	}
}

// Apply ejecuta la transacción de stock completa. Nunca reintenta: domain.ErrConflict es reintentable por el llamador.
func (uc *ApplyStockTransactionUseCase) Apply(ctx context.Context, in ApplyInput) (*ApplyResult, error) {
	if err := validateApplyInput(in, uc.now()); err != nil {
		return nil, err
	}
	var res *ApplyResult
	err := uc.runLocked(ctx, in.ItemID, func(opCtx context.Context) error {
		return uc.txRunner.Run(opCtx, func(tx StoreTx) error {
			r, err := uc.ApplyInTx(opCtx, tx, in)
			if err != nil {
				return err
			}
			res = r
			return nil
		})
	})
	if err != nil {
		uc.logFailure(err, in.ItemID, in.Type)
		return nil, err
	}
	uc.afterCommit(ctx, res)
	return res, nil
}

// ApplyInTx aplica la transacción usando los repositorios de una transacción abierta por el llamador
// (aprobación de solicitudes, stock inicial). No hace commit ni notifica.
func (uc *ApplyStockTransactionUseCase) ApplyInTx(ctx context.Context, tx StoreTx, in ApplyInput) (*ApplyResult, error) {
	if err := validateApplyInput(in, uc.now()); err != nil {
		return nil, err
	}
	// 1. Lee y reserva el artículo (SELECT FOR UPDATE / lectura con detección de conflicto)
	item, err := tx.Items().GetForUpdate(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, in.ItemID)
	}

	// 2. Nuevo stock según tipo
	newStock, err := ledger.NextStock(in.Type, item.CurrentStock, in.Quantity)
	if err != nil {
		return nil, err
	}

	// 3. Precio efectivo y valor total
	unitPrice := item.UnitPrice
	if in.UnitPrice != nil {
		unitPrice = *in.UnitPrice
	}
	totalValue := ledger.TotalValue(in.Quantity, unitPrice)
	if err := ledger.ValidateTotalValue(totalValue); err != nil {
		return nil, err
	}

	seq, err := tx.Sequences().Next(ctx, repository.SequenceTransaction)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	txDate := now
	if in.TransactionDate != nil {
		txDate = in.TransactionDate.UTC()
	}

	// 4. Entrada inmutable del libro con snapshots
	st := &entity.StockTransaction{
		ID:              uuid.New().String(),
		Code:            ledger.FormatCode(uc.cfg.TransactionPrefix, seq),
		ItemID:          item.ID,
		ItemCode:        item.Code,
		Type:            in.Type,
		Quantity:        in.Quantity,
		UnitPrice:       unitPrice,
		TotalValue:      totalValue,
		PreviousStock:   item.CurrentStock,
		NewStock:        newStock,
		Department:      strings.TrimSpace(in.Department),
		RequestedBy:     strings.TrimSpace(in.RequestedBy),
		Reason:          strings.TrimSpace(in.Reason),
		Remarks:         strings.TrimSpace(in.Remarks),
		Invoice:         in.Invoice,
		RequestID:       in.RequestID,
		TransactionDate: txDate,
		CreatedBy:       in.CreatedBy,
		Status:          entity.TransactionStatusCompleted,
		CreatedAt:       now,
	}
	if err := tx.Transactions().Create(ctx, st); err != nil {
		return nil, err
	}

	// 5. Stock del artículo, condicionado a la versión leída en el paso 1
	if err := tx.Items().UpdateStock(ctx, item.ID, newStock, item.Version); err != nil {
		return nil, err
	}
	item.CurrentStock = newStock
	item.Version++
	item.UpdatedAt = now

	return &ApplyResult{Transaction: st, Item: item}, nil
}

// runLocked acota la llamada con LockTimeout, toma el bloqueo opcional del artículo y
// clasifica el error resultante en los tipos del dominio.
func (uc *ApplyStockTransactionUseCase) runLocked(ctx context.Context, itemID string, fn func(ctx context.Context) error) error {
	opCtx, cancel := context.WithTimeout(ctx, uc.cfg.LockTimeout)
	defer cancel()

	if uc.locker != nil {
		unlock, err := uc.locker.Lock(opCtx, itemID)
		if err != nil {
			return classifyError(err)
		}
		defer unlock()
	}
	return classifyError(fn(opCtx))
}

// afterCommit registra la transacción y emite el aviso de stock bajo. Los fallos del aviso solo se registran.
func (uc *ApplyStockTransactionUseCase) afterCommit(ctx context.Context, res *ApplyResult) {
	st, item := res.Transaction, res.Item
	uc.log.Info().
		Str("code", st.Code).
		Str("item_id", item.ID).
		Str("item_code", item.Code).
		Str("type", st.Type).
		Int64("quantity", st.Quantity).
		Int64("previous_stock", st.PreviousStock).
		Int64("new_stock", st.NewStock).
		Msg("transacción de stock confirmada")

	if uc.notifier == nil || !item.IsLowStock() || item.Status != entity.ItemStatusActive {
		return
	}
	alert := entity.LowStockAlert{
		ItemID:          item.ID,
		ItemCode:        item.Code,
		ItemName:        item.Name,
		CurrentStock:    item.CurrentStock,
		ReorderLevel:    item.ReorderLevel,
		MinimumStock:    item.MinimumStock,
		TransactionCode: st.Code,
		OccurredAt:      st.CreatedAt,
	}
	if err := uc.notifier.NotifyLowStock(context.WithoutCancel(ctx), alert); err != nil {
		uc.log.Error().Err(err).Str("item_code", item.Code).Msg("no se pudo encolar el aviso de stock bajo")
	}
}

func (uc *ApplyStockTransactionUseCase) logFailure(err error, itemID, txType string) {
	switch {
	case errors.Is(err, domain.ErrConflict):
		uc.log.Warn().Err(err).Str("item_id", itemID).Str("type", txType).Msg("conflicto al aplicar transacción")
	case errors.Is(err, domain.ErrStorageFailure):
		uc.log.Error().Err(err).Str("item_id", itemID).Str("type", txType).Msg("falla de almacenamiento al aplicar transacción")
	}
}

func validateApplyInput(in ApplyInput, now time.Time) error {
	if strings.TrimSpace(in.ItemID) == "" {
		return fmt.Errorf("%w: item_id requerido", domain.ErrInvalidArgument)
	}
	if !entity.IsValidTransactionType(in.Type) {
		return fmt.Errorf("%w: tipo de transacción %q", domain.ErrInvalidArgument, in.Type)
	}
	if in.Type == entity.TransactionTypeAdjustment {
		if in.Quantity < 0 {
			return fmt.Errorf("%w: el nivel de ajuste no puede ser negativo", domain.ErrInvalidArgument)
		}
	} else if in.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor a 0", domain.ErrInvalidArgument)
	}
	if in.Quantity > ledger.MaxQuantity {
		return fmt.Errorf("%w: la cantidad excede el máximo de %d", domain.ErrInvalidArgument, ledger.MaxQuantity)
	}
	if in.UnitPrice != nil {
		if err := ledger.ValidateUnitPrice(*in.UnitPrice); err != nil {
			return err
		}
	}
	if in.TransactionDate != nil {
		if err := ledger.ValidateTransactionDate(*in.TransactionDate, now); err != nil {
			return err
		}
	}
	return nil
}

// classifyError deja pasar los errores del dominio; el vencimiento del plazo es un conflicto
// reintentable y cualquier otro error es falla de almacenamiento.
func classifyError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrStorageFailure),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrDuplicate):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: tiempo de espera agotado: %v", domain.ErrConflict, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
}
