package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/campus-store/internal/application/dto"
	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
	ledger "github.com/jhoicas/campus-store/internal/domain/store"
)

// ReportUseCase lecturas derivadas del libro de stock. Nunca muta y solo ve datos confirmados.
type ReportUseCase struct {
	repos Repositories
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(repos Repositories) *ReportUseCase {
	return &ReportUseCase{repos: repos}
}

// LowStock devuelve los artículos activos con current_stock ≤ reorder_level, con la cantidad
// sugerida de reposición y su costo estimado. Orden: mayor déficit primero, luego código.
func (uc *ReportUseCase) LowStock(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	items, err := uc.repos.Items.ListActive(ctx)
	if err != nil {
		return nil, classifyError(err)
	}
	out := make([]dto.LowStockItemDTO, 0)
	for _, it := range items {
		if !it.IsLowStock() {
			continue
		}
		qty := ledger.SuggestedOrderQty(it)
		out = append(out, dto.LowStockItemDTO{
			ItemID:            it.ID,
			Code:              it.Code,
			Name:              it.Name,
			Category:          it.Category,
			Unit:              it.Unit,
			CurrentStock:      it.CurrentStock,
			MinimumStock:      it.MinimumStock,
			ReorderLevel:      it.ReorderLevel,
			MaximumStock:      it.MaximumStock,
			Deficit:           it.ReorderLevel - it.CurrentStock,
			SuggestedOrderQty: qty,
			UnitPrice:         it.UnitPrice,
			EstimatedCost:     ledger.TotalValue(qty, it.UnitPrice),
			BelowMinimum:      it.CurrentStock < it.MinimumStock,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Deficit != out[j].Deficit {
			return out[i].Deficit > out[j].Deficit
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// Valuation Σ current_stock × unit_price sobre artículos activos, total y por categoría.
func (uc *ReportUseCase) Valuation(ctx context.Context) (*dto.ValuationDTO, error) {
	items, err := uc.repos.Items.ListActive(ctx)
	if err != nil {
		return nil, classifyError(err)
	}
	byCategory := make(map[string]*dto.CategoryValuationDTO)
	res := &dto.ValuationDTO{TotalValue: decimal.Zero, Categories: []dto.CategoryValuationDTO{}}
	for _, it := range items {
		v := ledger.Valuation(it)
		res.TotalValue = res.TotalValue.Add(v)
		res.ItemCount++
		res.TotalUnits += it.CurrentStock

		c, ok := byCategory[it.Category]
		if !ok {
			c = &dto.CategoryValuationDTO{Category: it.Category, TotalValue: decimal.Zero}
			byCategory[it.Category] = c
		}
		c.ItemCount++
		c.TotalUnits += it.CurrentStock
		c.TotalValue = c.TotalValue.Add(v)
	}
	for _, cat := range entity.ItemCategories {
		if c, ok := byCategory[cat]; ok {
			res.Categories = append(res.Categories, *c)
		}
	}
	return res, nil
}

// History transacciones filtradas por artículo, tipo, departamento y rango de fechas; más recientes primero.
func (uc *ReportUseCase) History(ctx context.Context, filter repository.TransactionFilter) ([]*entity.StockTransaction, int, error) {
	if filter.Type != "" && !entity.IsValidTransactionType(filter.Type) {
		return nil, 0, fmt.Errorf("%w: tipo de transacción %q", domain.ErrInvalidArgument, filter.Type)
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, 0, fmt.Errorf("%w: rango de fechas inválido", domain.ErrInvalidArgument)
	}
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	list, total, err := uc.repos.Transactions.List(ctx, filter)
	if err != nil {
		return nil, 0, classifyError(err)
	}
	return list, total, nil
}

// GetTransaction busca una transacción por ID o por código (TXN000001).
func (uc *ReportUseCase) GetTransaction(ctx context.Context, idOrCode string) (*entity.StockTransaction, error) {
	st, err := uc.repos.Transactions.GetByID(ctx, idOrCode)
	if err != nil {
		return nil, classifyError(err)
	}
	if st == nil {
		st, err = uc.repos.Transactions.GetByCode(ctx, strings.ToUpper(idOrCode))
		if err != nil {
			return nil, classifyError(err)
		}
	}
	if st == nil {
		return nil, fmt.Errorf("%w: transacción %s", domain.ErrNotFound, idOrCode)
	}
	return st, nil
}

// Catalog enumeraciones cerradas con el conteo de artículos activos por categoría.
func (uc *ReportUseCase) Catalog(ctx context.Context) (*dto.CatalogDTO, error) {
	items, err := uc.repos.Items.ListActive(ctx)
	if err != nil {
		return nil, classifyError(err)
	}
	counts := make(map[string]int, len(entity.ItemCategories))
	for _, it := range items {
		counts[it.Category]++
	}
	res := &dto.CatalogDTO{
		Units: entity.ItemUnits,
		TransactionTypes: []string{
			entity.TransactionTypeInward, entity.TransactionTypeOutward,
			entity.TransactionTypeAdjustment, entity.TransactionTypeReturn,
		},
		ItemStatuses: []string{entity.ItemStatusActive, entity.ItemStatusInactive, entity.ItemStatusDiscontinued},
	}
	for _, cat := range entity.ItemCategories {
		res.Categories = append(res.Categories, dto.CategoryCountDTO{Category: cat, ItemCount: counts[cat]})
	}
	return res, nil
}
