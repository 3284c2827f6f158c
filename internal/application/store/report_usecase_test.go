package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
)

func TestLowStock_OrdenYSugerencia(t *testing.T) {
	f := newFixture(t)
	a := f.createItem(t, "Tiza", 3, 10)  // déficit 7, máximo 50
	b := f.createItem(t, "Clips", 9, 10) // déficit 1
	f.createItem(t, "Grapas", 40, 10)    // sobre el nivel
	c := f.createItem(t, "Sobres", 0, 4)
	_, err := f.items.SetItemStatus(context.Background(), c.ID, entity.ItemStatusInactive)
	require.NoError(t, err)

	report, err := f.reports.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 2, "los inactivos no aparecen")

	assert.Equal(t, a.Code, report[0].Code)
	assert.Equal(t, int64(7), report[0].Deficit)
	assert.Equal(t, int64(47), report[0].SuggestedOrderQty)
	assert.True(t, report[0].EstimatedCost.Equal(decimal.RequireFromString("117.5")))
	assert.True(t, report[0].BelowMinimum, "3 < mínimo 5")
	assert.Equal(t, b.Code, report[1].Code)
}

func TestValuation_SoloActivos(t *testing.T) {
	f := newFixture(t)
	f.createItem(t, "Hojas", 10, 1)   // 25.00
	f.createItem(t, "Lapicero", 4, 1) // 10.00
	furniture, err := f.items.CreateItem(context.Background(), entityInput("Banca", entity.CategoryFurniture, 2, "100"))
	require.NoError(t, err)
	gone := f.createItem(t, "Archivador viejo", 5, 1)
	_, err = f.items.SetItemStatus(context.Background(), gone.ID, entity.ItemStatusDiscontinued)
	require.NoError(t, err)

	v, err := f.reports.Valuation(context.Background())
	require.NoError(t, err)
	assert.True(t, v.TotalValue.Equal(decimal.NewFromInt(235)), v.TotalValue.String())
	assert.Equal(t, 3, v.ItemCount)
	assert.Equal(t, int64(16), v.TotalUnits)
	require.Len(t, v.Categories, 2)
	assert.Equal(t, entity.CategoryStationery, v.Categories[0].Category)
	assert.True(t, v.Categories[0].TotalValue.Equal(decimal.NewFromInt(35)))
	assert.Equal(t, furniture.Item.Category, v.Categories[1].Category)
}

func TestHistory_Filtros(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Detergente", 20, 2)
	other := f.createItem(t, "Cloro", 20, 2)

	_, err := apply(t, f, item.ID, entity.TransactionTypeOutward, 2)
	require.NoError(t, err)
	_, err = apply(t, f, item.ID, entity.TransactionTypeInward, 6)
	require.NoError(t, err)
	_, err = apply(t, f, other.ID, entity.TransactionTypeOutward, 1)
	require.NoError(t, err)

	list, total, err := f.reports.History(context.Background(), repository.TransactionFilter{ItemID: item.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, entity.TransactionTypeInward, list[0].Type, "más reciente primero")

	_, total, err = f.reports.History(context.Background(), repository.TransactionFilter{Type: entity.TransactionTypeOutward})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	future := time.Now().Add(time.Hour)
	_, total, err = f.reports.History(context.Background(), repository.TransactionFilter{From: &future})
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	past := time.Now().Add(-time.Hour)
	_, _, err = f.reports.History(context.Background(), repository.TransactionFilter{From: &future, To: &past})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, _, err = f.reports.History(context.Background(), repository.TransactionFilter{Type: "gift"})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestGetTransaction_PorIDYCodigo(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Martillo", 0, 1)
	res, err := apply(t, f, item.ID, entity.TransactionTypeInward, 3)
	require.NoError(t, err)

	byID, err := f.reports.GetTransaction(context.Background(), res.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Transaction.Code, byID.Code)

	byCode, err := f.reports.GetTransaction(context.Background(), res.Transaction.Code)
	require.NoError(t, err)
	assert.Equal(t, res.Transaction.ID, byCode.ID)

	_, err = f.reports.GetTransaction(context.Background(), "TXN999999")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_ConteoPorCategoria(t *testing.T) {
	f := newFixture(t)
	f.createItem(t, "Post-it", 1, 1)
	f.createItem(t, "Folder", 1, 1)

	cat, err := f.reports.Catalog(context.Background())
	require.NoError(t, err)
	require.Len(t, cat.Categories, len(entity.ItemCategories))
	assert.Equal(t, entity.CategoryStationery, cat.Categories[0].Category)
	assert.Equal(t, 2, cat.Categories[0].ItemCount)
	assert.Len(t, cat.Units, len(entity.ItemUnits))
	assert.Len(t, cat.TransactionTypes, 4)
}
