package store_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
	ledger "github.com/jhoicas/campus-store/internal/domain/store"
)

func TestCreateItem_CodigoSecuencialYStockInicial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.items.CreateItem(ctx, store.CreateItemInput{
		Name: "Vaso de precipitado 250ml", Category: entity.CategoryLaboratory, Unit: entity.UnitPieces,
		MinimumStock: 5, ReorderLevel: 10, MaximumStock: 50, UnitPrice: decimal.NewFromInt(8),
		OpeningStock: 30, CreatedBy: "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ITM000001", first.Item.Code)
	assert.Equal(t, entity.ItemStatusActive, first.Item.Status)
	assert.Equal(t, int64(30), first.Item.CurrentStock)
	require.NotNil(t, first.OpeningTransaction)
	assert.Equal(t, entity.TransactionTypeAdjustment, first.OpeningTransaction.Type)
	assert.Equal(t, int64(0), first.OpeningTransaction.PreviousStock)
	assert.Equal(t, int64(30), first.OpeningTransaction.NewStock)
	assert.Empty(t, first.Warnings)

	second, err := f.items.CreateItem(ctx, store.CreateItemInput{
		Name: "Cable UTP", Category: entity.CategoryComputer, Unit: entity.UnitMetre, UnitPrice: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Equal(t, "ITM000002", second.Item.Code)
	assert.Nil(t, second.OpeningTransaction)
	assert.Equal(t, int64(0), second.Item.CurrentStock)
	assert.Empty(t, f.history(t, second.Item.ID))
}

func TestCreateItem_Validaciones(t *testing.T) {
	f := newFixture(t)
	base := store.CreateItemInput{Name: "Balón", Category: entity.CategorySports, Unit: entity.UnitPieces}

	cases := []struct {
		name   string
		mutate func(in *store.CreateItemInput)
	}{
		{"sin nombre", func(in *store.CreateItemInput) { in.Name = "  " }},
		{"categoría desconocida", func(in *store.CreateItemInput) { in.Category = "food" }},
		{"unidad desconocida", func(in *store.CreateItemInput) { in.Unit = "ton" }},
		{"precio negativo", func(in *store.CreateItemInput) { in.UnitPrice = decimal.NewFromInt(-2) }},
		{"nivel negativo", func(in *store.CreateItemInput) { in.ReorderLevel = -1 }},
		{"stock inicial negativo", func(in *store.CreateItemInput) { in.OpeningStock = -5 }},
		{"precio con tres decimales", func(in *store.CreateItemInput) { in.UnitPrice = decimal.RequireFromString("2.555") }},
		{"stock inicial excesivo", func(in *store.CreateItemInput) { in.OpeningStock = ledger.MaxQuantity + 1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := f.items.CreateItem(context.Background(), in)
			require.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestCreateItem_NivelesDesordenados(t *testing.T) {
	in := store.CreateItemInput{
		Name: "Foco LED", Category: entity.CategoryElectrical, Unit: entity.UnitPieces,
		MinimumStock: 20, ReorderLevel: 10, MaximumStock: 100,
	}

	lenient := newFixture(t)
	res, err := lenient.items.CreateItem(context.Background(), in)
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 1, "sin enforcement se advierte y se guarda tal cual")
	assert.Equal(t, int64(20), res.Item.MinimumStock)

	strict := newFixture(t, withConfig(store.Config{EnforceThresholds: true}))
	_, err = strict.items.CreateItem(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestUpdateItem_NoModificaStock(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Carpeta", 12, 4)

	name := "Carpeta oficio"
	price := decimal.RequireFromString("3.75")
	reorder := int64(6)
	updated, warnings, err := f.items.UpdateItem(context.Background(), item.ID, store.UpdateItemInput{
		Name: &name, UnitPrice: &price, ReorderLevel: &reorder,
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, int64(12), updated.CurrentStock)

	stored, err := f.items.GetItem(context.Background(), item.Code)
	require.NoError(t, err)
	assert.Equal(t, name, stored.Name)
	assert.True(t, stored.UnitPrice.Equal(price))
	assert.Equal(t, int64(12), stored.CurrentStock)

	// Las transacciones siguen funcionando con la versión vigente.
	_, err = apply(t, f, item.ID, entity.TransactionTypeOutward, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.stockOf(t, item.ID))
}

func TestUpdateItem_Errores(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Regla", 1, 1)

	bad := "hammer"
	_, _, err := f.items.UpdateItem(context.Background(), item.ID, store.UpdateItemInput{Unit: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	price := decimal.RequireFromString("0.125")
	_, _, err = f.items.UpdateItem(context.Background(), item.ID, store.UpdateItemInput{UnitPrice: &price})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	stored, err := f.items.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, stored.UnitPrice.Equal(decimal.RequireFromString("2.50")))

	_, _, err = f.items.UpdateItem(context.Background(), "no-existe", store.UpdateItemInput{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetItemStatus(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Proyector", 2, 1)

	updated, err := f.items.SetItemStatus(context.Background(), item.ID, entity.ItemStatusDiscontinued)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusDiscontinued, updated.Status)
	assert.Equal(t, int64(2), updated.CurrentStock)

	_, err = f.items.SetItemStatus(context.Background(), item.ID, "deleted")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestListItems_Filtros(t *testing.T) {
	f := newFixture(t)
	low := f.createItem(t, "Cuaderno", 2, 5)
	f.createItem(t, "Borrador", 50, 5)
	_, err := f.items.CreateItem(context.Background(), store.CreateItemInput{
		Name: "Escritorio", Category: entity.CategoryFurniture, Unit: entity.UnitPieces, OpeningStock: 3,
	})
	require.NoError(t, err)

	items, total, err := f.items.ListItems(context.Background(), repository.ItemFilter{LowStock: true})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, low.ID, items[0].ID)

	items, total, err = f.items.ListItems(context.Background(), repository.ItemFilter{Category: entity.CategoryFurniture})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "Escritorio", items[0].Name)

	_, total, err = f.items.ListItems(context.Background(), repository.ItemFilter{Search: "borr"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	items, total, err = f.items.ListItems(context.Background(), repository.ItemFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 2)

	_, _, err = f.items.ListItems(context.Background(), repository.ItemFilter{Category: "food"})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCurrentStock(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Pegamento", 7, 2)

	stock, err := f.items.CurrentStock(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stock)

	_, err = f.items.CurrentStock(context.Background(), "ITM999999")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
