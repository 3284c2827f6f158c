package badgerstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
	"github.com/jhoicas/campus-store/internal/infrastructure/badgerstore"
)

func openDB(t *testing.T) *badgerstore.DB {
	t.Helper()
	db, err := badgerstore.Open("", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedItem(t *testing.T, db *badgerstore.DB, code string, stock int64) *entity.Item {
	t.Helper()
	item := &entity.Item{
		ID: code + "-id", Code: code, Name: "Artículo " + code, Category: entity.CategoryOther,
		Unit: entity.UnitPieces, CurrentStock: stock, UnitPrice: decimal.NewFromInt(1),
		Status: entity.ItemStatusActive, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, badgerstore.NewItemRepository(db).Create(context.Background(), item))
	return item
}

func TestSequence_EmpiezaEnUnoYNoRepite(t *testing.T) {
	db := openDB(t)
	seq := badgerstore.NewSequenceRepository(db)
	ctx := context.Background()

	n, err := seq.Next(ctx, repository.SequenceItem)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	n, err = seq.Next(ctx, repository.SequenceItem)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	other, err := seq.Next(ctx, repository.SequenceTransaction)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), other, "cada secuencia es independiente")
}

func TestItemRepo_CodigoDuplicado(t *testing.T) {
	db := openDB(t)
	seedItem(t, db, "ITM000001", 0)

	dup := &entity.Item{ID: "otro", Code: "ITM000001", Status: entity.ItemStatusActive}
	err := badgerstore.NewItemRepository(db).Create(context.Background(), dup)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemRepo_UpdateStockVerificaVersion(t *testing.T) {
	db := openDB(t)
	item := seedItem(t, db, "ITM000001", 5)
	repo := badgerstore.NewItemRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpdateStock(ctx, item.ID, 9, 0))
	err := repo.UpdateStock(ctx, item.ID, 1, 0)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), stored.CurrentStock)
	assert.Equal(t, int64(1), stored.Version)
}

func TestItemRepo_UpdateConservaStock(t *testing.T) {
	db := openDB(t)
	item := seedItem(t, db, "ITM000001", 5)
	repo := badgerstore.NewItemRepository(db)
	ctx := context.Background()

	item.Name = "Renombrado"
	item.CurrentStock = 999
	require.NoError(t, repo.Update(ctx, item))

	stored, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renombrado", stored.Name)
	assert.Equal(t, int64(5), stored.CurrentStock)
}

// Dos transacciones leen el mismo artículo; la segunda en confirmar recibe ErrConflict.
func TestTxRunner_ConflictoOptimista(t *testing.T) {
	db := openDB(t)
	item := seedItem(t, db, "ITM000001", 5)
	runner := badgerstore.NewTxRunner(db)
	ctx := context.Background()

	read := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, func(tx store.StoreTx) error {
			it, err := tx.Items().GetForUpdate(ctx, item.ID)
			if err != nil {
				return err
			}
			close(read)
			time.Sleep(50 * time.Millisecond)
			return tx.Items().UpdateStock(ctx, it.ID, 1, it.Version)
		})
	}()

	<-read
	err := runner.Run(ctx, func(tx store.StoreTx) error {
		it, err := tx.Items().GetForUpdate(ctx, item.ID)
		if err != nil {
			return err
		}
		return tx.Items().UpdateStock(ctx, it.ID, 2, it.Version)
	})
	require.NoError(t, err)

	slow := <-done
	require.Error(t, slow)
	assert.True(t, errors.Is(slow, domain.ErrConflict), slow.Error())

	stored, err := badgerstore.NewItemRepository(db).GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.CurrentStock)
}

func TestTransactionRepo_HistorialPaginado(t *testing.T) {
	db := openDB(t)
	repo := badgerstore.NewStockTransactionRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		tx := &entity.StockTransaction{
			ID: "tx-" + string(rune('a'+i)), Code: "TXN00000" + string(rune('1'+i)),
			ItemID: "item-1", Type: entity.TransactionTypeInward, Quantity: 1,
			TransactionDate: base.Add(time.Duration(i) * time.Hour),
			Status:          entity.TransactionStatusCompleted,
		}
		if i == 4 {
			tx.ItemID = "item-2"
		}
		require.NoError(t, repo.Create(ctx, tx))
	}

	page, total, err := repo.List(ctx, repository.TransactionFilter{ItemID: "item-1", Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, page, 2)
	assert.Equal(t, "TXN000003", page[0].Code)
	assert.Equal(t, "TXN000002", page[1].Code)

	to := base.Add(90 * time.Minute)
	_, total, err = repo.List(ctx, repository.TransactionFilter{To: &to})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	dup := &entity.StockTransaction{ID: "tx-a", Code: "TXN000099", TransactionDate: base}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrDuplicate)
}

func TestTransactionRepo_OrdenCronologicoAntesDe1970(t *testing.T) {
	db := openDB(t)
	repo := badgerstore.NewStockTransactionRepository(db)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(1965, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(1970, 1, 1, 0, 0, 1, 0, time.UTC),
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2400, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		require.NoError(t, repo.Create(ctx, &entity.StockTransaction{
			ID: "old-" + string(rune('a'+i)), Code: "TXN00000" + string(rune('1'+i)),
			ItemID: "item-1", Type: entity.TransactionTypeInward, Quantity: 1,
			TransactionDate: d, Status: entity.TransactionStatusCompleted,
		}))
	}

	for _, filter := range []repository.TransactionFilter{{}, {ItemID: "item-1"}} {
		page, total, err := repo.List(ctx, filter)
		require.NoError(t, err)
		require.Equal(t, len(dates), total)
		for i := range page {
			assert.True(t, page[i].TransactionDate.Equal(dates[len(dates)-1-i]),
				"posición %d: %s", i, page[i].TransactionDate)
		}
	}
}
