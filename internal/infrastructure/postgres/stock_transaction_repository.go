package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const stockTransactionColumns = `id, code, item_id, item_code, type, quantity, unit_price, total_value,
	previous_stock, new_stock, department, requested_by, reason, remarks, invoice_number, invoice_date,
	invoice_supplier, request_id, transaction_date, created_by, status, created_at`

// StockTransactionRepo libro de transacciones sobre PostgreSQL. La tabla rechaza UPDATE/DELETE (trigger).
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create inserta una transacción.
func (r *StockTransactionRepo) Create(ctx context.Context, t *entity.StockTransaction) error {
	var (
		invNumber, invSupplier *string
		invDate                *time.Time
	)
	if t.Invoice != nil {
		invNumber = nullString(t.Invoice.Number)
		invSupplier = nullString(t.Invoice.Supplier)
		invDate = t.Invoice.Date
	}
	query := `
		INSERT INTO stock_transactions (` + stockTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Code, t.ItemID, t.ItemCode, t.Type, t.Quantity, t.UnitPrice, t.TotalValue,
		t.PreviousStock, t.NewStock, t.Department, t.RequestedBy, t.Reason, t.Remarks,
		invNumber, invDate, invSupplier, nullString(t.RequestID), t.TransactionDate, t.CreatedBy,
		t.Status, t.CreatedAt,
	)
	return classify("insert stock transaction", err)
}

// GetByID obtiene una transacción; (nil, nil) si no existe.
func (r *StockTransactionRepo) GetByID(ctx context.Context, id string) (*entity.StockTransaction, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+stockTransactionColumns+` FROM stock_transactions WHERE id = $1`, id)
}

// GetByCode obtiene una transacción por código (TXN000001).
func (r *StockTransactionRepo) GetByCode(ctx context.Context, code string) (*entity.StockTransaction, error) {
	return r.getOne(ctx, `SELECT `+stockTransactionColumns+` FROM stock_transactions WHERE code = $1`, code)
}

func (r *StockTransactionRepo) getOne(ctx context.Context, query string, arg any) (*entity.StockTransaction, error) {
	t, err := scanStockTransaction(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get stock transaction", err)
	}
	return t, nil
}

// List historial más reciente primero (transaction_date DESC, code DESC).
func (r *StockTransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.StockTransaction, int, error) {
	var w whereBuilder
	if filter.ItemID != "" {
		if !validUUID(filter.ItemID) {
			return []*entity.StockTransaction{}, 0, nil
		}
		w.add("item_id = ?", filter.ItemID)
	}
	if filter.Type != "" {
		w.add("type = ?", filter.Type)
	}
	if filter.Department != "" {
		w.add("department = ?", filter.Department)
	}
	if filter.From != nil {
		w.add("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		w.add("transaction_date <= ?", *filter.To)
	}
	query := `SELECT ` + stockTransactionColumns + `, COUNT(*) OVER() FROM stock_transactions` + w.sql() +
		` ORDER BY transaction_date DESC, code DESC` + w.page(filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, classify("list stock transactions", err)
	}
	defer rows.Close()
	list := []*entity.StockTransaction{}
	total := 0
	for rows.Next() {
		var t entity.StockTransaction
		var inv invoiceCols
		if err := rows.Scan(stockTransactionDest(&t, &inv, &total)...); err != nil {
			return nil, 0, classify("scan stock transaction", err)
		}
		inv.apply(&t)
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify("list stock transactions", err)
	}
	return list, total, nil
}

// invoiceCols columnas planas de la factura del proveedor.
type invoiceCols struct {
	number, supplier, requestID *string
	date                        *time.Time
}

func (c invoiceCols) apply(t *entity.StockTransaction) {
	t.RequestID = derefString(c.requestID)
	if c.number == nil && c.supplier == nil && c.date == nil {
		return
	}
	t.Invoice = &entity.InvoiceInfo{
		Number:   derefString(c.number),
		Date:     c.date,
		Supplier: derefString(c.supplier),
	}
}

func stockTransactionDest(t *entity.StockTransaction, inv *invoiceCols, extra ...any) []any {
	dest := []any{
		&t.ID, &t.Code, &t.ItemID, &t.ItemCode, &t.Type, &t.Quantity, &t.UnitPrice, &t.TotalValue,
		&t.PreviousStock, &t.NewStock, &t.Department, &t.RequestedBy, &t.Reason, &t.Remarks,
		&inv.number, &inv.date, &inv.supplier, &inv.requestID, &t.TransactionDate, &t.CreatedBy,
		&t.Status, &t.CreatedAt,
	}
	return append(dest, extra...)
}

func scanStockTransaction(row scanner) (*entity.StockTransaction, error) {
	var (
		t   entity.StockTransaction
		inv invoiceCols
	)
	if err := row.Scan(stockTransactionDest(&t, &inv)...); err != nil {
		return nil, err
	}
	inv.apply(&t)
	return &t, nil
}
