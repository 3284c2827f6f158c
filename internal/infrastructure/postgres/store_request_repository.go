package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
)

var _ repository.StoreRequestRepository = (*StoreRequestRepo)(nil)

const storeRequestColumns = `id, code, item_id, quantity, department, requested_by, purpose, status,
	decided_by, decision_note, transaction_id, created_at, updated_at, decided_at`

// StoreRequestRepo solicitudes de departamentos sobre PostgreSQL.
type StoreRequestRepo struct {
	q Querier
}

// NewStoreRequestRepository construye el adaptador de solicitudes. Pasar pool o tx (Querier).
func NewStoreRequestRepository(q Querier) *StoreRequestRepo {
	return &StoreRequestRepo{q: q}
}

// Create persiste una solicitud pendiente.
func (r *StoreRequestRepo) Create(ctx context.Context, req *entity.StoreRequest) error {
	query := `
		INSERT INTO store_requests (` + storeRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.Code, req.ItemID, req.Quantity, req.Department, req.RequestedBy, req.Purpose,
		req.Status, nullString(req.DecidedBy), nullString(req.DecisionNote), nullString(req.TransactionID),
		req.CreatedAt, req.UpdatedAt, req.DecidedAt,
	)
	return classify("insert store request", err)
}

// GetByID obtiene una solicitud; (nil, nil) si no existe.
func (r *StoreRequestRepo) GetByID(ctx context.Context, id string) (*entity.StoreRequest, error) {
	return r.getOne(ctx, id, "")
}

// GetForUpdate bloquea la fila de la solicitud.
func (r *StoreRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.StoreRequest, error) {
	return r.getOne(ctx, id, " FOR UPDATE")
}

func (r *StoreRequestRepo) getOne(ctx context.Context, id, suffix string) (*entity.StoreRequest, error) {
	if !validUUID(id) {
		return nil, nil
	}
	req, err := scanStoreRequest(r.q.QueryRow(ctx,
		`SELECT `+storeRequestColumns+` FROM store_requests WHERE id = $1`+suffix, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get store request", err)
	}
	return req, nil
}

// UpdateDecision registra la aprobación o el rechazo.
func (r *StoreRequestRepo) UpdateDecision(ctx context.Context, req *entity.StoreRequest) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE store_requests SET status = $2, decided_by = $3, decision_note = $4, transaction_id = $5,
			decided_at = $6, updated_at = $7
		WHERE id = $1`,
		req.ID, req.Status, nullString(req.DecidedBy), nullString(req.DecisionNote),
		nullString(req.TransactionID), req.DecidedAt, req.UpdatedAt,
	)
	if err != nil {
		return classify("update store request", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List solicitudes más recientes primero.
func (r *StoreRequestRepo) List(ctx context.Context, filter repository.RequestFilter) ([]*entity.StoreRequest, int, error) {
	var w whereBuilder
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Department != "" {
		w.add("department = ?", filter.Department)
	}
	query := `SELECT ` + storeRequestColumns + `, COUNT(*) OVER() FROM store_requests` + w.sql() +
		` ORDER BY created_at DESC, code DESC` + w.page(filter.Limit, filter.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, classify("list store requests", err)
	}
	defer rows.Close()
	list := []*entity.StoreRequest{}
	total := 0
	for rows.Next() {
		var (
			req  entity.StoreRequest
			null requestNulls
		)
		if err := rows.Scan(storeRequestDest(&req, &null, &total)...); err != nil {
			return nil, 0, classify("scan store request", err)
		}
		null.apply(&req)
		list = append(list, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify("list store requests", err)
	}
	return list, total, nil
}

type requestNulls struct {
	decidedBy, note, transactionID *string
}

func (n requestNulls) apply(req *entity.StoreRequest) {
	req.DecidedBy = derefString(n.decidedBy)
	req.DecisionNote = derefString(n.note)
	req.TransactionID = derefString(n.transactionID)
}

func storeRequestDest(req *entity.StoreRequest, n *requestNulls, extra ...any) []any {
	dest := []any{
		&req.ID, &req.Code, &req.ItemID, &req.Quantity, &req.Department, &req.RequestedBy, &req.Purpose,
		&req.Status, &n.decidedBy, &n.note, &n.transactionID, &req.CreatedAt, &req.UpdatedAt, &req.DecidedAt,
	}
	return append(dest, extra...)
}

func scanStoreRequest(row scanner) (*entity.StoreRequest, error) {
	var (
		req entity.StoreRequest
		n   requestNulls
	)
	if err := row.Scan(storeRequestDest(&req, &n)...); err != nil {
		return nil, err
	}
	n.apply(&req)
	return &req, nil
}
