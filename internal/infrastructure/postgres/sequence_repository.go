package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// Secuencias de PostgreSQL por nombre lógico.
var sequenceNames = map[string]string{
	repository.SequenceItem:        "store_item_code_seq",
	repository.SequenceTransaction: "stock_transaction_code_seq",
	repository.SequenceRequest:     "store_request_code_seq",
}

// SequenceRepo contadores atómicos con nextval; no se revierten con la transacción.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el servicio de secuencias. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente valor de la secuencia.
func (r *SequenceRepo) Next(ctx context.Context, name string) (uint64, error) {
	seq, ok := sequenceNames[name]
	if !ok {
		return 0, fmt.Errorf("%w: secuencia %q", domain.ErrInvalidArgument, name)
	}
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval($1::regclass)`, seq).Scan(&n); err != nil {
		return 0, classify("nextval "+seq, err)
	}
	return uint64(n), nil
}
