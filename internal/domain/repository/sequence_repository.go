package repository

import "context"

// Nombres de secuencias de códigos.
const (
	SequenceItem        = "store_item"
	SequenceTransaction = "stock_transaction"
	SequenceRequest     = "store_request"
)

// SequenceRepository servicio de contadores atómicos para códigos legibles.
// Next nunca repite un valor; un rollback puede dejar huecos.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (uint64, error)
}
