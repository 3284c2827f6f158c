package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") y los llamadores comparan con errors.Is.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual, reintente")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrStorageFailure     = errors.New("falla de almacenamiento")
)

// ErrInvalidArgument es el nombre del ledger para ErrInvalidInput.
var ErrInvalidArgument = ErrInvalidInput
