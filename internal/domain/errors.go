package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los de validación y estado se detectan antes de cualquier escritura;
// ErrConflict solo aparece tras un intento de commit y garantiza rollback completo.
var (
	ErrValidation        = errors.New("entrada inválida")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrOverReceipt       = errors.New("cantidad recibida excede lo pendiente")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrConflict          = errors.New("conflicto con una escritura concurrente")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// IsRetryable indica si el error se debe a una escritura concurrente y el caller puede reintentar.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
