package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrInvalidTransition el cambio de estado no pertenece al conjunto de transiciones permitidas.
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	// ErrInvalidState la operación no aplica en el estado actual del registro (ej: editar ítems de una orden cerrada).
	ErrInvalidState = errors.New("operación no válida en el estado actual")
	// ErrInvariantViolation la operación dejaría el registro en un estado inconsistente
	// (ej: orden sin ítems, fecha de vencimiento anterior a la fecha de factura).
	ErrInvariantViolation = errors.New("la operación viola una invariante del registro")
)
