package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// La capa HTTP los traduce 1:1 a códigos de estado en interfaces/http/errors.go.
var (
	// 400
	ErrInvalidInput = errors.New("entrada inválida")

	// 401
	ErrUnauthenticated    = errors.New("token de autorización requerido")
	ErrInvalidToken       = errors.New("token inválido o expirado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")

	// 403
	ErrForbidden    = errors.New("acceso denegado")
	ErrInactiveUser = errors.New("cuenta inactiva")

	// 404
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")

	// 409
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrAlreadyProcessed   = errors.New("esta solicitud ya ha sido procesada")
	ErrNotesLocked        = errors.New("solo se pueden editar las notas de registros rechazados")
	ErrDuplicateRequest   = errors.New("ya existe una solicitud pendiente")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrSelfModification   = errors.New("no puede modificar su propia cuenta")

	// 503 (colaborador externo no disponible; el decorador de reintentos lo reconoce)
	ErrUnavailable = errors.New("servicio de datos no disponible")
)

// kindError error con mensaje propio que sigue respondiendo a errors.Is(err, kind).
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// WithMessage devuelve un error de la categoría kind con un mensaje más específico.
func WithMessage(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}
