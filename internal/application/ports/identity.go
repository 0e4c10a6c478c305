package ports

import "context"

// TokenVerifier puerto hacia el proveedor de identidad: verifica una credencial
// bearer y devuelve el id del principal. Cualquier rechazo se reporta como
// domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// TokenIssuer emite credenciales para un usuario autenticado (login).
type TokenIssuer interface {
	Issue(userID string) (string, error)
}
