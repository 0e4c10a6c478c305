// Package access resuelve el principal de cada petición: verifica la credencial
// bearer y carga el documento del usuario, que es quien trae el rol vigente.
package access

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/portal-comunitario-api/internal/application/ports"
	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
)

// Guard autentica y carga principales.
type Guard struct {
	verifier ports.TokenVerifier
	users    repository.UserRepository
}

// NewGuard construye el guard.
func NewGuard(verifier ports.TokenVerifier, users repository.UserRepository) *Guard {
	return &Guard{verifier: verifier, users: users}
}

// Authenticate extrae el token de "Bearer <token>" y devuelve el id del principal.
// Header ausente o vacío => ErrUnauthenticated; formato o token inválido => ErrInvalidToken.
func (g *Guard) Authenticate(ctx context.Context, header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", domain.ErrUnauthenticated
	}
	if strings.EqualFold(header, "Bearer") {
		return "", domain.ErrUnauthenticated
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", domain.ErrInvalidToken
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	id, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", domain.ErrInvalidToken
	}
	return id, nil
}

// LoadPrincipal lee el usuario. Si el documento no existe la respuesta es siempre
// ErrUserNotFound, antes de mirar ningún rol; una cuenta inactiva es ErrInactiveUser.
func (g *Guard) LoadPrincipal(ctx context.Context, id string) (*entity.User, error) {
	user, err := g.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cargar principal: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive() {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

// PrincipalOf datos de autorización de un usuario cargado.
func PrincipalOf(u *entity.User) policy.Principal {
	if u == nil {
		return policy.Principal{Role: policy.RoleVisitante}
	}
	return policy.Principal{
		ID:          u.ID,
		Role:        policy.ParseRole(u.Role),
		Permissions: u.Permissions,
	}
}
