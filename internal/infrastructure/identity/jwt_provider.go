package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/portal-comunitario-api/internal/application/ports"
	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/pkg/jwt"
)

var (
	_ ports.TokenVerifier = (*JWTProvider)(nil)
	_ ports.TokenIssuer   = (*JWTProvider)(nil)
)

// JWTProvider proveedor de identidad basado en tokens HS256 emitidos por el propio portal.
type JWTProvider struct {
	secret     string
	issuer     string
	expMinutes int
}

// NewJWTProvider construye el proveedor.
func NewJWTProvider(secret, issuer string, expMinutes int) *JWTProvider {
	return &JWTProvider{secret: secret, issuer: issuer, expMinutes: expMinutes}
}

// Verify valida firma y expiración y devuelve el id del usuario.
func (p *JWTProvider) Verify(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	userID, err := jwt.Parse(p.secret, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	return userID, nil
}

// Issue firma un token para userID.
func (p *JWTProvider) Issue(userID string) (string, error) {
	return jwt.Generate(p.secret, userID, p.issuer, p.expMinutes)
}
