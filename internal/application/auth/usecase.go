package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/portal-comunitario-api/internal/application/dto"
	"github.com/jhoicas/portal-comunitario-api/internal/application/ports"
	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// Límites de contraseña. bcrypt no acepta más de 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// ValidatePassword exige entre MinPasswordLength caracteres y MaxPasswordLength bytes.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return domain.WithMessage(domain.ErrInvalidInput, fmt.Sprintf("password debe tener al menos %d caracteres", MinPasswordLength))
	}
	if len(password) > MaxPasswordLength {
		return domain.WithMessage(domain.ErrInvalidInput, fmt.Sprintf("password no puede superar %d bytes", MaxPasswordLength))
	}
	return nil
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	store    repository.DocumentStore
	issuer   ports.TokenIssuer
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, store repository.DocumentStore, issuer ports.TokenIssuer) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, store: store, issuer: issuer, now: time.Now}
}

// RegisterUser crea un usuario visitante activo: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email (sin distinguir mayúsculas) ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.WithMessage(domain.ErrInvalidInput, "email inválido")
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	user := &entity.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		PasswordHash: string(hash),
		Role:         string(policy.RoleVisitante),
		Status:       entity.UserStatusActive,
		Permissions:  []string{},
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.shape(ctx, user.ID)
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y password incorrecta responden igual (ErrInvalidCredentials).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, domain.ErrInactiveUser
	}
	token, err := uc.issuer.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("emitir token: %w", err)
	}
	out, err := uc.shape(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Success: true, Token: token, User: *out}, nil
}

func (uc *AuthUseCase) shape(ctx context.Context, id string) (*dto.UserResponse, error) {
	doc, err := uc.store.Get(ctx, repository.CollectionUsers, id)
	if err != nil {
		return nil, fmt.Errorf("leer usuario: %w", err)
	}
	out := dto.ShapeUser(doc)
	return &out, nil
}
