package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/portal-comunitario-api/internal/application/dto"
	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
)

// UserFilter filtros del listado administrativo de usuarios.
type UserFilter struct {
	Role   string `query:"role"`
	Status string `query:"status"`
}

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo  repository.UserRepository
	store repository.DocumentStore
	now   func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, store repository.DocumentStore) *UserUseCase {
	return &UserUseCase{repo: repo, store: store, now: time.Now}
}

// GetByID obtiene un usuario por ID. El propio usuario o un rol elevado.
func (uc *UserUseCase) GetByID(ctx context.Context, actor policy.Principal, id string) (*dto.UserResponse, error) {
	if err := policy.Authorize(actor, policy.OwnerOrAdmin(id)); err != nil {
		return nil, err
	}
	doc, err := getOr404(ctx, uc.store, repository.CollectionUsers, id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	out := dto.ShapeUser(doc)
	return &out, nil
}

// List lista usuarios, más recientes primero.
func (uc *UserUseCase) List(ctx context.Context, filter UserFilter, page dto.PageRequest) ([]dto.UserResponse, dto.PageResponse, error) {
	var filters []repository.Filter
	if filter.Role != "" {
		if !policy.IsValidRole(filter.Role) {
			return nil, dto.PageResponse{}, invalid("rol desconocido: " + filter.Role)
		}
		filters = append(filters, repository.Where("role", filter.Role))
	}
	if filter.Status != "" {
		if filter.Status != entity.UserStatusActive && filter.Status != entity.UserStatusInactive {
			return nil, dto.PageResponse{}, invalid("estado desconocido: " + filter.Status)
		}
		filters = append(filters, repository.Where("status", filter.Status))
	}
	docs, err := uc.store.Query(ctx, repository.CollectionUsers, filters...)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	sortNewest(docs, "createdAt")
	docs, meta := paginate(docs, page)
	items := make([]dto.UserResponse, 0, len(docs))
	for _, doc := range docs {
		items = append(items, dto.ShapeUser(doc))
	}
	return items, meta, nil
}

// UpdateRole cambia el rol. Solo un super_admin puede otorgar super_admin y nadie
// puede cambiar su propio rol.
func (uc *UserUseCase) UpdateRole(ctx context.Context, actor policy.Principal, id, role string) (*dto.UserResponse, error) {
	role = strings.TrimSpace(role)
	if !policy.IsValidRole(role) {
		return nil, invalid("rol inválido; valores permitidos: visitante, comunidad, admin, super_admin")
	}
	if actor.ID == id {
		return nil, domain.ErrSelfModification
	}
	if policy.Role(role) == policy.RoleSuperAdmin && actor.Role != policy.RoleSuperAdmin {
		return nil, domain.WithMessage(domain.ErrForbidden, "solo un super_admin puede otorgar el rol super_admin")
	}
	return uc.update(ctx, id, repository.Fields{"role": role})
}

// UpdateStatus activa o desactiva una cuenta. Un usuario no puede desactivarse a sí mismo.
func (uc *UserUseCase) UpdateStatus(ctx context.Context, actor policy.Principal, id, status string) (*dto.UserResponse, error) {
	status = strings.TrimSpace(status)
	if status != entity.UserStatusActive && status != entity.UserStatusInactive {
		return nil, invalid("estado inválido; valores permitidos: active, inactive")
	}
	if actor.ID == id {
		return nil, domain.ErrSelfModification
	}
	return uc.update(ctx, id, repository.Fields{"status": status})
}

// UpdatePermissions reemplaza los permisos explícitos (sin duplicados, ordenados).
func (uc *UserUseCase) UpdatePermissions(ctx context.Context, actor policy.Principal, id string, perms []string) (*dto.UserResponse, error) {
	if actor.ID == id {
		return nil, domain.ErrSelfModification
	}
	seen := make(map[string]struct{}, len(perms))
	clean := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !policy.IsKnownCapability(p) {
			return nil, invalid("permiso desconocido: " + p)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		clean = append(clean, p)
	}
	sort.Strings(clean)
	return uc.update(ctx, id, repository.Fields{"permissions": clean})
}

func (uc *UserUseCase) update(ctx context.Context, id string, patch repository.Fields) (*dto.UserResponse, error) {
	patch["updatedAt"] = uc.now().UTC()
	if err := uc.repo.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	doc, err := getOr404(ctx, uc.store, repository.CollectionUsers, id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	out := dto.ShapeUser(doc)
	return &out, nil
}
