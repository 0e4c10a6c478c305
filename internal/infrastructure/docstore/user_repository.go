// Package docstore contiene los repositorios tipados construidos sobre el
// puerto genérico repository.DocumentStore.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
	"golang.org/x/text/cases"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository sobre la colección users.
type UserRepo struct {
	store repository.DocumentStore
}

// NewUserRepository construye el repositorio.
func NewUserRepository(store repository.DocumentStore) *UserRepo {
	return &UserRepo{store: store}
}

// NormalizeEmail clave de búsqueda: sin espacios y con plegado de mayúsculas Unicode.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// Create persiste un nuevo usuario y completa user.ID. Email duplicado => ErrEmailAlreadyExists.
// La búsqueda del email y el alta corren en la misma transacción.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	key := NormalizeEmail(user.Email)
	perms := user.Permissions
	if perms == nil {
		perms = []string{}
	}
	var id string
	err := r.store.RunInTx(ctx, func(tx repository.DocumentStore) error {
		existing, err := findByEmail(ctx, tx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		id, err = tx.Add(ctx, repository.CollectionUsers, repository.Fields{
			"email":        strings.TrimSpace(user.Email),
			"emailKey":     key,
			"displayName":  user.DisplayName,
			"passwordHash": user.PasswordHash,
			"role":         user.Role,
			"status":       user.Status,
			"permissions":  perms,
			"createdAt":    user.CreatedAt,
			"updatedAt":    user.UpdatedAt,
		})
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return err
		case errors.Is(err, domain.ErrConflict):
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.EmailKey = key
	user.ID = id
	return nil
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if id == "" {
		return nil, nil
	}
	doc, err := r.store.Get(ctx, repository.CollectionUsers, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return decodeUser(doc)
}

// GetByEmail busca por email normalizado; (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return findByEmail(ctx, r.store, NormalizeEmail(email))
}

func findByEmail(ctx context.Context, store repository.DocumentStore, key string) (*entity.User, error) {
	docs, err := store.Query(ctx, repository.CollectionUsers, repository.Where("emailKey", key))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decodeUser(docs[0])
}

// List lista usuarios filtrando por rol/estado, más recientes primero.
func (r *UserRepo) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	var filters []repository.Filter
	if filter.Role != "" {
		filters = append(filters, repository.Where("role", filter.Role))
	}
	if filter.Status != "" {
		filters = append(filters, repository.Where("status", filter.Status))
	}
	docs, err := r.store.Query(ctx, repository.CollectionUsers, filters...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	list := make([]*entity.User, 0, len(docs))
	for _, doc := range docs {
		u, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return newerThan(list[i], list[j])
	})
	return list, nil
}

// Update fusiona campos sobre el documento del usuario.
func (r *UserRepo) Update(ctx context.Context, id string, patch repository.Fields) error {
	if err := r.store.Update(ctx, repository.CollectionUsers, id, patch); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func decodeUser(doc repository.Document) (*entity.User, error) {
	var u entity.User
	if err := doc.Decode(&u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

func newerThan(a, b *entity.User) bool {
	switch {
	case a.CreatedAt == nil:
		return false
	case b.CreatedAt == nil:
		return true
	default:
		return a.CreatedAt.After(*b.CreatedAt)
	}
}
