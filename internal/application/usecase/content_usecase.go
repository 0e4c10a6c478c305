package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/portal-comunitario-api/internal/application/dto"
	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
)

var errUnknownSection = domain.WithMessage(domain.ErrNotFound, "sección no encontrada")

// ContentUseCase páginas públicas del portal (lugares, servicios, historia, emergencias).
type ContentUseCase struct {
	store repository.DocumentStore
	now   func() time.Time
}

// NewContentUseCase construye el caso de uso.
func NewContentUseCase(store repository.DocumentStore) *ContentUseCase {
	return &ContentUseCase{store: store, now: time.Now}
}

// GetSection contenido público. Una sección conocida sin documento devuelve una página vacía.
func (uc *ContentUseCase) GetSection(ctx context.Context, section string) (*dto.ContentPageResponse, error) {
	section = strings.ToLower(strings.TrimSpace(section))
	if !entity.IsSection(section) {
		return nil, errUnknownSection
	}
	doc, err := uc.store.Get(ctx, repository.CollectionContentPages, section)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	out := dto.ShapeContent(section, doc)
	return &out, nil
}

// UpsertSection reemplaza título, cuerpo e items de la sección.
func (uc *ContentUseCase) UpsertSection(ctx context.Context, editor policy.Principal, section string, in dto.UpsertContentRequest) (*dto.ContentPageResponse, error) {
	section = strings.ToLower(strings.TrimSpace(section))
	if !entity.IsSection(section) {
		return nil, errUnknownSection
	}
	items := make([]map[string]interface{}, 0, len(in.Items))
	for _, it := range in.Items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			return nil, invalid("cada item requiere title")
		}
		items = append(items, map[string]interface{}{
			"title":       title,
			"description": strings.TrimSpace(it.Description),
			"phone":       strings.TrimSpace(it.Phone),
			"address":     strings.TrimSpace(it.Address),
			"imageUrl":    strings.TrimSpace(it.ImageURL),
		})
	}
	err := uc.store.Set(ctx, repository.CollectionContentPages, section, repository.Fields{
		"title":     strings.TrimSpace(in.Title),
		"body":      in.Body,
		"items":     items,
		"updatedAt": uc.now().UTC(),
		"updatedBy": editor.ID,
	})
	if err != nil {
		return nil, err
	}
	return uc.GetSection(ctx, section)
}
