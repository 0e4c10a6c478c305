package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/portal-comunitario-api/internal/application/dto"
	"github.com/jhoicas/portal-comunitario-api/internal/application/ports"
	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
)

// notifyQuietly encola la notificación; un fallo se registra y no se propaga.
func notifyQuietly(ctx context.Context, n ports.Notifier, log *logger.Logger, msg entity.Notification) {
	if n == nil {
		return
	}
	if err := n.Enqueue(ctx, msg); err != nil {
		log.Warn().Err(err).
			Str("user_id", msg.UserID).
			Str("type", msg.Type).
			Msg("no se pudo encolar la notificación")
	}
}

// sortNewest ordena por el campo de fecha indicado, más recientes primero.
// Los documentos sin fecha quedan al final.
func sortNewest(docs []repository.Document, field string) {
	sort.SliceStable(docs, func(i, j int) bool {
		ti, okI := dto.TimeOf(docs[i].Get(field))
		tj, okJ := dto.TimeOf(docs[j].Get(field))
		switch {
		case !okI:
			return false
		case !okJ:
			return true
		default:
			return ti.After(tj)
		}
	})
}

// paginate recorta items según page y devuelve los metadatos.
func paginate[T any](items []T, page dto.PageRequest) ([]T, dto.PageResponse) {
	page.DefaultPage()
	start, end := page.Window(len(items))
	return items[start:end], dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)}
}

// getOr404 lee un documento y traduce la ausencia a notFound.
func getOr404(ctx context.Context, store repository.DocumentStore, collection, id string, notFound error) (repository.Document, error) {
	if strings.TrimSpace(id) == "" {
		return repository.Document{}, notFound
	}
	doc, err := store.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return repository.Document{}, notFound
		}
		return repository.Document{}, fmt.Errorf("leer %s: %w", collection, err)
	}
	return doc, nil
}

func invalid(msg string) error {
	return domain.WithMessage(domain.ErrInvalidInput, msg)
}
