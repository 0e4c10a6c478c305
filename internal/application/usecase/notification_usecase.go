package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/portal-comunitario-api/internal/application/dto"
	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
)

var errNotificationNotFound = domain.WithMessage(domain.ErrNotFound, "notificación no encontrada")

// NotificationUseCase bandeja de notificaciones del usuario.
type NotificationUseCase struct {
	store repository.DocumentStore
	now   func() time.Time
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(store repository.DocumentStore) *NotificationUseCase {
	return &NotificationUseCase{store: store, now: time.Now}
}

// ListMine notificaciones del usuario, más recientes primero. unreadOnly filtra las leídas.
func (uc *NotificationUseCase) ListMine(ctx context.Context, userID string, unreadOnly bool, page dto.PageRequest) ([]dto.NotificationResponse, dto.PageResponse, error) {
	filters := []repository.Filter{repository.Where("userId", userID)}
	if unreadOnly {
		filters = append(filters, repository.Where("read", false))
	}
	docs, err := uc.store.Query(ctx, repository.CollectionNotifications, filters...)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	sortNewest(docs, "createdAt")
	docs, meta := paginate(docs, page)
	items := make([]dto.NotificationResponse, 0, len(docs))
	for _, doc := range docs {
		items = append(items, dto.ShapeNotification(doc))
	}
	return items, meta, nil
}

// MarkRead marca como leída una notificación propia.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, actor policy.Principal, id string) (*dto.NotificationResponse, error) {
	err := uc.store.RunInTx(ctx, func(tx repository.DocumentStore) error {
		doc, err := getOr404(ctx, tx, repository.CollectionNotifications, id, errNotificationNotFound)
		if err != nil {
			return err
		}
		// Una notificación ajena se reporta como inexistente.
		if doc.String("userId") != actor.ID {
			return errNotificationNotFound
		}
		return tx.Update(ctx, repository.CollectionNotifications, id, repository.Fields{
			"read":   true,
			"readAt": uc.now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	doc, err := getOr404(ctx, uc.store, repository.CollectionNotifications, id, errNotificationNotFound)
	if err != nil {
		return nil, err
	}
	out := dto.ShapeNotification(doc)
	return &out, nil
}
