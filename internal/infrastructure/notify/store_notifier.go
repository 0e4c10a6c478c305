package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/portal-comunitario-api/internal/application/ports"
	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
)

var _ ports.Notifier = (*StoreNotifier)(nil)

// StoreNotifier encola la notificación como documento en la colección notifications;
// el frontend la lee desde ahí.
type StoreNotifier struct {
	store repository.DocumentStore
	now   func() time.Time
}

// NewStoreNotifier construye el notificador.
func NewStoreNotifier(store repository.DocumentStore) *StoreNotifier {
	return &StoreNotifier{store: store, now: time.Now}
}

// Enqueue crea la notificación sin leer.
func (n *StoreNotifier) Enqueue(ctx context.Context, in entity.Notification) error {
	if in.UserID == "" || in.Type == "" {
		return fmt.Errorf("notificación: %w", domain.ErrInvalidInput)
	}
	_, err := n.store.Add(ctx, repository.CollectionNotifications, repository.Fields{
		"userId":    in.UserID,
		"type":      in.Type,
		"title":     in.Title,
		"message":   in.Message,
		"link":      in.Link,
		"read":      false,
		"createdAt": n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encolar notificación: %w", err)
	}
	return nil
}
