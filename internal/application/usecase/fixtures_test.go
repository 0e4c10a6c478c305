package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
	"github.com/jhoicas/portal-comunitario-api/internal/infrastructure/memory"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	adminPrincipal = policy.Principal{ID: "A1", Role: policy.RoleAdmin}
	superPrincipal = policy.Principal{ID: "S1", Role: policy.RoleSuperAdmin}
)

func clock() time.Time { return fixedNow }

// captureNotifier guarda las notificaciones encoladas; failWith simula un canal caído.
type captureNotifier struct {
	mu       sync.Mutex
	sent     []entity.Notification
	failWith error
}

func (n *captureNotifier) Enqueue(ctx context.Context, msg entity.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failWith != nil {
		return n.failWith
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *captureNotifier) all() []entity.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entity.Notification(nil), n.sent...)
}

var errNotifierDown = errors.New("canal de notificaciones caído")

func seed(t *testing.T, store repository.DocumentStore, collection, id string, fields repository.Fields) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), collection, id, fields))
}

func member(id string) *entity.User {
	return &entity.User{
		ID:          id,
		Email:       id + "@example.com",
		DisplayName: "Vecino " + id,
		Role:        string(policy.RoleComunidad),
		Status:      entity.UserStatusActive,
	}
}

// seedUser guarda el documento del usuario, como lo haría el registro.
func seedUser(t *testing.T, store repository.DocumentStore, u *entity.User) {
	seed(t, store, repository.CollectionUsers, u.ID, repository.Fields{
		"email":       u.Email,
		"displayName": u.DisplayName,
		"role":        u.Role,
		"status":      u.Status,
	})
}

func visitor(id string) *entity.User {
	u := member(id)
	u.Role = string(policy.RoleVisitante)
	return u
}

func newMemoryStore() *memory.DocumentStore {
	return memory.NewDocumentStore()
}
