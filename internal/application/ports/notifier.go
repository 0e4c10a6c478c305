package ports

import (
	"context"

	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
)

// Notifier puerto de salida para avisar a un usuario. Es fire-and-forget desde
// el punto de vista del caso de uso: un fallo se registra pero no revierte la
// transición que lo originó.
type Notifier interface {
	Enqueue(ctx context.Context, n entity.Notification) error
}
