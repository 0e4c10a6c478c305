package policy

import (
	"time"

	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
)

// Estados de una solicitud de acceso a cámara.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Estados de una inscripción al plan de seguridad.
const (
	SecurityPending  = "pending"
	SecurityActive   = "active"
	SecurityRejected = "rejected"
)

// Estados de una inscripción a evento.
const (
	EventPending   = "pending"
	EventConfirmed = "confirmed"
	EventBlocked   = "blocked"
	EventCancelled = "cancelled"
)

// Decision resultado de una revisión administrativa.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// EventAction acción administrativa sobre una inscripción a evento.
type EventAction string

const (
	EventActionConfirm EventAction = "confirm"
	EventActionBlock   EventAction = "block"
	EventActionUnblock EventAction = "unblock"
)

// isPending un estado vacío cuenta como pendiente (documento recién creado sin el campo).
func isPending(status string) bool {
	return status == "" || status == RequestPending
}

// ReviewAccessRequest calcula el estado destino de una solicitud de cámara.
// Solo se sale de pending una vez; cualquier otro origen es ErrAlreadyProcessed.
func ReviewAccessRequest(current string, d Decision) (string, error) {
	if !isPending(current) {
		return "", domain.ErrAlreadyProcessed
	}
	switch d {
	case DecisionApprove:
		return RequestApproved, nil
	case DecisionReject:
		return RequestRejected, nil
	default:
		return "", domain.ErrInvalidInput
	}
}

// ReviewSecurity igual que ReviewAccessRequest pero la aprobación deja el registro active.
func ReviewSecurity(current string, d Decision) (string, error) {
	if !isPending(current) {
		return "", domain.ErrAlreadyProcessed
	}
	switch d {
	case DecisionApprove:
		return SecurityActive, nil
	case DecisionReject:
		return SecurityRejected, nil
	default:
		return "", domain.ErrInvalidInput
	}
}

// CanEditSecurityNotes las notas solo se editan sobre registros rechazados,
// así no se altera el historial de un registro activo.
func CanEditSecurityNotes(current string) error {
	if current != SecurityRejected {
		return domain.ErrNotesLocked
	}
	return nil
}

// NextEventStatus estado destino de una acción administrativa. No depende del origen.
func NextEventStatus(a EventAction) (string, error) {
	switch a {
	case EventActionConfirm, EventActionUnblock:
		return EventConfirmed, nil
	case EventActionBlock:
		return EventBlocked, nil
	default:
		return "", domain.ErrInvalidInput
	}
}

// CanCancelEvent el asistente puede cancelar mientras no esté bloqueado ni ya cancelado.
func CanCancelEvent(current string) error {
	switch current {
	case EventBlocked, EventCancelled:
		return domain.ErrConflict
	default:
		return nil
	}
}

// GrantActive un permiso vale mientras no tenga vencimiento o este sea futuro.
func GrantActive(g entity.CameraGrant, now time.Time) bool {
	return g.ExpiresAt == nil || now.Before(*g.ExpiresAt)
}
