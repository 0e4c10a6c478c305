package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/portal-comunitario-api/internal/application/access"
	"github.com/jhoicas/portal-comunitario-api/internal/application/dto"
	"github.com/jhoicas/portal-comunitario-api/internal/application/ports"
	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
	"github.com/spf13/cast"
)

// MaxAttendees tope de asistentes por inscripción.
const MaxAttendees = 20

var (
	errEventNotFound        = domain.WithMessage(domain.ErrNotFound, "evento no encontrado")
	errRegistrationNotFound = domain.WithMessage(domain.ErrNotFound, "inscripción no encontrada")
	errEventFull            = domain.WithMessage(domain.ErrConflict, "el evento no tiene cupos suficientes")
	errAlreadyRegistered    = domain.WithMessage(domain.ErrDuplicateRequest, "ya tienes una inscripción activa para este evento")
)

// RegistrationFilter filtros del listado administrativo de inscripciones.
type RegistrationFilter struct {
	EventID string `query:"eventId"`
	Status  string `query:"status"`
}

// EventUseCase eventos comunitarios y sus inscripciones.
type EventUseCase struct {
	store    repository.DocumentStore
	notifier ports.Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewEventUseCase construye el caso de uso.
func NewEventUseCase(store repository.DocumentStore, notifier ports.Notifier, log *logger.Logger) *EventUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &EventUseCase{store: store, notifier: notifier, log: log.Named("events"), now: time.Now}
}

// CreateEvent publica un evento. Capacity 0 = sin límite.
func (uc *EventUseCase) CreateEvent(ctx context.Context, creator policy.Principal, in dto.CreateEventRequest) (*dto.EventResponse, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title es requerido")
	}
	date, err := time.Parse(time.RFC3339, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, invalid("date debe tener formato RFC3339")
	}
	if in.Capacity < 0 {
		return nil, invalid("capacity no puede ser negativa")
	}
	id, err := uc.store.Add(ctx, repository.CollectionEvents, repository.Fields{
		"title":     title,
		"date":      date.UTC(),
		"location":  strings.TrimSpace(in.Location),
		"capacity":  in.Capacity,
		"createdBy": creator.ID,
		"createdAt": uc.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	doc, err := getOr404(ctx, uc.store, repository.CollectionEvents, id, errEventNotFound)
	if err != nil {
		return nil, err
	}
	out := dto.ShapeEvent(doc)
	return &out, nil
}

// ListEvents eventos publicados, por fecha ascendente.
func (uc *EventUseCase) ListEvents(ctx context.Context, page dto.PageRequest) ([]dto.EventResponse, dto.PageResponse, error) {
	docs, err := uc.store.Query(ctx, repository.CollectionEvents)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	sortNewest(docs, "date")
	for i, j := 0, len(docs)-1; i < j; i, j = i+1, j-1 {
		docs[i], docs[j] = docs[j], docs[i]
	}
	docs, meta := paginate(docs, page)
	items := make([]dto.EventResponse, 0, len(docs))
	for _, doc := range docs {
		items = append(items, dto.ShapeEvent(doc))
	}
	return items, meta, nil
}

// Register inscribe al usuario. Un usuario tiene a lo sumo una inscripción no
// cancelada por evento y la suma de asistentes no supera la capacidad.
func (uc *EventUseCase) Register(ctx context.Context, user *entity.User, eventID string, in dto.CreateEventRegistrationRequest) (*dto.EventRegistrationResponse, error) {
	if err := policy.Authorize(access.PrincipalOf(user), policy.Rule{Capability: policy.CapEventsRegister}); err != nil {
		return nil, err
	}
	attendees := in.Attendees
	if attendees == 0 {
		attendees = 1
	}
	if attendees < 1 || attendees > MaxAttendees {
		return nil, invalid(fmt.Sprintf("attendees debe estar entre 1 y %d", MaxAttendees))
	}
	var id string
	err := uc.store.RunInTx(ctx, func(tx repository.DocumentStore) error {
		event, err := getOr404(ctx, tx, repository.CollectionEvents, eventID, errEventNotFound)
		if err != nil {
			return err
		}
		regs, err := tx.Query(ctx, repository.CollectionEventRegistrations, repository.Where("eventId", eventID))
		if err != nil {
			return err
		}
		taken := 0
		for _, r := range regs {
			status := r.String("status")
			if status == policy.EventCancelled || status == policy.EventBlocked {
				continue
			}
			if r.String("userId") == user.ID {
				return errAlreadyRegistered
			}
			taken += max(cast.ToInt(r.Get("attendees")), 1)
		}
		if capacity := cast.ToInt(event.Get("capacity")); capacity > 0 && taken+attendees > capacity {
			return errEventFull
		}
		now := uc.now().UTC()
		id, err = tx.Add(ctx, repository.CollectionEventRegistrations, repository.Fields{
			"eventId":      eventID,
			"eventTitle":   event.String("title"),
			"userId":       user.ID,
			"userEmail":    user.Email,
			"userName":     user.DisplayName,
			"attendees":    attendees,
			"status":       policy.EventPending,
			"registeredAt": now,
			"updatedAt":    now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.get(ctx, id)
}

// Cancel el propio asistente cancela su inscripción.
func (uc *EventUseCase) Cancel(ctx context.Context, actor policy.Principal, regID string) (*dto.EventRegistrationResponse, error) {
	err := uc.store.RunInTx(ctx, func(tx repository.DocumentStore) error {
		doc, err := getOr404(ctx, tx, repository.CollectionEventRegistrations, regID, errRegistrationNotFound)
		if err != nil {
			return err
		}
		if err := policy.Authorize(actor, policy.Rule{OwnerID: doc.String("userId")}); err != nil {
			return err
		}
		if err := policy.CanCancelEvent(doc.String("status")); err != nil {
			return domain.WithMessage(err, "la inscripción no se puede cancelar en su estado actual")
		}
		return tx.Update(ctx, repository.CollectionEventRegistrations, regID, repository.Fields{
			"status":    policy.EventCancelled,
			"updatedAt": uc.now().UTC(),
			"updatedBy": actor.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return uc.get(ctx, regID)
}

// List inscripciones filtradas por evento y estado, más recientes primero.
func (uc *EventUseCase) List(ctx context.Context, filter RegistrationFilter, page dto.PageRequest) ([]dto.EventRegistrationResponse, dto.PageResponse, error) {
	var filters []repository.Filter
	if filter.EventID != "" {
		filters = append(filters, repository.Where("eventId", filter.EventID))
	}
	if filter.Status != "" {
		switch filter.Status {
		case policy.EventPending, policy.EventConfirmed, policy.EventBlocked, policy.EventCancelled:
		default:
			return nil, dto.PageResponse{}, invalid("estado desconocido: " + filter.Status)
		}
		filters = append(filters, repository.Where("status", filter.Status))
	}
	docs, err := uc.store.Query(ctx, repository.CollectionEventRegistrations, filters...)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	sortNewest(docs, "registeredAt")
	docs, meta := paginate(docs, page)
	items := make([]dto.EventRegistrationResponse, 0, len(docs))
	for _, doc := range docs {
		items = append(items, dto.ShapeEventRegistration(doc))
	}
	return items, meta, nil
}

// GetByID una inscripción.
func (uc *EventUseCase) GetByID(ctx context.Context, regID string) (*dto.EventRegistrationResponse, error) {
	return uc.get(ctx, regID)
}

// Confirm cualquier estado -> confirmed.
func (uc *EventUseCase) Confirm(ctx context.Context, admin policy.Principal, regID string) (*dto.EventRegistrationResponse, error) {
	return uc.apply(ctx, admin, regID, policy.EventActionConfirm)
}

// Block cualquier estado -> blocked.
func (uc *EventUseCase) Block(ctx context.Context, admin policy.Principal, regID string) (*dto.EventRegistrationResponse, error) {
	return uc.apply(ctx, admin, regID, policy.EventActionBlock)
}

// Unblock cualquier estado -> confirmed.
func (uc *EventUseCase) Unblock(ctx context.Context, admin policy.Principal, regID string) (*dto.EventRegistrationResponse, error) {
	return uc.apply(ctx, admin, regID, policy.EventActionUnblock)
}

func (uc *EventUseCase) apply(ctx context.Context, admin policy.Principal, regID string, action policy.EventAction) (*dto.EventRegistrationResponse, error) {
	next, err := policy.NextEventStatus(action)
	if err != nil {
		return nil, err
	}
	var userID, title string
	err = uc.store.RunInTx(ctx, func(tx repository.DocumentStore) error {
		doc, err := getOr404(ctx, tx, repository.CollectionEventRegistrations, regID, errRegistrationNotFound)
		if err != nil {
			return err
		}
		userID = doc.String("userId")
		title = doc.String("eventTitle")
		return tx.Update(ctx, repository.CollectionEventRegistrations, regID, repository.Fields{
			"status":    next,
			"updatedAt": uc.now().UTC(),
			"updatedBy": admin.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	n := entity.Notification{UserID: userID, Link: "/eventos"}
	if next == policy.EventConfirmed {
		n.Type = entity.NotificationEventConfirmed
		n.Title = "Inscripción confirmada"
		n.Message = fmt.Sprintf("Tu inscripción al evento %q fue confirmada.", title)
	} else {
		n.Type = entity.NotificationEventBlocked
		n.Title = "Inscripción bloqueada"
		n.Message = fmt.Sprintf("Tu inscripción al evento %q fue bloqueada por la administración.", title)
	}
	notifyQuietly(ctx, uc.notifier, uc.log, n)
	return uc.get(ctx, regID)
}

// Delete borra la inscripción sin condiciones.
func (uc *EventUseCase) Delete(ctx context.Context, admin policy.Principal, regID string) error {
	if strings.TrimSpace(regID) == "" {
		return errRegistrationNotFound
	}
	if err := uc.store.Delete(ctx, repository.CollectionEventRegistrations, regID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errRegistrationNotFound
		}
		return err
	}
	uc.log.Info().Str("registration_id", regID).Str("admin", admin.ID).Msg("inscripción eliminada")
	return nil
}

func (uc *EventUseCase) get(ctx context.Context, id string) (*dto.EventRegistrationResponse, error) {
	doc, err := getOr404(ctx, uc.store, repository.CollectionEventRegistrations, id, errRegistrationNotFound)
	if err != nil {
		return nil, err
	}
	out := dto.ShapeEventRegistration(doc)
	return &out, nil
}
