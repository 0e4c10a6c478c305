package usecase

import (
	"context"
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
)

var errSecurityNotFound = domain.WithMessage(domain.ErrNotFound, "registro de seguridad no encontrado")

// SecurityRegistrationUseCase inscripciones al plan de seguridad del sector.
type SecurityRegistrationUseCase struct {
	store    repository.DocumentStore
	notifier ports.Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewSecurityRegistrationUseCase construye el caso de uso.
func NewSecurityRegistrationUseCase(store repository.DocumentStore, notifier ports.Notifier, log *logger.Logger) *SecurityRegistrationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SecurityRegistrationUseCase{store: store, notifier: notifier, log: log.Named("security"), now: time.Now}
}

// Submit crea una inscripción pending a nombre del usuario autenticado.
func (uc *SecurityRegistrationUseCase) Submit(ctx context.Context, submitter *entity.User, in dto.CreateSecurityRegistrationRequest) (*dto.SecurityRegistrationResponse, error) {
	if err := policy.Authorize(access.PrincipalOf(submitter), policy.Rule{Capability: policy.CapSecuritySubmit}); err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(in.FullName)
	address := strings.TrimSpace(in.Address)
	phone := strings.TrimSpace(in.Phone)
	if fullName == "" || address == "" || phone == "" {
		return nil, invalid("fullName, address y phone son requeridos")
	}
	if in.Residents < 0 {
		return nil, invalid("residents no puede ser negativo")
	}
	vehicles := make([]string, 0, len(in.Vehicles))
	for _, v := range in.Vehicles {
		if v = strings.ToUpper(strings.TrimSpace(v)); v != "" {
			vehicles = append(vehicles, v)
		}
	}
	id, err := uc.store.Add(ctx, repository.CollectionSecurityRegistrations, repository.Fields{
		"userId":      submitter.ID,
		"userEmail":   submitter.Email,
		"fullName":    fullName,
		"address":     address,
		"phone":       phone,
		"residents":   in.Residents,
		"vehicles":    vehicles,
		"comments":    strings.TrimSpace(in.Comments),
		"status":      policy.SecurityPending,
		"submittedAt": uc.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return uc.get(ctx, id)
}

// List inscripciones filtradas por estado, más recientes primero.
func (uc *SecurityRegistrationUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]dto.SecurityRegistrationResponse, dto.PageResponse, error) {
	var filters []repository.Filter
	if status != "" {
		switch status {
		case policy.SecurityPending, policy.SecurityActive, policy.SecurityRejected:
		default:
			return nil, dto.PageResponse{}, invalid("estado desconocido: " + status)
		}
		filters = append(filters, repository.Where("status", status))
	}
	docs, err := uc.store.Query(ctx, repository.CollectionSecurityRegistrations, filters...)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	sortNewest(docs, "submittedAt")
	docs, meta := paginate(docs, page)
	items := make([]dto.SecurityRegistrationResponse, 0, len(docs))
	for _, doc := range docs {
		items = append(items, dto.ShapeSecurityRegistration(doc))
	}
	return items, meta, nil
}

// GetByID el autor de la inscripción o un rol elevado.
func (uc *SecurityRegistrationUseCase) GetByID(ctx context.Context, actor policy.Principal, id string) (*dto.SecurityRegistrationResponse, error) {
	doc, err := getOr404(ctx, uc.store, repository.CollectionSecurityRegistrations, id, errSecurityNotFound)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.OwnerOrAdmin(doc.String("userId"))); err != nil {
		return nil, err
	}
	out := dto.ShapeSecurityRegistration(doc)
	return &out, nil
}

// Approve pending -> active.
func (uc *SecurityRegistrationUseCase) Approve(ctx context.Context, reviewer policy.Principal, id, notes string) (*dto.SecurityRegistrationResponse, error) {
	return uc.review(ctx, reviewer, id, notes, policy.DecisionApprove)
}

// Reject pending -> rejected.
func (uc *SecurityRegistrationUseCase) Reject(ctx context.Context, reviewer policy.Principal, id, notes string) (*dto.SecurityRegistrationResponse, error) {
	return uc.review(ctx, reviewer, id, notes, policy.DecisionReject)
}

func (uc *SecurityRegistrationUseCase) review(ctx context.Context, reviewer policy.Principal, id, notes string, d policy.Decision) (*dto.SecurityRegistrationResponse, error) {
	var userID string
	err := uc.store.RunInTx(ctx, func(tx repository.DocumentStore) error {
		doc, err := getOr404(ctx, tx, repository.CollectionSecurityRegistrations, id, errSecurityNotFound)
		if err != nil {
			return err
		}
		next, err := policy.ReviewSecurity(doc.String("status"), d)
		if err != nil {
			return err
		}
		userID = doc.String("userId")
		return tx.Update(ctx, repository.CollectionSecurityRegistrations, id, repository.Fields{
			"status":      next,
			"reviewedAt":  uc.now().UTC(),
			"reviewedBy":  reviewer.ID,
			"reviewNotes": strings.TrimSpace(notes),
		})
	})
	if err != nil {
		return nil, err
	}

	n := entity.Notification{UserID: userID, Link: "/seguridad"}
	if d == policy.DecisionApprove {
		n.Type = entity.NotificationSecurityApproved
		n.Title = "Registro de seguridad aprobado"
		n.Message = "Tu inscripción al plan de seguridad fue aprobada y ya está activa."
	} else {
		n.Type = entity.NotificationSecurityRejected
		n.Title = "Registro de seguridad rechazado"
		n.Message = "Tu inscripción al plan de seguridad fue rechazada."
		if s := strings.TrimSpace(notes); s != "" {
			n.Message += " Motivo: " + s
		}
	}
	notifyQuietly(ctx, uc.notifier, uc.log, n)
	return uc.get(ctx, id)
}

// UpdateReviewNotes solo sobre registros rechazados (ErrNotesLocked en otro caso).
func (uc *SecurityRegistrationUseCase) UpdateReviewNotes(ctx context.Context, reviewer policy.Principal, id, notes string) (*dto.SecurityRegistrationResponse, error) {
	err := uc.store.RunInTx(ctx, func(tx repository.DocumentStore) error {
		doc, err := getOr404(ctx, tx, repository.CollectionSecurityRegistrations, id, errSecurityNotFound)
		if err != nil {
			return err
		}
		if err := policy.CanEditSecurityNotes(doc.String("status")); err != nil {
			return err
		}
		return tx.Update(ctx, repository.CollectionSecurityRegistrations, id, repository.Fields{
			"reviewNotes": strings.TrimSpace(notes),
			"reviewedAt":  uc.now().UTC(),
			"reviewedBy":  reviewer.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return uc.get(ctx, id)
}

func (uc *SecurityRegistrationUseCase) get(ctx context.Context, id string) (*dto.SecurityRegistrationResponse, error) {
	doc, err := getOr404(ctx, uc.store, repository.CollectionSecurityRegistrations, id, errSecurityNotFound)
	if err != nil {
		return nil, err
	}
	out := dto.ShapeSecurityRegistration(doc)
	return &out, nil
}
