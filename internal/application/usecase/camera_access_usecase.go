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
)

var errAccessRequestNotFound = domain.WithMessage(domain.ErrNotFound, "solicitud no encontrada")

// CameraAccessUseCase solicitudes de acceso a cámaras y permisos resultantes.
type CameraAccessUseCase struct {
	store    repository.DocumentStore
	notifier ports.Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewCameraAccessUseCase construye el caso de uso.
func NewCameraAccessUseCase(store repository.DocumentStore, notifier ports.Notifier, log *logger.Logger) *CameraAccessUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CameraAccessUseCase{store: store, notifier: notifier, log: log.Named("camera_access"), now: time.Now}
}

// RequestAccess crea una solicitud pending. Una segunda solicitud pendiente para la
// misma cámara => ErrDuplicateRequest, también entre peticiones concurrentes.
func (uc *CameraAccessUseCase) RequestAccess(ctx context.Context, requester *entity.User, in dto.CreateAccessRequest) (*dto.AccessRequestResponse, error) {
	cameraID := strings.TrimSpace(in.CameraID)
	if cameraID == "" {
		return nil, invalid("cameraId es requerido")
	}
	if err := policy.Authorize(access.PrincipalOf(requester), policy.Rule{Capability: policy.CapCameraRequest}); err != nil {
		return nil, err
	}
	var id string
	err := uc.store.RunInTx(ctx, func(tx repository.DocumentStore) error {
		// El bloqueo de la fila del solicitante serializa sus solicitudes concurrentes.
		if _, err := getOr404(ctx, tx, repository.CollectionUsers, requester.ID, domain.ErrUserNotFound); err != nil {
			return err
		}
		pending, err := tx.Query(ctx, repository.CollectionCameraAccessRequests,
			repository.Where("userId", requester.ID),
			repository.Where("cameraId", cameraID),
			repository.Where("status", policy.RequestPending),
		)
		if err != nil {
			return err
		}
		if len(pending) > 0 {
			return domain.ErrDuplicateRequest
		}
		id, err = tx.Add(ctx, repository.CollectionCameraAccessRequests, repository.Fields{
			"userId":      requester.ID,
			"userEmail":   requester.Email,
			"userName":    requester.DisplayName,
			"cameraId":    cameraID,
			"cameraName":  strings.TrimSpace(in.CameraName),
			"reason":      strings.TrimSpace(in.Reason),
			"status":      policy.RequestPending,
			"requestedAt": uc.now().UTC(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.get(ctx, id)
}

// ListRequests solicitudes filtradas por estado (vacío = todas), más recientes primero.
func (uc *CameraAccessUseCase) ListRequests(ctx context.Context, status string, page dto.PageRequest) ([]dto.AccessRequestResponse, dto.PageResponse, error) {
	var filters []repository.Filter
	if status != "" {
		switch status {
		case policy.RequestPending, policy.RequestApproved, policy.RequestRejected:
		default:
			return nil, dto.PageResponse{}, invalid("estado desconocido: " + status)
		}
		filters = append(filters, repository.Where("status", status))
	}
	docs, err := uc.store.Query(ctx, repository.CollectionCameraAccessRequests, filters...)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	sortNewest(docs, "requestedAt")
	docs, meta := paginate(docs, page)
	items := make([]dto.AccessRequestResponse, 0, len(docs))
	for _, doc := range docs {
		items = append(items, dto.ShapeAccessRequest(doc))
	}
	return items, meta, nil
}

// Approve aprueba la solicitud y otorga el permiso de vista en una sola transacción.
// Dos aprobaciones concurrentes: una gana y la otra recibe ErrAlreadyProcessed.
func (uc *CameraAccessUseCase) Approve(ctx context.Context, reviewer policy.Principal, requestID, notes string) (*dto.AccessRequestResponse, error) {
	var userID, cameraID, cameraName string
	err := uc.store.RunInTx(ctx, func(tx repository.DocumentStore) error {
		doc, err := getOr404(ctx, tx, repository.CollectionCameraAccessRequests, requestID, errAccessRequestNotFound)
		if err != nil {
			return err
		}
		next, err := policy.ReviewAccessRequest(doc.String("status"), policy.DecisionApprove)
		if err != nil {
			return err
		}
		userID = doc.String("userId")
		cameraID = doc.String("cameraId")
		cameraName = doc.String("cameraName")
		if userID == "" || cameraID == "" {
			return fmt.Errorf("solicitud %s sin userId/cameraId: %w", requestID, domain.ErrConflict)
		}
		now := uc.now().UTC()
		if err := tx.Update(ctx, repository.CollectionCameraAccessRequests, requestID, repository.Fields{
			"status":      next,
			"reviewedAt":  now,
			"reviewedBy":  reviewer.ID,
			"reviewNotes": strings.TrimSpace(notes),
		}); err != nil {
			return err
		}
		return tx.Upsert(ctx, repository.CollectionCameraAccess, userID, repository.Fields{
			"userId": userID,
			"cameras": map[string]interface{}{
				cameraID: map[string]interface{}{
					"accessLevel": entity.AccessLevelView,
					"grantedAt":   now,
					"grantedBy":   reviewer.ID,
					"expiresAt":   nil,
				},
			},
		})
	})
	if err != nil {
		return nil, err
	}
	notifyQuietly(ctx, uc.notifier, uc.log, entity.Notification{
		UserID:  userID,
		Type:    entity.NotificationCameraApproved,
		Title:   "Acceso a cámara aprobado",
		Message: fmt.Sprintf("Tu solicitud de acceso a la cámara %s fue aprobada.", displayCamera(cameraName, cameraID)),
		Link:    "/camaras",
	})
	uc.log.Info().Str("request_id", requestID).Str("reviewer", reviewer.ID).Msg("solicitud de cámara aprobada")
	return uc.get(ctx, requestID)
}

// Reject rechaza una solicitud pendiente.
func (uc *CameraAccessUseCase) Reject(ctx context.Context, reviewer policy.Principal, requestID, notes string) (*dto.AccessRequestResponse, error) {
	var userID, cameraID, cameraName string
	err := uc.store.RunInTx(ctx, func(tx repository.DocumentStore) error {
		doc, err := getOr404(ctx, tx, repository.CollectionCameraAccessRequests, requestID, errAccessRequestNotFound)
		if err != nil {
			return err
		}
		next, err := policy.ReviewAccessRequest(doc.String("status"), policy.DecisionReject)
		if err != nil {
			return err
		}
		userID = doc.String("userId")
		cameraID = doc.String("cameraId")
		cameraName = doc.String("cameraName")
		return tx.Update(ctx, repository.CollectionCameraAccessRequests, requestID, repository.Fields{
			"status":      next,
			"reviewedAt":  uc.now().UTC(),
			"reviewedBy":  reviewer.ID,
			"reviewNotes": strings.TrimSpace(notes),
		})
	})
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("Tu solicitud de acceso a la cámara %s fue rechazada.", displayCamera(cameraName, cameraID))
	if n := strings.TrimSpace(notes); n != "" {
		msg += " Motivo: " + n
	}
	notifyQuietly(ctx, uc.notifier, uc.log, entity.Notification{
		UserID:  userID,
		Type:    entity.NotificationCameraRejected,
		Title:   "Acceso a cámara rechazado",
		Message: msg,
		Link:    "/camaras",
	})
	return uc.get(ctx, requestID)
}

// MyGrants permisos vigentes del usuario; los vencidos no se listan.
func (uc *CameraAccessUseCase) MyGrants(ctx context.Context, userID string) ([]dto.GrantResponse, error) {
	doc, err := uc.store.Get(ctx, repository.CollectionCameraAccess, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []dto.GrantResponse{}, nil
		}
		return nil, err
	}
	out := make([]dto.GrantResponse, 0)
	for _, g := range dto.ShapeGrants(doc, uc.now()) {
		if g.Active {
			out = append(out, g)
		}
	}
	return out, nil
}

// CheckAccess allowed solo si existe un permiso vigente para la cámara.
func (uc *CameraAccessUseCase) CheckAccess(ctx context.Context, userID, cameraID string) (*dto.AccessCheckResponse, error) {
	cameraID = strings.TrimSpace(cameraID)
	if cameraID == "" {
		return nil, invalid("cameraId es requerido")
	}
	grants, err := uc.MyGrants(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.AccessCheckResponse{CameraID: cameraID}
	for i := range grants {
		if grants[i].CameraID == cameraID {
			out.Allowed = true
			out.Grant = &grants[i]
			break
		}
	}
	return out, nil
}

// Revoke elimina el permiso de userID sobre cameraID.
func (uc *CameraAccessUseCase) Revoke(ctx context.Context, reviewer policy.Principal, userID, cameraID string) error {
	err := uc.store.RunInTx(ctx, func(tx repository.DocumentStore) error {
		doc, err := getOr404(ctx, tx, repository.CollectionCameraAccess, userID,
			domain.WithMessage(domain.ErrNotFound, "el usuario no tiene permisos de cámara"))
		if err != nil {
			return err
		}
		cameras, _ := doc.Get("cameras").(map[string]interface{})
		if _, ok := cameras[cameraID]; !ok {
			return domain.WithMessage(domain.ErrNotFound, "permiso no encontrado")
		}
		return tx.Update(ctx, repository.CollectionCameraAccess, userID, repository.Fields{
			"cameras": map[string]interface{}{cameraID: repository.DeleteField},
		})
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("user_id", userID).Str("camera_id", cameraID).Str("reviewer", reviewer.ID).Msg("permiso de cámara revocado")
	return nil
}

func (uc *CameraAccessUseCase) get(ctx context.Context, id string) (*dto.AccessRequestResponse, error) {
	doc, err := getOr404(ctx, uc.store, repository.CollectionCameraAccessRequests, id, errAccessRequestNotFound)
	if err != nil {
		return nil, err
	}
	out := dto.ShapeAccessRequest(doc)
	return &out, nil
}

func displayCamera(name, id string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return id
}
