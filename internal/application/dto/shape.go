package dto

import (
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Shapers: documento crudo -> representación de transporte.
// Son puras y totales: un campo ausente o con tipo inesperado produce el valor
// por defecto documentado, nunca un error.

// ISOLayout formato externo de fechas (ISO-8601 UTC con milisegundos).
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// PlaceholderName nombre mostrado cuando el usuario no tiene displayName.
const PlaceholderName = "Usuario sin nombre"

// TimeOf interpreta un valor con forma de fecha: time.Time, string RFC3339 (u otro
// formato reconocible), mapa {_seconds,_nanoseconds} o milisegundos Unix.
func TimeOf(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return parsed, true
		}
		parsed, err := cast.ToTimeE(s)
		if err != nil || parsed.IsZero() {
			return time.Time{}, false
		}
		return parsed, true
	case map[string]interface{}:
		return timeFromSeconds(t)
	case repository.Fields:
		return timeFromSeconds(t)
	case float64, float32, int, int64, int32, uint, uint64:
		ms, err := cast.ToInt64E(t)
		if err != nil || ms <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	default:
		return time.Time{}, false
	}
}

func timeFromSeconds(m map[string]interface{}) (time.Time, bool) {
	raw, ok := m["_seconds"]
	if !ok {
		raw, ok = m["seconds"]
	}
	if !ok {
		return time.Time{}, false
	}
	secs, err := cast.ToInt64E(raw)
	if err != nil {
		return time.Time{}, false
	}
	nanosRaw, ok := m["_nanoseconds"]
	if !ok {
		nanosRaw = m["nanoseconds"]
	}
	nanos := cast.ToInt64(nanosRaw)
	return time.Unix(secs, nanos).UTC(), true
}

// Timestamp convierte a ISO-8601 o nil si el valor falta o no es una fecha.
func Timestamp(v interface{}) *string {
	t, ok := TimeOf(v)
	if !ok {
		return nil
	}
	s := t.UTC().Format(ISOLayout)
	return &s
}

func optionalString(v interface{}) *string {
	s := strings.TrimSpace(cast.ToString(v))
	if s == "" {
		return nil
	}
	return &s
}

func stringSlice(v interface{}) []string {
	out := make([]string, 0)
	for _, s := range cast.ToStringSlice(v) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func oneOf(v interface{}, def string, allowed ...string) string {
	s := cast.ToString(v)
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	return def
}

func asMap(v interface{}) map[string]interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		return m
	case repository.Fields:
		return m
	}
	return nil
}

// ShapeUser rol ausente o desconocido => visitante; nombre ausente => PlaceholderName.
func ShapeUser(doc repository.Document) UserResponse {
	role := policy.ParseRole(cast.ToString(doc.Get("role")))
	name := strings.TrimSpace(cast.ToString(doc.Get("displayName")))
	if name == "" {
		name = strings.TrimSpace(cast.ToString(doc.Get("name")))
	}
	if name == "" {
		name = PlaceholderName
	}
	perms := stringSlice(doc.Get("permissions"))
	caps := policy.EffectiveCapabilities(role, perms)
	capStrings := make([]string, 0, len(caps))
	for _, c := range caps {
		capStrings = append(capStrings, string(c))
	}
	return UserResponse{
		ID:           doc.ID,
		Email:        cast.ToString(doc.Get("email")),
		DisplayName:  name,
		Role:         string(role),
		Status:       oneOf(doc.Get("status"), entity.UserStatusActive, entity.UserStatusActive, entity.UserStatusInactive),
		Permissions:  perms,
		Capabilities: capStrings,
		CreatedAt:    Timestamp(doc.Get("createdAt")),
		UpdatedAt:    Timestamp(doc.Get("updatedAt")),
	}
}

// ShapeAccessRequest estado ausente => pending.
func ShapeAccessRequest(doc repository.Document) AccessRequestResponse {
	return AccessRequestResponse{
		ID:          doc.ID,
		UserID:      cast.ToString(doc.Get("userId")),
		UserEmail:   cast.ToString(doc.Get("userEmail")),
		UserName:    cast.ToString(doc.Get("userName")),
		CameraID:    cast.ToString(doc.Get("cameraId")),
		CameraName:  cast.ToString(doc.Get("cameraName")),
		Reason:      cast.ToString(doc.Get("reason")),
		Status:      oneOf(doc.Get("status"), policy.RequestPending, policy.RequestPending, policy.RequestApproved, policy.RequestRejected),
		RequestedAt: Timestamp(doc.Get("requestedAt")),
		ReviewedAt:  Timestamp(doc.Get("reviewedAt")),
		ReviewedBy:  optionalString(doc.Get("reviewedBy")),
		ReviewNotes: cast.ToString(doc.Get("reviewNotes")),
	}
}

// ShapeGrant una entrada del mapa cameras. now decide el campo active.
func ShapeGrant(cameraID string, raw interface{}, now time.Time) GrantResponse {
	m := asMap(raw)
	level := strings.TrimSpace(cast.ToString(m["accessLevel"]))
	if level == "" {
		level = entity.AccessLevelView
	}
	var grant entity.CameraGrant
	if exp, ok := TimeOf(m["expiresAt"]); ok {
		grant.ExpiresAt = &exp
	}
	return GrantResponse{
		CameraID:    cameraID,
		AccessLevel: level,
		GrantedAt:   Timestamp(m["grantedAt"]),
		GrantedBy:   optionalString(m["grantedBy"]),
		ExpiresAt:   Timestamp(m["expiresAt"]),
		Active:      policy.GrantActive(grant, now),
	}
}

// ShapeGrants todas las cámaras del documento cameraAccess/<userId>, ordenadas por id.
func ShapeGrants(doc repository.Document, now time.Time) []GrantResponse {
	cameras := asMap(doc.Get("cameras"))
	ids := make([]string, 0, len(cameras))
	for id := range cameras {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]GrantResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, ShapeGrant(id, cameras[id], now))
	}
	return out
}

// ShapeSecurityRegistration estado ausente => pending.
func ShapeSecurityRegistration(doc repository.Document) SecurityRegistrationResponse {
	return SecurityRegistrationResponse{
		ID:          doc.ID,
		UserID:      cast.ToString(doc.Get("userId")),
		UserEmail:   cast.ToString(doc.Get("userEmail")),
		FullName:    cast.ToString(doc.Get("fullName")),
		Address:     cast.ToString(doc.Get("address")),
		Phone:       cast.ToString(doc.Get("phone")),
		Residents:   cast.ToInt(doc.Get("residents")),
		Vehicles:    stringSlice(doc.Get("vehicles")),
		Comments:    cast.ToString(doc.Get("comments")),
		Status:      oneOf(doc.Get("status"), policy.SecurityPending, policy.SecurityPending, policy.SecurityActive, policy.SecurityRejected),
		SubmittedAt: Timestamp(doc.Get("submittedAt")),
		ReviewedAt:  Timestamp(doc.Get("reviewedAt")),
		ReviewedBy:  optionalString(doc.Get("reviewedBy")),
		ReviewNotes: cast.ToString(doc.Get("reviewNotes")),
	}
}

// ShapeEvent evento publicado.
func ShapeEvent(doc repository.Document) EventResponse {
	return EventResponse{
		ID:       doc.ID,
		Title:    cast.ToString(doc.Get("title")),
		Date:     Timestamp(doc.Get("date")),
		Location: cast.ToString(doc.Get("location")),
		Capacity: cast.ToInt(doc.Get("capacity")),
	}
}

// ShapeEventRegistration asistentes ausentes => 1; estado ausente => pending.
func ShapeEventRegistration(doc repository.Document) EventRegistrationResponse {
	attendees := cast.ToInt(doc.Get("attendees"))
	if attendees <= 0 {
		attendees = 1
	}
	name := strings.TrimSpace(cast.ToString(doc.Get("userName")))
	if name == "" {
		name = PlaceholderName
	}
	return EventRegistrationResponse{
		ID:           doc.ID,
		EventID:      cast.ToString(doc.Get("eventId")),
		EventTitle:   cast.ToString(doc.Get("eventTitle")),
		UserID:       cast.ToString(doc.Get("userId")),
		UserEmail:    cast.ToString(doc.Get("userEmail")),
		UserName:     name,
		Attendees:    attendees,
		Status:       oneOf(doc.Get("status"), policy.EventPending, policy.EventPending, policy.EventConfirmed, policy.EventBlocked, policy.EventCancelled),
		RegisteredAt: Timestamp(doc.Get("registeredAt")),
		UpdatedAt:    Timestamp(doc.Get("updatedAt")),
	}
}

// ShapeNotification notificación de un usuario.
func ShapeNotification(doc repository.Document) NotificationResponse {
	return NotificationResponse{
		ID:        doc.ID,
		Type:      cast.ToString(doc.Get("type")),
		Title:     cast.ToString(doc.Get("title")),
		Message:   cast.ToString(doc.Get("message")),
		Link:      cast.ToString(doc.Get("link")),
		Read:      cast.ToBool(doc.Get("read")),
		CreatedAt: Timestamp(doc.Get("createdAt")),
	}
}

// ShapeContent sección pública; un documento vacío produce una página sin items.
func ShapeContent(section string, doc repository.Document) ContentPageResponse {
	items := make([]ContentItemDTO, 0)
	for _, raw := range cast.ToSlice(doc.Get("items")) {
		m := asMap(raw)
		if m == nil {
			continue
		}
		items = append(items, ContentItemDTO{
			Title:       cast.ToString(m["title"]),
			Description: cast.ToString(m["description"]),
			Phone:       cast.ToString(m["phone"]),
			Address:     cast.ToString(m["address"]),
			ImageURL:    cast.ToString(m["imageUrl"]),
		})
	}
	title := strings.TrimSpace(cast.ToString(doc.Get("title")))
	if title == "" && section != "" {
		title = cases.Title(language.Spanish, cases.NoLower).String(section)
	}
	return ContentPageResponse{
		Section:   section,
		Title:     title,
		Body:      cast.ToString(doc.Get("body")),
		Items:     items,
		UpdatedAt: Timestamp(doc.Get("updatedAt")),
	}
}
