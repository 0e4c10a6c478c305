package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-comunitario-api/internal/application/dto"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/repository"
)

func TestTimestamp_Formatos(t *testing.T) {
	want := "2026-01-02T03:04:05.000Z"
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := map[string]interface{}{
		"time":     at,
		"puntero":  &at,
		"rfc3339":  "2026-01-02T03:04:05Z",
		"offset":   "2026-01-01T22:04:05-05:00",
		"segundos": map[string]interface{}{"_seconds": float64(at.Unix()), "_nanoseconds": float64(0)},
		"fields":   repository.Fields{"seconds": at.Unix()},
		"millis":   float64(at.UnixMilli()),
	}
	for name, v := range cases {
		got := dto.Timestamp(v)
		require.NotNil(t, got, name)
		assert.Equal(t, want, *got, name)
	}
}

func TestTimestamp_NoFecha(t *testing.T) {
	var nilTime *time.Time
	for _, v := range []interface{}{nil, "", "   ", "ayer", time.Time{}, nilTime, true, map[string]interface{}{"x": 1}, -5} {
		assert.Nil(t, dto.Timestamp(v), "%#v", v)
	}
}

func TestShapeUser_DocumentoVacio(t *testing.T) {
	u := dto.ShapeUser(repository.Document{ID: "U1"})
	assert.Equal(t, "U1", u.ID)
	assert.Equal(t, dto.PlaceholderName, u.DisplayName)
	assert.Equal(t, "visitante", u.Role)
	assert.Equal(t, "active", u.Status)
	assert.NotNil(t, u.Permissions)
	assert.Empty(t, u.Permissions)
	assert.Equal(t, []string{"content:read", "events:register"}, u.Capabilities)
	assert.Nil(t, u.CreatedAt)
}

func TestShapeUser_CamposMalFormados(t *testing.T) {
	u := dto.ShapeUser(repository.Document{ID: "U2", Fields: repository.Fields{
		"role":        "jefe",
		"name":        "  Pedro ",
		"status":      "borrado",
		"permissions": []interface{}{"camera:request", " ", "camera:request"},
		"createdAt":   "no es fecha",
	}})
	assert.Equal(t, "visitante", u.Role)
	assert.Equal(t, "Pedro", u.DisplayName)
	assert.Equal(t, "active", u.Status)
	assert.Contains(t, u.Capabilities, "camera:request")
	assert.Nil(t, u.CreatedAt)
}

func TestShapeAccessRequest_EstadoPorDefecto(t *testing.T) {
	r := dto.ShapeAccessRequest(repository.Document{ID: "R1", Fields: repository.Fields{"status": 7}})
	assert.Equal(t, "pending", r.Status)
	assert.Nil(t, r.ReviewedBy)
	assert.Nil(t, r.ReviewedAt)
}

func TestShapeGrants_ActivosYVencidos(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	doc := repository.Document{ID: "U1", Fields: repository.Fields{
		"cameras": map[string]interface{}{
			"C2": map[string]interface{}{"accessLevel": "view", "expiresAt": "2026-02-01T00:00:00Z"},
			"C1": map[string]interface{}{"grantedBy": "A1", "expiresAt": nil},
		},
	}}

	grants := dto.ShapeGrants(doc, now)
	require.Len(t, grants, 2)
	assert.Equal(t, "C1", grants[0].CameraID)
	assert.Equal(t, "view", grants[0].AccessLevel, "nivel por defecto")
	assert.True(t, grants[0].Active)
	assert.Nil(t, grants[0].ExpiresAt)
	require.NotNil(t, grants[0].GrantedBy)
	assert.Equal(t, "A1", *grants[0].GrantedBy)

	assert.Equal(t, "C2", grants[1].CameraID)
	assert.False(t, grants[1].Active)
}

func TestShapeGrants_SinCamaras(t *testing.T) {
	grants := dto.ShapeGrants(repository.Document{}, time.Now())
	assert.NotNil(t, grants)
	assert.Empty(t, grants)
}

func TestShapeEventRegistration_Defaults(t *testing.T) {
	r := dto.ShapeEventRegistration(repository.Document{ID: "reg123", Fields: repository.Fields{"attendees": "0"}})
	assert.Equal(t, 1, r.Attendees)
	assert.Equal(t, dto.PlaceholderName, r.UserName)
	assert.Equal(t, "pending", r.Status)

	r = dto.ShapeEventRegistration(repository.Document{ID: "reg124", Fields: repository.Fields{"attendees": float64(3), "status": "blocked"}})
	assert.Equal(t, 3, r.Attendees)
	assert.Equal(t, "blocked", r.Status)
}

func TestShapeContent_VacioYTitulo(t *testing.T) {
	page := dto.ShapeContent("emergencias", repository.Document{})
	assert.Equal(t, "Emergencias", page.Title)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	page = dto.ShapeContent("servicios", repository.Document{Fields: repository.Fields{
		"title": "Servicios del sector",
		"items": []interface{}{
			map[string]interface{}{"title": "Ferretería", "phone": "555"},
			"basura",
		},
	}})
	assert.Equal(t, "Servicios del sector", page.Title)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "555", page.Items[0].Phone)
}

func TestShapeContent_TituloConAcentoInicial(t *testing.T) {
	page := dto.ShapeContent("ñandúes", repository.Document{})
	assert.Equal(t, "Ñandúes", page.Title)

	page = dto.ShapeContent("", repository.Document{})
	assert.Empty(t, page.Title)
}

func TestPageRequest_DefaultYWindow(t *testing.T) {
	p := dto.PageRequest{Limit: 500, Offset: -1}
	p.DefaultPage()
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 0, p.Offset)

	start, end := dto.PageRequest{Limit: 10, Offset: 25}.Window(30)
	assert.Equal(t, 25, start)
	assert.Equal(t, 30, end)

	start, end = dto.PageRequest{Limit: 10, Offset: 40}.Window(30)
	assert.Equal(t, 30, start)
	assert.Equal(t, 30, end)
}
