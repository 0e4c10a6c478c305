package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
)

func TestParseRole_DesconocidoEsVisitante(t *testing.T) {
	assert.Equal(t, policy.RoleVisitante, policy.ParseRole(""))
	assert.Equal(t, policy.RoleVisitante, policy.ParseRole("root"))
	assert.Equal(t, policy.RoleVisitante, policy.ParseRole("ADMIN"), "los roles distinguen mayúsculas")
	assert.Equal(t, policy.RoleSuperAdmin, policy.ParseRole("super_admin"))
}

func TestIsElevated(t *testing.T) {
	assert.True(t, policy.IsElevated(policy.RoleAdmin))
	assert.True(t, policy.IsElevated(policy.RoleSuperAdmin))
	assert.False(t, policy.IsElevated(policy.RoleComunidad))
	assert.False(t, policy.IsElevated(policy.RoleVisitante))
}

// Cualquier principal no elevado que no sea dueño recibe Forbidden en reglas de administración.
func TestAuthorize_NoElevadoNoDuenoSiempreForbidden(t *testing.T) {
	explicit := [][]string{nil, {"users:manage"}, {"camera:review", "content:edit"}}
	for _, role := range []policy.Role{policy.RoleVisitante, policy.RoleComunidad, policy.Role("desconocido")} {
		for _, perms := range explicit {
			p := policy.Principal{ID: "u1", Role: policy.ParseRole(string(role)), Permissions: perms}
			assert.ErrorIs(t, policy.Authorize(p, policy.AdminOnly()), domain.ErrForbidden,
				"rol %s con permisos %v", role, perms)
			assert.ErrorIs(t, policy.Authorize(p, policy.OwnerOrAdmin("otro")), domain.ErrForbidden)
		}
	}
}

func TestAuthorize_AdminYSuperAdminEquivalentes(t *testing.T) {
	for _, role := range policy.ElevatedRoles {
		p := policy.Principal{ID: "a1", Role: role}
		assert.NoError(t, policy.Authorize(p, policy.AdminOnly()))
		assert.NoError(t, policy.Authorize(p, policy.OwnerOrAdmin("otro")))
	}
}

func TestAuthorize_DuenoSinRolElevado(t *testing.T) {
	p := policy.Principal{ID: "u1", Role: policy.RoleVisitante}
	assert.NoError(t, policy.Authorize(p, policy.OwnerOrAdmin("u1")),
		"un usuario siempre puede ver su propio registro")
	assert.NoError(t, policy.Authorize(p, policy.Rule{OwnerID: "u1"}))
	assert.ErrorIs(t, policy.Authorize(p, policy.Rule{OwnerID: "u2"}), domain.ErrForbidden)
}

func TestAuthorize_PrincipalSinIDNoEsDueno(t *testing.T) {
	p := policy.Principal{Role: policy.RoleVisitante}
	assert.NoError(t, policy.Authorize(p, policy.Rule{OwnerID: ""}), "regla vacía")
	assert.ErrorIs(t, policy.Authorize(p, policy.OwnerOrAdmin("")), domain.ErrForbidden)
}

func TestAuthorize_Capacidades(t *testing.T) {
	visitante := policy.Principal{ID: "v", Role: policy.RoleVisitante}
	comunidad := policy.Principal{ID: "c", Role: policy.RoleComunidad}

	assert.NoError(t, policy.Authorize(visitante, policy.Rule{Capability: policy.CapEventsRegister}))
	assert.ErrorIs(t, policy.Authorize(visitante, policy.Rule{Capability: policy.CapCameraRequest}), domain.ErrForbidden)
	assert.NoError(t, policy.Authorize(comunidad, policy.Rule{Capability: policy.CapCameraRequest}))

	visitante.Permissions = []string{string(policy.CapCameraRequest)}
	assert.NoError(t, policy.Authorize(visitante, policy.Rule{Capability: policy.CapCameraRequest}),
		"un permiso explícito amplía las capacidades del rol")
}

func TestEffectiveCapabilities_UnionOrdenada(t *testing.T) {
	caps := policy.EffectiveCapabilities(policy.RoleVisitante, []string{"camera:request", "content:read", ""})
	assert.Equal(t, []policy.Capability{policy.CapCameraRequest, policy.CapContentRead, policy.CapEventsRegister}, caps)
}

func TestIsKnownCapability(t *testing.T) {
	assert.True(t, policy.IsKnownCapability("security:review"))
	assert.False(t, policy.IsKnownCapability("cameras:delete"))
}
