// Package policy reúne las reglas puras de autorización y de ciclo de vida de las
// entidades moderadas. No hace I/O: recibe datos ya cargados y decide.
package policy

import (
	"sort"

	"github.com/jhoicas/portal-comunitario-api/internal/domain"
)

// Role rol de un usuario del portal. Enumeración cerrada.
type Role string

const (
	RoleVisitante  Role = "visitante"
	RoleComunidad  Role = "comunidad"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Roles todos los roles válidos, de menor a mayor privilegio.
var Roles = []Role{RoleVisitante, RoleComunidad, RoleAdmin, RoleSuperAdmin}

// ElevatedRoles roles que habilitan las operaciones administrativas.
// admin y super_admin son equivalentes para toda acción protegida.
var ElevatedRoles = []Role{RoleAdmin, RoleSuperAdmin}

// ParseRole interpreta el rol almacenado. Vacío o desconocido => visitante.
func ParseRole(s string) Role {
	r := Role(s)
	if IsValidRole(s) {
		return r
	}
	return RoleVisitante
}

// IsValidRole informa si s es uno de los roles conocidos.
func IsValidRole(s string) bool {
	for _, r := range Roles {
		if string(r) == s {
			return true
		}
	}
	return false
}

// IsElevated pertenencia simple al conjunto {admin, super_admin}.
func IsElevated(r Role) bool {
	return hasRole(ElevatedRoles, r)
}

func hasRole(set []Role, r Role) bool {
	for _, candidate := range set {
		if candidate == r {
			return true
		}
	}
	return false
}

// Capability permiso puntual. El rol define un conjunto por defecto y el campo
// permissions del usuario puede ampliarlo.
type Capability string

const (
	CapContentRead    Capability = "content:read"
	CapEventsRegister Capability = "events:register"
	CapCameraRequest  Capability = "camera:request"
	CapSecuritySubmit Capability = "security:submit"
	CapUsersManage    Capability = "users:manage"
	CapCameraReview   Capability = "camera:review"
	CapSecurityReview Capability = "security:review"
	CapEventsManage   Capability = "events:manage"
	CapContentEdit    Capability = "content:edit"
)

var memberCapabilities = []Capability{CapContentRead, CapEventsRegister, CapCameraRequest, CapSecuritySubmit}

var adminCapabilities = append(append([]Capability{}, memberCapabilities...),
	CapUsersManage, CapCameraReview, CapSecurityReview, CapEventsManage, CapContentEdit)

var defaultCapabilities = map[Role][]Capability{
	RoleVisitante:  {CapContentRead, CapEventsRegister},
	RoleComunidad:  memberCapabilities,
	RoleAdmin:      adminCapabilities,
	RoleSuperAdmin: adminCapabilities,
}

// Capabilities todas las capacidades conocidas.
var Capabilities = adminCapabilities

// IsKnownCapability informa si s es una capacidad conocida.
func IsKnownCapability(s string) bool {
	for _, c := range Capabilities {
		if string(c) == s {
			return true
		}
	}
	return false
}

// DefaultCapabilities conjunto por defecto de un rol (copia).
func DefaultCapabilities(r Role) []Capability {
	caps := defaultCapabilities[ParseRole(string(r))]
	return append([]Capability(nil), caps...)
}

// EffectiveCapabilities unión ordenada de los permisos del rol y los explícitos.
func EffectiveCapabilities(r Role, explicit []string) []Capability {
	seen := make(map[Capability]struct{})
	for _, c := range DefaultCapabilities(r) {
		seen[c] = struct{}{}
	}
	for _, c := range explicit {
		if c == "" {
			continue
		}
		seen[Capability(c)] = struct{}{}
	}
	out := make([]Capability, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Principal identidad autenticada con los datos necesarios para decidir.
type Principal struct {
	ID          string
	Role        Role
	Permissions []string
}

// Can informa si el principal tiene la capacidad, por rol o por permiso explícito.
func (p Principal) Can(c Capability) bool {
	for _, have := range EffectiveCapabilities(p.Role, p.Permissions) {
		if have == c {
			return true
		}
	}
	return false
}

// Rule requisito de una operación protegida. Los campos vacíos no exigen nada.
//   - OwnerID: si coincide con el principal, se permite sin mirar el rol.
//   - Roles: pertenencia simple; sin jerarquía.
//   - Capability: se satisface por rol o por permiso explícito.
//
// Las operaciones administrativas usan solo Roles, de modo que un permiso
// explícito nunca abre una ruta de administración.
type Rule struct {
	OwnerID    string
	Roles      []Role
	Capability Capability
}

// AdminOnly regla de las rutas de administración.
func AdminOnly() Rule {
	return Rule{Roles: ElevatedRoles}
}

// OwnerOrAdmin permite al dueño del recurso o a un rol elevado.
func OwnerOrAdmin(ownerID string) Rule {
	return Rule{OwnerID: ownerID, Roles: ElevatedRoles}
}

// Authorize decide allow (nil) o deny (domain.ErrForbidden).
func Authorize(p Principal, rule Rule) error {
	if rule.OwnerID != "" && p.ID != "" && p.ID == rule.OwnerID {
		return nil
	}
	if len(rule.Roles) == 0 && rule.Capability == "" {
		if rule.OwnerID == "" {
			return nil
		}
		return domain.ErrForbidden
	}
	if len(rule.Roles) > 0 && hasRole(rule.Roles, p.Role) {
		return nil
	}
	if rule.Capability != "" && p.Can(rule.Capability) {
		return nil
	}
	return domain.ErrForbidden
}
