package entity

import "time"

// Estados válidos para User.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del portal (documento de la colección users).
// El rol se guarda como string; su interpretación vive en domain/policy.
type User struct {
	ID           string     `mapstructure:"id"`
	Email        string     `mapstructure:"email"`
	EmailKey     string     `mapstructure:"emailKey"` // email normalizado (case-fold) para búsquedas
	DisplayName  string     `mapstructure:"displayName"`
	PasswordHash string     `mapstructure:"passwordHash"` // bcrypt, nunca se expone
	Role         string     `mapstructure:"role"`         // visitante, comunidad, admin, super_admin
	Status       string     `mapstructure:"status"`       // active, inactive
	Permissions  []string   `mapstructure:"permissions"`
	CreatedAt    *time.Time `mapstructure:"createdAt"`
	UpdatedAt    *time.Time `mapstructure:"updatedAt"`
}

// IsActive informa si la cuenta puede operar. Un estado vacío se considera activo
// (documentos antiguos creados antes de que existiera el campo).
func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive
}
