package dto

// RegisterRequest entrada para registro público.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token más el usuario autenticado.
type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	DisplayName  string   `json:"displayName"`
	Role         string   `json:"role"`
	Status       string   `json:"status"`
	Permissions  []string `json:"permissions"`
	Capabilities []string `json:"capabilities"`
	CreatedAt    *string  `json:"createdAt"`
	UpdatedAt    *string  `json:"updatedAt"`
}

// UpdateRoleRequest cambio de rol.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateStatusRequest activar / desactivar cuenta.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdatePermissionsRequest reemplaza los permisos explícitos.
type UpdatePermissionsRequest struct {
	Permissions []string `json:"permissions"`
}
