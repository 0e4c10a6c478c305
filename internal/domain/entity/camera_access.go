package entity

import "time"

// Niveles de acceso a cámaras.
const (
	AccessLevelView = "view"
)

// CameraAccessRequest solicitud de un usuario para ver una cámara (colección cameraAccessRequests).
type CameraAccessRequest struct {
	ID          string     `mapstructure:"id"`
	UserID      string     `mapstructure:"userId"`
	UserEmail   string     `mapstructure:"userEmail"`
	UserName    string     `mapstructure:"userName"`
	CameraID    string     `mapstructure:"cameraId"`
	CameraName  string     `mapstructure:"cameraName"`
	Reason      string     `mapstructure:"reason"`
	Status      string     `mapstructure:"status"` // pending, approved, rejected
	RequestedAt *time.Time `mapstructure:"requestedAt"`
	ReviewedAt  *time.Time `mapstructure:"reviewedAt"`
	ReviewedBy  string     `mapstructure:"reviewedBy"`
	ReviewNotes string     `mapstructure:"reviewNotes"`
}

// CameraGrant permiso concedido sobre una cámara, dentro del mapa cameras del documento
// cameraAccess/<userId>.
type CameraGrant struct {
	AccessLevel string     `mapstructure:"accessLevel"`
	GrantedAt   *time.Time `mapstructure:"grantedAt"`
	GrantedBy   string     `mapstructure:"grantedBy"`
	ExpiresAt   *time.Time `mapstructure:"expiresAt"` // nil = sin vencimiento
}

// CameraAccess documento de permisos de un usuario, indexado por id de cámara.
type CameraAccess struct {
	ID      string                 `mapstructure:"id"` // = userId
	UserID  string                 `mapstructure:"userId"`
	Cameras map[string]CameraGrant `mapstructure:"cameras"`
}
