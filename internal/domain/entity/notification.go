package entity

import "time"

// Tipos de notificación emitidos por las transiciones de revisión.
const (
	NotificationCameraApproved   = "camera_access_approved"
	NotificationCameraRejected   = "camera_access_rejected"
	NotificationSecurityApproved = "security_registration_approved"
	NotificationSecurityRejected = "security_registration_rejected"
	NotificationEventConfirmed   = "event_registration_confirmed"
	NotificationEventBlocked     = "event_registration_blocked"
)

// Notification mensaje dirigido a un usuario (colección notifications).
type Notification struct {
	ID        string     `mapstructure:"id"`
	UserID    string     `mapstructure:"userId"`
	Type      string     `mapstructure:"type"`
	Title     string     `mapstructure:"title"`
	Message   string     `mapstructure:"message"`
	Link      string     `mapstructure:"link"`
	Read      bool       `mapstructure:"read"`
	CreatedAt *time.Time `mapstructure:"createdAt"`
}
