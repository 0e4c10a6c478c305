package entity

import "time"

// SecurityRegistration inscripción de un hogar en el plan de seguridad comunitario.
type SecurityRegistration struct {
	ID          string     `mapstructure:"id"`
	UserID      string     `mapstructure:"userId"`
	UserEmail   string     `mapstructure:"userEmail"`
	FullName    string     `mapstructure:"fullName"`
	Address     string     `mapstructure:"address"`
	Phone       string     `mapstructure:"phone"`
	Residents   int        `mapstructure:"residents"`
	Vehicles    []string   `mapstructure:"vehicles"`
	Comments    string     `mapstructure:"comments"`
	Status      string     `mapstructure:"status"` // pending, active, rejected
	SubmittedAt *time.Time `mapstructure:"submittedAt"`
	ReviewedAt  *time.Time `mapstructure:"reviewedAt"`
	ReviewedBy  string     `mapstructure:"reviewedBy"`
	ReviewNotes string     `mapstructure:"reviewNotes"`
}
