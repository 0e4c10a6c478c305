package entity

import "time"

// Event evento comunitario publicado (colección events).
type Event struct {
	ID       string     `mapstructure:"id"`
	Title    string     `mapstructure:"title"`
	Date     *time.Time `mapstructure:"date"`
	Location string     `mapstructure:"location"`
	Capacity int        `mapstructure:"capacity"`
}

// EventRegistration inscripción de un usuario a un evento (colección eventRegistrations).
type EventRegistration struct {
	ID           string     `mapstructure:"id"`
	EventID      string     `mapstructure:"eventId"`
	EventTitle   string     `mapstructure:"eventTitle"`
	UserID       string     `mapstructure:"userId"`
	UserEmail    string     `mapstructure:"userEmail"`
	UserName     string     `mapstructure:"userName"`
	Attendees    int        `mapstructure:"attendees"`
	Status       string     `mapstructure:"status"` // pending, confirmed, blocked, cancelled
	RegisteredAt *time.Time `mapstructure:"registeredAt"`
	UpdatedAt    *time.Time `mapstructure:"updatedAt"`
	UpdatedBy    string     `mapstructure:"updatedBy"`
}
