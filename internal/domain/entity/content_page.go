package entity

import "time"

// Secciones públicas del portal.
const (
	SectionPlaces    = "lugares"
	SectionServices  = "servicios"
	SectionHistory   = "historia"
	SectionEmergency = "emergencias"
)

// Sections lista ordenada de secciones publicables.
var Sections = []string{SectionPlaces, SectionServices, SectionHistory, SectionEmergency}

// IsSection informa si s es una sección conocida.
func IsSection(s string) bool {
	for _, sec := range Sections {
		if sec == s {
			return true
		}
	}
	return false
}

// ContentItem entrada de una sección (un lugar, un servicio, un teléfono de emergencia...).
type ContentItem struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	Phone       string `mapstructure:"phone"`
	Address     string `mapstructure:"address"`
	ImageURL    string `mapstructure:"imageUrl"`
}

// ContentPage contenido público de una sección (colección contentPages, id = sección).
type ContentPage struct {
	ID        string        `mapstructure:"id"`
	Title     string        `mapstructure:"title"`
	Body      string        `mapstructure:"body"`
	Items     []ContentItem `mapstructure:"items"`
	UpdatedAt *time.Time    `mapstructure:"updatedAt"`
	UpdatedBy string        `mapstructure:"updatedBy"`
}
