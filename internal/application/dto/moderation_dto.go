package dto

// CreateAccessRequest solicitud de acceso a una cámara.
type CreateAccessRequest struct {
	CameraID   string `json:"cameraId"`
	CameraName string `json:"cameraName"`
	Reason     string `json:"reason"`
}

// ReviewRequest notas opcionales de una revisión administrativa.
type ReviewRequest struct {
	Notes string `json:"notes"`
}

// AccessRequestResponse salida de una solicitud de cámara.
type AccessRequestResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	UserEmail   string  `json:"userEmail"`
	UserName    string  `json:"userName"`
	CameraID    string  `json:"cameraId"`
	CameraName  string  `json:"cameraName"`
	Reason      string  `json:"reason"`
	Status      string  `json:"status"`
	RequestedAt *string `json:"requestedAt"`
	ReviewedAt  *string `json:"reviewedAt"`
	ReviewedBy  *string `json:"reviewedBy"`
	ReviewNotes string  `json:"reviewNotes"`
}

// GrantResponse permiso sobre una cámara.
type GrantResponse struct {
	CameraID    string  `json:"cameraId"`
	AccessLevel string  `json:"accessLevel"`
	GrantedAt   *string `json:"grantedAt"`
	GrantedBy   *string `json:"grantedBy"`
	ExpiresAt   *string `json:"expiresAt"`
	Active      bool    `json:"active"`
}

// AccessCheckResponse resultado de verificar acceso a una cámara.
type AccessCheckResponse struct {
	CameraID string         `json:"cameraId"`
	Allowed  bool           `json:"allowed"`
	Grant    *GrantResponse `json:"grant,omitempty"`
}

// CreateSecurityRegistrationRequest inscripción al plan de seguridad.
type CreateSecurityRegistrationRequest struct {
	FullName  string   `json:"fullName"`
	Address   string   `json:"address"`
	Phone     string   `json:"phone"`
	Residents int      `json:"residents"`
	Vehicles  []string `json:"vehicles"`
	Comments  string   `json:"comments"`
}

// SecurityRegistrationResponse salida de una inscripción de seguridad.
type SecurityRegistrationResponse struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	UserEmail   string   `json:"userEmail"`
	FullName    string   `json:"fullName"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Residents   int      `json:"residents"`
	Vehicles    []string `json:"vehicles"`
	Comments    string   `json:"comments"`
	Status      string   `json:"status"`
	SubmittedAt *string  `json:"submittedAt"`
	ReviewedAt  *string  `json:"reviewedAt"`
	ReviewedBy  *string  `json:"reviewedBy"`
	ReviewNotes string   `json:"reviewNotes"`
}

// CreateEventRequest alta de evento comunitario.
type CreateEventRequest struct {
	Title    string `json:"title"`
	Date     string `json:"date"` // RFC3339
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
}

// EventResponse salida de un evento.
type EventResponse struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Date     *string `json:"date"`
	Location string  `json:"location"`
	Capacity int     `json:"capacity"`
}

// CreateEventRegistrationRequest inscripción a un evento.
type CreateEventRegistrationRequest struct {
	Attendees int `json:"attendees"`
}

// EventRegistrationResponse salida de una inscripción a evento.
type EventRegistrationResponse struct {
	ID           string  `json:"id"`
	EventID      string  `json:"eventId"`
	EventTitle   string  `json:"eventTitle"`
	UserID       string  `json:"userId"`
	UserEmail    string  `json:"userEmail"`
	UserName     string  `json:"userName"`
	Attendees    int     `json:"attendees"`
	Status       string  `json:"status"`
	RegisteredAt *string `json:"registeredAt"`
	UpdatedAt    *string `json:"updatedAt"`
}

// NotificationResponse salida de una notificación.
type NotificationResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Link      string  `json:"link"`
	Read      bool    `json:"read"`
	CreatedAt *string `json:"createdAt"`
}

// ContentItemDTO entrada de una sección pública.
type ContentItemDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// UpsertContentRequest reemplaza el contenido de una sección.
type UpsertContentRequest struct {
	Title string           `json:"title"`
	Body  string           `json:"body"`
	Items []ContentItemDTO `json:"items"`
}

// ContentPageResponse salida de una sección pública.
type ContentPageResponse struct {
	Section   string           `json:"section"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Items     []ContentItemDTO `json:"items"`
	UpdatedAt *string          `json:"updatedAt"`
}
