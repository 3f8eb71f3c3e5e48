package model

import "time"

// Event status values.
const (
	EventStatusLive     = "live"
	EventStatusUpcoming = "upcoming"
	EventStatusPast     = "past"
)

// Event is a club event in the catalogue. CertificateTitle is the wording
// printed on certificates for this event; it may differ from Title.
type Event struct {
	ID                  int        `json:"id"`
	Title               string     `json:"title"`
	Type                string     `json:"type"`
	Status              string     `json:"status"`
	Tagline             string     `json:"tagline,omitempty"`
	Details             string     `json:"details,omitempty"`
	Venue               string     `json:"venue,omitempty"`
	EventDate           *time.Time `json:"event_date,omitempty"`
	RegistrationEnabled bool       `json:"registration_enabled"`
	Capacity            int        `json:"capacity,omitempty"`
	CertificateTitle    string     `json:"certificate_title,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// CreateEventRequest is the payload for creating an event.
type CreateEventRequest struct {
	Title               string     `json:"title" binding:"required,min=3,max=255"`
	Type                string     `json:"type" binding:"omitempty,max=100"`
	Status              string     `json:"status" binding:"required,oneof=live upcoming past"`
	Tagline             string     `json:"tagline" binding:"omitempty,max=255"`
	Details             string     `json:"details" binding:"omitempty"`
	Venue               string     `json:"venue" binding:"omitempty,max=255"`
	EventDate           *time.Time `json:"event_date" binding:"omitempty"`
	RegistrationEnabled bool       `json:"registration_enabled"`
	Capacity            int        `json:"capacity" binding:"omitempty,min=0"`
	CertificateTitle    string     `json:"certificate_title" binding:"omitempty,max=255"`
}

// UpdateEventRequest is the payload for updating an event.
type UpdateEventRequest struct {
	Title               string     `json:"title" binding:"omitempty,min=3,max=255"`
	Type                string     `json:"type" binding:"omitempty,max=100"`
	Status              string     `json:"status" binding:"omitempty,oneof=live upcoming past"`
	Tagline             string     `json:"tagline" binding:"omitempty,max=255"`
	Details             string     `json:"details" binding:"omitempty"`
	Venue               string     `json:"venue" binding:"omitempty,max=255"`
	EventDate           *time.Time `json:"event_date" binding:"omitempty"`
	RegistrationEnabled *bool      `json:"registration_enabled" binding:"omitempty"`
	Capacity            *int       `json:"capacity" binding:"omitempty,min=0"`
	CertificateTitle    string     `json:"certificate_title" binding:"omitempty,max=255"`
}
