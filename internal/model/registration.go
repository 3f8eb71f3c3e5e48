package model

import "time"

// Registration delivery states for the external form boundary.
const (
	RegistrationPending   = "pending"
	RegistrationDelivered = "delivered"
	RegistrationFailed    = "failed"
)

// Registration is a classified event sign-up queued for delivery to the
// club's external form endpoint.
type Registration struct {
	ID         int       `json:"id"`
	RollNo     string    `json:"roll_no"`
	Name       string    `json:"name"`
	Year       string    `json:"year"`
	Dept       string    `json:"dept"`
	Degree     string    `json:"degree"`
	EventID    int       `json:"event_id"`
	EventLabel string    `json:"event_label"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RegisterRequest is the payload for a public event sign-up.
type RegisterRequest struct {
	RollNo  string `json:"roll_no" binding:"required,min=3,max=20"`
	Name    string `json:"name" binding:"required,min=2,max=255"`
	EventID int    `json:"event_id" binding:"required,min=1"`
}
