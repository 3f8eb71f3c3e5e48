package model

import "time"

// CertificateRecord is one participant entry in the certificate vault.
// Place is empty for plain participation; otherwise it carries the
// achievement text (e.g. "Winner - 1st Prize").
type CertificateRecord struct {
	ID        int       `json:"id"`
	RollNo    string    `json:"roll_no"`
	Name      string    `json:"name"`
	Year      string    `json:"year"`
	Dept      string    `json:"dept"`
	Place     string    `json:"place,omitempty"`
	EventID   *int      `json:"event_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveRecordRequest is the payload for creating or replacing a record.
type SaveRecordRequest struct {
	RollNo  string `json:"roll_no" binding:"required,min=3,max=20"`
	Name    string `json:"name" binding:"required,min=2,max=255"`
	Year    string `json:"year" binding:"omitempty,max=50"`
	Dept    string `json:"dept" binding:"omitempty,max=100"`
	Place   string `json:"place" binding:"omitempty,max=255"`
	EventID *int   `json:"event_id" binding:"omitempty"`
}
