package repository

import (
	"context"

	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository handles event catalogue data access.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `id, title, type, status, tagline, details, venue, event_date,
	registration_enabled, capacity, certificate_title, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	ev := &model.Event{}
	err := row.Scan(&ev.ID, &ev.Title, &ev.Type, &ev.Status, &ev.Tagline, &ev.Details,
		&ev.Venue, &ev.EventDate, &ev.RegistrationEnabled, &ev.Capacity,
		&ev.CertificateTitle, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// GetAll retrieves the full catalogue, live event first, then by date.
func (r *EventRepository) GetAll(ctx context.Context) ([]*model.Event, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+eventColumns+` FROM events
		 ORDER BY status = 'live' DESC, event_date DESC NULLS LAST`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// GetByID retrieves a single event.
func (r *EventRepository) GetByID(ctx context.Context, id int) (*model.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, ev *model.Event) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO events (title, type, status, tagline, details, venue, event_date,
		                     registration_enabled, capacity, certificate_title)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		ev.Title, ev.Type, ev.Status, ev.Tagline, ev.Details, ev.Venue, ev.EventDate,
		ev.RegistrationEnabled, ev.Capacity, ev.CertificateTitle,
	).Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
}

// Update overwrites an event's mutable fields.
func (r *EventRepository) Update(ctx context.Context, ev *model.Event) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE events
		 SET title = $1, type = $2, status = $3, tagline = $4, details = $5, venue = $6,
		     event_date = $7, registration_enabled = $8, capacity = $9,
		     certificate_title = $10, updated_at = NOW()
		 WHERE id = $11`,
		ev.Title, ev.Type, ev.Status, ev.Tagline, ev.Details, ev.Venue, ev.EventDate,
		ev.RegistrationEnabled, ev.Capacity, ev.CertificateTitle, ev.ID)
	return err
}

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}
