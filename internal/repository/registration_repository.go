package repository

import (
	"context"
	"strconv"

	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegistrationRepository handles registration data access.
type RegistrationRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository creates a new RegistrationRepository.
func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

// Create inserts a pending registration.
func (r *RegistrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO registrations (roll_no, name, year, dept, degree, event_id, event_label, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		reg.RollNo, reg.Name, reg.Year, reg.Dept, reg.Degree, reg.EventID, reg.EventLabel, reg.Status,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
}

// SetStatus updates a registration's delivery status.
func (r *RegistrationRepository) SetStatus(ctx context.Context, id int, status string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE registrations SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	return err
}

// ListPaginated retrieves registrations, newest first, with optional event filter.
func (r *RegistrationRepository) ListPaginated(ctx context.Context, eventID *int, limit, offset int) ([]model.Registration, int, error) {
	countQuery := `SELECT COUNT(*) FROM registrations`
	var countArgs []interface{}
	if eventID != nil {
		countQuery += ` WHERE event_id = $1`
		countArgs = append(countArgs, *eventID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, roll_no, name, year, dept, degree, event_id, event_label, status, created_at, updated_at
	          FROM registrations`
	var args []interface{}
	argIdx := 1

	if eventID != nil {
		query += ` WHERE event_id = $1`
		args = append(args, *eventID)
		argIdx++
	}

	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(&reg.ID, &reg.RollNo, &reg.Name, &reg.Year, &reg.Dept, &reg.Degree,
			&reg.EventID, &reg.EventLabel, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, 0, err
		}
		regs = append(regs, reg)
	}
	return regs, total, rows.Err()
}
