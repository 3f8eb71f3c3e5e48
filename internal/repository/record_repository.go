package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicateRollNo = errors.New("record with this roll number already exists for the event")

// RecordRepository handles certificate record data access.
type RecordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

const recordColumns = `id, roll_no, name, year, dept, place, event_id, created_at, updated_at`

func scanRecord(row pgx.Row) (*model.CertificateRecord, error) {
	rec := &model.CertificateRecord{}
	var place *string
	err := row.Scan(&rec.ID, &rec.RollNo, &rec.Name, &rec.Year, &rec.Dept, &place, &rec.EventID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if place != nil {
		rec.Place = *place
	}
	return rec, nil
}

// GetByID retrieves a record by ID.
func (r *RecordRepository) GetByID(ctx context.Context, id int) (*model.CertificateRecord, error) {
	return scanRecord(r.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM certificate_records WHERE id = $1`, id))
}

// GetByRollNo retrieves the newest record for a roll number. Roll numbers
// are stored uppercase; the lookup normalizes before matching.
func (r *RecordRepository) GetByRollNo(ctx context.Context, rollNo string) (*model.CertificateRecord, error) {
	return scanRecord(r.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM certificate_records
		 WHERE roll_no = $1 ORDER BY created_at DESC LIMIT 1`,
		strings.ToUpper(strings.TrimSpace(rollNo))))
}

// Create inserts a new record.
func (r *RecordRepository) Create(ctx context.Context, rec *model.CertificateRecord) error {
	var place *string
	if rec.Place != "" {
		place = &rec.Place
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO certificate_records (roll_no, name, year, dept, place, event_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		strings.ToUpper(strings.TrimSpace(rec.RollNo)), rec.Name, rec.Year, rec.Dept, place, rec.EventID,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	return translateDuplicate(err)
}

// Update overwrites a record's mutable fields.
func (r *RecordRepository) Update(ctx context.Context, rec *model.CertificateRecord) error {
	var place *string
	if rec.Place != "" {
		place = &rec.Place
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE certificate_records
		 SET roll_no = $1, name = $2, year = $3, dept = $4, place = $5, event_id = $6, updated_at = NOW()
		 WHERE id = $7`,
		strings.ToUpper(strings.TrimSpace(rec.RollNo)), rec.Name, rec.Year, rec.Dept, place, rec.EventID, rec.ID)
	return translateDuplicate(err)
}

// translateDuplicate maps a Postgres unique violation on the roll/event
// index to ErrDuplicateRollNo so handlers can answer 409 instead of 500.
func translateDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateRollNo
	}
	return err
}

// Delete removes a record.
func (r *RecordRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM certificate_records WHERE id = $1`, id)
	return err
}

// ListPaginated retrieves records with pagination and optional event filter.
func (r *RecordRepository) ListPaginated(ctx context.Context, eventID *int, limit, offset int) ([]model.CertificateRecord, int, error) {
	countQuery := `SELECT COUNT(*) FROM certificate_records`
	var countArgs []interface{}
	if eventID != nil {
		countQuery += ` WHERE event_id = $1`
		countArgs = append(countArgs, *eventID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + recordColumns + ` FROM certificate_records`
	var args []interface{}
	argIdx := 1

	if eventID != nil {
		query += ` WHERE event_id = $1`
		args = append(args, *eventID)
		argIdx++
	}

	query += ` ORDER BY roll_no LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []model.CertificateRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *rec)
	}
	return records, total, rows.Err()
}

// BulkUpsert inserts records, updating name/year/dept/place on roll number
// collision within the same event. Used by spreadsheet import.
func (r *RecordRepository) BulkUpsert(ctx context.Context, records []model.CertificateRecord) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	count := 0
	for _, rec := range records {
		var place *string
		if rec.Place != "" {
			place = &rec.Place
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO certificate_records (roll_no, name, year, dept, place, event_id)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (roll_no, COALESCE(event_id, 0)) DO UPDATE
			 SET name = EXCLUDED.name, year = EXCLUDED.year, dept = EXCLUDED.dept,
			     place = EXCLUDED.place, updated_at = NOW()`,
			strings.ToUpper(strings.TrimSpace(rec.RollNo)), rec.Name, rec.Year, rec.Dept, place, rec.EventID)
		if err != nil {
			return count, err
		}
		count++
	}

	if err := tx.Commit(ctx); err != nil {
		return count, err
	}
	return count, nil
}
