package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/dsdaea/aerovault-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ErrRecordRowNotFound is returned by admin record operations when the
// target row does not exist.
var ErrRecordRowNotFound = errors.New("certificate record not found")

// ErrEmptySheet is returned when an imported spreadsheet has no data rows.
var ErrEmptySheet = errors.New("spreadsheet contains no data rows")

// ImportReport summarizes a spreadsheet import.
type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// RecordService handles admin-side management of certificate records. Every
// mutation invalidates the public lookup cache for the affected roll number.
type RecordService struct {
	repo   *repository.RecordRepository
	lookup *LookupService
	log    zerolog.Logger
}

// NewRecordService creates a RecordService.
func NewRecordService(repo *repository.RecordRepository, lookup *LookupService, log zerolog.Logger) *RecordService {
	return &RecordService{
		repo:   repo,
		lookup: lookup,
		log:    log.With().Str("component", "record_service").Logger(),
	}
}

// List returns records with pagination and an optional event filter.
func (s *RecordService) List(ctx context.Context, eventID *int, limit, offset int) ([]model.CertificateRecord, int, error) {
	return s.repo.ListPaginated(ctx, eventID, limit, offset)
}

// Get returns one record by ID.
func (s *RecordService) Get(ctx context.Context, id int) (*model.CertificateRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordRowNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Create inserts a record.
func (s *RecordService) Create(ctx context.Context, rec *model.CertificateRecord) error {
	if err := s.repo.Create(ctx, rec); err != nil {
		return err
	}
	s.lookup.Invalidate(ctx, rec.RollNo)
	return nil
}

// Update rewrites a record and invalidates lookups for both the old and new
// roll number, since the roll itself may have been corrected.
func (s *RecordService) Update(ctx context.Context, rec *model.CertificateRecord) error {
	old, err := s.Get(ctx, rec.ID)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return err
	}
	s.lookup.Invalidate(ctx, old.RollNo)
	s.lookup.Invalidate(ctx, rec.RollNo)
	return nil
}

// Delete removes a record.
func (s *RecordService) Delete(ctx context.Context, id int) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.lookup.Invalidate(ctx, rec.RollNo)
	return nil
}

// ImportXLSX parses an uploaded workbook and upserts its rows. The first
// sheet is used; expected columns are roll_no, name, year, dept, place in
// that order, with a header row.
func (s *RecordService) ImportXLSX(ctx context.Context, r io.Reader, eventID *int) (*ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) <= 1 {
		return nil, ErrEmptySheet
	}

	report := &ImportReport{}
	var records []model.CertificateRecord

	for i, row := range rows[1:] {
		rec, err := recordFromRow(row, eventID)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		records = append(records, *rec)
	}

	if len(records) == 0 {
		return report, nil
	}

	imported, err := s.repo.BulkUpsert(ctx, records)
	report.Imported = imported
	if err != nil {
		return report, fmt.Errorf("upsert records: %w", err)
	}

	for _, rec := range records {
		s.lookup.Invalidate(ctx, rec.RollNo)
	}

	s.log.Info().Int("imported", report.Imported).Int("skipped", report.Skipped).Msg("Record import finished")
	return report, nil
}

func recordFromRow(row []string, eventID *int) (*model.CertificateRecord, error) {
	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	rec := &model.CertificateRecord{
		RollNo:  strings.ToUpper(cell(0)),
		Name:    cell(1),
		Year:    cell(2),
		Dept:    cell(3),
		Place:   cell(4),
		EventID: eventID,
	}

	if rec.RollNo == "" {
		return nil, errors.New("missing roll number")
	}
	if rec.Name == "" {
		return nil, errors.New("missing name")
	}
	return rec, nil
}
