package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dsdaea/aerovault-backend/internal/certificate"
	"github.com/dsdaea/aerovault-backend/internal/classifier"
	"github.com/dsdaea/aerovault-backend/internal/config"
	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/dsdaea/aerovault-backend/internal/repository"
	ws "github.com/dsdaea/aerovault-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Export orchestration failures.
var (
	ErrExportBusy  = errors.New("an export for this roll number is already in flight")
	ErrJobNotFound = errors.New("export job not found")
	ErrJobNotReady = errors.New("export job has not produced an artifact yet")
)

// exportJobTTL bounds how long job state and artifacts stay addressable.
const exportJobTTL = time.Hour

// defaultEventTitle is printed when neither the job nor the record pins an
// event; it matches the template's placeholder wording.
const defaultEventTitle = "XYZ EVENT TITLE"

// LookupResult pairs the resolved record with its roll classification.
type LookupResult struct {
	Record         *model.CertificateRecord  `json:"record"`
	Classification classifier.Classification `json:"classification"`
}

// ExportJob is the persisted state of an asynchronous export.
type ExportJob struct {
	ID        string             `json:"id"`
	RollNo    string             `json:"roll_no"`
	EventID   *int               `json:"event_id,omitempty"`
	Format    certificate.Format `json:"format"`
	Stage     certificate.Stage  `json:"stage"`
	Filename  string             `json:"filename,omitempty"`
	FilePath  string             `json:"-"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// jobEnvelope is the Redis representation, including the artifact path the
// API never exposes.
type jobEnvelope struct {
	ExportJob
	StoredPath string `json:"stored_path,omitempty"`
}

// CertificateService orchestrates the vault flow: lookup, template
// population, and the raster export pipeline, both synchronous and queued.
type CertificateService struct {
	lookup    *LookupService
	eventRepo *repository.EventRepository
	exporter  *certificate.Exporter
	rdb       *redis.Client
	cfg       *config.Config
	log       zerolog.Logger

	// locks holds one mutex per roll number. The export pipeline's
	// geometry mutation is non-reentrant, so at most one export per
	// roll may be in flight.
	locks sync.Map
}

// NewCertificateService creates a CertificateService.
func NewCertificateService(
	lookup *LookupService,
	eventRepo *repository.EventRepository,
	exporter *certificate.Exporter,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *CertificateService {
	return &CertificateService{
		lookup:    lookup,
		eventRepo: eventRepo,
		exporter:  exporter,
		rdb:       rdb,
		cfg:       cfg,
		log:       log.With().Str("component", "certificate_service").Logger(),
	}
}

// Lookup resolves a record and classifies its roll number.
func (s *CertificateService) Lookup(ctx context.Context, rollNo string) (*LookupResult, error) {
	rec, err := s.lookup.Lookup(ctx, rollNo)
	if err != nil {
		return nil, err
	}
	return &LookupResult{
		Record:         rec,
		Classification: classifier.Classify(rec.RollNo, time.Now()),
	}, nil
}

// ExportSync runs the full pipeline inline and returns the encoded
// artifact. A concurrent export for the same roll number is rejected.
func (s *CertificateService) ExportSync(ctx context.Context, rollNo string, eventID *int, format certificate.Format) (*certificate.Artifact, error) {
	rec, err := s.lookup.Lookup(ctx, rollNo)
	if err != nil {
		return nil, err
	}

	mu := s.lockFor(rec.RollNo)
	if !mu.TryLock() {
		return nil, ErrExportBusy
	}
	defer mu.Unlock()

	doc, err := certificate.NewDocument(rec, s.eventTitle(ctx, rec, eventID))
	if err != nil {
		return nil, err
	}

	return s.exporter.Export(ctx, doc, format, nil)
}

// EnqueueExport validates the roll number, persists a queued job, and hands
// it to the export worker.
func (s *CertificateService) EnqueueExport(ctx context.Context, rollNo string, eventID *int, format certificate.Format) (*ExportJob, error) {
	rec, err := s.lookup.Lookup(ctx, rollNo)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &ExportJob{
		ID:        uuid.New().String(),
		RollNo:    rec.RollNo,
		EventID:   eventID,
		Format:    format,
		Stage:     certificate.StageIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.saveJob(ctx, job, ""); err != nil {
		return nil, err
	}

	if err := s.rdb.RPush(ctx, config.WorkerKey.ExportJobsQueue, job.ID).Err(); err != nil {
		return nil, fmt.Errorf("queue export job: %w", err)
	}

	return job, nil
}

// JobStatus loads an export job's current state.
func (s *CertificateService) JobStatus(ctx context.Context, jobID string) (*ExportJob, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.ExportJobKey(jobID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	var env jobEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("decode export job: %w", err)
	}
	job := env.ExportJob
	job.FilePath = env.StoredPath
	return &job, nil
}

// Artifact returns the stored artifact path for a saved job.
func (s *CertificateService) Artifact(ctx context.Context, jobID string) (*ExportJob, error) {
	job, err := s.JobStatus(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Stage != certificate.StageSaved || job.FilePath == "" {
		return nil, ErrJobNotReady
	}
	if _, err := os.Stat(job.FilePath); err != nil {
		return nil, fmt.Errorf("%w: artifact expired", ErrJobNotFound)
	}
	return job, nil
}

// ProcessJob runs a queued export to completion, publishing every stage
// transition. Called by the export worker.
func (s *CertificateService) ProcessJob(ctx context.Context, jobID string) {
	job, err := s.JobStatus(ctx, jobID)
	if err != nil {
		s.log.Error().Err(err).Str("job_id", jobID).Msg("Export job load failed")
		return
	}

	// The worker serializes on the same per-roll guard as sync exports.
	mu := s.lockFor(job.RollNo)
	mu.Lock()
	defer mu.Unlock()

	rec, err := s.lookup.Lookup(ctx, job.RollNo)
	if err != nil {
		s.failJob(ctx, job, err)
		return
	}

	doc, err := certificate.NewDocument(rec, s.eventTitle(ctx, rec, job.EventID))
	if err != nil {
		s.failJob(ctx, job, err)
		return
	}

	artifact, err := s.exporter.Export(ctx, doc, job.Format, func(stage certificate.Stage) {
		job.Stage = stage
		job.UpdatedAt = time.Now().UTC()
		if err := s.saveJob(ctx, job, job.FilePath); err != nil {
			s.log.Warn().Err(err).Str("job_id", job.ID).Msg("Job state write failed")
		}
		s.publish(ctx, job)
	})
	if err != nil {
		s.failJob(ctx, job, err)
		return
	}

	if err := os.MkdirAll(s.cfg.ExportDir, 0o755); err != nil {
		s.failJob(ctx, job, fmt.Errorf("create export dir: %w", err))
		return
	}

	path := filepath.Join(s.cfg.ExportDir, job.ID+"_"+artifact.Filename)
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		s.failJob(ctx, job, fmt.Errorf("store artifact: %w", err))
		return
	}

	job.Stage = certificate.StageSaved
	job.Filename = artifact.Filename
	job.FilePath = path
	job.Error = ""
	job.UpdatedAt = time.Now().UTC()
	if err := s.saveJob(ctx, job, path); err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("Job completion write failed")
	}
	s.publish(ctx, job)
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

func (s *CertificateService) lockFor(rollNo string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(rollNo, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// eventTitle resolves the wording printed on the certificate: an explicit
// event choice wins, then the record's own event, then the placeholder.
func (s *CertificateService) eventTitle(ctx context.Context, rec *model.CertificateRecord, eventID *int) string {
	id := eventID
	if id == nil {
		id = rec.EventID
	}
	if id == nil {
		return defaultEventTitle
	}

	event, err := s.eventRepo.GetByID(ctx, *id)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.log.Warn().Err(err).Int("event_id", *id).Msg("Event title lookup failed")
		}
		return defaultEventTitle
	}

	if event.CertificateTitle != "" {
		return event.CertificateTitle
	}
	return event.Title
}

func (s *CertificateService) failJob(ctx context.Context, job *ExportJob, cause error) {
	job.Stage = certificate.StageFailed
	job.Error = cause.Error()
	job.UpdatedAt = time.Now().UTC()
	if err := s.saveJob(ctx, job, job.FilePath); err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("Job failure write failed")
	}
	s.publish(ctx, job)
	s.log.Error().Err(cause).Str("job_id", job.ID).Str("roll_no", job.RollNo).Msg("Export job failed")
}

func (s *CertificateService) saveJob(ctx context.Context, job *ExportJob, path string) error {
	payload, err := json.Marshal(jobEnvelope{ExportJob: *job, StoredPath: path})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, config.CacheKey.ExportJobKey(job.ID), payload, exportJobTTL).Err()
}

func (s *CertificateService) publish(ctx context.Context, job *ExportJob) {
	msg, err := json.Marshal(ws.StageUpdate{
		Event:    ws.EventStage,
		JobID:    job.ID,
		Stage:    string(job.Stage),
		Filename: job.Filename,
		Error:    job.Error,
	})
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.ExportProgressChannel(job.ID), msg).Err(); err != nil {
		s.log.Debug().Err(err).Str("job_id", job.ID).Msg("Progress publish failed")
	}
}
