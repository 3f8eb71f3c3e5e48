package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dsdaea/aerovault-backend/internal/classifier"
	"github.com/dsdaea/aerovault-backend/internal/config"
	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/dsdaea/aerovault-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Registration failures surfaced to handlers.
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrRegistrationClosed = errors.New("registration for this event is closed")
)

// RegistrationService classifies sign-ups and queues them for delivery to
// the external form endpoint. The form boundary is fire-and-forget: the
// caller only depends on the outgoing payload being constructed.
type RegistrationService struct {
	regRepo   *repository.RegistrationRepository
	eventRepo *repository.EventRepository
	rdb       *redis.Client
	cfg       *config.Config
	log       zerolog.Logger
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(
	regRepo *repository.RegistrationRepository,
	eventRepo *repository.EventRepository,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		regRepo:   regRepo,
		eventRepo: eventRepo,
		rdb:       rdb,
		cfg:       cfg,
		log:       log.With().Str("component", "registration_service").Logger(),
	}
}

// submissionPayload is the queue message consumed by the submission worker.
type submissionPayload struct {
	RegistrationID int    `json:"registration_id"`
	RollNo         string `json:"roll_no"`
	Name           string `json:"name"`
	Year           string `json:"year"`
	Dept           string `json:"dept"`
	EventLabel     string `json:"event_label"`
}

// Register classifies the roll code, persists the registration, and queues
// the external form submission. The classification result rides back to the
// caller so the UI can echo year/department.
func (s *RegistrationService) Register(ctx context.Context, rollNo, name string, eventID int) (*model.Registration, classifier.Classification, error) {
	var cls classifier.Classification

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cls, ErrEventNotFound
		}
		return nil, cls, err
	}

	if !event.RegistrationEnabled || event.Status == model.EventStatusPast {
		return nil, cls, ErrRegistrationClosed
	}

	cls = classifier.Classify(rollNo, time.Now())

	reg := &model.Registration{
		RollNo:     cls.RollNo,
		Name:       name,
		Year:       cls.Year,
		Dept:       cls.Department,
		Degree:     cls.Degree,
		EventID:    event.ID,
		EventLabel: event.Title,
		Status:     model.RegistrationPending,
	}

	if err := s.regRepo.Create(ctx, reg); err != nil {
		return nil, cls, err
	}

	s.enqueue(ctx, reg)

	return reg, cls, nil
}

// ListRegistrations returns registrations for the admin surface.
func (s *RegistrationService) ListRegistrations(ctx context.Context, eventID *int, limit, offset int) ([]model.Registration, int, error) {
	return s.regRepo.ListPaginated(ctx, eventID, limit, offset)
}

// enqueue pushes the registration onto the delivery queue. Queue failures
// are logged, not surfaced: the registration is already persisted and the
// form boundary is best-effort.
func (s *RegistrationService) enqueue(ctx context.Context, reg *model.Registration) {
	if !s.cfg.FormSubmission || s.cfg.FormURL == "" {
		return
	}

	payload, err := json.Marshal(submissionPayload{
		RegistrationID: reg.ID,
		RollNo:         reg.RollNo,
		Name:           reg.Name,
		Year:           reg.Year,
		Dept:           reg.Dept,
		EventLabel:     reg.EventLabel,
	})
	if err != nil {
		s.log.Error().Err(err).Int("registration_id", reg.ID).Msg("Marshal submission payload failed")
		return
	}

	if err := s.rdb.RPush(ctx, config.WorkerKey.SubmitRegistrationsQueue, payload).Err(); err != nil {
		s.log.Warn().Err(err).Int("registration_id", reg.ID).Msg("Queue submission failed")
	}
}
