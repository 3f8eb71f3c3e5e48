package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dsdaea/aerovault-backend/internal/config"
	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	SubmissionPollTimeout = 1 * time.Second
	submissionMaxAttempts = 3
)

// SubmissionWorker consumes submit_registrations_queue and relays each
// registration to the external form endpoint as a URL-encoded POST. The
// submission is fire-and-forget from the caller's perspective; delivery
// status lands on the registration row.
type SubmissionWorker struct {
	regs   RegistrationStatusStore
	rdb    *redis.Client
	cfg    *config.Config
	client *http.Client
	log    zerolog.Logger
}

// RegistrationStatusStore records submission outcomes.
type RegistrationStatusStore interface {
	SetStatus(ctx context.Context, id int, status string) error
}

// NewSubmissionWorker creates a new SubmissionWorker.
func NewSubmissionWorker(regs RegistrationStatusStore, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *SubmissionWorker {
	return &SubmissionWorker{
		regs: regs,
		rdb:  rdb,
		cfg:  cfg,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log.With().Str("component", "submission_worker").Logger(),
	}
}

type submissionPayload struct {
	RegistrationID int    `json:"registration_id"`
	RollNo         string `json:"roll_no"`
	Name           string `json:"name"`
	Year           string `json:"year"`
	Dept           string `json:"dept"`
	EventLabel     string `json:"event_label"`
	Attempts       int    `json:"attempts,omitempty"`
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *SubmissionWorker) Start(ctx context.Context) {
	w.log.Info().Msg("SubmissionWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("SubmissionWorker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *SubmissionWorker) processNext(ctx context.Context) {
	item, err := w.rdb.BLPop(ctx, SubmissionPollTimeout, config.WorkerKey.SubmitRegistrationsQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error, sleeping 3s")
			time.Sleep(3 * time.Second)
		}
		return
	}

	if len(item) < 2 {
		return
	}

	var p submissionPayload
	if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
		w.log.Error().Err(err).Str("data", item[1]).Msg("Discarding malformed JSON")
		return
	}

	if err := w.submit(ctx, &p); err != nil {
		p.Attempts++
		if p.Attempts >= submissionMaxAttempts {
			w.log.Error().Err(err).Int("registration_id", p.RegistrationID).Msg("Submission abandoned")
			w.markStatus(ctx, p.RegistrationID, model.RegistrationFailed)
			return
		}

		w.log.Warn().Err(err).
			Int("registration_id", p.RegistrationID).
			Int("attempt", p.Attempts).
			Msg("Submission failed, requeueing in 5s")
		raw, _ := json.Marshal(p)
		w.rdb.RPush(ctx, config.WorkerKey.SubmitRegistrationsQueue, raw)
		time.Sleep(5 * time.Second)
		return
	}

	w.markStatus(ctx, p.RegistrationID, model.RegistrationDelivered)
}

func (w *SubmissionWorker) submit(ctx context.Context, p *submissionPayload) error {
	entries := w.cfg.FormEntryIDs
	form := url.Values{}
	form.Set(entries.RollNo, p.RollNo)
	form.Set(entries.Name, p.Name)
	form.Set(entries.Year, p.Year)
	form.Set(entries.Dept, p.Dept)
	form.Set(entries.Event, p.EventLabel)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.FormURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// The form endpoint answers 200 even for no-cors style clients; any
	// other class means the submission did not land.
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return fmt.Errorf("form endpoint returned %d", resp.StatusCode)
	}
	return nil
}

func (w *SubmissionWorker) markStatus(ctx context.Context, id int, status string) {
	if err := w.regs.SetStatus(ctx, id, status); err != nil {
		w.log.Error().Err(err).Int("registration_id", id).Msg("Status update failed")
	}
}
