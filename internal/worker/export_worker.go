package worker

import (
	"context"
	"time"

	"github.com/dsdaea/aerovault-backend/internal/config"
	"github.com/dsdaea/aerovault-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const ExportPollTimeout = 1 * time.Second

// ExportWorker consumes export_jobs_queue and runs the raster pipeline for
// each queued job. Jobs are processed one at a time; rendering is CPU-bound
// and the pipeline already serializes per roll number.
type ExportWorker struct {
	certs *service.CertificateService
	rdb   *redis.Client
	log   zerolog.Logger
}

// NewExportWorker creates a new ExportWorker.
func NewExportWorker(certs *service.CertificateService, rdb *redis.Client, log zerolog.Logger) *ExportWorker {
	return &ExportWorker{
		certs: certs,
		rdb:   rdb,
		log:   log.With().Str("component", "export_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *ExportWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ExportWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("ExportWorker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *ExportWorker) processNext(ctx context.Context) {
	item, err := w.rdb.BLPop(ctx, ExportPollTimeout, config.WorkerKey.ExportJobsQueue).Result()
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

	jobID := item[1]
	w.log.Debug().Str("job_id", jobID).Msg("Export job picked up")

	// ProcessJob records failure in the job state itself, so there is no
	// requeue path: a broken job must not loop forever.
	w.certs.ProcessJob(ctx, jobID)
}
