package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/dsdaea/aerovault-backend/internal/config"
	"github.com/dsdaea/aerovault-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SystemHandler exposes a runtime and queue-depth snapshot for the admin
// dashboard.
type SystemHandler struct {
	rdb       *redis.Client
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(rdb *redis.Client, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		rdb:       rdb,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type systemMetrics struct {
	Timestamp int64  `json:"timestamp"`
	Uptime    string `json:"uptime"`

	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	NumGC      uint32 `json:"num_gc"`
	GoVersion  string `json:"go_version"`
	NumCPU     int    `json:"num_cpu"`

	QueueExports     int64 `json:"queue_exports"`
	QueueSubmissions int64 `json:"queue_submissions"`
}

// Metrics godoc
// GET /api/v1/admin/system/metrics
func (h *SystemHandler) Metrics(c *gin.Context) {
	ctx := c.Request.Context()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	m := systemMetrics{
		Timestamp:  time.Now().Unix(),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  mem.HeapAlloc,
		NumGC:      mem.NumGC,
		GoVersion:  runtime.Version(),
		NumCPU:     runtime.NumCPU(),
	}

	// Queue depths are best-effort; a Redis hiccup should not fail the
	// whole snapshot.
	if n, err := h.rdb.LLen(ctx, config.WorkerKey.ExportJobsQueue).Result(); err == nil {
		m.QueueExports = n
	} else {
		h.log.Warn().Err(err).Msg("Export queue depth read failed")
	}
	if n, err := h.rdb.LLen(ctx, config.WorkerKey.SubmitRegistrationsQueue).Result(); err == nil {
		m.QueueSubmissions = n
	}

	response.Success(c, http.StatusOK, gin.H{"metrics": m})
}
