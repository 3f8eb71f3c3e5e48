package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dsdaea/aerovault-backend/internal/certificate"
	"github.com/dsdaea/aerovault-backend/internal/config"
	"github.com/dsdaea/aerovault-backend/internal/service"
	ws "github.com/dsdaea/aerovault-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams export pipeline progress over WebSocket.
type WSHandler struct {
	rdb      *redis.Client
	certs    *service.CertificateService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, certs *service.CertificateService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		certs:    certs,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// ExportProgressStream godoc
// WS /ws/v1/vault/exports/:job_id/stream
// Relays stage transitions for one export job until it settles. The job ID
// is an unguessable UUID, which is the access capability here.
func (h *WSHandler) ExportProgressStream(c *gin.Context) {
	jobID := c.Param("job_id")

	job, err := h.certs.JobStatus(c.Request.Context(), jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "export job not found"})
		return
	}

	// Subscribe before the snapshot so no transition is lost between the
	// two.
	sub := h.rdb.Subscribe(c.Request.Context(), config.CacheKey.ExportProgressChannel(jobID))
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("job_id", jobID).Logger()
	wsLog.Debug().Msg("Client connected to export stream")

	if err := ws.WriteTyped(conn, ws.StageUpdate{
		Event:    ws.EventStage,
		JobID:    job.ID,
		Stage:    string(job.Stage),
		Filename: job.Filename,
		Error:    job.Error,
	}); err != nil {
		return
	}

	if jobSettled(job.Stage) {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Reader goroutine: notices client disconnects and forwards ping
	// requests. It never writes; the select loop below is the only writer
	// on the connection, as gorilla/websocket allows one concurrent writer.
	pings := make(chan struct{}, 1)
	go func() {
		defer cancel()
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				return
			}
			if msg.Action == ws.ActionPing {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	h.relayLoop(ctx, wsLog, conn, pings, sub.Channel())
}

// relayLoop is the sole writer on the connection. It serializes pong
// replies and stage relays until the job settles or the client goes away.
func (h *WSHandler) relayLoop(ctx context.Context, wsLog zerolog.Logger, conn *websocket.Conn, pings <-chan struct{}, updates <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Client disconnected from export stream")
			return
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case msg, ok := <-updates:
			if !ok {
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}

			var update ws.StageUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err == nil &&
				jobSettled(certificate.Stage(update.Stage)) {
				wsLog.Debug().Str("stage", update.Stage).Msg("Export stream finished")
				return
			}
		}
	}
}

func jobSettled(stage certificate.Stage) bool {
	return stage == certificate.StageSaved || stage == certificate.StageFailed
}
