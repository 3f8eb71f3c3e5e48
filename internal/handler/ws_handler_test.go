package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/dsdaea/aerovault-backend/internal/websocket"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relayServer upgrades one connection and runs relayLoop over the given
// channels, so the loop can be exercised without Redis.
func relayServer(t *testing.T, pings chan struct{}, updates chan *redis.Message) (*websocket.Conn, chan struct{}) {
	t.Helper()

	h := &WSHandler{}
	done := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up := buildUpgrader(nil)
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		h.relayLoop(context.Background(), zerolog.Nop(), conn, pings, updates)
		close(done)
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, done
}

func stageMessage(t *testing.T, stage string) *redis.Message {
	t.Helper()
	payload, err := json.Marshal(ws.StageUpdate{Event: ws.EventStage, JobID: "job-1", Stage: stage})
	require.NoError(t, err)
	return &redis.Message{Payload: string(payload)}
}

func TestRelayLoopForwardsStagesUntilSettled(t *testing.T) {
	pings := make(chan struct{}, 1)
	updates := make(chan *redis.Message, 4)
	conn, done := relayServer(t, pings, updates)

	for _, stage := range []string{"preparing", "capturing", "encoding", "saved"} {
		updates <- stageMessage(t, stage)
	}

	for _, want := range []string{"preparing", "capturing", "encoding", "saved"} {
		var update ws.StageUpdate
		require.NoError(t, conn.ReadJSON(&update))
		assert.Equal(t, ws.EventStage, update.Event)
		assert.Equal(t, want, update.Stage)
	}

	// "saved" settles the job, so the loop must exit on its own.
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("relay loop did not stop after terminal stage")
	}
}

func TestRelayLoopAnswersPingsBetweenStages(t *testing.T) {
	pings := make(chan struct{}, 1)
	updates := make(chan *redis.Message, 2)
	conn, _ := relayServer(t, pings, updates)

	pings <- struct{}{}

	var pong ws.PongResponse
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, ws.EventPong, pong.Event)

	updates <- stageMessage(t, "failed")

	var update ws.StageUpdate
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, "failed", update.Stage)
}

// Pings and stage updates arrive from independent producers; every frame
// must still come out as well-formed JSON because a single goroutine owns
// all writes.
func TestRelayLoopSerializesConcurrentProducers(t *testing.T) {
	pings := make(chan struct{}, 64)
	updates := make(chan *redis.Message, 64)
	conn, done := relayServer(t, pings, updates)

	const transitions = 20

	go func() {
		for i := 0; i < 50; i++ {
			pings <- struct{}{}
		}
	}()
	go func() {
		for i := 0; i < transitions; i++ {
			updates <- stageMessage(t, "encoding")
		}
		updates <- stageMessage(t, "saved")
	}()

	stages := 0
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		assert.True(t, json.Valid(raw), "frame is not valid JSON: %q", raw)

		var update ws.StageUpdate
		if json.Unmarshal(raw, &update) == nil && update.Event == ws.EventStage {
			stages++
			if update.Stage == "saved" {
				break
			}
		}
	}
	assert.Equal(t, transitions+1, stages)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("relay loop did not stop after terminal stage")
	}
}
