package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventStage Event = "stage"
	EventError Event = "error"
	EventPong  Event = "pong"
)

// StageUpdate is pushed on every export pipeline stage transition.
// The same payload is published on the Redis progress channel, so the
// stream handler can relay it verbatim.
type StageUpdate struct {
	Event    Event  `json:"event"`
	JobID    string `json:"job_id"`
	Stage    string `json:"stage"`
	Filename string `json:"filename,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
