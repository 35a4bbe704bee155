package websocket

import "github.com/saviare/saviare-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAutosave Action = "autosave"
	ActionSubmit   Action = "submit"
	ActionPing     Action = "ping"
)

// RequestPayload is any client message. Fields are read per action.
type RequestPayload struct {
	Action Action `json:"action"`
	// Index is the zero-based question position for autosave.
	Index *int `json:"index,omitempty"`
	// Answer is the autosaved value; null clears the answer.
	Answer *string `json:"ans"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError   Event = "error"
	EventSuccess Event = "success"
	EventGraded  Event = "graded"
	EventPong    Event = "pong"
)

// EventPayload wraps server events with nested data.
type EventPayload struct {
	Event Event `json:"event"`
	Data  any   `json:"data,omitempty"`
}

// SavedData acknowledges an autosave.
type SavedData struct {
	Status string `json:"status"`
	Index  int    `json:"index"`
}

// GradedData reports a graded submission.
type GradedData struct {
	Status string            `json:"status"`
	Result model.GradeResult `json:"result"`
}

// ErrorResponse reports a failed action. Code mirrors the REST error codes.
type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}
