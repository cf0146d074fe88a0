package chat

import (
	"encoding/json"
	"fmt"
)

// Event types emitted by the backend on the streaming chat endpoint.
const (
	EventToken = "token"
	EventError = "error"
	EventDone  = "done"
)

// Event is one decoded frame from the streaming chat response.
//
// Only the fields for the tagged type are meaningful: Content for token
// events, Error for error events, RAGEnabled for done events. Frames with
// an unrecognized Type decode successfully and are ignored downstream so
// that newer backends can add event types without breaking older clients.
type Event struct {
	Type       string `json:"type"`
	Content    string `json:"content,omitempty"`
	Error      string `json:"error,omitempty"`
	RAGEnabled bool   `json:"rag_enabled,omitempty"`

	// Err carries client-side failures (cancellation, transport errors)
	// injected into the event stream. Never set by ParseEvent.
	Err error `json:"-"`
}

// ParseEvent decodes one frame. Callers drop frames that fail to decode
// rather than failing the turn.
func ParseEvent(frame []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(frame, &ev); err != nil {
		return Event{}, fmt.Errorf("failed to parse frame: %w", err)
	}
	return ev, nil
}

func (e Event) IsToken() bool {
	return e.Type == EventToken
}

func (e Event) IsError() bool {
	return e.Type == EventError
}

func (e Event) IsDone() bool {
	return e.Type == EventDone
}
