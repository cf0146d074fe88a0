package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"opschat/pkg/logger"
)

// ErrStreamUnavailable indicates the backend refused or could not start a
// response stream (non-2xx status or missing body).
var ErrStreamUnavailable = errors.New("stream unavailable")

// ChatRequest is the payload for the streaming chat endpoint. History holds
// the bounded window of prior messages; the backend appends Message itself.
type ChatRequest struct {
	Message    string    `json:"message"`
	Model      string    `json:"model,omitempty"`
	RAGEnabled bool      `json:"rag_enabled"`
	WebEnabled bool      `json:"web_enabled"`
	History    []Message `json:"history"`
}

// StreamChatter sends one chat turn and yields its events in order.
type StreamChatter interface {
	StreamChat(ctx context.Context, req ChatRequest) (<-chan Event, error)
}

// StreamingClient talks to the chatbot backend's NDJSON streaming endpoint.
type StreamingClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewStreamingClient(baseURL string) *StreamingClient {
	return &StreamingClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// StreamChat posts the request and returns a channel of decoded events.
// The channel is closed on the done event, a terminal error event, transport
// EOF, or cancellation of ctx. Events arrive in wire order.
func (sc *StreamingClient) StreamChat(ctx context.Context, req ChatRequest) (<-chan Event, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat/stream", sc.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := sc.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		if readErr != nil || len(bytes.TrimSpace(errorBody)) == 0 {
			return nil, fmt.Errorf("%w: status %d", ErrStreamUnavailable, resp.StatusCode)
		}

		// The backend reports request-level failures as a JSON error body.
		var errorResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(errorBody, &errorResp) == nil && errorResp.Error != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrStreamUnavailable, resp.StatusCode, errorResp.Error)
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrStreamUnavailable, resp.StatusCode, string(errorBody))
	}

	if resp.Body == nil {
		return nil, fmt.Errorf("%w: response has no body", ErrStreamUnavailable)
	}

	events := make(chan Event, 100)
	go sc.readStream(ctx, resp.Body, events)

	return events, nil
}

// readStream pulls transport chunks, feeds the frame scanner, and forwards
// decoded events. Malformed frames are dropped without ending the stream.
func (sc *StreamingClient) readStream(ctx context.Context, body io.ReadCloser, events chan<- Event) {
	defer close(events)
	defer body.Close()

	log := logger.WithComponent("chat_stream")
	streamID := uuid.NewString()
	log.Debug("stream started", "stream_id", streamID)

	scanner := NewFrameScanner()
	buf := make([]byte, 4096)
	start := time.Now()

	for {
		if ctx.Err() != nil {
			events <- Event{Err: ctx.Err()}
			return
		}

		n, readErr := body.Read(buf)
		if n > 0 {
			for _, frame := range scanner.Push(buf[:n]) {
				ev, err := ParseEvent(frame)
				if err != nil {
					log.Debug("dropped malformed frame", "stream_id", streamID, "frame", string(frame))
					continue
				}
				events <- ev
				if ev.IsDone() || ev.IsError() {
					log.Debug("stream finished", "stream_id", streamID,
						"terminal", ev.Type, "elapsed", time.Since(start))
					return
				}
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				log.Debug("stream closed by transport", "stream_id", streamID, "elapsed", time.Since(start))
				return
			}
			if ctx.Err() != nil {
				events <- Event{Err: ctx.Err()}
				return
			}
			events <- Event{Err: fmt.Errorf("stream read failed: %w", readErr)}
			return
		}
	}
}
