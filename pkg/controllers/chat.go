package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"opschat/pkg/api"
	"opschat/pkg/chat"
	"opschat/pkg/config"
	"opschat/pkg/logger"
)

// User-facing fallback messages. Every turn ends with exactly one assistant
// message; these cover the paths where the backend did not provide one.
const (
	EmptyResponseFallback = "Sorry, I could not generate a response."
	TimeoutFallback       = "The request took too long. Please try again."
	ConnectivityFallback  = "Sorry, I could not reach the chat service. Please try again."
	StreamErrorFallback   = "The response stream reported an error."
)

var (
	ErrEmptyMessage = errors.New("message content cannot be empty")
	ErrTurnInFlight = errors.New("a turn is already in flight")
)

// RAGStatusFetcher is the collaborator for the fire-and-forget status
// refresh triggered by done events with rag_enabled set.
type RAGStatusFetcher interface {
	RAGStatus(ctx context.Context) (*api.RAGStatus, error)
}

// TurnController drives one chat turn at a time: it builds the request from
// the bounded history window, streams the response, accumulates tokens, and
// commits exactly one assistant message to the conversation on every
// terminal path (normal, empty, protocol error, transport error, timeout).
type TurnController struct {
	client       chat.StreamChatter
	status       RAGStatusFetcher
	sink         EventSink
	conversation *chat.Conversation

	model      string
	ragEnabled bool
	webEnabled bool

	requestTimeout time.Duration
	historyWindow  int

	busy bool
}

func NewTurnController(client chat.StreamChatter, model string) *TurnController {
	return &TurnController{
		client:         client,
		sink:           NopSink{},
		conversation:   chat.NewConversation(),
		model:          model,
		requestTimeout: config.DefaultRequestTimeout,
		historyWindow:  config.DefaultHistoryWindow,
	}
}

func (tc *TurnController) SetSink(sink EventSink) {
	if sink == nil {
		sink = NopSink{}
	}
	tc.sink = sink
}

func (tc *TurnController) SetStatusFetcher(status RAGStatusFetcher) {
	tc.status = status
}

func (tc *TurnController) SetRequestTimeout(d time.Duration) {
	if d > 0 {
		tc.requestTimeout = d
	}
}

func (tc *TurnController) SetHistoryWindow(n int) {
	if n > 0 {
		tc.historyWindow = n
	}
}

func (tc *TurnController) Model() string { return tc.model }

func (tc *TurnController) SetModel(model string) { tc.model = model }

func (tc *TurnController) RAGEnabled() bool { return tc.ragEnabled }

func (tc *TurnController) SetRAGEnabled(on bool) { tc.ragEnabled = on }

func (tc *TurnController) WebEnabled() bool { return tc.webEnabled }

func (tc *TurnController) SetWebEnabled(on bool) { tc.webEnabled = on }

// Busy reports whether a turn is in flight. Callers gate new submissions
// on this; Submit also enforces it.
func (tc *TurnController) Busy() bool { return tc.busy }

// History returns the full conversation, oldest first.
func (tc *TurnController) History() []chat.Message {
	return tc.conversation.Messages()
}

// Clear empties the conversation. Confirmation is the caller's job.
func (tc *TurnController) Clear() {
	tc.conversation.Clear()
}

// Submit runs one full turn. It returns an error only for precondition
// violations; turn-level failures (transport, protocol, timeout) end the
// turn with a fallback assistant message instead.
func (tc *TurnController) Submit(ctx context.Context, text string) (chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return chat.Message{}, ErrEmptyMessage
	}
	if tc.busy {
		return chat.Message{}, ErrTurnInFlight
	}
	tc.busy = true
	defer func() { tc.busy = false }()

	log := logger.WithComponent("turn_controller")

	// The payload history is the window of context before this turn; the
	// backend appends the new user message itself.
	window := tc.conversation.RecentWindow(tc.historyWindow)

	// Recorded up front so the user message survives a failed turn.
	tc.conversation.Append(chat.NewUserMessage(text))
	tc.sink.TurnStarted()

	req := chat.ChatRequest{
		Message:    text,
		Model:      tc.model,
		RAGEnabled: tc.ragEnabled,
		WebEnabled: tc.webEnabled,
		History:    window,
	}

	turnCtx, cancel := context.WithTimeout(ctx, tc.requestTimeout)
	defer cancel()

	events, err := tc.client.StreamChat(turnCtx, req)
	if err != nil {
		log.Error("failed to start stream", "error", err)
		return tc.finish(tc.transportFailure(err)), nil
	}

	var acc strings.Builder
	failure := ""

	for ev := range events {
		if ev.Err != nil {
			log.Error("stream interrupted", "error", ev.Err)
			failure = tc.transportFailure(ev.Err)
			cancel()
			break
		}

		switch {
		case ev.IsToken():
			acc.WriteString(ev.Content)
			tc.sink.Token(ev.Content)
		case ev.IsError():
			failure = ev.Error
			if failure == "" {
				failure = StreamErrorFallback
			}
			log.Error("backend reported stream error", "error", failure)
			cancel()
		case ev.IsDone():
			if ev.RAGEnabled {
				tc.refreshRAGStatus()
			}
		default:
			// Unrecognized event types are no-ops for forward compatibility.
			log.Debug("ignoring unknown event type", "type", ev.Type)
		}

		if failure != "" {
			break
		}
	}
	cancel()

	if failure != "" {
		return tc.finish(failure), nil
	}

	content := strings.TrimSpace(acc.String())
	if content == "" {
		content = EmptyResponseFallback
	}
	return tc.finish(content), nil
}

// finish commits the turn's single assistant message and notifies the sink.
func (tc *TurnController) finish(content string) chat.Message {
	msg := chat.NewAssistantMessage(content)
	tc.conversation.Append(msg)
	tc.sink.TurnFinished(msg)
	return msg
}

// transportFailure maps a transport-level error to a user-facing message,
// distinguishing the turn timer firing from other connectivity failures.
func (tc *TurnController) transportFailure(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutFallback
	}
	return ConnectivityFallback
}

// refreshRAGStatus dispatches an unawaited status refresh. Failures are
// swallowed; the turn never blocks on this.
func (tc *TurnController) refreshRAGStatus() {
	if tc.status == nil {
		return
	}
	status := tc.status
	sink := tc.sink
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		st, err := status.RAGStatus(ctx)
		if err != nil {
			logger.WithComponent("turn_controller").Debug("rag status refresh failed", "error", err)
			return
		}
		sink.RAGStatusUpdated(st)
	}()
}
