package controllers

import (
	"opschat/pkg/api"
	"opschat/pkg/chat"
)

// EventSink receives turn lifecycle events. The UI layer implements this to
// render incremental output and toggle input availability; everything the
// controller needs to say to the outside world goes through here.
type EventSink interface {
	// TurnStarted fires after the user message is recorded, before the
	// request is sent. Input should be treated as unavailable until
	// TurnFinished.
	TurnStarted()

	// Token fires for every token appended to the in-progress assistant
	// message, in order.
	Token(content string)

	// TurnFinished fires exactly once per turn with the finalized
	// assistant message, on every terminal path.
	TurnFinished(msg chat.Message)

	// RAGStatusUpdated fires when a fire-and-forget status refresh
	// completes. It is unordered relative to TurnFinished.
	RAGStatusUpdated(status *api.RAGStatus)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) TurnStarted()                    {}
func (NopSink) Token(string)                    {}
func (NopSink) TurnFinished(chat.Message)       {}
func (NopSink) RAGStatusUpdated(*api.RAGStatus) {}
