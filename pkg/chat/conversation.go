package chat

// Conversation is the ordered message log for one session. Messages are
// appended as turns complete and never reordered or deduplicated. The full
// log is kept for display; only a bounded window is sent to the backend.
//
// A Conversation is owned by a single session and mutated from a single
// logical thread, so no locking is done here.
type Conversation struct {
	messages []Message
}

func NewConversation() *Conversation {
	return &Conversation{
		messages: make([]Message, 0),
	}
}

// Append adds a message to the end of the log.
func (c *Conversation) Append(msg Message) {
	c.messages = append(c.messages, msg)
}

// Messages returns a copy of the full log, oldest first.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// RecentWindow returns the last n messages in original order, or all of
// them if fewer than n exist. This bounds the history payload sent to the
// backend over a long session.
func (c *Conversation) RecentWindow(n int) []Message {
	if n <= 0 || len(c.messages) == 0 {
		return []Message{}
	}
	if n > len(c.messages) {
		n = len(c.messages)
	}
	out := make([]Message, n)
	copy(out, c.messages[len(c.messages)-n:])
	return out
}

func (c *Conversation) Len() int {
	return len(c.messages)
}

func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Clear empties the log. Safe to call on an already-empty conversation.
func (c *Conversation) Clear() {
	c.messages = c.messages[:0]
}
