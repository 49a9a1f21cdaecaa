package conversation

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Option configures a Conversation.
type Option func(*Conversation)

// WithClock overrides the time source used for message ids.
func WithClock(now func() time.Time) Option {
	return func(c *Conversation) { c.ids = NewIDSource(now) }
}

// Conversation is an ordered, append-only message history, oldest first.
// All methods are safe for concurrent use.
type Conversation struct {
	messages []Message
	ids      *IDSource
	mu       sync.RWMutex
}

// New creates an empty Conversation.
func New(opts ...Option) *Conversation {
	c := &Conversation{ids: NewIDSource(nil)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromMessages hydrates a Conversation from previously persisted messages.
// The messages must satisfy the same invariants Append enforces.
func FromMessages(msgs []Message, opts ...Option) (*Conversation, error) {
	c := New(opts...)

	var last int64
	for i, msg := range msgs {
		if err := validate(msg.Author, msg.Text); err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		if i > 0 && msg.ID <= last {
			return nil, fmt.Errorf("message %d: %w: %d after %d", i, ErrNonMonotonicID, msg.ID, last)
		}
		last = msg.ID
	}

	c.messages = slices.Clone(msgs)
	c.ids.Observe(last)
	return c, nil
}

// Append adds a message authored by author with a fresh id and returns it.
func (c *Conversation) Append(author Author, text string) (Message, error) {
	if err := validate(author, text); err != nil {
		return Message{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	msg := Message{
		ID:     c.ids.Next(),
		Text:   text,
		Author: author,
	}
	c.messages = append(c.messages, msg)
	return msg, nil
}

// Messages returns a copy of the history, oldest first.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.messages)
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// LastID returns the id of the newest message, or 0 when empty.
func (c *Conversation) LastID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.messages) == 0 {
		return 0
	}
	return c.messages[len(c.messages)-1].ID
}

func validate(author Author, text string) error {
	if !author.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAuthor, author)
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}
