package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tailored-agentic-units/cradle/conversation"
	"github.com/tailored-agentic-units/cradle/observability"
)

// HistoryKey is the fixed key the conversation snapshot is stored under.
const HistoryKey = "messages"

// History events.
const (
	EventHistoryLoad  observability.EventType = "memory.history.load"
	EventHistoryReset observability.EventType = "memory.history.reset"
	EventHistoryStale observability.EventType = "memory.history.stale"
)

// HistoryOption configures a History.
type HistoryOption func(*History)

// WithHistoryObserver sets the observer that receives load and reset events.
func WithHistoryObserver(o observability.Observer) HistoryOption {
	return func(h *History) { h.observer = o }
}

// WithHistoryKey overrides HistoryKey.
func WithHistoryKey(key string) HistoryOption {
	return func(h *History) { h.key = key }
}

// History persists a whole conversation under one key. Load never fails:
// missing or unreadable history yields an empty conversation. Save writes are
// serialized, and a snapshot shorter than one already written is skipped so a
// late write can never roll the store back.
type History struct {
	store    Store
	key      string
	observer observability.Observer
	written  int
	mu       sync.Mutex
}

// NewHistory creates a History over store.
func NewHistory(store Store, opts ...HistoryOption) *History {
	h := &History{
		store:    store,
		key:      HistoryKey,
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Load reads the stored snapshot and hydrates a Conversation from it. A
// missing key, an undecodable value, or a snapshot that violates conversation
// invariants all produce an empty Conversation; the cause is reported to the
// observer.
func (h *History) Load(ctx context.Context, opts ...conversation.Option) *conversation.Conversation {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := h.store.Get(ctx, h.key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			h.emit(ctx, EventHistoryLoad, observability.LevelVerbose, map[string]any{"messages": 0})
		} else {
			h.reset(ctx, err)
		}
		h.written = 0
		return conversation.New(opts...)
	}

	msgs, err := conversation.Decode(data)
	if err != nil {
		h.reset(ctx, err)
		h.written = 0
		return conversation.New(opts...)
	}

	conv, err := conversation.FromMessages(msgs, opts...)
	if err != nil {
		h.reset(ctx, fmt.Errorf("%w: %v", ErrLoadFailed, err))
		h.written = 0
		return conversation.New(opts...)
	}

	h.written = len(msgs)
	h.emit(ctx, EventHistoryLoad, observability.LevelInfo, map[string]any{"messages": len(msgs)})
	return conv
}

// Save overwrites the stored snapshot with msgs. Calls are serialized; a
// snapshot with fewer messages than the last one written is stale for an
// append-only history and is dropped without error.
func (h *History) Save(ctx context.Context, msgs []conversation.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(msgs) < h.written {
		h.emit(ctx, EventHistoryStale, observability.LevelVerbose, map[string]any{
			"snapshot": len(msgs),
			"written":  h.written,
		})
		return nil
	}

	data, err := conversation.Encode(msgs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	if err := h.store.Set(ctx, h.key, data); err != nil {
		return err
	}

	h.written = len(msgs)
	return nil
}

func (h *History) reset(ctx context.Context, cause error) {
	h.emit(ctx, EventHistoryReset, observability.LevelWarning, map[string]any{
		"key":   h.key,
		"error": cause.Error(),
	})
}

func (h *History) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	observability.Emit(ctx, h.observer, "memory.History", typ, level, data)
}
