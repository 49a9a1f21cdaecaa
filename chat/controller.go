// Package chat implements the conversation controller: it owns the in-memory
// conversation and input buffer, runs one turn at a time (optimistic user
// append, completion request, reconcile with the reply or a fixed apology),
// and mirrors the whole conversation to the history store after every
// mutation.
//
//	ctrl, err := chat.New(&cfg)
//	ctrl.Load(ctx)
//	turn, err := ctrl.Send(ctx, "¿Puedo comer queso fresco?")
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/tailored-agentic-units/cradle/agent"
	"github.com/tailored-agentic-units/cradle/conversation"
	"github.com/tailored-agentic-units/cradle/memory"
	"github.com/tailored-agentic-units/cradle/observability"
	"github.com/tailored-agentic-units/cradle/prompt"
)

// ApologyText replaces the assistant reply whenever the completion fails,
// whatever the cause.
const ApologyText = "Lo siento, no pude procesar tu solicitud. Por favor, intenta de nuevo."

// Completer performs one completion exchange. *agent.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Turn is one user message and its paired assistant message.
type Turn struct {
	ID    string               // UUIDv7 correlating the turn's events.
	User  conversation.Message // Optimistically appended user message.
	Reply conversation.Message // Model reply, or ApologyText on failure.
	Err   error                // Completion failure behind an apology; nil on success.
}

// Option configures a Controller. Options replace the subsystems New would
// otherwise build from configuration.
type Option func(*Controller)

// WithCompleter overrides the config-created completion client.
func WithCompleter(c Completer) Option {
	return func(ctrl *Controller) { ctrl.completer = c }
}

// WithStore overrides the config-created store. The caller keeps ownership:
// Close does not close an injected store.
func WithStore(s memory.Store) Option {
	return func(ctrl *Controller) { ctrl.store = s }
}

// WithObserver overrides the observer named in configuration.
func WithObserver(o observability.Observer) Option {
	return func(ctrl *Controller) { ctrl.observer = o }
}

// WithClock overrides the time source for message ids.
func WithClock(now func() time.Time) Option {
	return func(ctrl *Controller) {
		ctrl.convOpts = append(ctrl.convOpts, conversation.WithClock(now))
	}
}

// Controller is the single writer of a conversation and its history key.
// Turns are serialized: a Send issued while another turn is outstanding
// waits for it to reconcile before appending.
type Controller struct {
	completer Completer
	store     memory.Store
	ownsStore bool
	history   *memory.History
	observer  observability.Observer
	convOpts  []conversation.Option

	conv  *conversation.Conversation
	input string
	mu    sync.RWMutex

	turns    *semaphore.Weighted
	inflight atomic.Int32
	pending  sync.WaitGroup
	closed   atomic.Bool
}

// New creates a Controller from configuration. The completion client and
// store are built from cfg unless supplied through options; a missing API
// credential fails here. The conversation starts empty until Load.
func New(cfg *Config, opts ...Option) (*Controller, error) {
	ctrl := &Controller{
		turns: semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(ctrl)
	}

	if ctrl.observer == nil {
		name := cfg.Observer
		if name == "" {
			name = defaultObserver
		}
		obs, err := observability.GetObserver(name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve observer: %w", err)
		}
		ctrl.observer = obs
	}

	if ctrl.completer == nil {
		client, err := agent.New(&cfg.Agent)
		if err != nil {
			return nil, fmt.Errorf("failed to create completion client: %w", err)
		}
		ctrl.completer = client
	}

	if ctrl.store == nil {
		store, err := memory.NewStore(context.Background(), &cfg.Memory)
		if err != nil {
			return nil, fmt.Errorf("failed to create store: %w", err)
		}
		ctrl.store = store
		ctrl.ownsStore = true
	}

	ctrl.history = memory.NewHistory(ctrl.store, memory.WithHistoryObserver(ctrl.observer))
	ctrl.conv = conversation.New(ctrl.convOpts...)
	return ctrl, nil
}

// Load hydrates the conversation from the store, replacing the in-memory
// history. Unreadable history yields an empty conversation; Load only fails
// when ctx ends before an outstanding turn settles or the controller is closed.
func (c *Controller) Load(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.turns.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.turns.Release(1)

	conv := c.history.Load(ctx, c.convOpts...)

	c.mu.Lock()
	c.conv = conv
	c.mu.Unlock()

	c.emit(ctx, EventLoad, observability.LevelVerbose, map[string]any{
		"messages": conv.Len(),
		"last_id":  conv.LastID(),
	})
	return nil
}

// Messages returns a copy of the conversation, oldest first.
func (c *Controller) Messages() []conversation.Message {
	return c.conversation().Messages()
}

// Input returns the current input buffer.
func (c *Controller) Input() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.input
}

// SetInput replaces the input buffer.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

// Busy reports whether a turn is awaiting its completion.
func (c *Controller) Busy() bool {
	return c.inflight.Load() > 0
}

// Submit sends the input buffer as a turn. The buffer is cleared once the
// user message is appended; an empty buffer is rejected with ErrEmptyInput
// and left as is.
func (c *Controller) Submit(ctx context.Context) (*Turn, error) {
	return c.send(ctx, c.Input(), true)
}

// Send runs one turn for text and returns it once reconciled. Completion
// failures do not surface as errors: the turn carries ApologyText as its
// reply and the cause in Turn.Err. Send returns an error only for empty
// input, a closed controller, or ctx ending. A turn whose ctx ends during the
// completion is abandoned: the user message stays, no reply is appended, and
// ctx.Err() is returned.
func (c *Controller) Send(ctx context.Context, text string) (*Turn, error) {
	return c.send(ctx, text, false)
}

func (c *Controller) send(ctx context.Context, text string, fromInput bool) (*Turn, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	if strings.TrimSpace(text) == "" {
		c.emit(ctx, EventTurnRejected, observability.LevelVerbose, map[string]any{
			"reason": "empty input",
		})
		return nil, ErrEmptyInput
	}

	if err := c.turns.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.turns.Release(1)

	if c.closed.Load() {
		return nil, ErrClosed
	}

	c.inflight.Add(1)
	defer c.inflight.Add(-1)

	turn := &Turn{ID: uuid.Must(uuid.NewV7()).String()}
	conv := c.conversation()

	user, err := conv.Append(conversation.AuthorUser, text)
	if err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}
	turn.User = user

	if fromInput {
		c.mu.Lock()
		if c.input == text {
			c.input = ""
		}
		c.mu.Unlock()
	}

	c.persistAsync(ctx, turn.ID, conv.Messages())

	c.emit(ctx, EventTurnStart, observability.LevelInfo, map[string]any{
		"turn_id":      turn.ID,
		"input_length": len(text),
		"messages":     conv.Len(),
	})

	start := time.Now()
	reply, err := c.completer.Complete(ctx, prompt.Build(text))
	if err != nil && ctx.Err() != nil {
		c.emit(context.WithoutCancel(ctx), EventTurnAbandoned, observability.LevelInfo, map[string]any{
			"turn_id":     turn.ID,
			"duration_ms": time.Since(start).Milliseconds(),
			"messages":    conv.Len(),
		})
		return nil, ctx.Err()
	}
	if err == nil && strings.TrimSpace(reply) == "" {
		err = fmt.Errorf("%w: blank reply", agent.ErrMalformedResponse)
	}
	if err != nil {
		turn.Err = err
		reply = ApologyText
		c.emitCompletionError(ctx, turn.ID, err)
	}

	msg, err := conv.Append(conversation.AuthorAssistant, reply)
	if err != nil {
		return nil, fmt.Errorf("append assistant message: %w", err)
	}
	turn.Reply = msg

	c.persist(context.WithoutCancel(ctx), turn.ID, conv.Messages())

	c.emit(ctx, EventTurnComplete, observability.LevelInfo, map[string]any{
		"turn_id":      turn.ID,
		"reply_length": len(reply),
		"apology":      turn.Err != nil,
		"duration_ms":  time.Since(start).Milliseconds(),
		"messages":     conv.Len(),
	})

	return turn, nil
}

// Close waits for an outstanding turn and any pending persistence, then
// releases the store if the controller created it. If ctx ends first the
// controller stays open and Close may be retried. The conversation itself is
// discarded; the store keeps the last persisted snapshot.
func (c *Controller) Close(ctx context.Context) error {
	if err := c.turns.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.turns.Release(1)

	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.pending.Wait()

	if c.ownsStore {
		return c.store.Close()
	}
	return nil
}

func (c *Controller) conversation() *conversation.Conversation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conv
}

// persistAsync saves snapshot without blocking the turn. History drops the
// write if a newer snapshot lands first.
func (c *Controller) persistAsync(ctx context.Context, turnID string, snapshot []conversation.Message) {
	ctx = context.WithoutCancel(ctx)

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		c.persist(ctx, turnID, snapshot)
	}()
}

func (c *Controller) persist(ctx context.Context, turnID string, snapshot []conversation.Message) {
	if err := c.history.Save(ctx, snapshot); err != nil {
		c.emit(ctx, EventPersistError, observability.LevelWarning, map[string]any{
			"turn_id":  turnID,
			"messages": len(snapshot),
			"error":    err.Error(),
		})
	}
}

func (c *Controller) emitCompletionError(ctx context.Context, turnID string, err error) {
	data := map[string]any{
		"turn_id": turnID,
		"kind":    completionErrorKind(err),
		"error":   err.Error(),
	}

	var remote *agent.RemoteError
	if errors.As(err, &remote) {
		data["status"] = remote.StatusCode
	}

	c.emit(ctx, EventCompletionError, observability.LevelWarning, data)
}

func completionErrorKind(err error) string {
	switch {
	case errors.Is(err, agent.ErrUnreachable):
		return "unreachable"
	case errors.Is(err, agent.ErrRemote):
		return "remote"
	case errors.Is(err, agent.ErrMalformedResponse):
		return "malformed"
	default:
		return "unknown"
	}
}

func (c *Controller) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	observability.Emit(ctx, c.observer, "chat.Controller", typ, level, data)
}
