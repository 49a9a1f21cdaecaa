package chat_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tailored-agentic-units/cradle/chat"
	"github.com/tailored-agentic-units/cradle/memory"
	"github.com/tailored-agentic-units/cradle/observability"
)

// completerFunc adapts a function to chat.Completer.
type completerFunc func(ctx context.Context, prompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func replyWith(text string) completerFunc {
	return func(context.Context, string) (string, error) { return text, nil }
}

func failWith(err error) completerFunc {
	return func(context.Context, string) (string, error) { return "", err }
}

// captureObserver records events; safe for concurrent use.
type captureObserver struct {
	mu     sync.Mutex
	events []observability.Event
}

func (c *captureObserver) OnEvent(_ context.Context, event observability.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureObserver) byType(typ observability.EventType) []observability.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []observability.Event
	for _, e := range c.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// failingStore fails every Set.
type failingStore struct {
	memory.Store
	err error
}

func (s *failingStore) Set(context.Context, string, []byte) error { return s.err }

func steppingClock(startMs int64) func() time.Time {
	var mu sync.Mutex
	now := startMs
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := time.UnixMilli(now)
		now += 10
		return t
	}
}

// newController builds a Controller over an in-memory store with the given
// completer. The controller is closed when the test ends.
func newController(t *testing.T, completer chat.Completer, opts ...chat.Option) (*chat.Controller, memory.Store, *captureObserver) {
	t.Helper()

	store := memory.NewMapStore()
	obs := &captureObserver{}

	cfg := chat.DefaultConfig()
	all := append([]chat.Option{
		chat.WithCompleter(completer),
		chat.WithStore(store),
		chat.WithObserver(obs),
	}, opts...)

	ctrl, err := chat.New(&cfg, all...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { ctrl.Close(context.Background()) })

	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return ctrl, store, obs
}
