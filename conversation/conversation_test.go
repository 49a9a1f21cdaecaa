package conversation_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tailored-agentic-units/cradle/conversation"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestNew_Empty(t *testing.T) {
	c := conversation.New()

	if c.Len() != 0 {
		t.Errorf("new conversation should have 0 messages, got %d", c.Len())
	}
	if c.LastID() != 0 {
		t.Errorf("LastID() = %d, want 0", c.LastID())
	}
}

func TestConversation_Append(t *testing.T) {
	c := conversation.New(conversation.WithClock(fixedClock(1000)))

	user, err := c.Append(conversation.AuthorUser, "¿Puedo comer queso fresco?")
	if err != nil {
		t.Fatalf("Append(user) error = %v", err)
	}
	reply, err := c.Append(conversation.AuthorAssistant, "Sí, con precaución.")
	if err != nil {
		t.Fatalf("Append(assistant) error = %v", err)
	}

	want := []conversation.Message{
		{ID: 1000, Text: "¿Puedo comer queso fresco?", Author: conversation.AuthorUser},
		{ID: 1001, Text: "Sí, con precaución.", Author: conversation.AuthorAssistant},
	}
	if diff := cmp.Diff(want, c.Messages()); diff != "" {
		t.Errorf("Messages() mismatch (-want +got):\n%s", diff)
	}
	if user.ID >= reply.ID {
		t.Errorf("user id %d should precede reply id %d", user.ID, reply.ID)
	}
	if c.LastID() != reply.ID {
		t.Errorf("LastID() = %d, want %d", c.LastID(), reply.ID)
	}
}

func TestConversation_Append_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		author  conversation.Author
		text    string
		wantErr error
	}{
		{name: "empty text", author: conversation.AuthorUser, text: "", wantErr: conversation.ErrEmptyText},
		{name: "whitespace text", author: conversation.AuthorUser, text: " \t\n", wantErr: conversation.ErrEmptyText},
		{name: "unknown author", author: conversation.Author("system"), text: "hola", wantErr: conversation.ErrInvalidAuthor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := conversation.New()
			if _, err := c.Append(tt.author, tt.text); !errors.Is(err, tt.wantErr) {
				t.Errorf("Append() error = %v, want %v", err, tt.wantErr)
			}
			if c.Len() != 0 {
				t.Errorf("rejected append changed length to %d", c.Len())
			}
		})
	}
}

func TestConversation_Messages_DefensiveCopy(t *testing.T) {
	c := conversation.New()
	if _, err := c.Append(conversation.AuthorUser, "original"); err != nil {
		t.Fatal(err)
	}

	msgs := c.Messages()
	msgs[0].Text = "mutated"

	if got := c.Messages()[0].Text; got != "original" {
		t.Errorf("internal state mutated through copy: got %q", got)
	}
}

func TestConversation_ConcurrentAppend_UniqueIncreasingIDs(t *testing.T) {
	c := conversation.New(conversation.WithClock(fixedClock(5)))

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Append(conversation.AuthorUser, "msg")
		}()
	}
	wg.Wait()

	msgs := c.Messages()
	if len(msgs) != 50 {
		t.Fatalf("got %d messages, want 50", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].ID <= msgs[i-1].ID {
			t.Fatalf("ids not strictly increasing at %d: %d then %d", i, msgs[i-1].ID, msgs[i].ID)
		}
	}
}

func TestFromMessages(t *testing.T) {
	msgs := []conversation.Message{
		{ID: 10, Text: "a", Author: conversation.AuthorUser},
		{ID: 11, Text: "b", Author: conversation.AuthorAssistant},
	}

	c, err := conversation.FromMessages(msgs, conversation.WithClock(fixedClock(1)))
	if err != nil {
		t.Fatalf("FromMessages() error = %v", err)
	}
	if diff := cmp.Diff(msgs, c.Messages()); diff != "" {
		t.Errorf("Messages() mismatch (-want +got):\n%s", diff)
	}

	next, err := c.Append(conversation.AuthorUser, "c")
	if err != nil {
		t.Fatal(err)
	}
	if next.ID != 12 {
		t.Errorf("next id after hydration = %d, want 12 (clock trails history)", next.ID)
	}
}

func TestFromMessages_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		msgs    []conversation.Message
		wantErr error
	}{
		{
			name: "duplicate id",
			msgs: []conversation.Message{
				{ID: 3, Text: "a", Author: conversation.AuthorUser},
				{ID: 3, Text: "b", Author: conversation.AuthorAssistant},
			},
			wantErr: conversation.ErrNonMonotonicID,
		},
		{
			name: "decreasing id",
			msgs: []conversation.Message{
				{ID: 9, Text: "a", Author: conversation.AuthorUser},
				{ID: 2, Text: "b", Author: conversation.AuthorAssistant},
			},
			wantErr: conversation.ErrNonMonotonicID,
		},
		{
			name:    "empty text",
			msgs:    []conversation.Message{{ID: 1, Text: "", Author: conversation.AuthorUser}},
			wantErr: conversation.ErrEmptyText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := conversation.FromMessages(tt.msgs); !errors.Is(err, tt.wantErr) {
				t.Errorf("FromMessages() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
