// Package conversation holds the chat domain model: an append-only, ordered
// sequence of messages whose ids are strictly increasing in creation order.
package conversation

import (
	"encoding/json"
	"fmt"
)

// Author identifies who produced a message.
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// IsValid reports whether a is a known author.
func (a Author) IsValid() bool {
	return a == AuthorUser || a == AuthorAssistant
}

// Message is a single entry in the conversation. ID doubles as a stable list
// key and a millisecond creation timestamp.
type Message struct {
	ID     int64
	Text   string
	Author Author
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Author == AuthorUser
}

// storedMessage is the persisted shape: the author is a boolean flag where
// true means user and false means assistant.
type storedMessage struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	User bool   `json:"user"`
}

// MarshalJSON encodes the message as {id, text, user}.
func (m Message) MarshalJSON() ([]byte, error) {
	if !m.Author.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAuthor, m.Author)
	}
	return json.Marshal(storedMessage{
		ID:   m.ID,
		Text: m.Text,
		User: m.IsUser(),
	})
}

// UnmarshalJSON decodes the {id, text, user} shape.
func (m *Message) UnmarshalJSON(data []byte) error {
	var s storedMessage
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	m.ID = s.ID
	m.Text = s.Text
	m.Author = AuthorAssistant
	if s.User {
		m.Author = AuthorUser
	}
	return nil
}
