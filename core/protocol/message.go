// Package protocol defines the wire-level chat message exchanged with an
// OpenAI-compatible chat completions endpoint.
package protocol

// Role identifies the sender of a wire message. Requests carry a single user
// turn; the reply role is not inspected.
type Role string

// RoleUser marks the prompt sent to the endpoint.
const RoleUser Role = "user"

// Message represents a single message in a completion request or response.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a Message with the given role and content.
//
// Example:
//
//	msg := protocol.NewMessage(protocol.RoleUser, "Hello, world!")
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// InitMessages creates a single-element message slice from a role and content string.
// Convenience wrapper for the single-turn request the completion client sends.
func InitMessages(role Role, content string) []Message {
	return []Message{NewMessage(role, content)}
}
