// Package response parses bodies returned by an OpenAI-compatible chat
// completions endpoint.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoContent is returned by Content when the response carries no usable
// reply text in its first choice.
var ErrNoContent = errors.New("response has no content")

// ChatResponse represents a successful chat completion body. Only the fields
// the client reads are decoded; the rest of the payload is ignored.
type ChatResponse struct {
	ID      string   `json:"id,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`
}

// Choice is a single completion alternative. Content is a pointer so a missing
// or null field can be told apart from an empty string.
type Choice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string  `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// Content returns the reply text of the first choice.
func (r *ChatResponse) Content() (string, error) {
	if len(r.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrNoContent)
	}
	content := r.Choices[0].Message.Content
	if content == nil {
		return "", fmt.Errorf("%w: missing choices[0].message.content", ErrNoContent)
	}
	if *content == "" {
		return "", fmt.Errorf("%w: empty choices[0].message.content", ErrNoContent)
	}
	return *content, nil
}

// ParseChat parses a chat completion response from JSON bytes.
func ParseChat(body []byte) (*ChatResponse, error) {
	var resp ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %w", err)
	}
	return &resp, nil
}

// ErrorResponse represents the error body returned with a non-success status:
// {"error": {"message": "..."}}.
type ErrorResponse struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type,omitempty"`
		Code    any    `json:"code,omitempty"`
	} `json:"error"`
}

// ParseErrorMessage extracts error.message from an error body. The boolean is
// false when the body is not JSON or the message is absent or empty.
func ParseErrorMessage(body []byte) (string, bool) {
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false
	}
	if resp.Error == nil || resp.Error.Message == "" {
		return "", false
	}
	return resp.Error.Message, true
}
