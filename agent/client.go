// Package agent implements the completion client: one request/response
// exchange with an OpenAI-compatible chat completions endpoint per call, with
// failures classified as unreachable, remote or malformed. There is no retry
// and no streaming.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tailored-agentic-units/cradle/core/protocol"
	"github.com/tailored-agentic-units/cradle/core/response"
)

const (
	mimeJSON          = "application/json"
	headerContentType = "Content-Type"
	headerAuth        = "Authorization"
)

// chatRequest is the single-turn request body.
type chatRequest struct {
	Model    string             `json:"model"`
	Messages []protocol.Message `json:"messages"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Client sends prompts to the completion endpoint.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

// New creates a Client from cfg. The credential is resolved from the
// environment when cfg.APIKey is empty; its absence is an error here rather
// than an empty reply later.
func New(cfg *Config, opts ...Option) (*Client, error) {
	resolved := *cfg
	if err := resolved.ResolveAPIKey(); err != nil {
		return nil, err
	}
	if resolved.Endpoint == "" || resolved.Model == "" {
		return nil, fmt.Errorf("agent: endpoint and model are required")
	}

	c := &Client{
		endpoint:   resolved.Endpoint,
		model:      resolved.Model,
		apiKey:     resolved.APIKey,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Complete sends prompt as the sole user turn and returns the reply text of
// the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: protocol.InitMessages(protocol.RoleUser, prompt),
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrMalformedResponse, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrUnreachable, err)
	}
	req.Header.Set(headerAuth, "Bearer "+c.apiKey)
	req.Header.Set(headerContentType, mimeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, ok := response.ParseErrorMessage(respBody)
		if !ok {
			msg = fmt.Sprintf("HTTP status %d", resp.StatusCode)
		}
		return "", &RemoteError{StatusCode: resp.StatusCode, Message: msg}
	}

	parsed, err := response.ParseChat(respBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	content, err := parsed.Content()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return content, nil
}
