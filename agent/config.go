package agent

import (
	"fmt"
	"os"
	"strings"
)

const (
	DefaultEndpoint  = "https://api.openai.com/v1/chat/completions"
	DefaultModel     = "gpt-4o-mini"
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
)

// Config holds completion client parameters. The credential itself is never
// read from or written to a config file: APIKey is populated from the
// environment variable named by APIKeyEnv, or set directly by the embedding
// program.
type Config struct {
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	APIKey    string `json:"-" yaml:"-"`
}

// DefaultConfig returns the OpenAI chat completions endpoint with gpt-4o-mini.
func DefaultConfig() Config {
	return Config{
		Endpoint:  DefaultEndpoint,
		Model:     DefaultModel,
		APIKeyEnv: DefaultAPIKeyEnv,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Endpoint != "" {
		c.Endpoint = source.Endpoint
	}
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.APIKeyEnv != "" {
		c.APIKeyEnv = source.APIKeyEnv
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
}

// ResolveAPIKey fills APIKey from the environment when it is not already set.
// Returns ErrMissingCredential when no credential is available.
func (c *Config) ResolveAPIKey() error {
	if strings.TrimSpace(c.APIKey) != "" {
		return nil
	}
	if c.APIKeyEnv != "" {
		c.APIKey = strings.TrimSpace(os.Getenv(c.APIKeyEnv))
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: set %s", ErrMissingCredential, c.APIKeyEnv)
	}
	return nil
}
