package chat_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/cradle/agent"
	"github.com/tailored-agentic-units/cradle/chat"
	"github.com/tailored-agentic-units/cradle/memory"
)

func TestDefaultConfig(t *testing.T) {
	cfg := chat.DefaultConfig()

	if cfg.Agent.Endpoint != agent.DefaultEndpoint {
		t.Errorf("got Agent.Endpoint %q, want %q", cfg.Agent.Endpoint, agent.DefaultEndpoint)
	}

	if cfg.Memory.Backend != memory.BackendFile {
		t.Errorf("got Memory.Backend %q, want %q", cfg.Memory.Backend, memory.BackendFile)
	}

	if cfg.Observer != "slog" {
		t.Errorf("got Observer %q, want %q", cfg.Observer, "slog")
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := chat.DefaultConfig()

	source := &chat.Config{
		Agent:    agent.Config{Model: "gpt-4o"},
		Memory:   memory.Config{Backend: memory.BackendSQLite},
		Observer: "zerolog",
	}

	cfg.Merge(source)

	if cfg.Agent.Model != "gpt-4o" {
		t.Errorf("got Agent.Model %q, want %q", cfg.Agent.Model, "gpt-4o")
	}

	if cfg.Agent.Endpoint != agent.DefaultEndpoint {
		t.Errorf("got Agent.Endpoint %q, want default preserved", cfg.Agent.Endpoint)
	}

	if cfg.Memory.Backend != memory.BackendSQLite {
		t.Errorf("got Memory.Backend %q, want %q", cfg.Memory.Backend, memory.BackendSQLite)
	}

	if cfg.Observer != "zerolog" {
		t.Errorf("got Observer %q, want %q", cfg.Observer, "zerolog")
	}
}

func TestConfig_Merge_ZeroValuesPreserveDefaults(t *testing.T) {
	cfg := chat.DefaultConfig()
	original := cfg

	cfg.Merge(&chat.Config{})

	if cfg != original {
		t.Errorf("got %+v, want %+v (preserved defaults)", cfg, original)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json",
			file: "config.json",
			content: `{
				"agent": {"model": "gpt-4o", "api_key_env": "CRADLE_KEY"},
				"memory": {"backend": "sqlite", "path": "/tmp/cradle"},
				"observer": "zerolog"
			}`,
		},
		{
			name: "yaml",
			file: "config.yaml",
			content: `agent:
  model: gpt-4o
  api_key_env: CRADLE_KEY
memory:
  backend: sqlite
  path: /tmp/cradle
observer: zerolog
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			cfg, err := chat.LoadConfig(configPath)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}

			if cfg.Agent.Model != "gpt-4o" {
				t.Errorf("got Agent.Model %q, want %q", cfg.Agent.Model, "gpt-4o")
			}
			if cfg.Agent.APIKeyEnv != "CRADLE_KEY" {
				t.Errorf("got Agent.APIKeyEnv %q, want %q", cfg.Agent.APIKeyEnv, "CRADLE_KEY")
			}
			if cfg.Agent.Endpoint != agent.DefaultEndpoint {
				t.Errorf("got Agent.Endpoint %q, want default preserved", cfg.Agent.Endpoint)
			}
			if cfg.Memory.Backend != memory.BackendSQLite {
				t.Errorf("got Memory.Backend %q, want %q", cfg.Memory.Backend, memory.BackendSQLite)
			}
			if cfg.Memory.Path != "/tmp/cradle" {
				t.Errorf("got Memory.Path %q, want %q", cfg.Memory.Path, "/tmp/cradle")
			}
			if cfg.Observer != "zerolog" {
				t.Errorf("got Observer %q, want %q", cfg.Observer, "zerolog")
			}
		})
	}
}

func TestLoadConfig_IgnoresCredential(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"config.json", `{"agent": {"APIKey": "sk-leak", "api_key": "sk-leak"}}`},
		{"config.yml", "agent:\n  apikey: sk-leak\n  api_key: sk-leak\n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			cfg, err := chat.LoadConfig(configPath)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}

			if cfg.Agent.APIKey != "" {
				t.Error("API key must not be read from the config file")
			}
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := chat.LoadConfig("/nonexistent/path/config.json")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"bad.json", "{invalid}"},
		{"bad.yaml", "agent: [unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			if _, err := chat.LoadConfig(configPath); err == nil {
				t.Fatal("expected parse error, got nil")
			}
		})
	}
}
