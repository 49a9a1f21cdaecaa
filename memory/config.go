package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store backends selectable through Config.Backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// sqliteFile is the database file name used under Config.Path.
const sqliteFile = "cradle.db"

// Config holds store initialization parameters.
type Config struct {
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"` // file, sqlite or memory.
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`       // Data directory for file and sqlite backends.
}

// DefaultConfig returns a file-backed configuration rooted at DefaultDataDir.
func DefaultConfig() Config {
	return Config{
		Backend: BackendFile,
		Path:    DefaultDataDir(),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Path != "" {
		c.Path = source.Path
	}
}

// DefaultDataDir returns $XDG_DATA_HOME/cradle, falling back to
// ~/.local/share/cradle and finally to a relative ".cradle" directory.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "cradle")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "cradle")
	}
	return ".cradle"
}

// NewStore creates a Store from configuration.
func NewStore(ctx context.Context, cfg *Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMapStore(), nil
	case BackendFile, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: file backend requires a path", ErrInvalidKey)
		}
		return NewFileStore(cfg.Path), nil
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: sqlite backend requires a path", ErrInvalidKey)
		}
		return NewSQLiteStore(ctx, filepath.Join(cfg.Path, sqliteFile))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
