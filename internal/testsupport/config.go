package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"splatply/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig returns the default configuration with progress output disabled
// and any provided options applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Progress.Mode = "off"
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return &cfg
}

// WithFormat sets the PLY output encoding.
func WithFormat(format string) ConfigOption {
	return func(c *config.Config) {
		c.Output.Format = format
	}
}

// WithProgressMode sets the progress reporting mode.
func WithProgressMode(mode string) ConfigOption {
	return func(c *config.Config) {
		c.Progress.Mode = mode
	}
}

// WithMeansKey overrides the archive entry holding positions.
func WithMeansKey(key string) ConfigOption {
	return func(c *config.Config) {
		c.Archive.MeansKey = key
	}
}

// WriteConfig stores cfg as TOML in a fresh temp directory and returns the path.
func WriteConfig(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "splatply.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
