package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"splatply/internal/params"
	"splatply/internal/ply"
)

//go:embed sample_config.toml
var sampleConfig string

// Archive maps scene parameters to entry names inside the .npz archive.
type Archive struct {
	MeansKey     string `toml:"means_key"`
	ColorsKey    string `toml:"colors_key"`
	OpacitiesKey string `toml:"opacities_key"`
	ScalesKey    string `toml:"scales_key"`
	RotationsKey string `toml:"rotations_key"`
}

// Output contains configuration for written PLY files.
type Output struct {
	Format   string `toml:"format"`
	FileMode string `toml:"file_mode"`
}

// Progress controls how the driver reports per-timestep progress.
type Progress struct {
	// Mode is one of auto, bar, log, off. auto picks bar on terminals.
	Mode string `toml:"mode"`
	// LogBucketPercent is the percentage step between progress log lines.
	LogBucketPercent float64 `toml:"log_bucket_percent"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for splatply.
type Config struct {
	Archive  Archive  `toml:"archive"`
	Output   Output   `toml:"output"`
	Progress Progress `toml:"progress"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file
// is not an error; defaults are returned and exists is false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// ArchiveKeys returns the configured archive entry names.
func (c *Config) ArchiveKeys() params.Keys {
	return params.Keys{
		Means:     c.Archive.MeansKey,
		Colors:    c.Archive.ColorsKey,
		Opacities: c.Archive.OpacitiesKey,
		Scales:    c.Archive.ScalesKey,
		Rotations: c.Archive.RotationsKey,
	}
}

// PLYFormat returns the parsed output encoding.
func (c *Config) PLYFormat() (ply.Format, error) {
	return ply.ParseFormat(c.Output.Format)
}

// FileMode returns the permission bits applied to written files.
func (c *Config) FileMode() (os.FileMode, error) {
	return parseFileMode(c.Output.FileMode)
}

func parseFileMode(value string) (os.FileMode, error) {
	mode, err := strconv.ParseUint(strings.TrimSpace(value), 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid octal file mode %q", value)
	}
	if mode > 0o777 {
		return 0, fmt.Errorf("file mode %q has bits outside 0777", value)
	}
	return os.FileMode(mode), nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
