package config

import (
	"errors"
	"fmt"

	"splatply/internal/ply"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateArchive(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateProgress(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateArchive() error {
	keys := map[string]string{
		"archive.means_key":     c.Archive.MeansKey,
		"archive.colors_key":    c.Archive.ColorsKey,
		"archive.opacities_key": c.Archive.OpacitiesKey,
		"archive.scales_key":    c.Archive.ScalesKey,
		"archive.rotations_key": c.Archive.RotationsKey,
	}
	seen := make(map[string]string, len(keys))
	for _, field := range []string{"archive.means_key", "archive.colors_key", "archive.opacities_key", "archive.scales_key", "archive.rotations_key"} {
		value := keys[field]
		if value == "" {
			return fmt.Errorf("%s must be set", field)
		}
		if other, dup := seen[value]; dup {
			return fmt.Errorf("%s and %s both name entry %q", other, field, value)
		}
		seen[value] = field
	}
	return nil
}

func (c *Config) validateOutput() error {
	if _, err := ply.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: must be binary_little_endian, binary_big_endian, or ascii (got %q)", c.Output.Format)
	}
	if _, err := parseFileMode(c.Output.FileMode); err != nil {
		return fmt.Errorf("output.file_mode: %w", err)
	}
	return nil
}

func (c *Config) validateProgress() error {
	switch c.Progress.Mode {
	case "auto", "bar", "log", "off":
	default:
		return fmt.Errorf("progress.mode must be one of auto, bar, log, off (got %q)", c.Progress.Mode)
	}
	if c.Progress.LogBucketPercent <= 0 || c.Progress.LogBucketPercent > 100 {
		return errors.New("progress.log_bucket_percent must be in (0, 100]")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}
