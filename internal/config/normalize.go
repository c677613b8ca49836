package config

import "strings"

func (c *Config) normalize() {
	c.normalizeArchive()
	c.normalizeOutput()
	c.normalizeProgress()
	c.normalizeLogging()
}

func (c *Config) normalizeArchive() {
	defaults := Default().Archive
	fill := func(value *string, fallback string) {
		*value = strings.TrimSpace(*value)
		if *value == "" {
			*value = fallback
		}
	}
	fill(&c.Archive.MeansKey, defaults.MeansKey)
	fill(&c.Archive.ColorsKey, defaults.ColorsKey)
	fill(&c.Archive.OpacitiesKey, defaults.OpacitiesKey)
	fill(&c.Archive.ScalesKey, defaults.ScalesKey)
	fill(&c.Archive.RotationsKey, defaults.RotationsKey)
}

func (c *Config) normalizeOutput() {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	switch c.Output.Format {
	case "":
		c.Output.Format = defaultOutputFormat
	case "binary":
		c.Output.Format = "binary_little_endian"
	}
	c.Output.FileMode = strings.TrimSpace(c.Output.FileMode)
	if c.Output.FileMode == "" {
		c.Output.FileMode = defaultFileMode
	}
}

func (c *Config) normalizeProgress() {
	c.Progress.Mode = strings.ToLower(strings.TrimSpace(c.Progress.Mode))
	if c.Progress.Mode == "" {
		c.Progress.Mode = defaultProgressMode
	}
	if c.Progress.LogBucketPercent == 0 {
		c.Progress.LogBucketPercent = defaultProgressBucket
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
