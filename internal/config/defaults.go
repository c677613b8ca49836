package config

import "splatply/internal/params"

const (
	defaultConfigPath     = "~/.config/splatply/config.toml"
	projectConfigName     = "splatply.toml"
	defaultOutputFormat   = "binary_little_endian"
	defaultFileMode       = "0644"
	defaultProgressMode   = "auto"
	defaultProgressBucket = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Archive: Archive{
			MeansKey:     params.KeyMeans,
			ColorsKey:    params.KeyColors,
			OpacitiesKey: params.KeyOpacities,
			ScalesKey:    params.KeyScales,
			RotationsKey: params.KeyRotations,
		},
		Output: Output{
			Format:   defaultOutputFormat,
			FileMode: defaultFileMode,
		},
		Progress: Progress{
			Mode:             defaultProgressMode,
			LogBucketPercent: defaultProgressBucket,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
