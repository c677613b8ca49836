// Package config loads, normalizes, and validates splatply configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes the archive
// key names, output encoding, progress reporting mode, and logging knobs the
// CLI needs.
//
// Always obtain settings through this package so downstream code receives
// canonical values and clear validation errors.
package config
