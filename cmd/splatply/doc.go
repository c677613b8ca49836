// Package main hosts the splatply CLI entrypoint and command graph.
//
// The root command converts a Gaussian-splatting parameter archive into PLY
// point clouds, one file per timestep for dynamic scenes or a single file for
// static ones. Subcommands inspect archives and scaffold configuration. The
// conversion itself lives in internal/splat; this package resolves config,
// builds the logger, and renders progress and summaries for the terminal.
package main
