package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"splatply/internal/config"
	"splatply/internal/logging"
	"splatply/internal/params"
	"splatply/internal/ply"
	"splatply/internal/splat"
)

type convertOptions struct {
	archivePath string
	prefix      string
	destDir     string
	static      bool
	timestep    int
	timestepSet bool
	format      string
	quiet       bool
}

func runConvert(cmd *cobra.Command, ctx *commandContext, opts convertOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	format, err := cfg.PLYFormat()
	if err != nil {
		return err
	}
	if strings.TrimSpace(opts.format) != "" {
		if format, err = ply.ParseFormat(opts.format); err != nil {
			return err
		}
	}
	mode, err := cfg.FileMode()
	if err != nil {
		return err
	}

	archivePath, err := config.ExpandPath(strings.TrimSpace(opts.archivePath))
	if err != nil {
		return fmt.Errorf("resolve archive path: %w", err)
	}
	destDir, err := config.ExpandPath(strings.TrimSpace(opts.destDir))
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}

	logger, err := ctx.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	runCtx := logging.WithRunID(cmd.Context(), uuid.NewString())

	conv := splat.New(splat.Options{
		Keys:     cfg.ArchiveKeys(),
		Format:   format,
		FileMode: mode,
		Logger:   logger,
	})
	archive, err := conv.Load(archivePath)
	if err != nil {
		return err
	}

	job := splat.Job{DestDir: destDir, Prefix: opts.prefix, Static: opts.static}
	if opts.timestepSet {
		t := opts.timestep
		job.Timestep = &t
	}
	plan, err := splat.Plan(archive, job)
	if err != nil {
		return err
	}

	reporter := newProgressReporter(cfg.Progress.Mode, cmd.ErrOrStderr(), logger, cfg.Progress.LogBucketPercent, len(plan))
	results, err := conv.Run(runCtx, archive, job, reporter.update)
	reporter.finish()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !opts.quiet && len(results) > 0 {
		fmt.Fprintln(out, renderShapeSummary(archive, results[0]))
	}
	fmt.Fprintf(out, "Wrote %d %s to %s (%s)\n", len(results), plural(len(results), "file", "files"), destDir, format)
	return nil
}

// renderShapeSummary lists the source arrays and the vertex blocks they were
// concatenated into.
func renderShapeSummary(archive *params.Archive, res *splat.Result) string {
	sources := []params.Array{archive.Means, archive.Colors, archive.Opacities, archive.Scales, archive.Rotations}
	rows := make([][]string, 0, len(sources)+len(res.Blocks))
	for _, arr := range sources {
		rows = append(rows, []string{"input", arr.Name, arr.ShapeString()})
	}
	for _, block := range res.Blocks {
		rows = append(rows, []string{"vertex", block.Name, params.FormatShape(block.Shape)})
	}
	title := fmt.Sprintf("%d vertices x %d fields", res.Vertices, len(res.Fields))
	return renderTable(title, []string{"Stage", "Array", "Shape"}, rows, nil)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
