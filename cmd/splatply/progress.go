package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"splatply/internal/logging"
	"splatply/internal/splat"
)

// progressReporter renders per-file progress of a conversion run.
type progressReporter struct {
	bar     *progressbar.ProgressBar
	sampler *logging.ProgressSampler
	logger  *slog.Logger
}

// newProgressReporter picks a renderer for mode. "auto" draws a bar when w is
// a terminal and falls back to sampled log lines otherwise.
func newProgressReporter(mode string, w io.Writer, logger *slog.Logger, bucket float64, total int) *progressReporter {
	if mode == "auto" {
		mode = "log"
		if isTerminal(w) {
			mode = "bar"
		}
	}

	switch mode {
	case "bar":
		return &progressReporter{
			bar: progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription("converting"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetPredictTime(false),
				progressbar.OptionClearOnFinish(),
			),
		}
	case "log":
		return &progressReporter{
			sampler: logging.NewProgressSampler(bucket),
			logger:  logging.NewComponentLogger(logger, "progress"),
		}
	default:
		return &progressReporter{}
	}
}

func (r *progressReporter) update(p splat.Progress) {
	switch {
	case r.bar != nil:
		_ = r.bar.Add(1)
	case r.sampler != nil:
		percent := 100 * float64(p.Done) / float64(p.Total)
		if r.sampler.ShouldLog(percent) {
			r.logger.Info("conversion progress",
				logging.Int("done", p.Done),
				logging.Int("total", p.Total),
				logging.String(logging.FieldPath, p.Result.Path),
			)
		}
	}
}

func (r *progressReporter) finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
