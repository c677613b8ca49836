package splat

import (
	"context"
	"errors"
	"fmt"

	"splatply/internal/fileutil"
	"splatply/internal/logging"
	"splatply/internal/params"
)

// Job describes a conversion of a whole scene.
type Job struct {
	DestDir string
	Prefix  string
	Static  bool
	// Timestep limits a dynamic run to one timestep. Nil converts all of them.
	Timestep *int
}

// Progress is reported after each written file.
type Progress struct {
	Done   int
	Total  int
	Result *Result
}

// ProgressFunc receives progress updates from Run.
type ProgressFunc func(Progress)

// Plan returns the timesteps a job converts. Static jobs yield a single zero.
func Plan(archive *params.Archive, job Job) ([]int, error) {
	if job.Static {
		return []int{0}, nil
	}
	steps, err := Timesteps(archive)
	if err != nil {
		return nil, err
	}
	if job.Timestep != nil {
		t := *job.Timestep
		if t < 0 || t >= steps {
			return nil, mismatch(archive.Means, "timestep %d within [0, %d)", t, steps)
		}
		return []int{t}, nil
	}
	plan := make([]int, steps)
	for i := range plan {
		plan[i] = i
	}
	return plan, nil
}

// Run converts every planned timestep in order while holding the destination
// lock. The first error stops the run; files already written are kept.
func (c *Converter) Run(ctx context.Context, archive *params.Archive, job Job, onProgress ProgressFunc) (results []*Result, err error) {
	plan, err := Plan(archive, job)
	if err != nil {
		return nil, err
	}
	if err := validatePrefix(job.Prefix); err != nil {
		return nil, err
	}
	if err := fileutil.EnsureDir(job.DestDir); err != nil {
		return nil, &FilesystemError{Op: "create directory", Path: job.DestDir, Err: err}
	}
	if err := fileutil.CheckWritableDir(job.DestDir); err != nil {
		return nil, &FilesystemError{Op: "check access", Path: job.DestDir, Err: err}
	}

	lock, err := fileutil.LockDir(job.DestDir, LockFileName)
	if err != nil {
		if errors.Is(err, fileutil.ErrLocked) {
			return nil, fmt.Errorf("destination busy: %w", err)
		}
		return nil, &FilesystemError{Op: "lock", Path: job.DestDir, Err: err}
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}()

	logger := logging.WithContext(ctx, c.logger)
	logger.Info("conversion started",
		logging.String("archive", archive.Path),
		logging.String("destination", job.DestDir),
		logging.Int("files", len(plan)),
		logging.Bool("static", job.Static),
	)

	results = make([]*Result, 0, len(plan))
	for i, t := range plan {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := c.Convert(ctx, archive, Request{
			DestDir:  job.DestDir,
			Prefix:   job.Prefix,
			Timestep: t,
			Static:   job.Static,
		})
		if err != nil {
			if job.Static {
				return results, fmt.Errorf("convert static scene: %w", err)
			}
			return results, fmt.Errorf("convert timestep %d: %w", t, err)
		}
		results = append(results, res)
		if onProgress != nil {
			onProgress(Progress{Done: i + 1, Total: len(plan), Result: res})
		}
	}

	logger.Info("conversion finished", logging.Int("files", len(results)))
	return results, nil
}
