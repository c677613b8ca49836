package splat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"splatply/internal/fileutil"
	"splatply/internal/logging"
	"splatply/internal/params"
	"splatply/internal/ply"
)

// LockFileName is the advisory lock Run holds inside the destination directory.
const LockFileName = ".splatply.lock"

// Options configures a Converter.
type Options struct {
	Keys     params.Keys
	Format   ply.Format
	FileMode os.FileMode
	Logger   *slog.Logger
}

// Request identifies one output file.
type Request struct {
	DestDir  string
	Prefix   string
	Timestep int
	Static   bool
}

// Result describes a written file.
type Result struct {
	Path     string
	Timestep int
	Static   bool
	Vertices int
	Fields   []string
	Blocks   []Block
	Bytes    int64
}

// Converter writes PLY files from loaded parameter archives.
type Converter struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a Converter. Zero-valued options fall back to default keys,
// binary little-endian output, and 0644 file permissions.
func New(opts Options) *Converter {
	if opts.Keys == (params.Keys{}) {
		opts.Keys = params.DefaultKeys()
	}
	if opts.FileMode == 0 {
		opts.FileMode = 0o644
	}
	return &Converter{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "converter"),
	}
}

// OutputName returns "<prefix>_<timestep>.ply" for dynamic scenes and
// "<prefix>.ply" for static scenes.
func OutputName(prefix string, timestep int, static bool) string {
	if static {
		return prefix + ".ply"
	}
	return prefix + "_" + strconv.Itoa(timestep) + ".ply"
}

func validatePrefix(prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		return errors.New("output prefix is required")
	}
	if strings.ContainsAny(prefix, `/\`) {
		return fmt.Errorf("output prefix %q must not contain path separators", prefix)
	}
	return nil
}

// Load reads the parameter archive at path using the converter's keys.
func (c *Converter) Load(path string) (*params.Archive, error) {
	return params.Load(path, c.opts.Keys)
}

// ConvertFile opens the archive at archivePath and converts one timestep.
func (c *Converter) ConvertFile(ctx context.Context, archivePath string, req Request) (*Result, error) {
	archive, err := c.Load(archivePath)
	if err != nil {
		return nil, err
	}
	return c.Convert(ctx, archive, req)
}

// Convert writes one PLY file for req from an already loaded archive.
func (c *Converter) Convert(ctx context.Context, archive *params.Archive, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validatePrefix(req.Prefix); err != nil {
		return nil, err
	}
	if !req.Static {
		ctx = logging.WithTimestep(ctx, req.Timestep)
	}
	logger := logging.WithContext(ctx, c.logger)

	table, err := BuildTable(archive, req.Timestep, req.Static)
	if err != nil {
		return nil, err
	}
	logger.Debug("assembled vertex table",
		logging.Int("vertices", table.Vertices),
		logging.Int("fields", table.Schema.Width()),
	)

	if err := fileutil.EnsureDir(req.DestDir); err != nil {
		return nil, &FilesystemError{Op: "create directory", Path: req.DestDir, Err: err}
	}

	path := filepath.Join(req.DestDir, OutputName(req.Prefix, req.Timestep, req.Static))
	counter := &countingWriter{}
	started := time.Now()
	err = fileutil.WriteAtomic(path, c.opts.FileMode, func(w io.Writer) error {
		counter.w = w
		return ply.Encode(counter, c.opts.Format, table.Element())
	})
	if err != nil {
		return nil, &FilesystemError{Op: "write", Path: path, Err: err}
	}

	logger.Info("wrote ply",
		logging.String(logging.FieldPath, path),
		logging.Int("vertices", table.Vertices),
		logging.Int("fields", table.Schema.Width()),
		logging.Duration("elapsed", time.Since(started)),
	)

	return &Result{
		Path:     path,
		Timestep: req.Timestep,
		Static:   req.Static,
		Vertices: table.Vertices,
		Fields:   table.Schema.Fields(),
		Blocks:   table.Blocks,
		Bytes:    counter.n,
	}, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
