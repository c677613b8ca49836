package splat

import (
	"errors"
	"fmt"

	"splatply/internal/params"
)

var (
	// ErrShapeMismatch reports parameter arrays whose shapes do not describe
	// the same splats, or a timestep outside the scene's time axis.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrFilesystem reports a destination that cannot be created or written.
	ErrFilesystem = errors.New("filesystem error")
)

// ShapeMismatchError names the offending array, its shape, and what was expected.
type ShapeMismatchError struct {
	Array    string
	Shape    []int
	Expected string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %s has shape %s, expected %s", e.Array, params.FormatShape(e.Shape), e.Expected)
}

func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

func mismatch(arr params.Array, format string, args ...any) error {
	return &ShapeMismatchError{
		Array:    arr.Name,
		Shape:    append([]int(nil), arr.Shape...),
		Expected: fmt.Sprintf(format, args...),
	}
}

// FilesystemError wraps an os-level failure on the output path.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

func (e *FilesystemError) Is(target error) bool {
	return target == ErrFilesystem
}
