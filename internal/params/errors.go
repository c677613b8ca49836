package params

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingKey reports that a required array is absent from the archive.
	ErrMissingKey = errors.New("missing archive key")
	// ErrUnsupportedDType reports an entry whose element type cannot be converted to float32.
	ErrUnsupportedDType = errors.New("unsupported dtype")
)

// MissingKeyError names the required key that the archive does not contain.
type MissingKeyError struct {
	Archive string
	Key     string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("archive %s: missing required key %q", e.Archive, e.Key)
}

func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingKey
}

// UnsupportedDTypeError names an entry whose element type is not numeric.
type UnsupportedDTypeError struct {
	Key    string
	DType  string
	Reason string
}

func (e *UnsupportedDTypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("entry %q: unsupported dtype %s: %s", e.Key, e.DType, e.Reason)
	}
	return fmt.Sprintf("entry %q: unsupported dtype %s", e.Key, e.DType)
}

func (e *UnsupportedDTypeError) Is(target error) bool {
	return target == ErrUnsupportedDType
}
