package fileutil

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CheckWritableDir reports an error unless path is a directory the current
// process may create files in.
func CheckWritableDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	if err := unix.Access(path, unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("%s: insufficient permissions: %w", path, err)
	}
	return nil
}
