package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another process holds the directory lock.
var ErrLocked = errors.New("directory is locked by another process")

// DirLock is an advisory lock file inside a directory.
type DirLock struct {
	path string
	lock *flock.Flock
}

// LockDir acquires the lock file name inside dir without blocking.
func LockDir(dir, name string) (*DirLock, error) {
	path := filepath.Join(dir, name)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}
	l := &DirLock{path: path, lock: lock}
	if err := l.verify(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return l, nil
}

// verify checks that the locked handle still refers to the file at path. A
// previous holder removes the file while releasing, so a handle opened just
// before that removal ends up locking an unlinked inode.
func (l *DirLock) verify() error {
	held, err := l.lock.Stat()
	if err != nil {
		return fmt.Errorf("stat lock %s: %w", l.path, err)
	}
	current, err := os.Stat(l.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat lock %s: %w", l.path, err)
	}
	if err != nil || !os.SameFile(held, current) {
		return fmt.Errorf("%s: lock file replaced while acquiring: %w", l.path, ErrLocked)
	}
	return nil
}

// Path returns the lock file location.
func (l *DirLock) Path() string {
	return l.path
}

// Unlock removes the lock file and then releases the lock. Removing first
// keeps a new holder from locking the path before it is unlinked.
func (l *DirLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	removeErr := os.Remove(l.path)
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	if removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		return fmt.Errorf("remove lock %s: %w", l.path, removeErr)
	}
	return nil
}
