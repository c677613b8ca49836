package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.ply")

	err := WriteAtomic(dst, 0o640, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello world")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world" {
		t.Fatalf("content mismatch: got %q", got)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o004 != 0 {
		t.Fatalf("expected world bits cleared, got %o", info.Mode().Perm())
	}
	assertOnlyFiles(t, dir, "out.ply")
}

func TestWriteAtomic_FailureKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.ply")
	if err := os.WriteFile(dst, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := WriteAtomic(dst, 0o644, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "previous" {
		t.Fatalf("existing file modified: %q", got)
	}
	assertOnlyFiles(t, dir, "out.ply")
}

func TestWriteAtomic_MissingDir(t *testing.T) {
	dir := t.TempDir()
	err := WriteAtomic(filepath.Join(dir, "nope", "out.ply"), 0o644, func(io.Writer) error { return nil })
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	for i := 0; i < 2; i++ {
		if err := EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir pass %d: %v", i, err)
		}
	}
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDir(file); err == nil {
		t.Fatal("expected error when path is a file")
	}
}

func TestLockDir(t *testing.T) {
	dir := t.TempDir()
	first, err := LockDir(dir, ".test.lock")
	if err != nil {
		t.Fatalf("LockDir: %v", err)
	}

	if _, err := LockDir(dir, ".test.lock"); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if _, err := os.Stat(first.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected lock file removed, stat err=%v", err)
	}

	second, err := LockDir(dir, ".test.lock")
	if err != nil {
		t.Fatalf("LockDir after unlock: %v", err)
	}
	if err := second.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
}

func TestDirLockUnlockRemovesFileWhileHeld(t *testing.T) {
	dir := t.TempDir()
	lock, err := LockDir(dir, ".test.lock")
	if err != nil {
		t.Fatalf("LockDir: %v", err)
	}
	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if lock.lock.Locked() {
		t.Fatal("expected lock released")
	}
	if _, err := os.Stat(lock.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected lock file removed, stat err=%v", err)
	}
	// A second Unlock finds no file and no held lock.
	if err := lock.Unlock(); err != nil {
		t.Fatalf("second Unlock: %v", err)
	}
}

func TestDirLockVerifyDetectsReplacedFile(t *testing.T) {
	dir := t.TempDir()
	lock, err := LockDir(dir, ".test.lock")
	if err != nil {
		t.Fatalf("LockDir: %v", err)
	}
	t.Cleanup(func() { _ = lock.lock.Unlock() })

	if err := lock.verify(); err != nil {
		t.Fatalf("verify on fresh lock: %v", err)
	}

	if err := os.Remove(lock.Path()); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := lock.verify(); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked after removal, got %v", err)
	}

	if err := os.WriteFile(lock.Path(), nil, 0o644); err != nil {
		t.Fatalf("recreate: %v", err)
	}
	if err := lock.verify(); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked after replacement, got %v", err)
	}
}

func assertOnlyFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(names) {
		t.Fatalf("expected %d entries in %s, got %d", len(names), dir, len(entries))
	}
	for i, e := range entries {
		if e.Name() != names[i] {
			t.Fatalf("unexpected entry %q", e.Name())
		}
	}
}

func TestCheckWritableDir(t *testing.T) {
	dir := t.TempDir()
	if err := CheckWritableDir(dir); err != nil {
		t.Fatalf("expected temp dir to be writable: %v", err)
	}

	file := filepath.Join(dir, "plain")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CheckWritableDir(file); err == nil {
		t.Fatal("expected error for regular file")
	}
	if err := CheckWritableDir(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}

	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	readOnly := filepath.Join(dir, "ro")
	if err := os.Mkdir(readOnly, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(readOnly, 0o755) })
	if err := CheckWritableDir(readOnly); err == nil {
		t.Fatal("expected error for read-only directory")
	}
}
