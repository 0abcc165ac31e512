package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a blocked lock attempt is retried
const lockRetryDelay = 10 * time.Millisecond

// LockedFile is a JSON state file shared between processes. Access goes
// through an advisory lock on <path>.lock, so every process sees the other
// processes' writes before it modifies the file.
//
// A Flock is not reentrant across goroutines, so callers serialize their own
// access with a mutex.
type LockedFile struct {
	path string
	lock *flock.Flock
}

// NewLockedFile creates the parent directory of path and returns the handle
func NewLockedFile(path string) (*LockedFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &LockedFile{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the state file path
func (f *LockedFile) Path() string {
	return f.path
}

// View runs fn while holding the shared lock
func (f *LockedFile) View(ctx context.Context, fn func() error) error {
	if _, err := f.lock.TryRLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("failed to lock %s: %w", f.path, err)
	}
	defer func() { _ = f.lock.Unlock() }()
	return fn()
}

// Update runs fn while holding the exclusive lock
func (f *LockedFile) Update(ctx context.Context, fn func() error) error {
	if _, err := f.lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("failed to lock %s: %w", f.path, err)
	}
	defer func() { _ = f.lock.Unlock() }()
	return fn()
}

// Read decodes the file into v. A missing file leaves v untouched and
// reports false.
func (f *LockedFile) Read(v any) (bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", f.path, err)
	}
	return true, nil
}

// Write replaces the file atomically with v encoded as indented JSON
func (f *LockedFile) Write(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(f.path), err)
	}

	// Write to temp file first
	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return os.Rename(tmpPath, f.path)
}
