// Package noop provides placeholder implementations for all adapter interfaces
package noop

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/arumata/backupkern/internal/usecase"
)

// Adapter implements all adapter interfaces with no-op implementations.
// It stands in for a real adapter when a command does not need one.
type Adapter struct {
	logger *slog.Logger
}

var errNotImplemented = errors.New("operation not implemented in no-op adapter")

// ReadFile returns error for filesystem operations
func (a Adapter) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return nil, errNotImplemented
}

// WriteFile returns error for filesystem operations
func (a Adapter) WriteFile(ctx context.Context, path string, data []byte, perm int) error {
	return errNotImplemented
}

// CreateDir returns error for filesystem operations
func (a Adapter) CreateDir(ctx context.Context, path string, perm int) error {
	return errNotImplemented
}

// RemoveAll returns error for filesystem operations
func (a Adapter) RemoveAll(ctx context.Context, path string) error {
	return errNotImplemented
}

// Stat returns error for filesystem operations
func (a Adapter) Stat(ctx context.Context, path string) (usecase.FileInfo, error) {
	return nil, errNotImplemented
}

// Lstat returns error for filesystem operations
func (a Adapter) Lstat(ctx context.Context, path string) (usecase.FileInfo, error) {
	return nil, errNotImplemented
}

// Walk returns error for filesystem operations
func (a Adapter) Walk(ctx context.Context, root string, walkFn usecase.WalkFunc) error {
	return errNotImplemented
}

// ReadDir returns error for filesystem operations
func (a Adapter) ReadDir(ctx context.Context, path string) ([]usecase.DirEntry, error) {
	return nil, errNotImplemented
}

// Copy returns error for filesystem operations
func (a Adapter) Copy(ctx context.Context, src, dst string) error {
	return errNotImplemented
}

// Link returns error for filesystem operations
func (a Adapter) Link(ctx context.Context, oldname, newname string) error {
	return errNotImplemented
}

// Move returns error for filesystem operations
func (a Adapter) Move(ctx context.Context, src, dst string) error {
	return errNotImplemented
}

// Chmod returns error for filesystem operations
func (a Adapter) Chmod(ctx context.Context, path string, perm int) error {
	return errNotImplemented
}

// Chtimes returns error for filesystem operations
func (a Adapter) Chtimes(ctx context.Context, path string, atime, mtime time.Time) error {
	return errNotImplemented
}

// Join returns empty string for filesystem operations
func (a Adapter) Join(elements ...string) string {
	return ""
}

// Base returns empty string for filesystem operations
func (a Adapter) Base(path string) string {
	return ""
}

// Dir returns empty string for filesystem operations
func (a Adapter) Dir(path string) string {
	return ""
}

// IsAbs returns false for filesystem operations
func (a Adapter) IsAbs(path string) bool {
	return false
}

// Rel returns error for filesystem operations
func (a Adapter) Rel(basepath, targpath string) (string, error) {
	return "", errNotImplemented
}

// Clean returns empty string for filesystem operations
func (a Adapter) Clean(path string) string {
	return ""
}

// VolumeName returns empty string for filesystem operations
func (a Adapter) VolumeName(path string) string {
	return ""
}

// PathSeparator returns '/' for filesystem operations
func (a Adapter) PathSeparator() byte {
	return '/'
}

// IsNotExist returns false for filesystem operations
func (a Adapter) IsNotExist(err error) bool {
	return false
}

// IsExist returns false for filesystem operations
func (a Adapter) IsExist(err error) bool {
	return false
}

// IsPermission returns false for filesystem operations
func (a Adapter) IsPermission(err error) bool {
	return false
}

// TempDir returns error for filesystem operations
func (a Adapter) TempDir(ctx context.Context, dir, prefix string) (string, error) {
	return "", errNotImplemented
}

// Load returns error for config operations
func (a Adapter) Load(ctx context.Context, path string) (usecase.ConfigFile, error) {
	return usecase.ConfigFile{}, errNotImplemented
}

// Save returns error for config operations
func (a Adapter) Save(ctx context.Context, path string, cfg usecase.ConfigFile) error {
	return errNotImplemented
}

// AcquireLock returns error for lock operations
func (a Adapter) AcquireLock(ctx context.Context, path string, info usecase.LockInfo) error {
	return errNotImplemented
}

// ReleaseLock returns error for lock operations
func (a Adapter) ReleaseLock(ctx context.Context, path string) error {
	return errNotImplemented
}

// IsLocked returns error for lock operations
func (a Adapter) IsLocked(ctx context.Context, path string) (bool, usecase.LockInfo, error) {
	return false, usecase.LockInfo{}, errNotImplemented
}

// RefreshLock returns error for lock operations
func (a Adapter) RefreshLock(ctx context.Context, path string) error {
	return errNotImplemented
}

// GetPID returns zero for process operations
func (a Adapter) GetPID() int {
	return 0
}

// New creates a new no-op adapter.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		panic("noop adapter requires logger")
	}
	return &Adapter{logger: logger}
}
