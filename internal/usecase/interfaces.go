package usecase

import (
	"context"
	"time"
)

// Dependencies represents all external dependencies needed by use cases
type Dependencies struct {
	FileSystem   FileSystemPort
	Lock         LockPort
	Process      ProcessPort
	Config       ConfigPort
	Notification NotificationPort
}

// Ports define the interfaces that use cases need (hexagonal architecture)

// FileSystemPort defines filesystem operations needed by use cases
type FileSystemPort interface {
	// Core file operations
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, perm int) error
	CreateDir(ctx context.Context, path string, perm int) error
	RemoveAll(ctx context.Context, path string) error
	Stat(ctx context.Context, path string) (FileInfo, error)
	Lstat(ctx context.Context, path string) (FileInfo, error)

	// Directory operations
	Walk(ctx context.Context, root string, walkFn WalkFunc) error
	ReadDir(ctx context.Context, path string) ([]DirEntry, error)

	// File operations
	// Copy duplicates a regular file preserving permission bits and times.
	Copy(ctx context.Context, src, dst string) error
	// Link creates a hard link at newname sharing storage with oldname.
	Link(ctx context.Context, oldname, newname string) error
	Move(ctx context.Context, src, dst string) error
	Chmod(ctx context.Context, path string, perm int) error
	Chtimes(ctx context.Context, path string, atime, mtime time.Time) error

	// Path operations
	Join(elements ...string) string
	Base(path string) string
	Dir(path string) string
	IsAbs(path string) bool
	Rel(basepath, targpath string) (string, error)
	Clean(path string) string
	VolumeName(path string) string
	PathSeparator() byte

	// Error classification
	IsNotExist(err error) bool
	IsExist(err error) bool
	IsPermission(err error) bool

	// Temp operations
	TempDir(ctx context.Context, dir, prefix string) (string, error)
}

// ConfigPort defines configuration operations needed by use cases
type ConfigPort interface {
	Load(ctx context.Context, path string) (ConfigFile, error)
	Save(ctx context.Context, path string, cfg ConfigFile) error
}

// LockPort defines locking operations needed by use cases
type LockPort interface {
	AcquireLock(ctx context.Context, path string, info LockInfo) error
	ReleaseLock(ctx context.Context, path string) error
	IsLocked(ctx context.Context, path string) (bool, LockInfo, error)
	RefreshLock(ctx context.Context, path string) error
}

// ProcessPort defines process operations needed by use cases
type ProcessPort interface {
	GetPID() int
}

// NotificationPort defines desktop notification operations needed by use cases
type NotificationPort interface {
	// Send sends a desktop notification. sound can be empty.
	Send(ctx context.Context, title, message, sound string) error
}
