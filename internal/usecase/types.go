package usecase

import "time"

// Config contains all application configuration
type Config struct {
	SourceRoot    string
	Destinations  []string
	Prefix        string
	Excludes      []string
	VerifyContent bool
	Schedule      string
	Notify        bool
	NotifySound   string
	Verbose       bool
	DryRun        bool
}

// FileInfo represents file information.
type FileInfo interface {
	Name() string
	Size() int64
	Mode() int
	ModTime() time.Time
	IsDir() bool
	IsSymlink() bool
	IsRegular() bool
	Sys() interface{}
}

// WalkFunc is called for each file/directory during Walk.
type WalkFunc func(path string, info FileInfo, err error) error

// DirEntry represents a directory entry.
type DirEntry interface {
	Name() string
	IsDir() bool
}

// LockInfo represents lock file information.
type LockInfo struct {
	PID               int       `json:"pid"`
	StartTime         time.Time `json:"start_time"`
	SourceRoot        string    `json:"source_root"`
	Destination       string    `json:"destination"`
	Hostname          string    `json:"hostname"`
	ProcessStartTicks int64     `json:"process_start_ticks"`
	ProcessStartID    string    `json:"process_start_id"`
}

// FileErrorKind classifies a per-file failure during the walk.
type FileErrorKind string

const (
	// FileErrorCopy marks a failed physical copy.
	FileErrorCopy FileErrorKind = "copy"
	// FileErrorLink marks a failed hard link.
	FileErrorLink FileErrorKind = "link"
	// FileErrorTraversal marks a failed directory-walk step.
	FileErrorTraversal FileErrorKind = "traversal"
)

// FileError records one non-fatal per-file failure.
type FileError struct {
	Path string
	Kind FileErrorKind
	Err  error
}

// BackupResult contains backup execution statistics
type BackupResult struct {
	SnapshotRoot    string
	PriorGeneration string
	TotalFiles      int
	LinkedFiles     int
	CopiedFiles     int
	ExcludedFiles   int
	SkippedDirs     int
	FileErrors      []FileError
	PartialSuccess  bool
}
