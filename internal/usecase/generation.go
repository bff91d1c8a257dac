package usecase

import (
	"context"
	"time"
)

// snapshotTimeFormat yields fixed-width timestamps, so directory-name sort
// order equals chronological order.
const snapshotTimeFormat = "2006-01-02_15-04-05"

// snapshotName builds the directory name for a run starting at now.
func snapshotName(prefix string, now time.Time) string {
	return prefix + "_" + now.Format(snapshotTimeFormat)
}

// latestGeneration returns the most recent snapshot directory under root,
// or "" when there is none. An unlistable root means "no prior generation",
// never an error: a destination that was just created simply has no history.
// Entries are compared by name only; with the fixed-width naming the
// lexicographic maximum is the chronologically latest.
func latestGeneration(ctx context.Context, fs FileSystemPort, root string) string {
	entries, err := fs.ReadDir(ctx, root)
	if err != nil {
		return ""
	}

	latest := ""
	for _, entry := range entries {
		name := entry.Name()
		if name > latest {
			latest = name
		}
	}
	if latest == "" {
		return ""
	}
	return fs.Join(root, latest)
}
