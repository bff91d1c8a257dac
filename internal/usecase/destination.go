package usecase

import (
	"context"
	"fmt"
)

// selectDestination picks the write root among the configured candidates.
// Candidates are probed in configured order and the LAST one that exists
// as a directory wins, so later entries override earlier ones (a removable
// drive listed last takes precedence when plugged in).
func selectDestination(ctx context.Context, fs FileSystemPort, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("no destinations configured: %w", ErrNoDestination)
	}

	selected := ""
	for _, candidate := range candidates {
		info, err := fs.Stat(ctx, candidate)
		if err != nil || info == nil || !info.IsDir() {
			continue
		}
		selected = candidate
	}
	if selected == "" {
		return "", fmt.Errorf("none of %d configured destinations is a directory: %w", len(candidates), ErrNoDestination)
	}
	return selected, nil
}
