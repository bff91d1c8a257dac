package usecase

import (
	"context"
	"fmt"
)

// materializeRequest describes one file placement into the new snapshot.
type materializeRequest struct {
	source          string
	destination     string
	suffix          string
	priorGeneration string // empty when the destination has no history
	verifyContent   bool
	dryRun          bool
}

// materializeFile produces the destination file, either as a hard link to
// the unchanged prior-generation copy or as a fresh physical copy. The
// destination's parent directories are created first. Returns whether the
// file was (or would be) linked; any error concerns this file only.
func materializeFile(ctx context.Context, fs FileSystemPort, req materializeRequest) (bool, error) {
	link := false
	candidate := ""
	if req.priorGeneration != "" {
		candidate = fs.Join(req.priorGeneration, req.suffix)
		if filesEqual(ctx, fs, candidate, req.source) {
			link = !req.verifyContent || contentsEqual(ctx, fs, candidate, req.source)
		}
	}

	if req.dryRun {
		return link, nil
	}

	if err := fs.CreateDir(ctx, fs.Dir(req.destination), 0o755); err != nil {
		return false, fmt.Errorf("create parent dir for %q: %w", req.suffix, err)
	}

	if link {
		if err := fs.Link(ctx, candidate, req.destination); err != nil {
			return true, fmt.Errorf("hard link %q: %w", req.suffix, err)
		}
		return true, nil
	}

	if err := fs.Copy(ctx, req.source, req.destination); err != nil {
		return false, fmt.Errorf("copy %q: %w", req.suffix, err)
	}
	return false, nil
}
