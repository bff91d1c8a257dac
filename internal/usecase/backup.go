package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

//nolint:gochecknoglobals // configurable in tests to speed up lock refresh.
var lockRefreshInterval = time.Hour

//nolint:gochecknoglobals // overridden in tests for deterministic snapshot names.
var backupNow = time.Now

type backupContext struct {
	logger  *slog.Logger
	verbose bool
}

func newBackupContext(logger *slog.Logger, verbose bool) *backupContext {
	if logger == nil {
		panic("logger is required")
	}
	return &backupContext{logger: logger, verbose: verbose}
}

func (bc *backupContext) logf(format string, a ...any) {
	bc.logger.Info(fmt.Sprintf(format, a...))
}

func (bc *backupContext) vlogf(format string, a ...any) {
	if !bc.verbose {
		return
	}
	bc.logf(format, a...)
}

func (bc *backupContext) warnf(format string, a ...any) {
	bc.logger.Warn(fmt.Sprintf(format, a...))
}

// backupPlan is the outcome of the resolve phase.
type backupPlan struct {
	destinationRoot string
	snapshotName    string
	snapshotRoot    string
	priorGeneration string
}

// Backup handles the main backup functionality.
func Backup(ctx context.Context, cfg *Config, deps *Dependencies, logger *slog.Logger) (*BackupResult, error) {
	if logger == nil {
		panic("logger is required")
	}

	logger.InfoContext(
		ctx,
		"Starting backup operation",
		"source",
		cfg.SourceRoot,
		"dry_run",
		cfg.DryRun,
	)
	bc := newBackupContext(logger, cfg.Verbose)

	if err := validateBackupDependencies(ctx, cfg, deps, logger); err != nil {
		return nil, err
	}
	if err := ValidateRuntimeConfig(cfg); err != nil {
		return nil, err
	}

	printConfig(cfg, bc)

	plan, err := resolveBackupPlan(ctx, cfg, deps, backupNow())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to resolve backup destination", "error", err)
		return nil, err
	}

	if plan.priorGeneration == "" {
		bc.logf("No prior generation under %s, full copy", plan.destinationRoot)
	} else {
		bc.logf("Prior generation: %s", plan.priorGeneration)
	}
	bc.logf("New snapshot: %s", plan.snapshotRoot)

	if cfg.DryRun {
		result, err := runWalk(ctx, cfg, deps, plan, bc)
		if err != nil {
			return nil, err
		}
		bc.logf("Dry run: no files were written")
		printBackupSummary(result, bc)
		return result, nil
	}

	lockPath, releaseLock, err := acquireBackupLock(ctx, deps, plan.destinationRoot, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer releaseLock()

	stopRefresh := startLockRefresh(ctx, deps, lockPath, logger)
	defer stopRefresh()

	result, err := runWalk(ctx, cfg, deps, plan, bc)
	if err != nil {
		return nil, err
	}

	bc.logf("Backup finished: %s", plan.snapshotRoot)
	printBackupSummary(result, bc)
	notifyBackupDone(ctx, cfg, deps, result, logger)

	if result.PartialSuccess {
		return result, fmt.Errorf("backup completed with %d file error(s): %w", len(result.FileErrors), ErrCritical)
	}
	return result, nil
}

func validateBackupDependencies(
	ctx context.Context,
	cfg *Config,
	deps *Dependencies,
	logger *slog.Logger,
) error {
	if deps == nil || deps.FileSystem == nil {
		logger.ErrorContext(ctx, "FileSystem adapter not available")
		return fmt.Errorf("filesystem adapter not available: %w", ErrCritical)
	}
	if cfg.DryRun {
		return nil
	}
	if deps.Lock == nil {
		logger.ErrorContext(ctx, "Lock adapter not available")
		return fmt.Errorf("lock adapter not available: %w", ErrCritical)
	}
	if deps.Process == nil {
		logger.ErrorContext(ctx, "Process adapter not available")
		return fmt.Errorf("process adapter not available: %w", ErrCritical)
	}
	return nil
}

// resolveBackupPlan selects the write root, names the snapshot and finds
// the prior generation. The prior-generation lookup targets the RESOLVED
// write root, so link candidates always live on the filesystem this run
// writes to.
func resolveBackupPlan(ctx context.Context, cfg *Config, deps *Dependencies, now time.Time) (backupPlan, error) {
	destRoot, err := selectDestination(ctx, deps.FileSystem, cfg.Destinations)
	if err != nil {
		return backupPlan{}, err
	}

	name := snapshotName(cfg.Prefix, now)
	return backupPlan{
		destinationRoot: destRoot,
		snapshotName:    name,
		snapshotRoot:    deps.FileSystem.Join(destRoot, name),
		priorGeneration: latestGeneration(ctx, deps.FileSystem, destRoot),
	}, nil
}

// runWalk traverses the source tree once and materializes every eligible
// file. A failed file or unreadable entry is recorded and skipped; the walk
// never stops for it. A path escaping the source root aborts the run, since
// that means the traversal itself is inconsistent.
func runWalk(
	ctx context.Context,
	cfg *Config,
	deps *Dependencies,
	plan backupPlan,
	bc *backupContext,
) (*BackupResult, error) {
	result := &BackupResult{
		SnapshotRoot:    plan.snapshotRoot,
		PriorGeneration: plan.priorGeneration,
	}
	filter := NewExclusionFilter(deps.FileSystem, cfg.Excludes)
	sourceRoot := trimTrailingSeparators(deps.FileSystem, deps.FileSystem.Clean(cfg.SourceRoot))

	walkErr := deps.FileSystem.Walk(ctx, sourceRoot, func(path string, info FileInfo, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if path == sourceRoot {
				return fmt.Errorf("source root unreadable: %w", err)
			}
			bc.warnf("skip '%s': %v", path, err)
			recordFileError(result, path, FileErrorTraversal, err)
			return nil
		}
		if info == nil || path == sourceRoot {
			return nil
		}
		if info.IsDir() {
			result.SkippedDirs++
			return nil
		}
		if filter.IsExcluded(path) {
			result.ExcludedFiles++
			bc.vlogf("   EXCLUDED: %s", path)
			return nil
		}

		suffix, err := stripSourcePrefix(deps.FileSystem, sourceRoot, path)
		if err != nil {
			return err
		}

		result.TotalFiles++
		linked, mErr := materializeFile(ctx, deps.FileSystem, materializeRequest{
			source:          path,
			destination:     deps.FileSystem.Join(plan.snapshotRoot, suffix),
			suffix:          suffix,
			priorGeneration: plan.priorGeneration,
			verifyContent:   cfg.VerifyContent,
			dryRun:          cfg.DryRun,
		})
		if mErr != nil {
			kind := FileErrorCopy
			if linked {
				kind = FileErrorLink
			}
			bc.warnf("%v", mErr)
			recordFileError(result, path, kind, mErr)
			return nil
		}
		logMaterialized(bc, cfg.DryRun, linked, suffix)
		if linked {
			result.LinkedFiles++
		} else {
			result.CopiedFiles++
		}
		return nil
	})

	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, ErrInterrupted
		}
		if errors.Is(walkErr, ErrPathOutsideSource) {
			return nil, walkErr
		}
		return nil, fmt.Errorf("walk source tree: %v: %w", walkErr, ErrCritical)
	}
	return result, nil
}

func logMaterialized(bc *backupContext, dryRun, linked bool, suffix string) {
	switch {
	case dryRun && linked:
		bc.vlogf("   would link: %s", suffix)
	case dryRun:
		bc.vlogf("   would copy: %s", suffix)
	case linked:
		bc.vlogf("   LINKED: %s", suffix)
	default:
		bc.vlogf("   COPIED: %s", suffix)
	}
}

// stripSourcePrefix computes the suffix path relative to the source root.
func stripSourcePrefix(fs FileSystemPort, root, path string) (string, error) {
	rel, err := fs.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("strip %q from %q: %v: %w", root, path, err, ErrPathOutsideSource)
	}
	sep := string(fs.PathSeparator())
	if rel == ".." || strings.HasPrefix(rel, ".."+sep) {
		return "", fmt.Errorf("%q is not under source root %q: %w", path, root, ErrPathOutsideSource)
	}
	return rel, nil
}

func recordFileError(result *BackupResult, path string, kind FileErrorKind, err error) {
	result.FileErrors = append(result.FileErrors, FileError{Path: path, Kind: kind, Err: err})
	result.PartialSuccess = true
}

func acquireBackupLock(
	ctx context.Context,
	deps *Dependencies,
	destRoot string,
	cfg *Config,
	logger *slog.Logger,
) (string, func(), error) {
	lockPath := deps.FileSystem.Join(destRoot, ".backupkern.lock")
	lockInfo := LockInfo{
		PID:         deps.Process.GetPID(),
		StartTime:   time.Now(),
		SourceRoot:  cfg.SourceRoot,
		Destination: destRoot,
	}

	if err := deps.Lock.AcquireLock(ctx, lockPath, lockInfo); err != nil {
		logger.WarnContext(ctx, "Failed to acquire lock", "error", err)
		if strings.Contains(err.Error(), "lock is held") {
			return "", nil, ErrLockBusy
		}
		return "", nil, fmt.Errorf("failed to acquire lock: %w", ErrCritical)
	}

	release := func() {
		_ = deps.Lock.ReleaseLock(ctx, lockPath)
	}
	return lockPath, release, nil
}

func startLockRefresh(
	ctx context.Context,
	deps *Dependencies,
	lockPath string,
	logger *slog.Logger,
) func() {
	refreshCtx, stopRefresh := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(lockRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-ticker.C:
				if err := deps.Lock.RefreshLock(refreshCtx, lockPath); err != nil {
					logger.WarnContext(refreshCtx, "Failed to refresh lock", "error", err)
				}
			}
		}
	}()
	return stopRefresh
}

func printConfig(cfg *Config, bc *backupContext) {
	bc.vlogf("→ Configuration:")
	bc.vlogf("   Source root: %s", cfg.SourceRoot)
	for i, to := range cfg.Destinations {
		bc.vlogf("   Destination %d: %s", i+1, to)
	}
	bc.vlogf("   Prefix: %s", cfg.Prefix)
	for _, ex := range cfg.Excludes {
		bc.vlogf("   Exclude: %s", ex)
	}
	bc.vlogf("   Verify content: %t", cfg.VerifyContent)
	bc.vlogf("")
}

func printBackupSummary(result *BackupResult, bc *backupContext) {
	bc.logf("%d file(s): %d linked, %d copied, %d excluded",
		result.TotalFiles, result.LinkedFiles, result.CopiedFiles, result.ExcludedFiles)

	if len(result.FileErrors) == 0 {
		return
	}

	bc.warnf("WARNING: %d file(s) missing from the snapshot due to errors", len(result.FileErrors))
	shown := len(result.FileErrors)
	if shown > 5 {
		shown = 5
	}
	for _, fe := range result.FileErrors[:shown] {
		bc.warnf("  - [%s] %s: %v", fe.Kind, fe.Path, fe.Err)
	}
	if rest := len(result.FileErrors) - shown; rest > 0 {
		bc.warnf("  ... and %d more error(s)", rest)
	}
	bc.warnf("The remaining files were backed up; re-run to retry the failed ones.")
}

func notifyBackupDone(
	ctx context.Context,
	cfg *Config,
	deps *Dependencies,
	result *BackupResult,
	logger *slog.Logger,
) {
	if !cfg.Notify || deps.Notification == nil {
		return
	}
	message := fmt.Sprintf("%d linked, %d copied", result.LinkedFiles, result.CopiedFiles)
	if len(result.FileErrors) > 0 {
		message = fmt.Sprintf("%s, %d failed", message, len(result.FileErrors))
	}
	if err := deps.Notification.Send(ctx, "backupkern", message, cfg.NotifySound); err != nil {
		logger.WarnContext(ctx, "Failed to send notification", "error", err)
	}
}
