package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const initBackupTimeFormat = "20060102-150405"

//nolint:gochecknoglobals // overridden in tests for deterministic backups.
var initNow = time.Now

// InitOptions describes init behavior.
type InitOptions struct {
	Source       string
	Destinations []string
	Prefix       string
	Force        bool
	DryRun       bool
	HomeDir      string
}

// Init writes the initial configuration file.
func Init(ctx context.Context, opts InitOptions, deps *Dependencies, logger *slog.Logger) error {
	if logger == nil {
		panic("logger is required")
	}
	if ctx.Err() != nil {
		return ErrInterrupted
	}
	if err := validateInitDependencies(deps); err != nil {
		return err
	}

	homeDir, err := normalizeInitInputs(opts)
	if err != nil {
		return err
	}

	paths := buildInitPaths(deps.FileSystem, homeDir)

	cfg := DefaultConfigFile()
	cfg.Backup.From = opts.Source
	cfg.Backup.To = opts.Destinations
	if strings.TrimSpace(opts.Prefix) != "" {
		cfg.Backup.Prefix = strings.TrimSpace(opts.Prefix)
	}
	if _, err := RuntimeConfigFromFile(cfg, homeDir); err != nil {
		return err
	}

	if err := ensureConfig(ctx, opts, deps, paths, cfg); err != nil {
		return err
	}
	if err := ensureInitDirs(ctx, deps, homeDir, cfg, opts.DryRun); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Init completed", "config", paths.configPath)
	return nil
}

type initPaths struct {
	configDir  string
	configPath string
}

func validateInitDependencies(deps *Dependencies) error {
	if deps == nil {
		return fmt.Errorf("dependencies are required: %w", ErrCritical)
	}
	if deps.FileSystem == nil {
		return fmt.Errorf("filesystem adapter not available: %w", ErrCritical)
	}
	if deps.Config == nil {
		return fmt.Errorf("config adapter not available: %w", ErrCritical)
	}
	return nil
}

func normalizeInitInputs(opts InitOptions) (string, error) {
	homeDir := strings.TrimSpace(opts.HomeDir)
	if homeDir == "" {
		return "", fmt.Errorf("home directory is empty: %w", ErrCritical)
	}
	if strings.TrimSpace(opts.Source) == "" {
		return "", fmt.Errorf("--from flag is required: %w", ErrUsage)
	}
	if len(opts.Destinations) == 0 {
		return "", fmt.Errorf("at least one --to flag is required: %w", ErrUsage)
	}
	return homeDir, nil
}

func buildInitPaths(fs FileSystemPort, homeDir string) initPaths {
	configDir := fs.Join(homeDir, ".config", "backupkern")
	return initPaths{
		configDir:  configDir,
		configPath: fs.Join(configDir, "config.toml"),
	}
}

func ensureConfig(ctx context.Context, opts InitOptions, deps *Dependencies, paths initPaths, cfg ConfigFile) error {
	exists, err := pathExists(ctx, deps.FileSystem, paths.configPath)
	if err != nil {
		return fmt.Errorf("check config path: %w", ErrCritical)
	}
	if !exists {
		if opts.DryRun {
			return nil
		}
		return writeConfig(ctx, deps, paths, cfg)
	}
	info, err := deps.FileSystem.Stat(ctx, paths.configPath)
	if err != nil {
		return fmt.Errorf("stat config: %w", ErrCritical)
	}
	if info.IsDir() {
		return fmt.Errorf("config path is a directory: %w", ErrUsage)
	}
	if !opts.Force {
		return fmt.Errorf("config already exists at %s: %w", paths.configPath, ErrUsage)
	}
	if opts.DryRun {
		return nil
	}
	if err := backupConfig(ctx, deps.FileSystem, paths.configPath); err != nil {
		return err
	}
	return writeConfig(ctx, deps, paths, cfg)
}

func backupConfig(ctx context.Context, fs FileSystemPort, configPath string) error {
	backupPath := configPath + ".bak." + initNow().Format(initBackupTimeFormat)
	if err := fs.Move(ctx, configPath, backupPath); err != nil {
		return fmt.Errorf("backup config: %w", ErrCritical)
	}
	return nil
}

func writeConfig(ctx context.Context, deps *Dependencies, paths initPaths, cfg ConfigFile) error {
	if err := deps.FileSystem.CreateDir(ctx, paths.configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", ErrCritical)
	}
	if err := deps.Config.Save(ctx, paths.configPath, cfg); err != nil {
		return fmt.Errorf("save config: %w", ErrCritical)
	}
	return nil
}

func ensureInitDirs(ctx context.Context, deps *Dependencies, homeDir string, cfg ConfigFile, dryRun bool) error {
	if dryRun {
		return nil
	}
	if dir := strings.TrimSpace(cfg.Logging.Dir); dir != "" {
		expanded := normalizePath(deps.FileSystem, dir, homeDir)
		if err := deps.FileSystem.CreateDir(ctx, expanded, 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", ErrCritical)
		}
	}
	return nil
}

func pathExists(ctx context.Context, fs FileSystemPort, path string) (bool, error) {
	info, err := fs.Stat(ctx, path)
	if err != nil {
		if fs.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info != nil, nil
}
