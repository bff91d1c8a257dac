package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/spf13/cobra"

	"github.com/arumata/backupkern/internal/adapters/loghandler"
	"github.com/arumata/backupkern/internal/app"
	"github.com/arumata/backupkern/internal/usecase"
)

func main() {
	os.Exit(runMain())
}

func runMain() int {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGHUP,
	)
	defer stop()

	flags := &rootFlags{}

	cmd, exitCode := newRootCmd(
		flags,
		app.NewDefaultDependencies,
		func(cfg *usecase.Config, deps *usecase.Dependencies, logger *slog.Logger) error {
			_, err := usecase.Backup(ctx, cfg, deps, logger)
			return err
		},
	)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	return *exitCode
}

// rootFlags holds command-line state shared by the root command and
// subcommands.
type rootFlags struct {
	configPath string
	verbose    bool
	dryRun     bool
}

type runFn func(*usecase.Config, *usecase.Dependencies, *slog.Logger) error

func newRootCmd(
	flags *rootFlags,
	depsFactory func(*slog.Logger) *usecase.Dependencies,
	run runFn,
) (*cobra.Command, *int) {
	exitCode := 0
	cmd := &cobra.Command{
		Use:           "backupkern",
		Short:         "Generational snapshot backups with hard links",
		SilenceUsage:  false,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			exitCode = runRootCommand(cmd, flags, depsFactory, run)
		},
	}
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file path")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "plan the backup without writing anything")

	cmd.AddCommand(newInitCmd(depsFactory, &exitCode))
	cmd.AddCommand(newStatusCmd(flags, depsFactory, &exitCode))
	cmd.AddCommand(newScheduleCmd(flags, depsFactory, run, &exitCode))
	cmd.AddCommand(newVersionCmd())

	return cmd, &exitCode
}

func runRootCommand(
	cmd *cobra.Command,
	flags *rootFlags,
	depsFactory func(*slog.Logger) *usecase.Dependencies,
	run runFn,
) int {
	logger := setupLogger(flags.verbose)

	state, err := initRootState(cmd.Context(), flags, depsFactory, logger)
	if err != nil {
		return mapExitCodeWithLog(err)
	}

	fileLogger, cleanup := withFileLogging(logger, state.configFile.Logging, flags.verbose)
	defer cleanup()
	logger = fileLogger
	logger.Info("Starting backupkern")

	cfg := state.backupCfg
	cfg.Verbose = flags.verbose
	cfg.DryRun = flags.dryRun

	if cfg.SourceRoot == "" {
		fmt.Fprintln(os.Stderr, "backup.from not configured (run: backupkern init --from <path> --to <path>)")
		return exitUsageError
	}
	return mapExitCodeWithLog(run(cfg, state.deps, logger))
}

type rootState struct {
	deps       *usecase.Dependencies
	configFile usecase.ConfigFile
	backupCfg  *usecase.Config
}

func initRootState(
	ctx context.Context,
	flags *rootFlags,
	depsFactory func(*slog.Logger) *usecase.Dependencies,
	logger *slog.Logger,
) (rootState, error) {
	deps := depsFactory(logger)
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return rootState{}, fmt.Errorf("resolve home dir: %v: %w", err, usecase.ErrCritical)
	}
	configFile, err := loadConfigFile(ctx, deps, homeDir, flags.configPath)
	if err != nil {
		return rootState{}, err
	}
	backupCfg, err := usecase.RuntimeConfigFromFile(configFile, homeDir)
	if err != nil {
		return rootState{}, err
	}
	return rootState{
		deps:       deps,
		configFile: configFile,
		backupCfg:  backupCfg,
	}, nil
}

func mapExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	switch {
	case errors.Is(err, usecase.ErrUsage):
		return exitUsageError
	case errors.Is(err, usecase.ErrNoDestination):
		return exitNoDestination
	case errors.Is(err, usecase.ErrLockBusy):
		return exitLockBusy
	case errors.Is(err, usecase.ErrInterrupted):
		return exitInterrupted
	default:
		return exitCriticalError
	}
}

// loadConfigFile resolves the config location. An explicit --config path
// wins; otherwise ~/.config/backupkern/config.toml is used, falling back
// to the legacy ~/.backupkern.yaml when only that exists.
func loadConfigFile(
	ctx context.Context,
	deps *usecase.Dependencies,
	homeDir string,
	explicitPath string,
) (usecase.ConfigFile, error) {
	if deps == nil || deps.Config == nil || deps.FileSystem == nil {
		return usecase.ConfigFile{}, fmt.Errorf("dependencies not available: %w", usecase.ErrCritical)
	}

	if explicitPath != "" {
		path := usecase.ExpandHomeDirPublic(explicitPath, homeDir)
		if err := rejectDirConfig(ctx, deps, path); err != nil {
			return usecase.ConfigFile{}, err
		}
		cfg, err := deps.Config.Load(ctx, path)
		if err != nil {
			return usecase.ConfigFile{}, fmt.Errorf("load config: %w", usecase.ErrCritical)
		}
		return cfg, nil
	}

	configPath := filepath.Join(homeDir, ".config", "backupkern", "config.toml")
	if err := rejectDirConfig(ctx, deps, configPath); err != nil {
		return usecase.ConfigFile{}, err
	}
	if _, statErr := deps.FileSystem.Stat(ctx, configPath); statErr != nil {
		legacyPath := filepath.Join(homeDir, ".backupkern.yaml")
		if _, legacyErr := deps.FileSystem.Stat(ctx, legacyPath); legacyErr == nil {
			configPath = legacyPath
		}
	}

	cfg, err := deps.Config.Load(ctx, configPath)
	if err != nil {
		return usecase.ConfigFile{}, fmt.Errorf("load config: %w", usecase.ErrCritical)
	}
	return cfg, nil
}

func rejectDirConfig(ctx context.Context, deps *usecase.Dependencies, path string) error {
	info, err := deps.FileSystem.Stat(ctx, path)
	if err == nil && info != nil && info.IsDir() {
		return fmt.Errorf("config path is a directory: %w", usecase.ErrUsage)
	}
	return nil
}

func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := loghandler.NewHandler(os.Stderr, &loghandler.Options{
		Level:    level,
		UseColor: shouldUseColor(os.Stderr),
	})
	return slog.New(handler)
}

func withFileLogging(
	logger *slog.Logger,
	logCfg usecase.LoggingConfig,
	verbose bool,
) (*slog.Logger, func()) {
	dir := strings.TrimSpace(logCfg.Dir)
	if dir == "" {
		return logger, func() {}
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("Cannot resolve home dir for log file", "error", err)
		return logger, func() {}
	}
	expanded := usecase.ExpandHomeDirPublic(dir, homeDir)
	if err := os.MkdirAll(expanded, 0o750); err != nil {
		logger.Warn("Cannot create log directory", "path", expanded, "error", err)
		return logger, func() {}
	}
	filename := "backupkern-" + time.Now().Format("2006-01-02") + ".log"
	logPath := filepath.Join(expanded, filename)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // path from config
	if err != nil {
		logger.Warn("Cannot open log file", "path", logPath, "error", err)
		return logger, func() {}
	}

	fileLevel := parseLogLevel(logCfg.Level)
	if verbose && fileLevel > slog.LevelDebug {
		fileLevel = slog.LevelDebug
	}
	fileHandler := loghandler.NewHandler(f, &loghandler.Options{
		Level:    fileLevel,
		UseColor: false,
	})

	stderrHandler := logger.Handler()
	combined := loghandler.NewMultiHandler(stderrHandler, fileHandler)
	return slog.New(combined), func() { _ = f.Close() }
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func shouldUseColor(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
