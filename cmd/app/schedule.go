package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arumata/backupkern/internal/scheduler"
	"github.com/arumata/backupkern/internal/usecase"
)

func newScheduleCmd(
	flags *rootFlags,
	depsFactory func(*slog.Logger) *usecase.Dependencies,
	run runFn,
	exitCode *int,
) *cobra.Command {
	var cronOverride string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run backups on the configured cron schedule",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			logger := setupLogger(flags.verbose)
			state, err := initRootState(cmd.Context(), flags, depsFactory, logger)
			if err != nil {
				handleCmdError(exitCode, err)
				return
			}

			fileLogger, cleanup := withFileLogging(logger, state.configFile.Logging, flags.verbose)
			defer cleanup()
			logger = fileLogger

			cfg := state.backupCfg
			cfg.Verbose = flags.verbose
			cfg.DryRun = flags.dryRun

			spec := cfg.Schedule
			if cronOverride != "" {
				spec = cronOverride
			}
			if spec == "" {
				handleCmdError(exitCode,
					fmt.Errorf("schedule.cron not configured and --cron not given: %w", usecase.ErrUsage))
				return
			}

			sched, err := scheduler.New(spec, func(ctx context.Context) error {
				return run(cfg, state.deps, logger)
			}, logger)
			if err != nil {
				handleCmdError(exitCode, fmt.Errorf("%v: %w", err, usecase.ErrUsage))
				return
			}

			if err := sched.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				handleCmdError(exitCode, err)
				return
			}
			*exitCode = exitSuccess
		},
	}

	cmd.Flags().StringVar(&cronOverride, "cron", "", "cron expression overriding schedule.cron")

	return cmd
}
