package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arumata/backupkern/internal/usecase"
)

func newStatusCmd(
	flags *rootFlags,
	depsFactory func(*slog.Logger) *usecase.Dependencies,
	exitCode *int,
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configured destinations and their snapshots",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			logger := setupLogger(false)
			state, err := initRootState(cmd.Context(), flags, depsFactory, logger)
			if err != nil {
				handleCmdError(exitCode, err)
				return
			}
			report, err := usecase.Status(cmd.Context(), state.backupCfg, state.deps, logger)
			if err != nil {
				handleCmdError(exitCode, err)
				return
			}
			if _, err := fmt.Fprint(os.Stdout, usecase.FormatStatus(report, shouldUseColor(os.Stdout))); err != nil {
				handleCmdError(exitCode, err)
				return
			}
			*exitCode = exitSuccess
		},
	}

	return cmd
}
