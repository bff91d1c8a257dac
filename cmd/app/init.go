package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arumata/backupkern/internal/usecase"
)

func newInitCmd(depsFactory func(*slog.Logger) *usecase.Dependencies, exitCode *int) *cobra.Command {
	var (
		from         string
		destinations []string
		prefix       string
		force        bool
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the initial configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			logger := setupLogger(false)
			deps := depsFactory(logger)
			homeDir, err := os.UserHomeDir()
			if err != nil {
				handleCmdError(exitCode, fmt.Errorf("resolve home dir: %w", usecase.ErrCritical))
				return
			}
			opts := usecase.InitOptions{
				Source:       from,
				Destinations: destinations,
				Prefix:       prefix,
				Force:        force,
				DryRun:       dryRun,
				HomeDir:      homeDir,
			}
			handleCmdError(exitCode, usecase.Init(cmd.Context(), opts, deps, logger))
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "directory tree to back up (required)")
	cmd.Flags().StringArrayVar(
		&destinations, "to", nil,
		"destination candidate, repeatable; the last existing one receives snapshots",
	)
	cmd.Flags().StringVar(&prefix, "prefix", "", "snapshot name prefix (default: backup)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config (keeps a backup copy)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan changes without writing to disk")

	_ = cmd.RegisterFlagCompletionFunc("from",
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveFilterDirs
		},
	)
	_ = cmd.RegisterFlagCompletionFunc("to",
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveFilterDirs
		},
	)

	return cmd
}
