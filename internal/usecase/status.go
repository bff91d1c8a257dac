package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// DestinationStatus describes one configured destination candidate.
type DestinationStatus struct {
	Path        string
	Usable      bool
	Generations []string
	Latest      string
}

// StatusReport is the result of the status command.
type StatusReport struct {
	Source       string
	Prefix       string
	Excludes     []string
	Destinations []DestinationStatus
	Selected     string
}

// Status inspects the configured destinations and their snapshot history.
func Status(ctx context.Context, cfg *Config, deps *Dependencies, logger *slog.Logger) (*StatusReport, error) {
	if logger == nil {
		panic("logger is required")
	}
	if deps == nil || deps.FileSystem == nil {
		return nil, fmt.Errorf("filesystem adapter not available: %w", ErrCritical)
	}
	if err := ValidateRuntimeConfig(cfg); err != nil {
		return nil, err
	}

	report := &StatusReport{
		Source:   cfg.SourceRoot,
		Prefix:   cfg.Prefix,
		Excludes: cfg.Excludes,
	}

	for _, candidate := range cfg.Destinations {
		report.Destinations = append(report.Destinations, inspectDestination(ctx, deps.FileSystem, candidate, cfg.Prefix))
	}

	if selected, err := selectDestination(ctx, deps.FileSystem, cfg.Destinations); err == nil {
		report.Selected = selected
	}

	return report, nil
}

func inspectDestination(ctx context.Context, fs FileSystemPort, candidate, prefix string) DestinationStatus {
	status := DestinationStatus{Path: candidate}

	info, err := fs.Stat(ctx, candidate)
	if err != nil || info == nil || !info.IsDir() {
		return status
	}
	status.Usable = true

	entries, err := fs.ReadDir(ctx, candidate)
	if err != nil {
		return status
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix+"_") {
			status.Generations = append(status.Generations, entry.Name())
		}
	}
	sort.Strings(status.Generations)
	status.Latest = latestGeneration(ctx, fs, candidate)

	return status
}

// FormatStatus renders the report for the console.
func FormatStatus(report *StatusReport, useColor bool) string {
	bold := func(s string) string { return s }
	dim := func(s string) string { return s }
	if useColor {
		bold = func(s string) string { return "\033[1m" + s + "\033[0m" }
		dim = func(s string) string { return "\033[2m" + s + "\033[0m" }
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", bold("backupkern status"))
	fmt.Fprintf(&b, "  source: %s\n", report.Source)
	fmt.Fprintf(&b, "  prefix: %s\n", report.Prefix)
	for _, ex := range report.Excludes {
		fmt.Fprintf(&b, "  exclude: %s\n", ex)
	}

	for _, dest := range report.Destinations {
		marker := "unusable"
		if dest.Usable {
			marker = fmt.Sprintf("%d generation(s)", len(dest.Generations))
		}
		selected := ""
		if dest.Path == report.Selected {
			selected = " " + bold("[selected]")
		}
		fmt.Fprintf(&b, "\n  %s: %s%s\n", dest.Path, marker, selected)
		for _, gen := range dest.Generations {
			fmt.Fprintf(&b, "    %s\n", dim(gen))
		}
		if dest.Latest != "" {
			fmt.Fprintf(&b, "    latest: %s\n", dest.Latest)
		}
	}

	if report.Selected == "" {
		fmt.Fprintf(&b, "\n  %s\n", bold("no usable destination"))
	}

	return b.String()
}
