package usecase

import (
	"fmt"
	"strings"
)

// RuntimeConfigFromFile converts on-disk config into runtime config for backup execution.
func RuntimeConfigFromFile(cfg ConfigFile, homeDir string) (*Config, error) {
	cleanHome := strings.TrimSpace(homeDir)
	if cleanHome == "" {
		return nil, fmt.Errorf("home directory is empty: %w", ErrCritical)
	}

	source := strings.TrimSpace(cfg.Backup.From)
	if source != "" {
		source = expandHomeDir(source, cleanHome)
	}

	destinations := make([]string, 0, len(cfg.Backup.To))
	for _, to := range cfg.Backup.To {
		to = strings.TrimSpace(to)
		if to == "" {
			continue
		}
		destinations = append(destinations, expandHomeDir(to, cleanHome))
	}

	prefix := strings.TrimSpace(cfg.Backup.Prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if strings.ContainsAny(prefix, "/\\") {
		return nil, fmt.Errorf("backup.prefix %q must not contain path separators: %w", prefix, ErrUsage)
	}

	excludes := make([]string, 0, len(cfg.Exclude.Locations))
	for _, loc := range cfg.Exclude.Locations {
		loc = strings.TrimSpace(loc)
		if loc == "" {
			continue
		}
		excludes = append(excludes, expandHomeDir(loc, cleanHome))
	}

	return &Config{
		SourceRoot:    source,
		Destinations:  destinations,
		Prefix:        prefix,
		Excludes:      excludes,
		VerifyContent: cfg.Backup.VerifyContent,
		Schedule:      strings.TrimSpace(cfg.Schedule.Cron),
		Notify:        cfg.Notifications.Enabled,
		NotifySound:   cfg.Notifications.Sound,
	}, nil
}

// ValidateRuntimeConfig checks the invariants a backup run requires.
func ValidateRuntimeConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil: %w", ErrCritical)
	}
	if strings.TrimSpace(cfg.SourceRoot) == "" {
		return fmt.Errorf("backup.from is not configured: %w", ErrUsage)
	}
	if len(cfg.Destinations) == 0 {
		return fmt.Errorf("backup.to has no entries: %w", ErrNoDestination)
	}
	return nil
}
