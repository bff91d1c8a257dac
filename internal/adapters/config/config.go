package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/arumata/backupkern/internal/usecase"
)

// Adapter implements ConfigPort using TOML files on disk. YAML files are
// also accepted for installations migrating from the old single-file
// format.
type Adapter struct {
	logger *slog.Logger
}

// New creates a new config adapter.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		panic("config adapter requires logger")
	}
	return &Adapter{logger: logger}
}

// Load reads config from path or returns defaults when file is missing.
func (a *Adapter) Load(ctx context.Context, path string) (usecase.ConfigFile, error) {
	_ = ctx
	if strings.TrimSpace(path) == "" {
		return usecase.ConfigFile{}, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is controlled by usecase
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return usecase.DefaultConfigFile(), nil
		}
		return usecase.ConfigFile{}, err
	}

	if isYAMLPath(path) {
		return parseYAML(data)
	}

	cfg := usecase.DefaultConfigFile()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return usecase.ConfigFile{}, fmt.Errorf("parse config toml: %w", err)
	}

	return cfg, nil
}

// Save writes config to path in TOML format with inline documentation.
func (a *Adapter) Save(ctx context.Context, path string, cfg usecase.ConfigFile) error {
	_ = ctx
	if strings.TrimSpace(path) == "" {
		return errors.New("config path is empty")
	}

	content := renderCommentedTOML(cfg)

	// #nosec G306 G304 - config is not secret, path is controlled by usecase.
	return os.WriteFile(path, []byte(content), 0o644)
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// legacyYAMLConfig is the flat layout of the old ~/.backupkern.yaml file.
type legacyYAMLConfig struct {
	From    string   `yaml:"from"`
	To      []string `yaml:"to"`
	Prefix  string   `yaml:"prefix"`
	Exclude struct {
		Locations []string `yaml:"locations"`
	} `yaml:"exclude"`
}

// parseYAML accepts both the sectioned layout and the flat legacy layout.
// The sectioned form wins when its backup block is populated.
func parseYAML(data []byte) (usecase.ConfigFile, error) {
	cfg := usecase.DefaultConfigFile()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return usecase.ConfigFile{}, fmt.Errorf("parse config yaml: %w", err)
	}
	if strings.TrimSpace(cfg.Backup.From) != "" || len(cfg.Backup.To) > 0 {
		return cfg, nil
	}

	var legacy legacyYAMLConfig
	if err := yaml.Unmarshal(data, &legacy); err != nil {
		return usecase.ConfigFile{}, fmt.Errorf("parse config yaml: %w", err)
	}
	cfg = usecase.DefaultConfigFile()
	cfg.Backup.From = legacy.From
	cfg.Backup.To = legacy.To
	if strings.TrimSpace(legacy.Prefix) != "" {
		cfg.Backup.Prefix = legacy.Prefix
	}
	cfg.Exclude.Locations = legacy.Exclude.Locations
	return cfg, nil
}

//nolint:lll // template readability is more important than line length.
func renderCommentedTOML(cfg usecase.ConfigFile) string {
	return fmt.Sprintf(`# BackupKern Configuration
# https://github.com/arumata/backupkern#configuration

# ── Backup Settings ──────────────────────────────────────────────
[backup]

# Directory tree to back up (required).
# Supports ~, $HOME, ${HOME}.
# Set via: backupkern init --from <path>
from = %[1]q

# Destination candidates, checked in order; the last existing
# directory receives the snapshot. List removable media last so a
# mounted drive takes precedence over a fallback location.
to = [%[2]s]

# Snapshot directory names are <prefix>_<timestamp>.
prefix = %[3]q

# Compare file contents (not just size and mtime) before hard-linking
# a file to the previous snapshot. Slower, but catches files modified
# without touching their timestamps.
verify_content = %[4]t

# ── Exclusions ───────────────────────────────────────────────────
[exclude]

# Paths skipped during backup. A path excludes itself and everything
# below it. Supports ~, $HOME, ${HOME}.
locations = [%[5]s]

# ── Schedule ─────────────────────────────────────────────────────
[schedule]

# Cron expression for daemon mode (backupkern schedule).
# Empty disables scheduling.
cron = %[6]q

# ── Desktop Notifications ────────────────────────────────────────
[notifications]

# Enable notifications after backup completion.
enabled = %[7]t

# Notification sound ("default" = system default).
sound = %[8]q

# ── Logging ──────────────────────────────────────────────────────
[logging]

# Log directory. Supports ~, $HOME, ${HOME}. Created automatically.
dir = %[9]q

# Minimum log level: debug, info, warn, error.
level = %[10]q
`,
		cfg.Backup.From,
		renderStringList(cfg.Backup.To),
		cfg.Backup.Prefix,
		cfg.Backup.VerifyContent,
		renderStringList(cfg.Exclude.Locations),
		cfg.Schedule.Cron,
		cfg.Notifications.Enabled,
		cfg.Notifications.Sound,
		cfg.Logging.Dir,
		cfg.Logging.Level,
	)
}

func renderStringList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, fmt.Sprintf("%q", item))
	}
	return strings.Join(quoted, ", ")
}
