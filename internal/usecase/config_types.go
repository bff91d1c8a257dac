package usecase

// ConfigFile describes the on-disk configuration structure.
type ConfigFile struct {
	Backup        BackupConfig        `toml:"backup" yaml:"backup"`
	Exclude       ExcludeConfig       `toml:"exclude" yaml:"exclude"`
	Schedule      ScheduleConfig      `toml:"schedule" yaml:"schedule"`
	Notifications NotificationsConfig `toml:"notifications" yaml:"notifications"`
	Logging       LoggingConfig       `toml:"logging" yaml:"logging"`
}

// BackupConfig holds backup-related settings.
type BackupConfig struct {
	From          string   `toml:"from" yaml:"from"`
	To            []string `toml:"to" yaml:"to"`
	Prefix        string   `toml:"prefix" yaml:"prefix"`
	VerifyContent bool     `toml:"verify_content" yaml:"verify_content"`
}

// ExcludeConfig holds exclusion settings.
type ExcludeConfig struct {
	Locations []string `toml:"locations" yaml:"locations"`
}

// ScheduleConfig holds the optional cron schedule for daemon mode.
type ScheduleConfig struct {
	Cron string `toml:"cron" yaml:"cron"`
}

// NotificationsConfig holds notification settings.
type NotificationsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Sound   string `toml:"sound" yaml:"sound"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Dir   string `toml:"dir" yaml:"dir"`
	Level string `toml:"level" yaml:"level"`
}

// DefaultPrefix is used when backup.prefix is left empty.
const DefaultPrefix = "backup"

// DefaultConfigFile returns default configuration.
func DefaultConfigFile() ConfigFile {
	return ConfigFile{
		Backup: BackupConfig{
			From:          "",
			To:            nil,
			Prefix:        DefaultPrefix,
			VerifyContent: false,
		},
		Exclude: ExcludeConfig{
			Locations: nil,
		},
		Schedule: ScheduleConfig{
			Cron: "",
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Sound:   "default",
		},
		Logging: LoggingConfig{
			Dir:   "~/.local/state/backupkern/logs",
			Level: "info",
		},
	}
}
