package app

import (
	"log/slog"

	"github.com/arumata/backupkern/internal/adapters/config"
	"github.com/arumata/backupkern/internal/adapters/filesystem"
	"github.com/arumata/backupkern/internal/adapters/lock"
	"github.com/arumata/backupkern/internal/adapters/notification"
	"github.com/arumata/backupkern/internal/adapters/process"
	"github.com/arumata/backupkern/internal/usecase"
)

// NewDefaultDependencies creates dependencies with real adapters.
func NewDefaultDependencies(logger *slog.Logger) *usecase.Dependencies {
	if logger == nil {
		panic("default dependencies require logger")
	}

	return &usecase.Dependencies{
		FileSystem:   filesystem.New(logger),
		Config:       config.New(logger),
		Lock:         lock.New(logger),
		Process:      process.New(logger),
		Notification: notification.New(logger),
	}
}
