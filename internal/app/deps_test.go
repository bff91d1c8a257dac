//nolint:gci,gofumpt
package app

import (
	"log/slog"
	"testing"

	"github.com/arumata/backupkern/internal/adapters/config"
	"github.com/arumata/backupkern/internal/adapters/filesystem"
	"github.com/arumata/backupkern/internal/adapters/lock"
	"github.com/arumata/backupkern/internal/adapters/notification"
	"github.com/arumata/backupkern/internal/adapters/process"
)

func TestNewDefaultDependencies(t *testing.T) {
	deps := NewDefaultDependencies(slog.Default())

	if deps == nil {
		t.Fatal("Expected Dependencies to be created, got nil")
	}

	if deps.FileSystem == nil {
		t.Error("Expected FileSystem adapter to be set")
	}

	if deps.Config == nil {
		t.Error("Expected Config adapter to be set")
	}

	if deps.Lock == nil {
		t.Error("Expected Lock adapter to be set")
	}

	if deps.Process == nil {
		t.Error("Expected Process adapter to be set")
	}

	if deps.Notification == nil {
		t.Error("Expected Notification adapter to be set")
	}

	// Verify actual adapter types.
	if _, ok := deps.FileSystem.(*filesystem.Adapter); !ok {
		t.Error("Expected FileSystem to be filesystem.Adapter")
	}

	if _, ok := deps.Config.(*config.Adapter); !ok {
		t.Error("Expected Config to be config.Adapter")
	}

	if _, ok := deps.Lock.(*lock.Adapter); !ok {
		t.Error("Expected Lock to be lock.Adapter")
	}

	if _, ok := deps.Process.(*process.Adapter); !ok {
		t.Error("Expected Process to be process.Adapter")
	}

	if _, ok := deps.Notification.(*notification.Adapter); !ok {
		t.Error("Expected Notification to be notification.Adapter")
	}
}
