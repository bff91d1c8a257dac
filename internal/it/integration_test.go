//nolint:gci,gofumpt
package it

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arumata/backupkern/internal/app"
	"github.com/arumata/backupkern/internal/usecase"
)

// TestBackupEndToEnd_RealAdapters exercises two backup generations through
// the real filesystem, lock and process adapters.
func TestBackupEndToEnd_RealAdapters(t *testing.T) {
	ctx := context.Background()
	deps := app.NewDefaultDependencies(slog.Default())

	tempDir := t.TempDir()
	source := setupSourceTree(t, tempDir)
	destRoot := filepath.Join(tempDir, "backups")
	if err := os.MkdirAll(destRoot, 0o750); err != nil {
		t.Fatal(err)
	}

	cfg := &usecase.Config{
		SourceRoot: source,
		// The first candidate does not exist; the last existing one wins.
		Destinations: []string{filepath.Join(tempDir, "missing"), destRoot},
		Prefix:       "backup",
		Excludes:     []string{filepath.Join(source, "cache")},
	}

	// First run copies everything.
	result1, err := usecase.Backup(ctx, cfg, deps, slog.Default())
	if err != nil {
		t.Fatalf("first backup failed: %v", err)
	}
	if result1.CopiedFiles != 2 || result1.LinkedFiles != 0 {
		t.Fatalf("expected 2 copied, 0 linked, got %+v", result1)
	}
	if result1.ExcludedFiles != 1 {
		t.Fatalf("expected 1 excluded file, got %d", result1.ExcludedFiles)
	}
	if _, err := os.Stat(filepath.Join(result1.SnapshotRoot, "cache")); !os.IsNotExist(err) {
		t.Fatalf("excluded subtree must not appear in the snapshot: %v", err)
	}

	// Snapshot names carry second precision; make sure run two gets its own.
	time.Sleep(1100 * time.Millisecond)

	appendToFile(t, filepath.Join(source, "sub", "b.txt"), " more")

	result2, err := usecase.Backup(ctx, cfg, deps, slog.Default())
	if err != nil {
		t.Fatalf("second backup failed: %v", err)
	}
	if result2.PriorGeneration != result1.SnapshotRoot {
		t.Fatalf("expected prior generation %s, got %s", result1.SnapshotRoot, result2.PriorGeneration)
	}
	if result2.LinkedFiles != 1 || result2.CopiedFiles != 1 {
		t.Fatalf("expected 1 linked, 1 copied, got %+v", result2)
	}

	// The unchanged file shares storage across generations.
	assertSameFile(t,
		filepath.Join(result1.SnapshotRoot, "a.txt"),
		filepath.Join(result2.SnapshotRoot, "a.txt"),
		true,
	)
	// The changed file is an independent copy.
	assertSameFile(t,
		filepath.Join(result1.SnapshotRoot, "sub", "b.txt"),
		filepath.Join(result2.SnapshotRoot, "sub", "b.txt"),
		false,
	)

	// The copy carries the source mtime, so a third run would link it.
	srcInfo, err := os.Stat(filepath.Join(source, "sub", "b.txt"))
	if err != nil {
		t.Fatal(err)
	}
	dstInfo, err := os.Stat(filepath.Join(result2.SnapshotRoot, "sub", "b.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !srcInfo.ModTime().Equal(dstInfo.ModTime()) {
		t.Fatalf("expected mtime %v to survive the copy, got %v", srcInfo.ModTime(), dstInfo.ModTime())
	}
}

func TestBackupNoDestination_RealAdapters(t *testing.T) {
	ctx := context.Background()
	deps := app.NewDefaultDependencies(slog.Default())

	tempDir := t.TempDir()
	source := setupSourceTree(t, tempDir)
	missing := filepath.Join(tempDir, "not-mounted")

	cfg := &usecase.Config{
		SourceRoot:   source,
		Destinations: []string{missing},
		Prefix:       "backup",
	}

	_, err := usecase.Backup(ctx, cfg, deps, slog.Default())
	if !errors.Is(err, usecase.ErrNoDestination) {
		t.Fatalf("expected ErrNoDestination, got %v", err)
	}
	if _, statErr := os.Stat(missing); !os.IsNotExist(statErr) {
		t.Fatalf("no destination may be created: %v", statErr)
	}
}

func TestInitAndStatus_RealAdapters(t *testing.T) {
	ctx := context.Background()
	deps := app.NewDefaultDependencies(slog.Default())

	tempDir := t.TempDir()
	homeDir := filepath.Join(tempDir, "home")
	if err := os.MkdirAll(homeDir, 0o750); err != nil {
		t.Fatal(err)
	}
	source := setupSourceTree(t, tempDir)
	destRoot := filepath.Join(tempDir, "backups")
	if err := os.MkdirAll(destRoot, 0o750); err != nil {
		t.Fatal(err)
	}

	initOpts := usecase.InitOptions{
		Source:       source,
		Destinations: []string{destRoot},
		HomeDir:      homeDir,
	}
	if err := usecase.Init(ctx, initOpts, deps, slog.Default()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	configPath := filepath.Join(homeDir, ".config", "backupkern", "config.toml")
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("expected config to exist: %v", err)
	}

	configFile, err := deps.Config.Load(ctx, configPath)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	cfg, err := usecase.RuntimeConfigFromFile(configFile, homeDir)
	if err != nil {
		t.Fatalf("runtime config: %v", err)
	}

	if _, err := usecase.Backup(ctx, cfg, deps, slog.Default()); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	report, err := usecase.Status(ctx, cfg, deps, slog.Default())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if report.Selected != destRoot {
		t.Fatalf("expected %s to be selected, got %q", destRoot, report.Selected)
	}
	if len(report.Destinations) != 1 || !report.Destinations[0].Usable {
		t.Fatalf("expected one usable destination, got %+v", report.Destinations)
	}
	if len(report.Destinations[0].Generations) != 1 {
		t.Fatalf("expected one generation, got %v", report.Destinations[0].Generations)
	}
}

// TestFileSystemAndLockInteraction tests interactions between filesystem and lock adapters
func TestFileSystemAndLockInteraction(t *testing.T) {
	ctx := context.Background()
	deps := app.NewDefaultDependencies(slog.Default())

	tempDir, err := deps.FileSystem.TempDir(ctx, "", "backupkern-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		_ = deps.FileSystem.RemoveAll(ctx, tempDir)
	}()

	lockPath := deps.FileSystem.Join(tempDir, ".backupkern.lock")

	// Use the real PID so liveness validation passes.
	lockInfo := usecase.LockInfo{
		PID:         os.Getpid(),
		StartTime:   time.Now(),
		SourceRoot:  tempDir,
		Destination: tempDir,
		Hostname:    "test-host",
	}

	if err := deps.Lock.AcquireLock(ctx, lockPath, lockInfo); err != nil {
		t.Errorf("Failed to acquire lock: %v", err)
	}

	isLocked, info, err := deps.Lock.IsLocked(ctx, lockPath)
	if err != nil {
		t.Errorf("Failed to check lock status: %v", err)
	}
	if !isLocked {
		t.Error("Lock should be active")
	}
	if info.PID != lockInfo.PID {
		t.Errorf("Expected PID %d, got %d", lockInfo.PID, info.PID)
	}

	// A second acquisition against a live holder must fail.
	second := lockInfo
	second.Hostname = "other-host"
	if err := deps.Lock.AcquireLock(ctx, lockPath, second); err == nil {
		t.Error("Expected lock acquisition to fail due to conflict")
	}

	if err := deps.Lock.ReleaseLock(ctx, lockPath); err != nil {
		t.Errorf("Failed to release lock: %v", err)
	}

	isLocked, _, err = deps.Lock.IsLocked(ctx, lockPath)
	if err != nil {
		t.Errorf("Failed to check lock status after release: %v", err)
	}
	if isLocked {
		t.Error("Lock should not be active after release")
	}
}

// TestFileSystemOperations tests filesystem operations
func TestFileSystemOperations(t *testing.T) {
	ctx := context.Background()
	deps := app.NewDefaultDependencies(slog.Default())

	tempDir, err := deps.FileSystem.TempDir(ctx, "", "backupkern-fs-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		_ = deps.FileSystem.RemoveAll(ctx, tempDir)
	}()

	testDir := deps.FileSystem.Join(tempDir, "subdir")
	if err := deps.FileSystem.CreateDir(ctx, testDir, 0o755); err != nil {
		t.Errorf("Failed to create directory: %v", err)
	}

	testFile := deps.FileSystem.Join(testDir, "test.txt")
	testContent := []byte("Hello, integration test!")

	if err := deps.FileSystem.WriteFile(ctx, testFile, testContent, 0o644); err != nil {
		t.Errorf("Failed to write file: %v", err)
	}

	readContent, err := deps.FileSystem.ReadFile(ctx, testFile)
	if err != nil {
		t.Errorf("Failed to read file: %v", err)
	}
	if string(readContent) != string(testContent) {
		t.Errorf("Expected content %q, got %q", string(testContent), string(readContent))
	}

	info, err := deps.FileSystem.Stat(ctx, testFile)
	if err != nil {
		t.Errorf("Failed to stat file: %v", err)
	}
	if info.Size() != int64(len(testContent)) {
		t.Errorf("Expected file size %d, got %d", len(testContent), info.Size())
	}

	// Copy then link through the port, the way a snapshot run does.
	copied := deps.FileSystem.Join(testDir, "copy.txt")
	if err := deps.FileSystem.Copy(ctx, testFile, copied); err != nil {
		t.Fatalf("Failed to copy file: %v", err)
	}
	linked := deps.FileSystem.Join(testDir, "link.txt")
	if err := deps.FileSystem.Link(ctx, copied, linked); err != nil {
		t.Fatalf("Failed to link file: %v", err)
	}
	assertSameFile(t, copied, linked, true)
	assertSameFile(t, testFile, copied, false)
}

func setupSourceTree(t *testing.T, tempDir string) string {
	t.Helper()
	source := filepath.Join(tempDir, "src")
	for _, dir := range []string{source, filepath.Join(source, "sub"), filepath.Join(source, "cache")} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatal(err)
		}
	}
	files := map[string]string{
		filepath.Join(source, "a.txt"):            "alpha",
		filepath.Join(source, "sub", "b.txt"):     "bravo",
		filepath.Join(source, "cache", "tmp.txt"): "scratch",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return source
}

func appendToFile(t *testing.T, path, suffix string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(suffix); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func assertSameFile(t *testing.T, a, b string, want bool) {
	t.Helper()
	infoA, err := os.Stat(a)
	if err != nil {
		t.Fatal(err)
	}
	infoB, err := os.Stat(b)
	if err != nil {
		t.Fatal(err)
	}
	if got := os.SameFile(infoA, infoB); got != want {
		t.Fatalf("SameFile(%s, %s) = %t, want %t", a, b, got, want)
	}
}
