package usecase

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type testFileSystem struct{}

func newTestFileSystem() *testFileSystem {
	return &testFileSystem{}
}

func safeFileMode(perm int, fallback fs.FileMode) fs.FileMode {
	if perm < 0 || perm > 0o777 {
		return fallback
	}
	// #nosec G115 -- perm validated to be within safe range.
	return fs.FileMode(perm)
}

func (a *testFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	_ = ctx
	// #nosec G304 -- test paths are controlled by the test harness.
	return os.ReadFile(path)
}

func (a *testFileSystem) WriteFile(ctx context.Context, path string, data []byte, perm int) error {
	_ = ctx
	return os.WriteFile(path, data, safeFileMode(perm, 0o644))
}

func (a *testFileSystem) CreateDir(ctx context.Context, path string, perm int) error {
	_ = ctx
	return os.MkdirAll(path, safeFileMode(perm, 0o755))
}

func (a *testFileSystem) RemoveAll(ctx context.Context, path string) error {
	_ = ctx
	return os.RemoveAll(path)
}

func (a *testFileSystem) Stat(ctx context.Context, path string) (FileInfo, error) {
	_ = ctx
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &fileInfoWrapperTest{info}, nil
}

func (a *testFileSystem) Lstat(ctx context.Context, path string) (FileInfo, error) {
	_ = ctx
	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	return &fileInfoWrapperTest{info}, nil
}

func (a *testFileSystem) Walk(ctx context.Context, root string, walkFn WalkFunc) error {
	_ = ctx
	return filepath.Walk(root, func(path string, info fs.FileInfo, err error) error {
		var fileInfo FileInfo
		if info != nil {
			fileInfo = &fileInfoWrapperTest{info}
		}
		return walkFn(path, fileInfo, err)
	})
}

func (a *testFileSystem) ReadDir(ctx context.Context, path string) ([]DirEntry, error) {
	_ = ctx
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	result := make([]DirEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, &dirEntryWrapperTest{entry})
	}
	return result, nil
}

func (a *testFileSystem) Copy(ctx context.Context, src, dst string) error {
	_ = ctx
	// #nosec G304 -- test paths are controlled by the test harness.
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	// #nosec G304 -- test paths are controlled by the test harness.
	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func (a *testFileSystem) Link(ctx context.Context, oldname, newname string) error {
	_ = ctx
	return os.Link(oldname, newname)
}

func (a *testFileSystem) Move(ctx context.Context, src, dst string) error {
	_ = ctx
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	return os.Rename(src, dst)
}

func (a *testFileSystem) Chmod(ctx context.Context, path string, perm int) error {
	_ = ctx
	return os.Chmod(path, safeFileMode(perm, 0o644))
}

func (a *testFileSystem) Chtimes(ctx context.Context, path string, atime, mtime time.Time) error {
	_ = ctx
	return os.Chtimes(path, atime, mtime)
}

func (a *testFileSystem) TempDir(ctx context.Context, dir, prefix string) (string, error) {
	_ = ctx
	return os.MkdirTemp(dir, prefix)
}

func (a *testFileSystem) Join(elements ...string) string { return filepath.Join(elements...) }
func (a *testFileSystem) Base(path string) string        { return filepath.Base(path) }
func (a *testFileSystem) Dir(path string) string         { return filepath.Dir(path) }
func (a *testFileSystem) IsAbs(path string) bool         { return filepath.IsAbs(path) }
func (a *testFileSystem) Rel(basepath, targpath string) (string, error) {
	return filepath.Rel(basepath, targpath)
}
func (a *testFileSystem) Clean(path string) string      { return filepath.Clean(path) }
func (a *testFileSystem) VolumeName(path string) string { return filepath.VolumeName(path) }
func (a *testFileSystem) PathSeparator() byte           { return os.PathSeparator }
func (a *testFileSystem) IsNotExist(err error) bool     { return os.IsNotExist(err) }
func (a *testFileSystem) IsExist(err error) bool        { return os.IsExist(err) }
func (a *testFileSystem) IsPermission(err error) bool   { return os.IsPermission(err) }

type fileInfoWrapperTest struct {
	info fs.FileInfo
}

func (f *fileInfoWrapperTest) Name() string       { return f.info.Name() }
func (f *fileInfoWrapperTest) Size() int64        { return f.info.Size() }
func (f *fileInfoWrapperTest) Mode() int          { return int(f.info.Mode()) }
func (f *fileInfoWrapperTest) ModTime() time.Time { return f.info.ModTime() }
func (f *fileInfoWrapperTest) IsDir() bool        { return f.info.IsDir() }
func (f *fileInfoWrapperTest) IsSymlink() bool    { return f.info.Mode()&os.ModeSymlink != 0 }
func (f *fileInfoWrapperTest) IsRegular() bool    { return f.info.Mode().IsRegular() }
func (f *fileInfoWrapperTest) Sys() interface{}   { return f.info.Sys() }

type dirEntryWrapperTest struct {
	entry os.DirEntry
}

func (d *dirEntryWrapperTest) Name() string { return d.entry.Name() }
func (d *dirEntryWrapperTest) IsDir() bool  { return d.entry.IsDir() }

// failingCopyFS makes Copy and Link fail for paths containing a marker,
// so partial-failure behavior can be exercised on a real tree.
type failingCopyFS struct {
	*testFileSystem
	marker string
}

func (f *failingCopyFS) Copy(ctx context.Context, src, dst string) error {
	if f.marker != "" && containsMarker(src, f.marker) {
		return fmt.Errorf("injected copy failure for %s", src)
	}
	return f.testFileSystem.Copy(ctx, src, dst)
}

func (f *failingCopyFS) Link(ctx context.Context, oldname, newname string) error {
	if f.marker != "" && containsMarker(newname, f.marker) {
		return fmt.Errorf("injected link failure for %s", newname)
	}
	return f.testFileSystem.Link(ctx, oldname, newname)
}

func containsMarker(path, marker string) bool {
	return marker != "" && filepath.Base(path) == marker
}

// entryErrorFS reports a traversal error for entries matching a marker
// instead of handing them to the walk callback, the way filepath.Walk
// surfaces an unreadable entry.
type entryErrorFS struct {
	*testFileSystem
	marker string
}

func (f *entryErrorFS) Walk(ctx context.Context, root string, walkFn WalkFunc) error {
	return f.testFileSystem.Walk(ctx, root, func(path string, info FileInfo, err error) error {
		if containsMarker(path, f.marker) {
			return walkFn(path, nil, fmt.Errorf("injected traversal failure for %s", path))
		}
		return walkFn(path, info, err)
	})
}

// strayPathFS yields one extra entry outside the walk root after the
// real traversal, simulating an inconsistent walk.
type strayPathFS struct {
	*testFileSystem
	stray string
}

func (f *strayPathFS) Walk(ctx context.Context, root string, walkFn WalkFunc) error {
	if err := f.testFileSystem.Walk(ctx, root, walkFn); err != nil {
		return err
	}
	info, err := f.Stat(ctx, f.stray)
	if err != nil {
		return err
	}
	return walkFn(f.stray, info, nil)
}

type testLockAdapter struct {
	mu    sync.Mutex
	locks map[string]LockInfo
	busy  bool
}

func newTestLockAdapter() *testLockAdapter {
	return &testLockAdapter{locks: map[string]LockInfo{}}
}

func (a *testLockAdapter) AcquireLock(ctx context.Context, path string, info LockInfo) error {
	_ = ctx
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy {
		return fmt.Errorf("lock is held by another active process")
	}
	if _, ok := a.locks[path]; ok {
		return fmt.Errorf("lock is held by another active process")
	}
	a.locks[path] = info
	return nil
}

func (a *testLockAdapter) ReleaseLock(ctx context.Context, path string) error {
	_ = ctx
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.locks, path)
	return nil
}

func (a *testLockAdapter) IsLocked(ctx context.Context, path string) (bool, LockInfo, error) {
	_ = ctx
	a.mu.Lock()
	defer a.mu.Unlock()
	info, ok := a.locks[path]
	return ok, info, nil
}

func (a *testLockAdapter) RefreshLock(ctx context.Context, path string) error {
	_ = ctx
	return nil
}

type testProcessAdapter struct{}

func (a *testProcessAdapter) GetPID() int { return os.Getpid() }

type testNotificationAdapter struct {
	mu       sync.Mutex
	messages []string
}

func (a *testNotificationAdapter) Send(ctx context.Context, title, message, sound string) error {
	_ = ctx
	_ = sound
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, title+": "+message)
	return nil
}

type testConfigAdapter struct {
	mu    sync.Mutex
	saved map[string]ConfigFile
}

func newTestConfigAdapter() *testConfigAdapter {
	return &testConfigAdapter{saved: map[string]ConfigFile{}}
}

func (a *testConfigAdapter) Load(ctx context.Context, path string) (ConfigFile, error) {
	_ = ctx
	a.mu.Lock()
	defer a.mu.Unlock()
	if cfg, ok := a.saved[path]; ok {
		return cfg, nil
	}
	return DefaultConfigFile(), nil
}

func (a *testConfigAdapter) Save(ctx context.Context, path string, cfg ConfigFile) error {
	_ = ctx
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saved[path] = cfg
	return nil
}

func newTestDependencies() *Dependencies {
	return &Dependencies{
		FileSystem:   newTestFileSystem(),
		Lock:         newTestLockAdapter(),
		Process:      &testProcessAdapter{},
		Config:       newTestConfigAdapter(),
		Notification: &testNotificationAdapter{},
	}
}
