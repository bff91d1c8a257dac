package usecase

import (
	"bytes"
	"context"
	"crypto/sha256"
	"os"
)

// modeMask covers the permission bits plus setuid, setgid and sticky.
// A flip of any of them makes the prior copy stale even when size and
// mtime agree.
const modeMask = int(os.ModePerm | os.ModeSetuid | os.ModeSetgid | os.ModeSticky)

// filesEqual reports whether two paths hold the same content, judged by
// metadata alone: same base name, both regular files, same size, same
// mode bits (permissions plus setuid, setgid, sticky) and the exact same
// modification time. Any unreadable
// metadata makes the answer false, so a doubtful file is copied rather
// than linked against the wrong prior version.
func filesEqual(ctx context.Context, fs FileSystemPort, a, b string) bool {
	if fs.Base(a) != fs.Base(b) {
		return false
	}

	aInfo, err := fs.Stat(ctx, a)
	if err != nil {
		return false
	}
	bInfo, err := fs.Stat(ctx, b)
	if err != nil {
		return false
	}

	if !aInfo.IsRegular() || !bInfo.IsRegular() {
		return false
	}
	if aInfo.Size() != bInfo.Size() {
		return false
	}
	if aInfo.Mode()&modeMask != bInfo.Mode()&modeMask {
		return false
	}
	return aInfo.ModTime().Equal(bInfo.ModTime())
}

// contentsEqual compares two files byte-for-byte via SHA-256. Used as an
// opt-in second opinion after filesEqual; a read failure means "not equal".
func contentsEqual(ctx context.Context, fs FileSystemPort, a, b string) bool {
	aData, err := fs.ReadFile(ctx, a)
	if err != nil {
		return false
	}
	bData, err := fs.ReadFile(ctx, b)
	if err != nil {
		return false
	}
	aSum := sha256.Sum256(aData)
	bSum := sha256.Sum256(bData)
	return bytes.Equal(aSum[:], bSum[:])
}
