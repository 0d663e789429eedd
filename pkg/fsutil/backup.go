package fsutil

import (
	"context"
	"fmt"
	"os"
)

// DefaultBackupSuffix is appended to a file name to form its backup path.
const DefaultBackupSuffix = ".cssbeautify.bak"

// Backups controls sidecar backups taken before a file is rewritten.
type Backups struct {
	Enabled bool

	// Suffix defaults to DefaultBackupSuffix when empty.
	Suffix string
}

// Path returns the backup path for path.
func (b Backups) Path(path string) string {
	if b.Suffix == "" {
		return path + DefaultBackupSuffix
	}
	return path + b.Suffix
}

// Create copies path to its backup path. An existing backup is never
// overwritten, so repeated runs keep the oldest original. It reports whether
// a backup was written.
func (b Backups) Create(ctx context.Context, path string) (bool, error) {
	if !b.Enabled {
		return false, nil
	}

	backupPath := b.Path(path)
	if _, err := os.Stat(backupPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat backup %s: %w", backupPath, err)
	}

	content, snap, err := Read(ctx, path)
	if err != nil {
		return false, fmt.Errorf("read original for backup: %w", err)
	}

	if err := WriteAtomic(ctx, backupPath, content, snap.Mode); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}
