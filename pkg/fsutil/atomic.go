package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is used when no mode is known.
const DefaultFileMode os.FileMode = 0o644

// WriteAtomic writes content to a temp file beside path, syncs it and renames
// it over path. On failure the temp file is removed and path is untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode.Perm()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	committed = true
	return nil
}

// Replace overwrites the file described by snap with content. It refuses
// with ErrChangedOnDisk when the file no longer matches snap, and creates a
// backup first when backups are enabled. The original mode is kept.
// backedUp reports whether this call created the backup.
func Replace(ctx context.Context, snap *Snapshot, content []byte, backups Backups) (backedUp bool, err error) {
	changed, err := snap.Changed(ctx)
	if err != nil {
		return false, err
	}
	if changed {
		return false, fmt.Errorf("%w: %s", ErrChangedOnDisk, snap.Path)
	}

	backedUp, err = backups.Create(ctx, snap.Path)
	if err != nil {
		return false, err
	}

	return backedUp, WriteAtomic(ctx, snap.Path, content, snap.Mode)
}
