package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yaklabco/cssbeautify/pkg/fsutil"
)

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func TestRead(t *testing.T) {
	t.Parallel()

	t.Run("returns content and snapshot", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.css")
		writeFile(t, path, "a{b:c}", 0o600)

		content, snap, err := fsutil.Read(context.Background(), path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if string(content) != "a{b:c}" {
			t.Errorf("content = %q", content)
		}
		if snap.Size != 6 {
			t.Errorf("Size = %d, want 6", snap.Size)
		}
		if snap.Mode.Perm() != 0o600 {
			t.Errorf("Mode = %v, want 0600", snap.Mode.Perm())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.Read(context.Background(), filepath.Join(t.TempDir(), "nope.css"))
		if !errors.Is(err, fsutil.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.Read(context.Background(), t.TempDir())
		if !errors.Is(err, fsutil.ErrIsDirectory) {
			t.Errorf("error = %v, want ErrIsDirectory", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := fsutil.Read(ctx, "whatever.css")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestSnapshot_Changed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.css")
		writeFile(t, path, "a{}", 0o644)
		_, snap, err := fsutil.Read(ctx, path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		changed, err := snap.Changed(ctx)
		if err != nil || changed {
			t.Errorf("Changed() = %v, %v; want false, nil", changed, err)
		}
	})

	t.Run("same size new content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.css")
		writeFile(t, path, "a{}", 0o644)
		_, snap, err := fsutil.Read(ctx, path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		writeFile(t, path, "b{}", 0o644)
		// Restore the recorded mtime so only the hash can tell.
		if err := os.Chtimes(path, time.Now(), snap.ModTime); err != nil {
			t.Fatalf("chtimes: %v", err)
		}

		changed, err := snap.Changed(ctx)
		if err != nil || !changed {
			t.Errorf("Changed() = %v, %v; want true, nil", changed, err)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.css")
		writeFile(t, path, "a{}", 0o644)
		_, snap, err := fsutil.Read(ctx, path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if err := os.Remove(path); err != nil {
			t.Fatalf("remove: %v", err)
		}

		changed, err := snap.Changed(ctx)
		if err != nil || !changed {
			t.Errorf("Changed() = %v, %v; want true, nil", changed, err)
		}
	})

	t.Run("nil snapshot", func(t *testing.T) {
		t.Parallel()

		var snap *fsutil.Snapshot
		if _, err := snap.Changed(ctx); !errors.Is(err, fsutil.ErrNilSnapshot) {
			t.Errorf("error = %v, want ErrNilSnapshot", err)
		}
	})
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.css")
	writeFile(t, path, "old", 0o644)

	if err := fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0o600); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}

	stat, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if stat.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", stat.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestReplace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("writes and backs up", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.css")
		writeFile(t, path, "a{b:c}", 0o640)
		_, snap, err := fsutil.Read(ctx, path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		backups := fsutil.Backups{Enabled: true}
		backedUp, err := fsutil.Replace(ctx, snap, []byte("a {\n    b: c;\n}\n"), backups)
		if err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
		if !backedUp {
			t.Error("Replace() did not report the backup")
		}

		backup, err := os.ReadFile(backups.Path(path))
		if err != nil {
			t.Fatalf("read backup: %v", err)
		}
		if string(backup) != "a{b:c}" {
			t.Errorf("backup = %q", backup)
		}

		stat, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if stat.Mode().Perm() != 0o640 {
			t.Errorf("mode = %v, want 0640", stat.Mode().Perm())
		}
	})

	t.Run("refuses when changed on disk", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.css")
		writeFile(t, path, "a{}", 0o644)
		_, snap, err := fsutil.Read(ctx, path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		writeFile(t, path, "a{}b{}", 0o644)

		_, err = fsutil.Replace(ctx, snap, []byte("a {}"), fsutil.Backups{})
		if !errors.Is(err, fsutil.ErrChangedOnDisk) {
			t.Fatalf("error = %v, want ErrChangedOnDisk", err)
		}

		got, _ := os.ReadFile(path)
		if string(got) != "a{}b{}" {
			t.Errorf("file was overwritten: %q", got)
		}
	})
}

func TestBackups_Create(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.css")
		writeFile(t, path, "x", 0o644)

		created, err := fsutil.Backups{}.Create(ctx, path)
		if err != nil || created {
			t.Errorf("Create() = %v, %v; want false, nil", created, err)
		}
		if _, err := os.Stat(path + fsutil.DefaultBackupSuffix); !os.IsNotExist(err) {
			t.Errorf("backup exists, stat error = %v", err)
		}
	})

	t.Run("keeps the first backup", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.css")
		b := fsutil.Backups{Enabled: true, Suffix: ".orig"}

		writeFile(t, path, "first", 0o644)
		if created, err := b.Create(ctx, path); err != nil || !created {
			t.Fatalf("Create() = %v, %v; want true, nil", created, err)
		}

		writeFile(t, path, "second", 0o644)
		if created, err := b.Create(ctx, path); err != nil || created {
			t.Fatalf("second Create() = %v, %v; want false, nil", created, err)
		}

		got, err := os.ReadFile(path + ".orig")
		if err != nil {
			t.Fatalf("read backup: %v", err)
		}
		if string(got) != "first" {
			t.Errorf("backup = %q, want %q", got, "first")
		}
	})
}
