package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	// backupDirName is the sibling directory that receives archives. It is
	// also stripped from the copied tree so backups never nest older backups.
	backupDirName = "_backups"

	// timestampFormat has second resolution, enough to avoid collisions for
	// a manually triggered backup.
	timestampFormat = "20060102-150405"
)

// Error marks any backup failure so callers can classify it
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return "backup failed: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Exporter archives profile directories before destructive syncs
type Exporter struct {
	Logger *slog.Logger
}

// Export copies the profile tree into a staging directory, skipping any
// nested backup directory, and compresses the copy into
// <profiles-root>/_backups/<profile>-<timestamp>.zip. The staging directory
// is removed in all outcomes, including mid-archive failures.
func (e *Exporter) Export(profilePath string, now time.Time) (string, error) {
	name := filepath.Base(profilePath)
	backupDir := filepath.Join(filepath.Dir(profilePath), backupDirName)

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", &Error{Err: fmt.Errorf("failed to create %s: %w", backupDir, err)}
	}

	staging, err := os.MkdirTemp("", "packsync-backup-*")
	if err != nil {
		return "", &Error{Err: fmt.Errorf("failed to create staging directory: %w", err)}
	}
	defer func() {
		_ = os.RemoveAll(staging)
	}()

	if err := copyTree(profilePath, staging); err != nil {
		return "", &Error{Err: fmt.Errorf("failed to stage profile copy: %w", err)}
	}

	archivePath := filepath.Join(backupDir, fmt.Sprintf("%s-%s.zip", name, now.Format(timestampFormat)))
	if err := writeZip(archivePath, staging); err != nil {
		_ = os.Remove(archivePath)
		return "", &Error{Err: err}
	}

	if e.Logger != nil {
		e.Logger.Info("backup written", "archive", archivePath)
	}
	return archivePath, nil
}

// copyTree copies src into dst, skipping backup directories at any depth
func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && info.Name() == backupDirName {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		return copyFile(path, target, info.Mode())
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// writeZip compresses the staged tree into a single archive with
// profile-relative entry names.
func writeZip(archivePath, root string) error {
	f, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	zw := zip.NewWriter(f)
	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		in, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, in)
		_ = in.Close()
		return err
	})
	if err != nil {
		_ = zw.Close()
		return fmt.Errorf("failed to write archive: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return f.Close()
}
