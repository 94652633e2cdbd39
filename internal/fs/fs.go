// Package fs holds the filesystem primitives shared by the trash engine:
// exclusive file creation, device identification and the device-aware move
// used both when trashing and when restoring.
package fs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	cp "github.com/otiai10/copy"
)

// CreateExclusive creates a new file with O_EXCL to ensure atomic creation.
// Returns an error if the file already exists.
func CreateExclusive(path string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
}

// DeviceID returns the device identifier of the filesystem holding path.
// Symlinks are not followed; a symlink is trashed and restored as itself.
func DeviceID(path string) (uint64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, fmt.Errorf("no device information for %s", path)
	}
	return uint64(stat.Dev), nil
}

// SameDevice reports whether two paths reside on the same filesystem.
func SameDevice(a, b string) (bool, error) {
	devA, err := DeviceID(a)
	if err != nil {
		return false, err
	}
	devB, err := DeviceID(b)
	if err != nil {
		return false, err
	}
	slog.Debug("device comparison", "a", a, "devA", devA, "b", b, "devB", devB)
	return devA == devB, nil
}

// Move moves a file or directory from src to dst. On the same device this is
// a single rename. Across devices it falls back to copy-verify-delete: a
// failure mid-copy leaves the original intact and cleans up the partial
// destination. The destination's parent must already exist.
func Move(src, dst string) error {
	samePartition, err := SameDevice(src, filepath.Dir(dst))
	if err != nil {
		return err
	}
	defer slog.Debug("file moved", "from", src, "to", dst)

	if samePartition {
		return os.Rename(src, dst)
	}

	slog.Debug("different partitions detected, falling back to copy-and-delete operation")
	return copyAndDelete(src, dst)
}

// copyAndDelete copies src (recursively for directories) to dst, verifies
// the copy, then deletes the original.
func copyAndDelete(src, dst string) error {
	opts := cp.Options{
		OnSymlink:         func(string) cp.SymlinkAction { return cp.Shallow },
		PermissionControl: cp.PerservePermission,
		PreserveTimes:     true,
	}
	if err := cp.Copy(src, dst, opts); err != nil {
		_ = os.RemoveAll(dst)
		return fmt.Errorf("failed to copy file: %w", err)
	}

	if err := verifyCopy(src, dst); err != nil {
		_ = os.RemoveAll(dst)
		return err
	}

	if err := os.RemoveAll(src); err != nil {
		// Keep the copy: at this point it is complete and verified, and the
		// source is at worst partially deleted.
		return fmt.Errorf("failed to remove source after copy: %w", err)
	}

	return nil
}

// verifyCopy compares total byte counts of src and dst. It catches truncated
// copies, not corruption; rename is still the preferred path.
func verifyCopy(src, dst string) error {
	srcSize, err := DirSize(src)
	if err != nil {
		return fmt.Errorf("failed to size source: %w", err)
	}
	dstSize, err := DirSize(dst)
	if err != nil {
		return fmt.Errorf("failed to size copy: %w", err)
	}
	if srcSize != dstSize {
		return fmt.Errorf("copy verification failed: source %d bytes, copy %d bytes", srcSize, dstSize)
	}
	return nil
}

// DirSize returns the total size in bytes of the file or directory tree at
// path. Symlinks are counted as themselves, not followed.
func DirSize(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var size int64
	err = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		size += fi.Size()
		return nil
	})
	return size, err
}
