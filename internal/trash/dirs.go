package trash

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/PotatoMaaan/trashctl/internal/fs"
)

// TrashDir is one {files/, info/} pair, either the home trash or a
// top-level trash on a non-home filesystem.
type TrashDir struct {
	// Root directory (e.g., ~/.local/share/Trash or /media/disk/.Trash-1000)
	Root string

	// Topdir is the root of the filesystem the trash lives on. Sidecar
	// paths in non-home trashes are stored relative to it.
	Topdir string

	// Device is the device id of the filesystem the trash lives on
	Device uint64

	// Home marks the $XDG_DATA_HOME/Trash directory
	Home bool

	// Admin marks an administrator-provisioned $topdir/.Trash/$uid directory
	Admin bool
}

// FilesDir returns the directory holding the trashed content.
func (d *TrashDir) FilesDir() string {
	return filepath.Join(d.Root, "files")
}

// InfoDir returns the directory holding the trashinfo sidecars.
func (d *TrashDir) InfoDir() string {
	return filepath.Join(d.Root, "info")
}

// ensure creates the files/ and info/ subdirectories with owner-only
// permissions. Called lazily, never for directories that are only read.
func (d *TrashDir) ensure() error {
	for _, subdir := range []string{d.FilesDir(), d.InfoDir()} {
		if err := os.MkdirAll(subdir, 0700); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDirectoryUnavailable, subdir, err)
		}
	}
	return nil
}

// exists reports whether the trash root is already present on disk.
func (d *TrashDir) exists() bool {
	fi, err := os.Lstat(d.Root)
	return err == nil && fi.IsDir()
}

// homeTrashDir locates the home trash under dataHome without creating it.
func homeTrashDir(dataHome string) (*TrashDir, error) {
	dev, err := deviceOf(dataHome)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot stat %s: %v", ErrDirectoryUnavailable, dataHome, err)
	}
	return &TrashDir{
		Root:   filepath.Join(dataHome, "Trash"),
		Topdir: dataHome,
		Device: dev,
		Home:   true,
	}, nil
}

// adminTrashDir validates $topdir/.Trash per the XDG trash spec and returns the
// per-user subdirectory inside it. The shared .Trash must be a real
// directory (not a symlink) with the sticky bit set; anything else is
// untrustworthy and rejected.
func adminTrashDir(topdir string, uid int) (*TrashDir, error) {
	shared := filepath.Join(topdir, ".Trash")
	fi, err := os.Lstat(shared)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", shared)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("%s is a symbolic link", shared)
	}
	if fi.Mode()&os.ModeSticky == 0 {
		return nil, fmt.Errorf("%s is missing the sticky bit", shared)
	}

	dev, err := deviceOf(shared)
	if err != nil {
		return nil, err
	}
	return &TrashDir{
		Root:   filepath.Join(shared, strconv.Itoa(uid)),
		Topdir: topdir,
		Device: dev,
		Admin:  true,
	}, nil
}

// uidTrashDir returns the per-user fallback $topdir/.Trash-$uid without
// creating it.
func uidTrashDir(topdir string, uid int) (*TrashDir, error) {
	dev, err := deviceOf(topdir)
	if err != nil {
		return nil, err
	}
	return &TrashDir{
		Root:   filepath.Join(topdir, fmt.Sprintf(".Trash-%d", uid)),
		Topdir: topdir,
		Device: dev,
	}, nil
}

// scanTrashDirs enumerates the existing top-level trash directories for uid
// across all mounted filesystems. Admin-provisioned directories sort before
// the per-user fallbacks so they take priority. Directories are never
// created here; enumeration only reports what is already on disk.
func scanTrashDirs(uid int) []*TrashDir {
	mounts, err := mountPoints()
	if err != nil {
		slog.Warn("failed to list mount points", "error", err)
		return nil
	}

	var admin, user []*TrashDir
	for _, topdir := range mounts {
		if d, err := adminTrashDir(topdir, uid); err == nil {
			if d.exists() {
				admin = append(admin, d)
			}
		} else if !os.IsNotExist(err) {
			slog.Warn("ignoring untrustworthy .Trash directory", "topdir", topdir, "error", err)
		}

		if d, err := uidTrashDir(topdir, uid); err == nil && d.exists() {
			user = append(user, d)
		}
	}

	return append(admin, user...)
}

func deviceOf(path string) (uint64, error) {
	return fs.DeviceID(path)
}
