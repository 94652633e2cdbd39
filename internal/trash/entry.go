package trash

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"
)

// Entry is one trashed item: the files/ half plus its decoded sidecar.
type Entry struct {
	// ID is a short stable identifier displayed to the user, derived
	// from the original path bytes
	ID string

	// Name is the filename inside files/, opaque after allocation
	Name string

	// OriginalPath is the absolute path the file was trashed from.
	// Raw bytes; not necessarily valid UTF-8.
	OriginalPath string

	// DeletedAt is when the file was moved to trash
	DeletedAt time.Time

	// Dir is the trash directory holding this entry
	Dir *TrashDir

	// Size is the size of the trashed content in bytes
	Size int64

	// IsDir indicates the trashed content is a directory
	IsDir bool

	// Orphaned marks a sidecar whose files/ half is missing; such an
	// entry is not restorable, only removable
	Orphaned bool
}

// TrashPath returns the location of the trashed content.
func (e *Entry) TrashPath() string {
	return filepath.Join(e.Dir.FilesDir(), e.Name)
}

// Exists checks whether the files/ half is still present.
func (e *Entry) Exists() bool {
	_, err := os.Lstat(e.TrashPath())
	return err == nil
}

// Matches reports whether sel identifies this entry: the short id, the
// exact original path, or the trash filename.
func (e *Entry) Matches(sel string) bool {
	return sel == e.ID || sel == e.OriginalPath || sel == e.Name
}

// GetName implements Filterable
func (e *Entry) GetName() string {
	return filepath.Base(e.OriginalPath)
}

// GetPath implements Filterable
func (e *Entry) GetPath() string {
	return e.TrashPath()
}

// GetDeletedAt implements Filterable
func (e *Entry) GetDeletedAt() time.Time {
	return e.DeletedAt
}

// entryID derives the displayed id from the original path bytes: the first
// ten hex characters of a SHA-256 over the path. Stable across runs, short
// enough to type.
func entryID(originalPath string) string {
	sum := sha256.Sum256([]byte(originalPath))
	return hex.EncodeToString(sum[:])[:10]
}
