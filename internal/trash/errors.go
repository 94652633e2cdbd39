package trash

import (
	"errors"
	"fmt"
)

// Common errors that can be returned by Engine operations
var (
	// ErrNotFound is returned when no trashed entry matches a selector
	ErrNotFound = errors.New("no such entry in trash")

	// ErrDirectoryUnavailable is returned when no usable trash directory
	// can be found or created for a device
	ErrDirectoryUnavailable = errors.New("no usable trash directory")

	// ErrMalformedEntry is returned when a trashinfo sidecar cannot be
	// parsed or its path encoding is invalid
	ErrMalformedEntry = errors.New("malformed trashinfo entry")

	// ErrCollision is returned when a restore destination is already occupied
	ErrCollision = errors.New("a file already exists at the destination")

	// ErrDestinationMissing is returned when the original parent directory
	// of a restore target no longer exists
	ErrDestinationMissing = errors.New("original parent directory no longer exists")

	// ErrResourceExhausted is returned when a unique trash name cannot be
	// allocated within the retry bound
	ErrResourceExhausted = errors.New("failed to allocate a unique trash name")

	// ErrAmbiguous is returned when a selector matches several distinct entries
	ErrAmbiguous = errors.New("selector matches multiple entries")
)

// StorageError wraps an error with additional context about the trash operation
type StorageError struct {
	// Op is the operation that failed (e.g., "put", "restore", "remove")
	Op string

	// Path is the path or entry id that caused the error
	Path string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *StorageError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError
func NewStorageError(op, path string, err error) error {
	return &StorageError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// OrphanError reports an entry missing one of its two halves. It is a
// warning, not a failure: listing continues and Remove can clean it up.
type OrphanError struct {
	// Dir is the trash directory holding the orphan
	Dir *TrashDir

	// Name is the trash filename of the orphan
	Name string

	// MissingFile is true when the files/ half is gone (a bare sidecar),
	// false when the sidecar is gone (a bare file)
	MissingFile bool
}

func (e *OrphanError) Error() string {
	if e.MissingFile {
		return fmt.Sprintf("orphaned sidecar %s: no file in %s", e.Name, e.Dir.FilesDir())
	}
	return fmt.Sprintf("orphaned file %s: no sidecar in %s", e.Name, e.Dir.InfoDir())
}

// IsNotFound returns true if the error is ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformedEntry returns true if the error is ErrMalformedEntry
func IsMalformedEntry(err error) bool {
	return errors.Is(err, ErrMalformedEntry)
}

// IsCollision returns true if the error is ErrCollision
func IsCollision(err error) bool {
	return errors.Is(err, ErrCollision)
}

// IsAmbiguous returns true if the error is ErrAmbiguous
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguous)
}
