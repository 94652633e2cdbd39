package trash

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PotatoMaaan/trashctl/internal/fs"
)

const (
	// According to the XDG trash spec
	trashInfoHeader = "[Trash Info]"
	trashInfoExt    = ".trashinfo"

	// The format nautilus and dolphin actually write. The XDG spec claims
	// rfc3339, but no deployed implementation follows that.
	timeFormat = "2006-01-02T15:04:05"
)

// trashInfo is the decoded contents of one .trashinfo sidecar.
type trashInfo struct {
	// Path is the original path, absolute or relative to the trash's topdir
	Path string

	// DeletionDate is when the file was moved to trash (local time)
	DeletionDate time.Time
}

// parseTrashInfo decodes a sidecar from r. Any failure is ErrMalformedEntry:
// callers listing a whole directory skip and report rather than abort.
func parseTrashInfo(r io.Reader) (*trashInfo, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("error reading info file: %w", err)
		}
		return nil, fmt.Errorf("%w: empty file", ErrMalformedEntry)
	}
	if scanner.Text() != trashInfoHeader {
		return nil, fmt.Errorf("%w: first line must be %q", ErrMalformedEntry, trashInfoHeader)
	}

	info := &trashInfo{}
	var havePath, haveDate bool

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		// The XDG spec requires ignoring unknown lines; for Path and
		// DeletionDate the first occurrence wins.
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		switch key {
		case "Path":
			if havePath {
				continue
			}
			path, err := decodePath(value)
			if err != nil {
				return nil, fmt.Errorf("invalid Path encoding: %w", err)
			}
			info.Path = path
			havePath = true

		case "DeletionDate":
			if haveDate {
				continue
			}
			date, err := time.ParseInLocation(timeFormat, value, time.Local)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid DeletionDate %q", ErrMalformedEntry, value)
			}
			info.DeletionDate = date
			haveDate = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading info file: %w", err)
	}

	if !havePath {
		return nil, fmt.Errorf("%w: missing Path field", ErrMalformedEntry)
	}
	if !haveDate {
		return nil, fmt.Errorf("%w: missing DeletionDate field", ErrMalformedEntry)
	}

	return info, nil
}

// loadTrashInfo reads and parses the sidecar for name inside dir, resolving
// a relative Path against the trash's topdir.
func loadTrashInfo(dir *TrashDir, name string) (*trashInfo, error) {
	f, err := os.Open(filepath.Join(dir.InfoDir(), name+trashInfoExt))
	if err != nil {
		return nil, fmt.Errorf("failed to open info file: %w", err)
	}
	defer f.Close()

	info, err := parseTrashInfo(f)
	if err != nil {
		return nil, err
	}

	if !filepath.IsAbs(info.Path) {
		info.Path = filepath.Join(dir.Topdir, info.Path)
	}

	return info, nil
}

// save writes the sidecar for name into dir, atomically via O_EXCL so a
// concurrent writer can never be silently overwritten. In non-home trashes
// the stored path is relative to the topdir, so the entry survives the
// device being remounted elsewhere.
func (i *trashInfo) save(dir *TrashDir, name string) error {
	storedPath := i.Path
	if !dir.Home {
		if rel, err := filepath.Rel(dir.Topdir, i.Path); err == nil && !strings.HasPrefix(rel, "..") {
			storedPath = rel
		}
	}

	content := new(strings.Builder)
	fmt.Fprintln(content, trashInfoHeader)
	fmt.Fprintf(content, "Path=%s\n", encodePath(storedPath))
	fmt.Fprintf(content, "DeletionDate=%s\n", i.DeletionDate.Format(timeFormat))

	path := filepath.Join(dir.InfoDir(), name+trashInfoExt)
	f, err := fs.CreateExclusive(path, 0600)
	if err != nil {
		return fmt.Errorf("failed to create info file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(content.String()); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write info file: %w", err)
	}

	return nil
}

// removeInfo deletes the sidecar for name inside dir.
func removeInfo(dir *TrashDir, name string) error {
	return os.Remove(filepath.Join(dir.InfoDir(), name+trashInfoExt))
}
