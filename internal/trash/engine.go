// Package trash implements an XDG-spec trash engine: putting files into
// the trash, listing, restoring, removing and clearing entries across the
// home trash and per-device top-level trash directories.
//
// The filesystem is the only state; nothing is cached between operations.
// No locking is taken against the trash directories or target files. Other
// implementations sharing the same directories do not honor locks either,
// so a race window against concurrent external mutation is an accepted
// limitation, not an oversight.
package trash

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PotatoMaaan/trashctl/internal/config"
	"github.com/PotatoMaaan/trashctl/internal/env"
	"github.com/PotatoMaaan/trashctl/internal/fs"
)

// Config holds the engine configuration
type Config struct {
	// HomeTrashDir overrides the home trash root. Empty means
	// $XDG_DATA_HOME/Trash.
	HomeTrashDir string

	// ForceHomeTrash disables mount scanning; everything goes to the
	// home trash. Mainly for tests.
	ForceHomeTrash bool

	// HomeFallback allows a cross-device copy into the home trash when
	// no trash directory can be created on the target's device
	HomeFallback bool

	// Filters narrows List output
	Filters config.Filters
}

// Engine orchestrates all trash operations. It owns no persistent state;
// every operation reads the filesystem, acts, and forgets.
type Engine struct {
	cfg  Config
	uid  int
	home *TrashDir
}

// NewEngine locates the home trash and returns an engine. Nothing is
// created on disk until an operation needs to write.
func NewEngine(cfg Config) (*Engine, error) {
	var home *TrashDir
	var err error

	if cfg.HomeTrashDir != "" {
		if !filepath.IsAbs(cfg.HomeTrashDir) {
			return nil, fmt.Errorf("home trash directory must be an absolute path: %s", cfg.HomeTrashDir)
		}
		dev, derr := deviceOf(filepath.Dir(cfg.HomeTrashDir))
		if derr != nil {
			return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, derr)
		}
		home = &TrashDir{
			Root:   cfg.HomeTrashDir,
			Topdir: filepath.Dir(cfg.HomeTrashDir),
			Device: dev,
			Home:   true,
		}
	} else {
		home, err = homeTrashDir(env.DataHome())
		if err != nil {
			return nil, err
		}
	}

	slog.Debug("engine initialized", "home", home.Root, "device", home.Device)

	return &Engine{
		cfg:  cfg,
		uid:  os.Getuid(),
		home: home,
	}, nil
}

// Trashes enumerates all trash directories in priority order: home trash
// first, then admin-provisioned top-level trashes, then per-user ones.
func (e *Engine) Trashes() []*TrashDir {
	dirs := []*TrashDir{e.home}
	if e.cfg.ForceHomeTrash {
		return dirs
	}

	seen := map[string]bool{e.home.Root: true}
	for _, d := range scanTrashDirs(e.uid) {
		if seen[d.Root] {
			continue
		}
		seen[d.Root] = true
		dirs = append(dirs, d)
	}
	return dirs
}

// Put moves the file at path into the appropriate trash directory and
// returns the created entry. The sidecar is written before the move so a
// crash can never leave a moved file with no record of its origin; if the
// move fails the sidecar is removed again.
func (e *Engine) Put(path string) (*Entry, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return nil, NewStorageError("put", path, err)
	}

	if isSysPath(path) {
		return nil, NewStorageError("put", path, fmt.Errorf("trashing a system path is not supported"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, NewStorageError("put", path, err)
	}

	dir, err := e.selectTrashDir(abs)
	if err != nil {
		return nil, NewStorageError("put", path, err)
	}

	name, err := allocateName(dir, filepath.Base(abs))
	if err != nil {
		return nil, NewStorageError("put", path, err)
	}

	now := time.Now().Truncate(time.Second)
	info := &trashInfo{Path: abs, DeletionDate: now}
	if err := info.save(dir, name); err != nil {
		return nil, NewStorageError("put", path, err)
	}

	dst := filepath.Join(dir.FilesDir(), name)
	if err := fs.Move(abs, dst); err != nil {
		// No entry may be left half-created: a sidecar without its file
		// would be an orphan record for a file that was never moved.
		if rerr := removeInfo(dir, name); rerr != nil {
			slog.Error("failed to revert info file", "name", name, "error", rerr)
		}
		return nil, NewStorageError("put", path, fmt.Errorf("failed to move file to trash: %w", err))
	}

	slog.Debug("trashed", "path", abs, "trash", dir.Root, "name", name)

	return &Entry{
		ID:           entryID(abs),
		Name:         name,
		OriginalPath: abs,
		DeletedAt:    now,
		Dir:          dir,
		Size:         fi.Size(),
		IsDir:        fi.IsDir(),
	}, nil
}

// selectTrashDir picks the trash directory for a file, creating a
// top-level trash on the file's device if none exists yet.
func (e *Engine) selectTrashDir(abs string) (*TrashDir, error) {
	dev, err := fs.DeviceID(abs)
	if err != nil {
		return nil, err
	}

	if dev == e.home.Device || e.cfg.ForceHomeTrash {
		if err := e.home.ensure(); err != nil {
			return nil, err
		}
		return e.home, nil
	}

	// An existing trash on the same device wins; admin dirs come first in
	// scan order.
	for _, d := range scanTrashDirs(e.uid) {
		if d.Device != dev {
			continue
		}
		if err := d.ensure(); err != nil {
			slog.Warn("existing trash directory unusable", "root", d.Root, "error", err)
			continue
		}
		return d, nil
	}

	// No trash on this device yet. Try the admin-provisioned form first,
	// then fall back to creating .Trash-$uid at the device root.
	topdir, err := topdirOf(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	if d, err := adminTrashDir(topdir, e.uid); err == nil {
		if err := d.ensure(); err == nil {
			return d, nil
		}
	} else if !os.IsNotExist(err) {
		slog.Warn("ignoring untrustworthy .Trash directory", "topdir", topdir, "error", err)
	}

	d, err := uidTrashDir(topdir, e.uid)
	if err == nil {
		err = d.ensure()
	}
	if err != nil {
		if e.cfg.HomeFallback {
			slog.Debug("falling back to home trash", "topdir", topdir)
			if herr := e.home.ensure(); herr != nil {
				return nil, herr
			}
			return e.home, nil
		}
		return nil, fmt.Errorf("%w: cannot create trash on %s: %v", ErrDirectoryUnavailable, topdir, err)
	}
	return d, nil
}

// List returns the restorable entries across all trash directories, after
// the configured filters, plus per-entry warnings: malformed sidecars and
// orphans are reported individually, never fatal to the listing.
func (e *Engine) List() ([]*Entry, []error) {
	entries, bare, warns := e.listAll()

	var ok []*Entry
	for _, entry := range entries {
		if entry.Orphaned {
			warns = append(warns, &OrphanError{Dir: entry.Dir, Name: entry.Name, MissingFile: true})
			continue
		}
		ok = append(ok, entry)
	}
	for _, o := range bare {
		warns = append(warns, o)
	}

	return Filter(ok, e.cfg.Filters), warns
}

// listAll walks every trash directory and decodes every sidecar. It returns
// the decoded entries (orphaned sidecars included, flagged), the files
// lacking any sidecar, and the decode failures.
func (e *Engine) listAll() (entries []*Entry, bare []*OrphanError, warns []error) {
	for _, dir := range e.Trashes() {
		infos, err := os.ReadDir(dir.InfoDir())
		if err != nil {
			if !os.IsNotExist(err) {
				warns = append(warns, NewStorageError("list", dir.InfoDir(), err))
			}
			continue
		}

		withSidecar := make(map[string]bool, len(infos))

		for _, de := range infos {
			if !strings.HasSuffix(de.Name(), trashInfoExt) {
				continue
			}
			name := strings.TrimSuffix(de.Name(), trashInfoExt)
			withSidecar[name] = true

			info, err := loadTrashInfo(dir, name)
			if err != nil {
				warns = append(warns, NewStorageError("list", filepath.Join(dir.InfoDir(), de.Name()), err))
				continue
			}

			entry := &Entry{
				ID:           entryID(info.Path),
				Name:         name,
				OriginalPath: info.Path,
				DeletedAt:    info.DeletionDate,
				Dir:          dir,
			}

			if fi, err := os.Lstat(entry.TrashPath()); err == nil {
				entry.Size = fi.Size()
				entry.IsDir = fi.IsDir()
			} else {
				entry.Orphaned = true
			}

			entries = append(entries, entry)
		}

		// The other direction: content in files/ the sidecars know
		// nothing about.
		files, err := os.ReadDir(dir.FilesDir())
		if err != nil {
			continue
		}
		for _, de := range files {
			if !withSidecar[de.Name()] {
				bare = append(bare, &OrphanError{Dir: dir, Name: de.Name()})
			}
		}
	}
	return entries, bare, warns
}

// Resolve finds the single restorable entry matching sel (short id,
// original path or trash filename). When several entries match, the policy
// is explicit: matches for the same original path are resolved by directory
// priority order then recency; matches for different paths are ambiguous.
func (e *Engine) Resolve(sel string) (*Entry, error) {
	entries, _, _ := e.listAll()
	return resolve(sel, entries, false)
}

func resolve(sel string, entries []*Entry, includeOrphans bool) (*Entry, error) {
	var matches []*Entry
	for _, entry := range entries {
		if entry.Orphaned && !includeOrphans {
			continue
		}
		if entry.Matches(sel) {
			matches = append(matches, entry)
		}
	}

	switch len(matches) {
	case 0:
		return nil, NewStorageError("resolve", sel, ErrNotFound)
	case 1:
		return matches[0], nil
	}

	// listAll yields directories in priority order already; prefer the
	// newer snapshot within one directory.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Dir == matches[j].Dir {
			return matches[i].DeletedAt.After(matches[j].DeletedAt)
		}
		return false
	})

	for _, m := range matches[1:] {
		if m.OriginalPath != matches[0].OriginalPath {
			ids := make([]string, 0, len(matches))
			for _, mm := range matches {
				ids = append(ids, mm.ID)
			}
			return nil, NewStorageError("resolve", sel,
				fmt.Errorf("%w: %s", ErrAmbiguous, strings.Join(ids, ", ")))
		}
	}
	return matches[0], nil
}

// Restore moves the entry matching sel back to its original path and then
// deletes the sidecar; the file is back in place before its record goes
// away. The original parent directory is not recreated, and an existing
// file at the destination is never overwritten.
func (e *Engine) Restore(sel string) (*Entry, error) {
	entry, err := e.Resolve(sel)
	if err != nil {
		return nil, err
	}

	parent := filepath.Dir(entry.OriginalPath)
	if fi, err := os.Stat(parent); err != nil || !fi.IsDir() {
		return nil, NewStorageError("restore", entry.OriginalPath,
			fmt.Errorf("%w: %s", ErrDestinationMissing, parent))
	}

	if _, err := os.Lstat(entry.OriginalPath); err == nil {
		return nil, NewStorageError("restore", entry.OriginalPath, ErrCollision)
	}

	if err := fs.Move(entry.TrashPath(), entry.OriginalPath); err != nil {
		return nil, NewStorageError("restore", entry.OriginalPath, err)
	}

	// The file is restored; a failure past this point leaves an orphaned
	// sidecar, which listing surfaces and Remove can clean up.
	if err := removeInfo(entry.Dir, entry.Name); err != nil {
		return entry, NewStorageError("restore", entry.OriginalPath,
			fmt.Errorf("restored, but failed to remove sidecar: %w", err))
	}

	slog.Debug("restored", "path", entry.OriginalPath, "trash", entry.Dir.Root)
	return entry, nil
}

// Remove permanently deletes the entry matching sel: both halves when both
// exist, whichever half is present for an orphan. Orphans report success;
// the note travels on the returned entry.
func (e *Engine) Remove(sel string) (*Entry, error) {
	entries, bare, _ := e.listAll()

	entry, err := resolve(sel, entries, true)
	if err != nil {
		// A bare file can still be targeted by its trash filename.
		for _, o := range bare {
			if o.Name == sel {
				if rerr := os.RemoveAll(filepath.Join(o.Dir.FilesDir(), o.Name)); rerr != nil {
					return nil, NewStorageError("remove", sel, rerr)
				}
				return &Entry{Name: o.Name, Dir: o.Dir, Orphaned: true}, nil
			}
		}
		return nil, err
	}

	return entry, e.removeEntry(entry)
}

func (e *Engine) removeEntry(entry *Entry) error {
	if !entry.Orphaned {
		if err := os.RemoveAll(entry.TrashPath()); err != nil {
			return NewStorageError("remove", entry.OriginalPath, err)
		}
	}
	if err := removeInfo(entry.Dir, entry.Name); err != nil && !os.IsNotExist(err) {
		return NewStorageError("remove", entry.OriginalPath, err)
	}
	return nil
}

// Clear applies Remove semantics to every entry deleted before cutoff
// (zero cutoff means everything), best-effort: a failure on one entry is
// collected and the sweep continues. Bare files are only swept on a full
// clear, since nothing records their age.
func (e *Engine) Clear(cutoff time.Time, dryRun bool) ([]*Entry, []error) {
	entries, bare, warns := e.listAll()

	var removed []*Entry
	var errs []error
	errs = append(errs, warns...)

	for _, entry := range entries {
		if !cutoff.IsZero() && !entry.DeletedAt.Before(cutoff) {
			continue
		}
		if dryRun {
			removed = append(removed, entry)
			continue
		}
		if err := e.removeEntry(entry); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, entry)
	}

	if cutoff.IsZero() {
		for _, o := range bare {
			path := filepath.Join(o.Dir.FilesDir(), o.Name)
			if dryRun {
				removed = append(removed, &Entry{Name: o.Name, Dir: o.Dir, Orphaned: true})
				continue
			}
			if err := os.RemoveAll(path); err != nil {
				errs = append(errs, NewStorageError("clear", path, err))
				continue
			}
			removed = append(removed, &Entry{Name: o.Name, Dir: o.Dir, Orphaned: true})
		}
	}

	return removed, errs
}

// PruneOrphans removes sidecars whose files/ half is gone. Returns the
// paths of the removed sidecars.
func (e *Engine) PruneOrphans() ([]string, []error) {
	entries, _, warns := e.listAll()

	var removed []string
	var errs []error
	errs = append(errs, warns...)

	for _, entry := range entries {
		if !entry.Orphaned {
			continue
		}
		infoPath := filepath.Join(entry.Dir.InfoDir(), entry.Name+trashInfoExt)
		if err := removeInfo(entry.Dir, entry.Name); err != nil {
			errs = append(errs, NewStorageError("prune", infoPath, err))
			continue
		}
		slog.Info("removed orphaned sidecar", "path", infoPath)
		removed = append(removed, infoPath)
	}

	return removed, errs
}
