package trash

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testTrashDir(t *testing.T, home bool) *TrashDir {
	t.Helper()
	topdir := t.TempDir()
	dir := &TrashDir{
		Root:   filepath.Join(topdir, "Trash"),
		Topdir: topdir,
		Home:   home,
	}
	if err := dir.ensure(); err != nil {
		t.Fatalf("failed to create trash dir: %v", err)
	}
	return dir
}

func TestParseTrashInfo(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantPath string
		wantErr  bool
	}{
		{
			name:     "valid",
			content:  "[Trash Info]\nPath=/home/user/a.txt\nDeletionDate=2024-01-22T10:30:00\n",
			wantPath: "/home/user/a.txt",
		},
		{
			name:     "encoded path",
			content:  "[Trash Info]\nPath=/home/user/my%20file\nDeletionDate=2024-01-22T10:30:00\n",
			wantPath: "/home/user/my file",
		},
		{
			name:     "first occurrence wins",
			content:  "[Trash Info]\nPath=/first\nPath=/second\nDeletionDate=2024-01-22T10:30:00\n",
			wantPath: "/first",
		},
		{
			name:     "unknown keys ignored",
			content:  "[Trash Info]\nSomeKey=whatever\nPath=/a\nDeletionDate=2024-01-22T10:30:00\n",
			wantPath: "/a",
		},
		{
			name:    "missing header",
			content: "Path=/home/user/a.txt\nDeletionDate=2024-01-22T10:30:00\n",
			wantErr: true,
		},
		{
			name:    "missing path",
			content: "[Trash Info]\nDeletionDate=2024-01-22T10:30:00\n",
			wantErr: true,
		},
		{
			name:    "missing date",
			content: "[Trash Info]\nPath=/home/user/a.txt\n",
			wantErr: true,
		},
		{
			name:    "bad date",
			content: "[Trash Info]\nPath=/a\nDeletionDate=yesterday\n",
			wantErr: true,
		},
		{
			name:    "bad escape",
			content: "[Trash Info]\nPath=/a%zz\nDeletionDate=2024-01-22T10:30:00\n",
			wantErr: true,
		},
		{
			name:    "empty",
			content: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := parseTrashInfo(strings.NewReader(tt.content))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if !errors.Is(err, ErrMalformedEntry) {
					t.Errorf("error = %v, want ErrMalformedEntry", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", info.Path, tt.wantPath)
			}
		})
	}
}

func TestTrashInfoSaveLoad(t *testing.T) {
	dir := testTrashDir(t, true)

	deletedAt := time.Date(2024, 1, 22, 10, 30, 0, 0, time.Local)
	info := &trashInfo{Path: "/home/user/my file.txt", DeletionDate: deletedAt}

	if err := info.save(dir, "my file.txt"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := loadTrashInfo(dir, "my file.txt")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Path != info.Path {
		t.Errorf("Path = %q, want %q", loaded.Path, info.Path)
	}
	if !loaded.DeletionDate.Equal(deletedAt) {
		t.Errorf("DeletionDate = %v, want %v", loaded.DeletionDate, deletedAt)
	}
}

func TestTrashInfoSaveRelativeInTopLevelTrash(t *testing.T) {
	dir := testTrashDir(t, false)

	original := filepath.Join(dir.Topdir, "docs", "report.txt")
	info := &trashInfo{Path: original, DeletionDate: time.Now().Truncate(time.Second)}

	if err := info.save(dir, "report.txt"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// The stored path must be relative to the topdir so the entry
	// survives the device being remounted elsewhere.
	raw, err := os.ReadFile(filepath.Join(dir.InfoDir(), "report.txt.trashinfo"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "Path=docs/report.txt\n") {
		t.Errorf("sidecar does not hold a topdir-relative path:\n%s", raw)
	}

	// Loading resolves it back to an absolute path.
	loaded, err := loadTrashInfo(dir, "report.txt")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Path != original {
		t.Errorf("Path = %q, want %q", loaded.Path, original)
	}
}

func TestTrashInfoSaveRefusesOverwrite(t *testing.T) {
	dir := testTrashDir(t, true)

	info := &trashInfo{Path: "/a", DeletionDate: time.Now()}
	if err := info.save(dir, "a"); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := info.save(dir, "a"); err == nil {
		t.Fatal("second save should have failed, sidecars must never be overwritten")
	}
}
