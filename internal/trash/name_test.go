package trash

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestAllocateName(t *testing.T) {
	dir := testTrashDir(t, true)

	name, err := allocateName(dir, "report.txt")
	if err != nil {
		t.Fatalf("allocateName failed: %v", err)
	}
	if name != "report.txt" {
		t.Errorf("first allocation = %q, want the plain basename", name)
	}
}

func TestAllocateNameCollision(t *testing.T) {
	dir := testTrashDir(t, true)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		name, err := allocateName(dir, "report.txt")
		if err != nil {
			t.Fatalf("allocation %d failed: %v", i, err)
		}
		if seen[name] {
			t.Fatalf("allocation %d returned duplicate name %q", i, name)
		}
		seen[name] = true

		// Simulate the entry being created: both halves taken.
		touch(t, filepath.Join(dir.FilesDir(), name))
		touch(t, filepath.Join(dir.InfoDir(), name+trashInfoExt))

		if i > 0 {
			if !strings.HasSuffix(name, ".txt") {
				t.Errorf("allocation %d = %q, extension not preserved", i, name)
			}
			if !strings.HasPrefix(name, "report-") {
				t.Errorf("allocation %d = %q, want a suffixed form of the stem", i, name)
			}
		}
	}
}

func TestAllocateNameHalfTaken(t *testing.T) {
	dir := testTrashDir(t, true)

	// A name with only the sidecar half present is still taken; pairing
	// with it would create an orphan.
	touch(t, filepath.Join(dir.InfoDir(), "a.trashinfo"))

	name, err := allocateName(dir, "a")
	if err != nil {
		t.Fatalf("allocateName failed: %v", err)
	}
	if name == "a" {
		t.Error("allocateName reused a name whose sidecar half exists")
	}
}

func TestAllocateNameExhaustion(t *testing.T) {
	dir := testTrashDir(t, true)

	touch(t, filepath.Join(dir.FilesDir(), "a"))
	for attempt := 1; attempt <= maxNameAttempts; attempt++ {
		touch(t, filepath.Join(dir.FilesDir(), suffixedName("a", attempt)))
	}

	_, err := allocateName(dir, "a")
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if !errors.Is(err, ErrResourceExhausted) {
		t.Errorf("error = %v, want ErrResourceExhausted", err)
	}
}

func TestSuffixedName(t *testing.T) {
	tests := []struct {
		base    string
		attempt int
	}{
		{"report.txt", 1},
		{"archive.tar.gz", 2},
		{".bashrc", 1},
		{"noext", 3},
	}

	for _, tt := range tests {
		got := suffixedName(tt.base, tt.attempt)
		if got == tt.base {
			t.Errorf("suffixedName(%q, %d) did not change the name", tt.base, tt.attempt)
		}
		// Deterministic: same inputs, same name.
		if again := suffixedName(tt.base, tt.attempt); again != got {
			t.Errorf("suffixedName(%q, %d) not deterministic: %q vs %q", tt.base, tt.attempt, got, again)
		}
	}

	if got := suffixedName("report.txt", 1); !strings.HasPrefix(got, "report-") || !strings.HasSuffix(got, ".txt") {
		t.Errorf("suffixedName(report.txt, 1) = %q, want report-<suffix>.txt", got)
	}
}
