package trash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// Width of the disambiguating suffix appended on collision
	nameSuffixLen = 6

	// Allocation gives up after this many attempts. In practice a
	// collision beyond the first attempt means the directory already
	// holds a pathological number of same-named entries.
	maxNameAttempts = 32
)

// allocateName picks a filename for a new entry inside dir, unused by both
// files/ and info/. It starts from the original basename and, on collision,
// appends a fixed-width hash-derived suffix before the extension so a
// manually recovered file keeps a meaningful name. The result is an opaque
// key afterwards; the original name always comes from the sidecar.
func allocateName(dir *TrashDir, base string) (string, error) {
	name := base
	for attempt := 1; attempt <= maxNameAttempts; attempt++ {
		if !nameTaken(dir, name) {
			return name, nil
		}
		name = suffixedName(base, attempt)
	}
	return "", fmt.Errorf("%w: %s in %s after %d attempts", ErrResourceExhausted, base, dir.Root, maxNameAttempts)
}

// nameTaken reports whether either half of an entry named name exists.
// A name is taken when *either* half exists; pairing with a half-used name
// would create an orphan.
func nameTaken(dir *TrashDir, name string) bool {
	if _, err := os.Lstat(filepath.Join(dir.FilesDir(), name)); err == nil {
		return true
	}
	if _, err := os.Lstat(filepath.Join(dir.InfoDir(), name+trashInfoExt)); err == nil {
		return true
	}
	return false
}

// suffixedName derives "stem-ab12cd.ext" from base, with the suffix taken
// from a hash over the base name and the attempt number. Deterministic, so
// repeated runs probe the same sequence.
func suffixedName(base string, attempt int) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		// dotfiles like ".bashrc" have no stem to speak of
		stem = base
		ext = ""
	}

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s#%d", base, attempt)))
	suffix := hex.EncodeToString(sum[:])[:nameSuffixLen]

	return stem + "-" + suffix + ext
}
