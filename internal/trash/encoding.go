package trash

import (
	"fmt"
	"strings"
)

// Paths on unix do not have to be valid UTF-8, so the trashinfo Path value
// carries a percent-encoded form of the raw bytes. Go strings are arbitrary
// byte sequences, which lets the raw path travel through the engine
// untouched; only this encoded form is guaranteed printable text.

const upperhex = "0123456789ABCDEF"

// encodePath percent-encodes the raw bytes of an absolute or relative path
// for a trashinfo Path value. Every byte outside the unreserved set
// (A-Za-z0-9 - . _ ~) is escaped; the path separator stays literal so the
// value remains readable.
func encodePath(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		c := path[i]
		if isUnreserved(c) || c == '/' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

// decodePath is the exact inverse of encodePath. An invalid escape sequence
// fails with ErrMalformedEntry rather than being substituted, since a wrong
// byte here would restore a file to the wrong place.
func decodePath(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("%w: truncated escape at offset %d in %q", ErrMalformedEntry, i, s)
		}
		hi, ok1 := unhex(s[i+1])
		lo, ok2 := unhex(s[i+2])
		if !ok1 || !ok2 {
			return "", fmt.Errorf("%w: invalid escape %q at offset %d", ErrMalformedEntry, s[i:i+3], i)
		}
		b.WriteByte(hi<<4 | lo)
		i += 2
	}
	return b.String(), nil
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
