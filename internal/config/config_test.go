package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Parse(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not be an error: %v", err)
	}
	if !cfg.Core.Verbose {
		t.Error("default Verbose should be true")
	}
	if len(cfg.Filters.Exclude.Files) != 1 || cfg.Filters.Exclude.Files[0] != ".DS_Store" {
		t.Errorf("default excludes = %v", cfg.Filters.Exclude.Files)
	}
}

func TestParse(t *testing.T) {
	path := writeConfig(t, `
core:
  trash_dir: /tmp/mytrash
  home_fallback: true
  verbose: false
filters:
  within_days: 7
  exclude:
    files:
      - secret.txt
    patterns:
      - '^tmp'
    globs:
      - '*.bak'
    size:
      min: 1KB
      max: 10GB
`)

	cfg, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Core.TrashDir != "/tmp/mytrash" {
		t.Errorf("TrashDir = %q", cfg.Core.TrashDir)
	}
	if !cfg.Core.HomeFallback {
		t.Error("HomeFallback not parsed")
	}
	if cfg.Core.Verbose {
		t.Error("Verbose should be false")
	}
	if cfg.Filters.WithinDays != 7 {
		t.Errorf("WithinDays = %d", cfg.Filters.WithinDays)
	}
	if len(cfg.Filters.Exclude.Files) != 1 || cfg.Filters.Exclude.Files[0] != "secret.txt" {
		t.Errorf("Exclude.Files = %v", cfg.Filters.Exclude.Files)
	}
	if cfg.Filters.Exclude.Size.Min != "1KB" || cfg.Filters.Exclude.Size.Max != "10GB" {
		t.Errorf("Exclude.Size = %+v", cfg.Filters.Exclude.Size)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	path := writeConfig(t, "core: [not a mapping")

	if _, err := Parse(path); err == nil {
		t.Fatal("invalid YAML should fail")
	}
}

func TestParseInvalidSize(t *testing.T) {
	path := writeConfig(t, `
filters:
  exclude:
    size:
      min: banana
`)

	_, err := Parse(path)
	if err == nil {
		t.Fatal("invalid size should fail validation")
	}
	if !strings.Contains(err.Error(), "min") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestValidSizeValues(t *testing.T) {
	testCases := []struct {
		value string
		valid bool
	}{
		{"", true},
		{"100B", true},
		{"1KB", true},
		{"10MB", true},
		{"2GB", true},
		{"1TB", true},
		{"1PB", true},
		{"1kb", true}, // case-insensitive
		{"banana", false},
		{"10", false},
		{"KB", false},
		{"1.5GB", false},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			path := writeConfig(t, "filters:\n  exclude:\n    size:\n      max: '"+tc.value+"'\n")
			_, err := Parse(path)
			if tc.valid && err != nil {
				t.Errorf("%q should be valid: %v", tc.value, err)
			}
			if !tc.valid && err == nil {
				t.Errorf("%q should be rejected", tc.value)
			}
		})
	}
}
