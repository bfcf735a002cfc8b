package scan

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"dupescan/internal/services"
	"dupescan/internal/testsupport"
)

func TestEnumerate(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"b.txt",
		"a.txt",
		"sub/c.bin",
		".hidden",
		".cache/x.bin",
		"node_modules/pkg/index.js",
		"build/out.o",
		"keep/skip.tmp",
	} {
		testsupport.WriteText(t, filepath.Join(root, rel), rel)
	}
	if err := os.Symlink(filepath.Join(root, "a.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	got, err := Enumerate(root, EnumerateOptions{Ignore: []string{"node_modules", "build", "*.tmp"}})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	want := []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "b.txt"),
		filepath.Join(root, "sub", "c.bin"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Enumerate = %v, want %v", got, want)
	}

	withHidden, err := Enumerate(root, EnumerateOptions{IncludeHidden: true})
	if err != nil {
		t.Fatalf("Enumerate hidden: %v", err)
	}
	if len(withHidden) != 8 {
		t.Fatalf("expected 8 files with hidden entries and no ignores, got %d: %v", len(withHidden), withHidden)
	}
}

func TestEnumerateMissingRoot(t *testing.T) {
	_, err := Enumerate(filepath.Join(t.TempDir(), "nope"), EnumerateOptions{})
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestEnumerateRejectsFileRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.bin")
	testsupport.WriteFile(t, path, 1)
	if _, err := Enumerate(path, EnumerateOptions{}); !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO for file root, got %v", err)
	}
}

func TestMatchesIgnore(t *testing.T) {
	tests := []struct {
		name, rel string
		patterns  []string
		want      bool
	}{
		{"node_modules", "a/node_modules", []string{"node_modules"}, true},
		{"x.log", "logs/x.log", []string{"*.log"}, true},
		{"deep", "third_party/deep", []string{"third_party"}, true},
		{"third_party_extra", "third_party_extra", []string{"third_party"}, false},
		{"src", "src", []string{"*.log", "vendor"}, false},
	}
	for _, tt := range tests {
		if got := matchesIgnore(tt.name, tt.rel, tt.patterns); got != tt.want {
			t.Fatalf("matchesIgnore(%q, %q) = %v, want %v", tt.name, tt.rel, got, tt.want)
		}
	}
}
