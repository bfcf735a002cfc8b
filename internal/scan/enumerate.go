package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dupescan/internal/services"
)

// EnumerateOptions controls which entries Enumerate returns.
type EnumerateOptions struct {
	// Ignore holds directory or file names and globs to skip. Globs are
	// matched against both the base name and the slash-separated path
	// relative to the root.
	Ignore []string
	// IncludeHidden keeps dot-prefixed files and directories.
	IncludeHidden bool
}

// Enumerate returns the absolute paths of regular files under root in
// lexical walk order. Symlinks and other non-regular files are skipped, as
// are unreadable subdirectories. A missing or unreadable root is an error.
func Enumerate(root string, opts EnumerateOptions) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "enumerate", "resolve root", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "enumerate", "stat root", absRoot, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrIO, "enumerate", "stat root", absRoot+" is not a directory", nil)
	}

	var paths []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == absRoot {
			return nil
		}

		name := d.Name()
		rel, _ := filepath.Rel(absRoot, path)
		skip := (!opts.IncludeHidden && strings.HasPrefix(name, ".")) ||
			matchesIgnore(name, filepath.ToSlash(rel), opts.Ignore)

		if d.IsDir() {
			if skip {
				return filepath.SkipDir
			}
			return nil
		}
		if skip || !d.Type().IsRegular() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "enumerate", "walk", absRoot, err)
	}
	return paths, nil
}

// matchesIgnore checks if a name or relative path matches any ignore pattern.
func matchesIgnore(name, relPath string, patterns []string) bool {
	for _, p := range patterns {
		if name == p || relPath == p || strings.HasPrefix(relPath, p+"/") {
			return true
		}
		if matched, _ := filepath.Match(p, relPath); matched {
			return true
		}
		if matched, _ := filepath.Match(p, name); matched {
			return true
		}
	}
	return false
}
