// Package scanner discovers the YAML files a lint run covers.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conneroisu/playlint/internal/errors"
)

// DefaultExtensions are the file extensions collected when walking directories.
var DefaultExtensions = []string{".yml", ".yaml"}

// Options controls discovery.
type Options struct {
	// Exclude holds glob patterns or path prefixes to leave out.
	Exclude []string
	// Extensions overrides DefaultExtensions when non-empty.
	Extensions []string
}

// Discover expands paths into a sorted, de-duplicated list of files.
//
// Files named explicitly are kept whatever their extension, unless excluded.
// Directories are walked recursively, skipping hidden directories.
func Discover(paths []string, opts Options) ([]string, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound, "cannot access path", err).
				WithLocation(root, 0, 0)
		}

		if !info.IsDir() {
			if !excluded(root, opts.Exclude) {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && (isHidden(d.Name()) || excluded(path, opts.Exclude)) {
					return filepath.SkipDir
				}
				return nil
			}

			if hasExtension(path, exts) && !excluded(path, opts.Exclude) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.NewIOError(errors.ErrCodeReadFailed, "failed to walk directory", err).
				WithLocation(root, 0, 0)
		}
	}

	sort.Strings(files)
	return files, nil
}

// IsLintable reports whether path has one of the lintable extensions and is
// not excluded.
func IsLintable(path string, opts Options) bool {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return hasExtension(path, exts) && !excluded(path, opts.Exclude)
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

// excluded matches path against each pattern as a glob on the full path, as a
// glob on the base name, and as a directory prefix.
func excluded(path string, patterns []string) bool {
	clean := filepath.Clean(path)
	base := filepath.Base(clean)

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		p := filepath.Clean(pattern)

		if ok, _ := filepath.Match(p, clean); ok {
			return true
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
		if clean == p || strings.HasPrefix(clean, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
