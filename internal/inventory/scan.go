// Package inventory enumerates the files of a built site and prepares their
// publishable bodies.
package inventory

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// IsHidden reports whether any segment of the slash-separated path starts
// with a dot.
func IsHidden(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}

	return false
}

// Excluded reports whether p matches any of the doublestar patterns.
func Excluded(p string, patterns []string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, p) {
			return true
		}
	}

	return false
}

// ValidatePatterns returns an error for the first malformed pattern.
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %q", pattern)
		}
	}

	return nil
}

// Scan lists every regular file below root as a slash-separated relative
// path. Hidden files and directories are skipped entirely. Symlinks to files
// are reported; symlinked directories are not descended.
func Scan(fsys afero.Fs, root string, excludes []string) ([]string, error) {
	if err := ValidatePatterns(excludes); err != nil {
		return nil, err
	}

	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat site root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site root %s is not a directory", root)
	}

	var paths []string

	err = afero.Walk(fsys, root, func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, name)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if IsHidden(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			return nil
		}

		if info.Mode()&fs.ModeSymlink != 0 {
			target, err := fsys.Stat(name)
			if err != nil {
				return fmt.Errorf("failed to resolve symlink %s: %w", rel, err)
			}
			if target.IsDir() {
				log.Debug().
					Str("path", rel).
					Msg("Skipping symlinked directory")
				return nil
			}
		} else if !info.Mode().IsRegular() {
			return nil
		}

		if Excluded(rel, excludes) {
			log.Debug().
				Str("path", rel).
				Msg("Excluded by pattern")
			return nil
		}

		paths = append(paths, rel)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return paths, nil
}
