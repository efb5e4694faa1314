// Package fsutil provides file system utility functions.
package fsutil

import (
	"os"
	"path/filepath"
)

// Exists reports whether path refers to an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EffectivePath resolves path against baseDir. Absolute paths are used as-is;
// relative paths are joined to baseDir, or to the process working directory
// when baseDir is empty. The result is weakly canonicalized, so the target
// itself is not required to exist.
func EffectivePath(path, baseDir string) string {
	if !filepath.IsAbs(path) {
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		path = filepath.Join(baseDir, path)
	}
	return WeakCanonical(path)
}

// WeakCanonical resolves symlinks for the longest existing prefix of path and
// cleans the remaining suffix lexically. Unlike filepath.EvalSymlinks it does
// not require the full path to exist.
func WeakCanonical(path string) string {
	path = filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	dir, base := filepath.Split(path)
	dir = filepath.Clean(dir)
	if dir == path || base == "" {
		// Nothing left to split off; keep the lexical form.
		return path
	}
	return filepath.Join(WeakCanonical(dir), base)
}
