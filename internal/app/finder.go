// Package app orchestrates a tag-generation run: discovering candidate
// files, fanning them out over a fixed worker pool, merging against an
// existing tag file in append mode, and writing the result.
package app

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileEntry pairs a file's on-disk path with the path it gets inside the
// tag file (relative to the tag file's directory).
type FileEntry struct {
	Path string
	Rel  string
}

// skipDirs lists directories never descended into during discovery.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
	".idea":        true,
	".vscode":      true,
	".treetags":    true,
}

// Discover expands the given paths (files taken as-is, directories walked
// recursively) into the candidate file list, applying exclude globs. With no
// paths, root itself is walked. Results are ordered by their tag-file path;
// unreadable entries become warnings, not failures.
func Discover(paths []string, root string, excludes []string) ([]FileEntry, []error) {
	var entries []FileEntry
	var warns []error

	if len(paths) == 0 {
		paths = []string{root}
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			warns = append(warns, err)
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			warns = append(warns, err)
			continue
		}
		if !info.IsDir() {
			if entry, ok := makeEntry(abs, root, excludes); ok {
				entries = append(entries, entry)
			}
			continue
		}
		walkErr := filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				warns = append(warns, err)
				return nil
			}
			if d.IsDir() {
				if skipDirs[d.Name()] || excluded(path, root, excludes) {
					return filepath.SkipDir
				}
				return nil
			}
			if entry, ok := makeEntry(path, root, excludes); ok {
				entries = append(entries, entry)
			}
			return nil
		})
		if walkErr != nil {
			warns = append(warns, walkErr)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Rel < entries[j].Rel })
	return entries, warns
}

func makeEntry(path, root string, excludes []string) (FileEntry, bool) {
	if excluded(path, root, excludes) {
		return FileEntry{}, false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = path
	}
	return FileEntry{Path: path, Rel: filepath.ToSlash(rel)}, true
}

// excluded matches a path against the exclude globs, trying both the
// tag-file-relative path and the bare name so that patterns like "*.min.js"
// and "testdata/**" both behave as expected.
func excluded(path, root string, excludes []string) bool {
	if len(excludes) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	for _, pattern := range excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
