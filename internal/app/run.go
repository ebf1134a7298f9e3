package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/corey/treetags/internal/domain/tags"
	"github.com/corey/treetags/internal/ports"
)

// ErrAppendTarget marks an append run whose existing tag file could not be
// read back. No parsing has happened by the time this is returned.
var ErrAppendTarget = errors.New("append target unreadable")

// Config holds one run's resolved options.
type Config struct {
	// TagFile is the output destination, "-" for stdout. Relative file
	// paths inside the tag file are computed against its directory.
	TagFile string

	// Append merges fresh tags into the existing tag file instead of
	// replacing it wholesale.
	Append bool

	// Sort selects byte-wise (name, file) output ordering.
	Sort bool

	// Workers sizes the extraction pool; <=0 means DefaultWorkers.
	Workers int

	// Excludes are doublestar globs removing files from discovery.
	Excludes []string

	// Paths are the files and directories to scan. Empty scans the tag
	// file's directory.
	Paths []string
}

// Report summarizes a completed run for the CLI layer.
type Report struct {
	Files      int
	Tags       int
	FileErrors []FileError
	Warnings   []error
}

// Run executes a full tag-generation pass: resolve the output location,
// read back the existing file when appending, discover inputs, extract in
// parallel, merge, and write. Per-file failures land in the report; only
// run-level failures return an error.
func Run(cfg Config, extractor ports.Extractor) (*Report, error) {
	dest := cfg.TagFile
	if dest == "" {
		dest = "tags"
	}

	root := "."
	if dest != "-" {
		abs, err := filepath.Abs(dest)
		if err != nil {
			return nil, fmt.Errorf("resolve tag file path: %w", err)
		}
		dest = abs
		root = filepath.Dir(abs)
	} else if cwd, err := os.Getwd(); err == nil {
		root = cwd
	}

	// Append mode validates its target up front. A missing or headerless
	// file fails the run before any source file is touched.
	var existing *tags.TagFile
	if cfg.Append {
		if dest == "-" {
			return nil, fmt.Errorf("%w: cannot append to stdout", ErrAppendTarget)
		}
		tf, err := tags.ReadFile(dest)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAppendTarget, err)
		}
		existing = tf
	}

	files, warns := Discover(cfg.Paths, root, cfg.Excludes)
	if dest != "-" {
		// The output file is never an input, even when it sits in the tree.
		kept := files[:0]
		for _, f := range files {
			if f.Path != dest {
				kept = append(kept, f)
			}
		}
		files = kept
	}
	report := &Report{Files: len(files), Warnings: warns}

	store, fileErrs := Dispatch(files, cfg.Workers, extractor)
	report.FileErrors = fileErrs

	fresh := store.Tags()
	out := fresh
	if existing != nil {
		// Only files whose extraction actually succeeded count as
		// regenerated. Unsupported files were never parsed and errored
		// files produced nothing, so their old tags stay in place.
		failed := make(map[string]bool, len(fileErrs))
		for _, fe := range fileErrs {
			failed[fe.Path] = true
		}
		var regenerated []string
		for _, f := range files {
			if extractor.Supported(f.Path) && !failed[f.Path] {
				regenerated = append(regenerated, f.Rel)
			}
		}
		out = tags.MergeAppend(existing, regenerated, fresh)
	}
	report.Tags = len(out)

	w := &tags.Writer{Sorted: cfg.Sort, Program: "treetags", Version: Version}
	if err := w.Write(dest, out); err != nil {
		return report, err
	}
	return report, nil
}
