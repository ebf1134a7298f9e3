package app

import (
	"fmt"
	"os"
	"sync"

	"github.com/corey/treetags/internal/domain/tags"
	"github.com/corey/treetags/internal/ports"
)

// DefaultWorkers is the pool size when the caller does not override it.
const DefaultWorkers = 4

// FileError is a failure scoped to one input file. It is surfaced after the
// run; it never stops other workers.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }

type fileResult struct {
	batch []tags.Tag
	err   *FileError
}

// Dispatch fans the files out over a fixed pool of workers. Each worker owns
// one extraction session (its own parser); the shared profile tables behind
// the extractor are read-only, so no locking happens during parsing. The
// collection order across files is unspecified — the writer's sort imposes
// the final ordering.
func Dispatch(files []FileEntry, workers int, extractor ports.Extractor) (*tags.Store, []FileError) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	jobs := make(chan FileEntry)
	results := make(chan fileResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session := extractor.NewSession()
			defer session.Close()
			for entry := range jobs {
				results <- processFile(session, entry)
			}
		}()
	}

	go func() {
		for _, f := range files {
			// Unsupported files are skipped before they are ever read.
			if !extractor.Supported(f.Path) {
				continue
			}
			jobs <- f
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	store := &tags.Store{}
	var errs []FileError
	for r := range results {
		if r.err != nil {
			errs = append(errs, *r.err)
			continue
		}
		store.Add(r.batch)
	}
	return store, errs
}

// processFile runs one file's read → parse → query → normalize sequence to
// completion. Files without a matching profile yield nothing — skipped, not
// an error.
func processFile(session ports.Session, entry FileEntry) fileResult {
	source, err := os.ReadFile(entry.Path)
	if err != nil {
		return fileResult{err: &FileError{Path: entry.Path, Err: err}}
	}
	batch, ok, err := session.Extract(entry.Path, entry.Rel, source)
	if err != nil {
		return fileResult{err: &FileError{Path: entry.Path, Err: err}}
	}
	if !ok {
		return fileResult{}
	}
	return fileResult{batch: batch}
}
