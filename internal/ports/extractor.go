package ports

import "github.com/corey/treetags/internal/domain/tags"

// Extractor produces tags from source files. The concrete implementation
// (tree-sitter grammars plus tag queries) lives in internal/adapters/treesitter.
type Extractor interface {
	// NewSession returns a per-worker extraction session. Sessions hold
	// parser state and are not safe for concurrent use; each worker owns
	// exactly one. The profile tables behind them are shared read-only.
	NewSession() Session

	// Supported reports whether the path resolves to a language profile.
	// Unsupported files are skipped, not errors.
	Supported(path string) bool
}

// Session parses files and yields normalized tags.
type Session interface {
	// Extract parses source and returns the tags for it. file is the path
	// as it should appear in the tag file (relative to the tag file's
	// directory); path is the on-disk location, used for profile
	// resolution. ok is false when no profile claims the file.
	Extract(path, file string, source []byte) (result []tags.Tag, ok bool, err error)

	// Close releases parser resources.
	Close()
}
