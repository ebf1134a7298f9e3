// Package treesitter implements language profile resolution and tag
// extraction on top of tree-sitter grammars. Built-in grammars are
// compiled in via cgo bindings; additional grammars load at runtime from
// shared libraries via purego. Each language pairs its grammar with an
// embedded declarative tag query (queries/*.scm) whose captures drive
// normalization.
package treesitter

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/treetags/internal/domain/tags"
	"github.com/corey/treetags/internal/ports"
)

//go:embed queries/*.scm
var queryFS embed.FS

// LanguageProfile binds a grammar, its compiled tag query, and the
// normalization tables for one language. Immutable after registry
// construction; shared read-only across all workers.
type LanguageProfile struct {
	Name        string
	Extensions  []string
	Language    *tree_sitter.Language
	Query       *tree_sitter.Query
	Spec        *tags.Profile
	UserDefined bool
}

// Config carries the resolved per-run settings the registry needs. The CLI
// layer populates it; the registry performs no flag parsing.
type Config struct {
	// Kinds maps language name to a kind spec ("fsc", "+m-c", ...).
	Kinds map[string]string

	// Fields is the global extension-field spec ("+e", "line,signature", ...).
	Fields string

	// LineNumbers switches tag addresses from search patterns to line numbers.
	LineNumbers bool

	// UserLanguages lists user-registered grammar/query profiles.
	UserLanguages []UserLanguage

	// GrammarPaths are directories searched for user grammar shared
	// libraries when a registration names no explicit library path.
	GrammarPaths []string
}

// ProfileError is a profile-scoped load failure. The profile is excluded for
// the run; other profiles are unaffected.
type ProfileError struct {
	Language string
	Err      error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("language %s: %v", e.Language, e.Err)
}

func (e *ProfileError) Unwrap() error { return e.Err }

// Registry resolves files to language profiles. Built once before the
// parallel phase; never mutated afterward, which is what makes lock-free
// sharing across workers safe.
type Registry struct {
	profiles []*LanguageProfile
	byExt    map[string]*LanguageProfile
	errs     []*ProfileError
	loader   *DynamicLoader
}

// NewRegistry builds all profiles: built-ins first, then user registrations,
// which win any extension they share with a built-in. Load failures are
// recorded per profile, never fatal.
func NewRegistry(cfg Config) *Registry {
	r := &Registry{
		byExt:  make(map[string]*LanguageProfile),
		loader: NewDynamicLoader(cfg.GrammarPaths),
	}
	fields := tags.ParseFieldSpec(cfg.Fields)

	for _, b := range builtinLanguages() {
		profile, err := buildBuiltinProfile(b, cfg, fields)
		if err != nil {
			r.errs = append(r.errs, &ProfileError{Language: b.name, Err: err})
			continue
		}
		r.add(profile)
	}

	for _, u := range cfg.UserLanguages {
		profile, err := r.buildUserProfile(u, cfg, fields)
		if err != nil {
			r.errs = append(r.errs, &ProfileError{Language: u.Name, Err: err})
			continue
		}
		r.add(profile)
	}

	return r
}

// add maps a profile's extensions. User profiles overwrite existing claims;
// built-ins never displace one another (first registration wins).
func (r *Registry) add(p *LanguageProfile) {
	r.profiles = append(r.profiles, p)
	for _, ext := range p.Extensions {
		if _, taken := r.byExt[ext]; taken && !p.UserDefined {
			continue
		}
		r.byExt[ext] = p
	}
}

// Resolve maps a file path to its language profile, or nil when no profile
// claims the extension. A nil result means "skip the file", not an error.
func (r *Registry) Resolve(path string) *LanguageProfile {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil
	}
	return r.byExt[ext]
}

// Supported implements ports.Extractor.
func (r *Registry) Supported(path string) bool {
	return r.Resolve(path) != nil
}

// NewSession implements ports.Extractor. Each session owns its own parser;
// the registry's profiles are shared read-only.
func (r *Registry) NewSession() ports.Session {
	return &session{registry: r, engine: NewEngine()}
}

// Profiles returns every successfully loaded profile in registration order.
func (r *Registry) Profiles() []*LanguageProfile {
	return r.profiles
}

// Errors returns the profile-level load failures collected during construction.
func (r *Registry) Errors() []*ProfileError {
	return r.errs
}

// buildBuiltinProfile compiles one built-in language's query and assembles
// its normalization spec, applying the run's kind and field filters.
func buildBuiltinProfile(b builtin, cfg Config, fields map[string]bool) (*LanguageProfile, error) {
	src, err := queryFS.ReadFile("queries/" + b.queryFile)
	if err != nil {
		return nil, fmt.Errorf("read tag query: %w", err)
	}
	query, qerr := tree_sitter.NewQuery(b.language, string(src))
	if qerr != nil {
		return nil, fmt.Errorf("compile tag query: %w", qerr)
	}

	spec := &tags.Profile{
		Kinds:        b.kinds,
		ScopeNames:   b.scopeNames,
		Fields:       tags.FilterFieldRules(b.fields, fields),
		EnabledKinds: tags.ParseKindSpec(cfg.Kinds[b.name], b.defaultKinds, b.kindAliases),
		LineNumbers:  cfg.LineNumbers,
	}
	return &LanguageProfile{
		Name:       b.name,
		Extensions: b.extensions,
		Language:   b.language,
		Query:      query,
		Spec:       spec,
	}, nil
}

// deriveKind derives a kind code and scope name from a definition capture
// name when no explicit table is given: the last dotted segment names the
// kind, its first letter is the code. "definition.class.field" -> ("f",
// "field").
func deriveKind(capture string) (code, long string) {
	seg := capture
	if i := strings.LastIndexByte(capture, '.'); i >= 0 {
		seg = capture[i+1:]
	}
	if seg == "" {
		return "", ""
	}
	return seg[:1], seg
}

type session struct {
	registry *Registry
	engine   *Engine
}

func (s *session) Extract(path, file string, source []byte) ([]tags.Tag, bool, error) {
	profile := s.registry.Resolve(path)
	if profile == nil {
		return nil, false, nil
	}
	captures, err := s.engine.ParseAndQuery(source, profile)
	if err != nil {
		return nil, true, err
	}
	return tags.Normalize(captures, profile.Spec, file), true, nil
}

func (s *session) Close() {
	s.engine.Close()
}
