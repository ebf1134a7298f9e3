package treesitter

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/treetags/internal/domain/tags"
)

// UserLanguage is one user-registered language profile, as declared in the
// languages configuration file. Library may be empty, in which case the
// grammar's shared library is searched by name in the grammar paths.
type UserLanguage struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
	Library    string   `json:"library,omitempty"`
	Query      string   `json:"query"`

	// Kinds optionally maps capture names to kind codes. Captures absent
	// from the map fall back to the derived code (first letter of the
	// capture's last segment).
	Kinds map[string]string `json:"kinds,omitempty"`
}

// LoadUserLanguages reads a JSON array of language registrations.
func LoadUserLanguages(path string) ([]UserLanguage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var langs []UserLanguage
	if err := json.Unmarshal(data, &langs); err != nil {
		return nil, fmt.Errorf("parse languages file %s: %w", path, err)
	}
	for i := range langs {
		if langs[i].Name == "" {
			return nil, fmt.Errorf("languages file %s: entry %d has no name", path, i)
		}
	}
	return langs, nil
}

// buildUserProfile loads a user grammar and compiles its tag query. Any
// failure is a profile-level error: the registry reports it and keeps
// serving the other profiles.
func (r *Registry) buildUserProfile(u UserLanguage, cfg Config, fields map[string]bool) (*LanguageProfile, error) {
	if len(u.Extensions) == 0 {
		return nil, fmt.Errorf("no extensions declared")
	}

	var language *tree_sitter.Language
	var err error
	if u.Library != "" {
		language, err = r.loader.LoadLibrary(u.Name, u.Library)
	} else {
		language, err = r.loader.LoadGrammar(u.Name)
	}
	if err != nil {
		return nil, err
	}

	querySrc, err := os.ReadFile(u.Query)
	if err != nil {
		return nil, fmt.Errorf("read tag query: %w", err)
	}
	query, qerr := tree_sitter.NewQuery(language, string(querySrc))
	if qerr != nil {
		return nil, fmt.Errorf("compile tag query: %w", qerr)
	}

	kinds, scopeNames, defaults, aliases := userKindTables(u, string(querySrc))
	spec := &tags.Profile{
		Kinds:        kinds,
		ScopeNames:   scopeNames,
		Fields:       tags.FilterFieldRules(fieldsCommon, fields),
		EnabledKinds: tags.ParseKindSpec(cfg.Kinds[u.Name], defaults, aliases),
		LineNumbers:  cfg.LineNumbers,
	}

	exts := make([]string, 0, len(u.Extensions))
	for _, ext := range u.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, strings.ToLower(ext))
	}

	return &LanguageProfile{
		Name:        u.Name,
		Extensions:  exts,
		Language:    language,
		Query:       query,
		Spec:        spec,
		UserDefined: true,
	}, nil
}

// userKindTables assembles the kind tables for a user profile: explicit
// mappings from the registration, derived codes for every other
// definition capture found in the query source.
func userKindTables(u UserLanguage, querySrc string) (kinds, scopeNames map[string]string, defaults []string, aliases map[string]string) {
	kinds = make(map[string]string)
	scopeNames = make(map[string]string)
	aliases = make(map[string]string)

	for _, capture := range definitionCaptures(querySrc) {
		code, long := deriveKind(capture)
		if explicit, ok := u.Kinds[capture]; ok {
			code = explicit
		}
		if code == "" {
			continue
		}
		kinds[capture] = code
		scopeNames[code] = long
		aliases[long] = code
	}
	seen := make(map[string]bool)
	for _, code := range kinds {
		if !seen[code] {
			seen[code] = true
			defaults = append(defaults, code)
		}
	}
	return kinds, scopeNames, defaults, aliases
}

// definitionCaptures scans query source for @definition.* capture names.
func definitionCaptures(src string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, field := range strings.Fields(src) {
		if !strings.HasPrefix(field, "@definition.") {
			continue
		}
		name := strings.TrimPrefix(field, "@")
		name = strings.TrimRight(name, ")")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
