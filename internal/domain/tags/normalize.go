package tags

import (
	"strconv"
	"strings"
)

// Capture is one tag-query capture, already flattened into plain data by the
// parsing adapter. Captures arrive in pre-order (a definition before the
// captures of anything nested inside it); Normalize depends on that ordering
// to build scope chains.
type Capture struct {
	// Name is the dot-separated capture name, e.g. "definition.class" or
	// "definition.class.field". Reference captures ("reference.*") are
	// carried through but never become tags.
	Name string

	// Ident is the identifier text of the paired @name capture.
	Ident string

	// StartByte/EndByte span the whole definition node, not just the
	// identifier. Scope containment is decided on these.
	StartByte uint
	EndByte   uint

	// Row is the 0-based start line of the definition node; EndRow its end.
	Row    uint
	EndRow uint

	// SourceLine is the text of line Row with any trailing \r removed. It
	// becomes the search-pattern address.
	SourceLine string

	// Signature and Access are sibling-derived candidates; empty when the
	// grammar exposes no such node. Whether they are emitted is decided by
	// the profile's field rules.
	Signature string
	Access    string
}

// FieldRule selects one extension-field extraction behavior. Profiles carry
// the closed set of rules that apply to their language.
type FieldRule uint8

const (
	// FieldLine emits line:<n>, the 1-based line of the definition.
	FieldLine FieldRule = iota
	// FieldSignature emits signature:<params> when the grammar exposes a
	// parameter list for the definition.
	FieldSignature
	// FieldAccess emits access:<modifier> when an access modifier is present.
	FieldAccess
	// FieldEnd emits end:<n>, the 1-based last line of the definition.
	FieldEnd
)

// fieldKeys maps rules to their emitted keys, in canonical emission order.
var fieldKeys = map[FieldRule]string{
	FieldLine:      "line",
	FieldSignature: "signature",
	FieldAccess:    "access",
	FieldEnd:       "end",
}

// Profile carries the language-specific normalization tables. Built once at
// registry-load time and shared read-only across workers.
type Profile struct {
	// Kinds maps capture names to single-character kind codes. Unmapped
	// definition captures are dropped.
	Kinds map[string]string

	// ScopeNames maps kind codes to the long names used as scope field
	// keys (e.g. "c" -> "class"). Codes without an entry fall back to the
	// code itself.
	ScopeNames map[string]string

	// Fields lists the extension-field rules enabled for this language,
	// in emission order.
	Fields []FieldRule

	// EnabledKinds restricts emitted kinds when non-nil. Definitions with
	// disabled kinds still open scopes for their members.
	EnabledKinds map[string]bool

	// LineNumbers switches addresses from search patterns to 1-based line
	// numbers.
	LineNumbers bool
}

// KindEnabled reports whether tags of the given kind code are emitted.
func (p *Profile) KindEnabled(code string) bool {
	if p.EnabledKinds == nil {
		return true
	}
	return p.EnabledKinds[code]
}

// scopeEntry is one open definition on the containment stack.
type scopeEntry struct {
	endByte uint
	code    string
	name    string
}

// Normalize turns an ordered capture sequence into tags for one file.
//
// Only definition captures produce tags. The enclosing scope of each tag is
// the innermost earlier definition whose node range still contains the
// capture's start byte, tracked with an explicit stack rather than a tree
// walk — the pre-order contract on captures makes that sufficient.
func Normalize(captures []Capture, profile *Profile, file string) []Tag {
	var out []Tag
	var stack []scopeEntry

	for _, c := range captures {
		// Close every definition that ended before this capture starts.
		for len(stack) > 0 && c.StartByte >= stack[len(stack)-1].endByte {
			stack = stack[:len(stack)-1]
		}

		if !strings.HasPrefix(c.Name, "definition.") {
			continue
		}
		code, ok := profile.Kinds[c.Name]
		if !ok || c.Ident == "" {
			continue
		}

		if profile.KindEnabled(code) {
			tag := Tag{
				Name:    c.Ident,
				File:    file,
				Address: address(&c, profile),
				Kind:    code,
			}
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				tag.ScopeKind = scopeName(profile, top.code)
				tag.ScopeName = top.name
			}
			tag.Fields = extensionFields(&c, profile)
			out = append(out, tag)
		}

		stack = append(stack, scopeEntry{endByte: c.EndByte, code: code, name: c.Ident})
	}

	return out
}

func address(c *Capture, profile *Profile) string {
	if profile.LineNumbers {
		return strconv.FormatUint(uint64(c.Row)+1, 10)
	}
	return PatternAddress(c.SourceLine)
}

func scopeName(profile *Profile, code string) string {
	if long, ok := profile.ScopeNames[code]; ok {
		return long
	}
	return code
}

func extensionFields(c *Capture, profile *Profile) []Field {
	var fields []Field
	for _, rule := range profile.Fields {
		switch rule {
		case FieldLine:
			fields = append(fields, Field{Key: "line", Value: strconv.FormatUint(uint64(c.Row)+1, 10)})
		case FieldSignature:
			if c.Signature != "" {
				fields = append(fields, Field{Key: "signature", Value: c.Signature})
			}
		case FieldAccess:
			if c.Access != "" {
				fields = append(fields, Field{Key: "access", Value: c.Access})
			}
		case FieldEnd:
			fields = append(fields, Field{Key: "end", Value: strconv.FormatUint(uint64(c.EndRow)+1, 10)})
		}
	}
	return fields
}
