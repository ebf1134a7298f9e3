// Package tags defines the vi-compatible tag record and the pipeline stages
// that operate on it: normalizing query captures into tags, reading an
// existing tag file back, merging for append mode, and writing the sorted
// output. Nothing in this package touches tree-sitter; captures arrive as
// plain data from the parsing adapter.
package tags

import (
	"strings"
)

// Tag is one navigable entry in a tag file.
//
// Name and File are never empty for tags produced by Normalize. Address is
// either a decimal line number or a `/^...$/` search pattern with backslash
// and slash escaped; it never contains a line terminator.
type Tag struct {
	Name    string
	File    string
	Address string
	Kind    string

	// ScopeKind/ScopeName identify the innermost enclosing definition,
	// e.g. ("class", "Foo") for a field inside class Foo. Both empty for
	// top-level tags.
	ScopeKind string
	ScopeName string

	// Fields holds extension fields in emission order.
	Fields []Field

	// Raw is the verbatim source line for tags read back from an existing
	// tag file. When set, Line returns it unchanged so that entries kept
	// across an append run stay byte-identical.
	Raw string
}

// Field is one key:value extension field.
type Field struct {
	Key   string
	Value string
}

// Line renders the tag as a single tag-file line (without trailing newline).
//
// Format: name<TAB>file<TAB>address;"<TAB>kind<TAB>scope<TAB>key:value...
// The `;"` terminator after the address keeps the extension fields invisible
// to ex commands, per the classic extended-tag convention.
func (t *Tag) Line() string {
	if t.Raw != "" {
		return t.Raw
	}

	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteByte('\t')
	b.WriteString(t.File)
	b.WriteByte('\t')
	b.WriteString(t.Address)
	b.WriteString(`;"`)

	if t.Kind != "" {
		b.WriteByte('\t')
		b.WriteString(t.Kind)
	}
	if t.ScopeKind != "" && t.ScopeName != "" {
		b.WriteByte('\t')
		b.WriteString(t.ScopeKind)
		b.WriteByte(':')
		b.WriteString(t.ScopeName)
	}
	for _, f := range t.Fields {
		b.WriteByte('\t')
		b.WriteString(f.Key)
		b.WriteByte(':')
		b.WriteString(f.Value)
	}
	return b.String()
}

// Less orders tags byte-wise by (name, file), ties broken by address text.
// This is the total order declared by the !_TAG_FILE_SORTED header; readers
// rely on it for binary search.
func (t *Tag) Less(other *Tag) bool {
	if t.Name != other.Name {
		return t.Name < other.Name
	}
	if t.File != other.File {
		return t.File < other.File
	}
	return t.Address < other.Address
}

// Field returns the value of the named extension field, or "".
func (t *Tag) Field(key string) string {
	for _, f := range t.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}
