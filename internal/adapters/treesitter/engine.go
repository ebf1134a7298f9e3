package treesitter

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/treetags/internal/domain/tags"
)

// ErrDecode marks a file whose bytes are not valid UTF-8. Scoped to the
// single file; the dispatcher records it and moves on.
var ErrDecode = errors.New("not valid UTF-8")

// Engine evaluates a profile's tag query over one file at a time. It owns a
// tree-sitter parser and must not be shared across goroutines; each worker
// creates its own via Registry.NewSession.
type Engine struct {
	parser *tree_sitter.Parser
}

// NewEngine creates an engine with a fresh parser.
func NewEngine() *Engine {
	return &Engine{parser: tree_sitter.NewParser()}
}

// Close releases the parser.
func (e *Engine) Close() {
	e.parser.Close()
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// ParseAndQuery parses source with the profile's grammar and evaluates its
// tag query, returning flattened captures in pre-order: a definition's
// capture comes before any capture nested inside it (start byte ascending,
// enclosing node first on ties). The normalizer's scope stack depends on
// this ordering.
//
// Grammars recover from malformed input, so parsing yields a best-effort
// tree rather than failing; the only per-file hard failure here is invalid
// encoding.
func (e *Engine) ParseAndQuery(source []byte, profile *LanguageProfile) ([]tags.Capture, error) {
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("%w", ErrDecode)
	}
	if err := e.parser.SetLanguage(profile.Language); err != nil {
		return nil, fmt.Errorf("set grammar %s: %w", profile.Name, err)
	}

	tree := e.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("grammar %s produced no tree", profile.Name)
	}
	defer tree.Close()

	lines := bytes.Split(source, []byte{'\n'})

	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()
	matches := qc.Matches(profile.Query, tree.RootNode(), source)
	captureNames := profile.Query.CaptureNames()

	var captures []tags.Capture
	for {
		match := matches.Next()
		if match == nil {
			break
		}

		// Pair the pattern capture (definition.* / reference.*) with its
		// @name capture.
		var nameNode, defNode *tree_sitter.Node
		var captureName string
		for i := range match.Captures {
			c := &match.Captures[i]
			switch name := captureNames[c.Index]; name {
			case "name":
				nameNode = &c.Node
			default:
				if strings.HasPrefix(name, "definition.") || strings.HasPrefix(name, "reference.") {
					defNode = &c.Node
					captureName = name
				}
			}
		}
		if nameNode == nil || defNode == nil {
			continue
		}

		row := uint(defNode.StartPosition().Row)
		captures = append(captures, tags.Capture{
			Name:       captureName,
			Ident:      nodeText(nameNode, source),
			StartByte:  uint(defNode.StartByte()),
			EndByte:    uint(defNode.EndByte()),
			Row:        row,
			EndRow:     uint(defNode.EndPosition().Row),
			SourceLine: lineAt(lines, row),
			Signature:  signatureOf(defNode, source),
			Access:     accessOf(defNode, source),
		})
	}

	sort.SliceStable(captures, func(i, j int) bool {
		if captures[i].StartByte != captures[j].StartByte {
			return captures[i].StartByte < captures[j].StartByte
		}
		return captures[i].EndByte > captures[j].EndByte
	})
	return captures, nil
}

func nodeText(n *tree_sitter.Node, source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}

func lineAt(lines [][]byte, row uint) string {
	if row >= uint(len(lines)) {
		return ""
	}
	return string(bytes.TrimRight(lines[row], "\r"))
}

// parameterKinds are the node kinds that hold a definition's parameter list
// across the supported grammars.
var parameterKinds = []string{
	"parameters",
	"formal_parameters",
	"parameter_list",
	"method_parameters",
	"parameter_clause",
}

// signatureOf returns the collapsed parameter-list text of a definition
// node, or "" when the grammar exposes none. Checks the grammar's "parameters"
// field first, then falls back to scanning direct children.
func signatureOf(n *tree_sitter.Node, source []byte) string {
	if p := n.ChildByFieldName("parameters"); p != nil {
		return collapseWhitespace(nodeText(p, source))
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		for _, kind := range parameterKinds {
			if child.Kind() == kind {
				return collapseWhitespace(nodeText(child, source))
			}
		}
		// Function definitions in the C family nest parameters inside a
		// declarator node.
		if child.Kind() == "function_declarator" {
			if sig := signatureOf(child, source); sig != "" {
				return sig
			}
		}
	}
	return ""
}

// accessOf extracts an access modifier from a definition node's modifier
// children, where the grammar exposes one. Absence is normal and yields "".
func accessOf(n *tree_sitter.Node, source []byte) string {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch child.Kind() {
		case "modifiers", "modifier":
			text := nodeText(child, source)
			for _, mod := range []string{"public", "private", "protected"} {
				if strings.Contains(text, mod) {
					return mod
				}
			}
		case "visibility_modifier":
			// Rust: any pub(...) form is public.
			return "public"
		case "access_modifier":
			return nodeText(child, source)
		}
	}
	return ""
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
