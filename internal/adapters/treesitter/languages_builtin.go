package treesitter

// This file registers the compiled-in grammars and their normalization
// tables. Kind codes follow the classic ctags conventions per language;
// the long names double as scope field keys and as aliases in kind specs.

import (
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	ts_lua "github.com/tree-sitter-grammars/tree-sitter-lua/bindings/go"
	ts_bash "github.com/tree-sitter/tree-sitter-bash/bindings/go"
	ts_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	ts_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	ts_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	ts_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	ts_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_ocaml "github.com/tree-sitter/tree-sitter-ocaml/bindings/go"
	ts_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	ts_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ts_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	ts_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/corey/treetags/internal/domain/tags"
)

// langPtr wraps a binding's Language() unsafe.Pointer.
func langPtr(p unsafe.Pointer) *tree_sitter.Language {
	return tree_sitter.NewLanguage(p)
}

// builtin describes one compiled-in language before profile construction.
type builtin struct {
	name         string
	queryFile    string
	extensions   []string
	language     *tree_sitter.Language
	kinds        map[string]string // capture name -> kind code
	scopeNames   map[string]string // kind code -> scope field key
	defaultKinds []string          // codes enabled without a kind spec
	kindAliases  map[string]string // long kind name -> code
	fields       []tags.FieldRule
}

var (
	fieldsCommon = []tags.FieldRule{tags.FieldLine, tags.FieldSignature, tags.FieldEnd}
	fieldsAccess = []tags.FieldRule{tags.FieldLine, tags.FieldSignature, tags.FieldAccess, tags.FieldEnd}
	fieldsLine   = []tags.FieldRule{tags.FieldLine, tags.FieldEnd}
)

func builtinLanguages() []builtin {
	return []builtin{
		{
			name:       "go",
			queryFile:  "go.scm",
			extensions: []string{".go"},
			language:   langPtr(ts_go.Language()),
			kinds: map[string]string{
				"definition.function":     "f",
				"definition.method":       "m",
				"definition.struct":       "s",
				"definition.interface":    "i",
				"definition.constant":     "c",
				"definition.variable":     "v",
				"definition.struct.field": "w",
			},
			scopeNames: map[string]string{
				"f": "func", "m": "method", "s": "struct", "i": "interface",
				"c": "const", "v": "var", "w": "field",
			},
			defaultKinds: []string{"f", "m", "s", "i", "c", "v", "w"},
			kindAliases: map[string]string{
				"func": "f", "method": "m", "struct": "s", "interface": "i",
				"const": "c", "var": "v", "field": "w",
			},
			fields: fieldsCommon,
		},
		{
			name:       "python",
			queryFile:  "python.scm",
			extensions: []string{".py", ".pyw"},
			language:   langPtr(ts_python.Language()),
			kinds: map[string]string{
				"definition.class":    "c",
				"definition.function": "f",
			},
			scopeNames:   map[string]string{"c": "class", "f": "function"},
			defaultKinds: []string{"c", "f"},
			kindAliases:  map[string]string{"class": "c", "function": "f"},
			fields:       fieldsCommon,
		},
		{
			name:       "javascript",
			queryFile:  "javascript.scm",
			extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
			language:   langPtr(ts_javascript.Language()),
			kinds: map[string]string{
				"definition.function":            "f",
				"definition.class":               "c",
				"definition.class.method":        "m",
				"definition.function.arrow":      "f",
				"definition.function.expression": "f",
			},
			scopeNames:   map[string]string{"f": "function", "c": "class", "m": "method"},
			defaultKinds: []string{"f", "c", "m"},
			kindAliases:  map[string]string{"function": "f", "class": "c", "method": "m"},
			fields:       fieldsCommon,
		},
		{
			name:         "typescript",
			queryFile:    "typescript.scm",
			extensions:   []string{".ts", ".mts", ".cts"},
			language:     langPtr(ts_typescript.LanguageTypescript()),
			kinds:        typescriptKinds(),
			scopeNames:   typescriptScopeNames(),
			defaultKinds: []string{"f", "c", "m", "i", "t", "e"},
			kindAliases:  typescriptAliases(),
			fields:       fieldsCommon,
		},
		{
			name:         "tsx",
			queryFile:    "typescript.scm",
			extensions:   []string{".tsx"},
			language:     langPtr(ts_typescript.LanguageTSX()),
			kinds:        typescriptKinds(),
			scopeNames:   typescriptScopeNames(),
			defaultKinds: []string{"f", "c", "m", "i", "t", "e"},
			kindAliases:  typescriptAliases(),
			fields:       fieldsCommon,
		},
		{
			name:       "rust",
			queryFile:  "rust.scm",
			extensions: []string{".rs"},
			language:   langPtr(ts_rust.Language()),
			kinds: map[string]string{
				"definition.function":     "f",
				"definition.struct":       "s",
				"definition.enum":         "g",
				"definition.trait":        "i",
				"definition.module":       "n",
				"definition.typedef":      "t",
				"definition.struct.field": "m",
			},
			scopeNames: map[string]string{
				"f": "function", "s": "struct", "g": "enum", "i": "trait",
				"n": "module", "t": "typedef", "m": "field",
			},
			defaultKinds: []string{"f", "s", "g", "i", "n", "t", "m"},
			kindAliases: map[string]string{
				"function": "f", "struct": "s", "enum": "g", "trait": "i",
				"module": "n", "typedef": "t", "field": "m",
			},
			fields: fieldsCommon,
		},
		{
			name:       "c",
			queryFile:  "c.scm",
			extensions: []string{".c", ".h", ".i"},
			language:   langPtr(ts_c.Language()),
			kinds: map[string]string{
				"definition.function":      "f",
				"definition.struct":        "s",
				"definition.union":         "u",
				"definition.enum":          "g",
				"definition.enumerator":    "e",
				"definition.typedef":       "t",
				"definition.struct.member": "m",
			},
			scopeNames: map[string]string{
				"f": "function", "s": "struct", "u": "union", "g": "enum",
				"e": "enumerator", "t": "typedef", "m": "member",
			},
			defaultKinds: []string{"f", "s", "u", "g", "e", "t", "m"},
			kindAliases: map[string]string{
				"function": "f", "struct": "s", "union": "u", "enum": "g",
				"enumerator": "e", "typedef": "t", "member": "m",
			},
			fields: fieldsCommon,
		},
		{
			name:      "cpp",
			queryFile: "cpp.scm",
			extensions: []string{
				".cc", ".cpp", ".cxx", ".c++", ".cp", ".cppm", ".ixx", ".ii",
				".hh", ".hpp", ".hxx", ".h++", ".tcc",
			},
			language: langPtr(ts_cpp.Language()),
			kinds: map[string]string{
				"definition.function":     "f",
				"definition.class":        "c",
				"definition.struct":       "s",
				"definition.union":        "u",
				"definition.enum":         "g",
				"definition.enumerator":   "e",
				"definition.typedef":      "t",
				"definition.namespace":    "n",
				"definition.class.member": "m",
			},
			scopeNames: map[string]string{
				"f": "function", "c": "class", "s": "struct", "u": "union",
				"g": "enum", "e": "enumerator", "t": "typedef",
				"n": "namespace", "m": "member",
			},
			defaultKinds: []string{"f", "c", "s", "u", "g", "e", "t", "n", "m"},
			kindAliases: map[string]string{
				"function": "f", "class": "c", "struct": "s", "union": "u",
				"enum": "g", "enumerator": "e", "typedef": "t",
				"namespace": "n", "member": "m",
			},
			fields: fieldsAccess,
		},
		{
			name:       "java",
			queryFile:  "java.scm",
			extensions: []string{".java"},
			language:   langPtr(ts_java.Language()),
			kinds: map[string]string{
				"definition.class":         "c",
				"definition.interface":     "i",
				"definition.enum":          "g",
				"definition.class.method":  "m",
				"definition.class.field":   "f",
				"definition.enum.constant": "e",
			},
			scopeNames: map[string]string{
				"c": "class", "i": "interface", "g": "enum",
				"m": "method", "f": "field", "e": "enumConstant",
			},
			defaultKinds: []string{"c", "i", "g", "m", "f", "e"},
			kindAliases: map[string]string{
				"class": "c", "interface": "i", "enum": "g",
				"method": "m", "field": "f", "enumConstant": "e",
			},
			fields: fieldsAccess,
		},
		{
			name:       "ruby",
			queryFile:  "ruby.scm",
			extensions: []string{".rb"},
			language:   langPtr(ts_ruby.Language()),
			kinds: map[string]string{
				"definition.class":            "c",
				"definition.module":           "m",
				"definition.method":           "f",
				"definition.singleton_method": "F",
			},
			scopeNames: map[string]string{
				"c": "class", "m": "module", "f": "method", "F": "singletonMethod",
			},
			defaultKinds: []string{"c", "m", "f", "F"},
			kindAliases: map[string]string{
				"class": "c", "module": "m", "method": "f", "singletonMethod": "F",
			},
			fields: fieldsCommon,
		},
		{
			name:       "php",
			queryFile:  "php.scm",
			extensions: []string{".php"},
			language:   langPtr(ts_php.LanguagePHP()),
			kinds: map[string]string{
				"definition.class":        "c",
				"definition.interface":    "i",
				"definition.trait":        "t",
				"definition.function":     "f",
				"definition.class.method": "m",
			},
			scopeNames: map[string]string{
				"c": "class", "i": "interface", "t": "trait",
				"f": "function", "m": "method",
			},
			defaultKinds: []string{"c", "i", "t", "f", "m"},
			kindAliases: map[string]string{
				"class": "c", "interface": "i", "trait": "t",
				"function": "f", "method": "m",
			},
			fields: fieldsAccess,
		},
		{
			name:       "csharp",
			queryFile:  "csharp.scm",
			extensions: []string{".cs"},
			language:   langPtr(ts_csharp.Language()),
			kinds: map[string]string{
				"definition.class":          "c",
				"definition.interface":      "i",
				"definition.struct":         "s",
				"definition.enum":           "g",
				"definition.class.method":   "m",
				"definition.class.property": "p",
			},
			scopeNames: map[string]string{
				"c": "class", "i": "interface", "s": "struct",
				"g": "enum", "m": "method", "p": "property",
			},
			defaultKinds: []string{"c", "i", "s", "g", "m", "p"},
			kindAliases: map[string]string{
				"class": "c", "interface": "i", "struct": "s",
				"enum": "g", "method": "m", "property": "p",
			},
			fields: fieldsAccess,
		},
		{
			name:         "bash",
			queryFile:    "bash.scm",
			extensions:   []string{".sh", ".bash"},
			language:     langPtr(ts_bash.Language()),
			kinds:        map[string]string{"definition.function": "f"},
			scopeNames:   map[string]string{"f": "function"},
			defaultKinds: []string{"f"},
			kindAliases:  map[string]string{"function": "f"},
			fields:       fieldsLine,
		},
		{
			name:       "lua",
			queryFile:  "lua.scm",
			extensions: []string{".lua"},
			language:   langPtr(ts_lua.Language()),
			kinds: map[string]string{
				"definition.function":       "f",
				"definition.function.table": "f",
				"definition.method":         "m",
			},
			scopeNames:   map[string]string{"f": "function", "m": "method"},
			defaultKinds: []string{"f", "m"},
			kindAliases:  map[string]string{"function": "f", "method": "m"},
			fields:       fieldsLine,
		},
		{
			name:       "ocaml",
			queryFile:  "ocaml.scm",
			extensions: []string{".ml", ".mli"},
			language:   langPtr(ts_ocaml.LanguageOCaml()),
			kinds: map[string]string{
				"definition.value":  "v",
				"definition.type":   "t",
				"definition.module": "M",
			},
			scopeNames:   map[string]string{"v": "value", "t": "type", "M": "module"},
			defaultKinds: []string{"v", "t", "M"},
			kindAliases:  map[string]string{"value": "v", "type": "t", "module": "M"},
			fields:       fieldsLine,
		},
	}
}

func typescriptKinds() map[string]string {
	return map[string]string{
		"definition.function":       "f",
		"definition.class":          "c",
		"definition.class.method":   "m",
		"definition.interface":      "i",
		"definition.typedef":        "t",
		"definition.enum":           "e",
		"definition.function.arrow": "f",
	}
}

func typescriptScopeNames() map[string]string {
	return map[string]string{
		"f": "function", "c": "class", "m": "method",
		"i": "interface", "t": "typedef", "e": "enum",
	}
}

func typescriptAliases() map[string]string {
	return map[string]string{
		"function": "f", "class": "c", "method": "m",
		"interface": "i", "typedef": "t", "enum": "e",
	}
}
