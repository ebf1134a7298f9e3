package tags

import "strings"

// Kind and field selection specs follow the classic ctags flag syntax.
// Two modes exist: override ("fsc" or "f,struct,c" lists exactly what is
// enabled) and modifier ("+m-c" adjusts the language defaults). A spec is in
// modifier mode as soon as it contains a + or -.

// ParseKindSpec resolves a kind spec against a language's kind inventory.
//
// defaults lists the kind codes enabled when no spec (or a pure-modifier
// spec) is given. aliases maps long kind names ("struct") to codes ("s");
// single-letter tokens stand for themselves. Unknown names are ignored.
func ParseKindSpec(spec string, defaults []string, aliases map[string]string) map[string]bool {
	enabled := make(map[string]bool)

	if spec == "" {
		for _, code := range defaults {
			enabled[code] = true
		}
		return enabled
	}

	if strings.ContainsAny(spec, "+-") {
		for _, code := range defaults {
			enabled[code] = true
		}
		applyModifiers(spec, enabled, aliases)
		return enabled
	}

	// Override mode: only what the spec names.
	for _, token := range splitSpec(spec) {
		if code, ok := aliases[token]; ok {
			enabled[code] = true
			continue
		}
		for _, r := range token {
			enabled[string(r)] = true
		}
	}
	return enabled
}

// applyModifiers walks a +x-y spec, flipping entries in enabled. Names run
// from a sign to the next sign or separator, so both "+m-c" and
// "+member, -class" parse.
func applyModifiers(spec string, enabled map[string]bool, aliases map[string]string) {
	add := true
	var name strings.Builder

	flush := func() {
		token := strings.TrimSpace(name.String())
		name.Reset()
		if token == "" {
			return
		}
		code := token
		if mapped, ok := aliases[token]; ok {
			code = mapped
		}
		if add {
			enabled[code] = true
		} else {
			delete(enabled, code)
		}
	}

	for _, r := range spec {
		switch r {
		case '+':
			flush()
			add = true
		case '-':
			flush()
			add = false
		case ',':
			flush()
			add = true
		default:
			name.WriteRune(r)
		}
	}
	flush()
}

func splitSpec(spec string) []string {
	var tokens []string
	for _, t := range strings.Split(spec, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// fieldAliases maps the single-letter field flags to field keys.
var fieldAliases = map[string]string{
	"n": "line",
	"S": "signature",
	"a": "access",
	"e": "end",
}

// defaultFields lists the field keys enabled when no spec is given.
var defaultFields = []string{"line", "signature", "access"}

// ParseFieldSpec resolves a --fields spec into the set of enabled extension
// field keys. Same override/modifier split as kind specs.
func ParseFieldSpec(spec string) map[string]bool {
	enabled := make(map[string]bool)

	if spec == "" {
		for _, key := range defaultFields {
			enabled[key] = true
		}
		return enabled
	}

	if strings.ContainsAny(spec, "+-") {
		for _, key := range defaultFields {
			enabled[key] = true
		}
		applyModifiers(spec, enabled, fieldAliases)
		return enabled
	}

	for _, token := range splitSpec(spec) {
		if key, ok := fieldAliases[token]; ok {
			enabled[key] = true
			continue
		}
		if isFieldKey(token) {
			enabled[token] = true
			continue
		}
		for _, r := range token {
			if key, ok := fieldAliases[string(r)]; ok {
				enabled[key] = true
			}
		}
	}
	return enabled
}

func isFieldKey(name string) bool {
	for _, key := range fieldAliases {
		if key == name {
			return true
		}
	}
	return false
}

// FilterFieldRules keeps only the rules whose keys are enabled, preserving
// the profile's emission order.
func FilterFieldRules(rules []FieldRule, enabled map[string]bool) []FieldRule {
	var kept []FieldRule
	for _, rule := range rules {
		if enabled[fieldKeys[rule]] {
			kept = append(kept, rule)
		}
	}
	return kept
}
