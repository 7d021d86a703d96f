package templates

import (
	"regexp"
)

// placeholder matches `{{ name }}` tokens; inner whitespace is optional.
var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Render replaces every `{{ name }}` token whose name is a key of values with
// the corresponding value. Tokens with unknown names, and anything else that
// merely looks like template syntax, are left untouched.
//
// Substitution is a single pass: inserted values are never scanned for
// further placeholders.
func Render(template string, values map[string]string) string {
	if len(values) == 0 {
		return template
	}
	return placeholder.ReplaceAllStringFunc(template, func(token string) string {
		name := placeholder.FindStringSubmatch(token)[1]
		if v, ok := values[name]; ok {
			return v
		}
		return token
	})
}

// Placeholders lists the distinct placeholder names in template in order of
// first appearance.
func Placeholders(template string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(template, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}
