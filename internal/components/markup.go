package components

import (
	"html"
	"sort"
	"strings"
)

// attr is one rendered attribute.
type attr struct {
	Key, Val string
}

// element renders <tag attrs>children</tag>. children is trusted HTML; attribute
// values are escaped.
func element(tag string, attrs []attr, children string) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	b.WriteString(children)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
	return b.String()
}

// passthrough returns props minus the consumed keys, as sorted attributes.
func passthrough(props Props, consumed ...string) []attr {
	skip := make(map[string]struct{}, len(consumed))
	for _, k := range consumed {
		skip[k] = struct{}{}
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		if _, ok := skip[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]attr, 0, len(keys))
	for _, k := range keys {
		out = append(out, attr{Key: k, Val: props[k]})
	}
	return out
}

// classNames joins class lists, dropping duplicates and empty entries while
// keeping first-seen order.
func classNames(lists ...string) string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range lists {
		for _, c := range strings.Fields(l) {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}

func escapeText(s string) string { return html.EscapeString(s) }
