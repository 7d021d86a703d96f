package components

import (
	"strings"
)

// Post is the page shell wrapping a compiled document body. Props: slug,
// title, description, createdAt (YYYY-MM-DD) and tags (comma separated).
var Post = ComponentFunc(func(props Props, children string) (string, error) {
	var footer strings.Builder
	if created := props["createdAt"]; created != "" {
		footer.WriteString(element("time", []attr{{Key: "datetime", Val: created}}, escapeText(created)))
	}
	if tags := splitTags(props["tags"]); len(tags) > 0 {
		var items strings.Builder
		for _, tag := range tags {
			items.WriteString(element("li", nil, escapeText(tag)))
		}
		footer.WriteString(element("ul", []attr{{Key: "class", Val: "tags"}}, items.String()))
	}

	body := element("div", []attr{{Key: "class", Val: "post-content"}}, children)
	if footer.Len() > 0 {
		body += element("footer", []attr{{Key: "class", Val: "post-meta"}}, footer.String())
	}

	attrs := []attr{{Key: "class", Val: "post"}}
	if slug := props["slug"]; slug != "" {
		attrs = append(attrs, attr{Key: "data-slug", Val: slug})
	}
	if title := props["title"]; title != "" {
		attrs = append(attrs, attr{Key: "aria-label", Val: title})
	}
	return element("article", attrs, body), nil
})

// Callout highlights a block of content. Props: type (info|warning|danger).
var Callout = ComponentFunc(func(props Props, children string) (string, error) {
	kind := props["type"]
	if kind == "" {
		kind = "info"
	}
	return element("aside", []attr{{Key: "class", Val: "callout callout-" + kind}, {Key: "role", Val: "note"}}, children), nil
})

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
