package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// NodeType classifies a Node.
type NodeType string

const (
	NodeText      NodeType = "text"
	NodeElement   NodeType = "element"
	NodeComponent NodeType = "component"
	NodeRaw       NodeType = "raw"
)

// Node is one entry of the compiled tree. Elements carry their attributes,
// components their props (attribute names keep their written case).
type Node struct {
	Type     NodeType          `json:"type"`
	Tag      string            `json:"tag,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Value    string            `json:"value,omitempty"`
	Children []*Node           `json:"children,omitempty"`

	raw   string
	open  string
	close string
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// parseFragment builds the node tree of an HTML fragment. Markup outside
// components is kept byte for byte; component tags must be balanced.
func parseFragment(src []byte) ([]*Node, error) {
	z := html.NewTokenizer(bytes.NewReader(src))
	root := &Node{}
	stack := []*Node{root}
	top := func() *Node { return stack[len(stack)-1] }

	for {
		tt := z.Next()
		// Text and TagName rewrite the buffer Raw points into.
		raw := string(z.Raw())

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Type == NodeComponent {
					return nil, fmt.Errorf("component <%s> is not closed", stack[i].Tag)
				}
			}
			return root.Children, nil

		case html.TextToken:
			top().Children = append(top().Children, &Node{Type: NodeText, Value: string(z.Text()), raw: raw})

		case html.StartTagToken, html.SelfClosingTagToken:
			name := rawTagName(raw)
			if isComponentName(name) {
				n := &Node{Type: NodeComponent, Tag: name, Props: componentProps(z, raw)}
				top().Children = append(top().Children, n)
				if tt == html.StartTagToken {
					stack = append(stack, n)
				}
				continue
			}
			tag := strings.ToLower(name)
			n := &Node{Type: NodeElement, Tag: tag, Attrs: elementAttrs(z), open: raw}
			top().Children = append(top().Children, n)
			if tt == html.StartTagToken && !voidElements[tag] {
				stack = append(stack, n)
			}

		case html.EndTagToken:
			name := rawTagName(raw)
			component := isComponentName(name)
			match := -1
			for i := len(stack) - 1; i > 0; i-- {
				s := stack[i]
				if component && s.Type == NodeComponent && s.Tag == name ||
					!component && s.Type == NodeElement && s.Tag == strings.ToLower(name) {
					match = i
					break
				}
			}
			if match < 0 {
				if component {
					return nil, fmt.Errorf("unexpected closing tag </%s>", name)
				}
				top().Children = append(top().Children, &Node{Type: NodeRaw, Value: raw})
				continue
			}
			for i := len(stack) - 1; i > match; i-- {
				if stack[i].Type == NodeComponent {
					return nil, fmt.Errorf("component <%s> is not closed before </%s>", stack[i].Tag, name)
				}
			}
			if !component {
				stack[match].close = raw
			}
			stack = stack[:match]

		default:
			top().Children = append(top().Children, &Node{Type: NodeRaw, Value: raw})
		}
	}
}

// rawTagName returns the tag name of a start or end tag as written.
func rawTagName(raw string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(raw, "<"), "/")
	end := 0
	for end < len(s) && isNameByte(s[end]) {
		end++
	}
	return s[:end]
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '.' || c == ':'
}

func isComponentName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

func elementAttrs(z *html.Tokenizer) map[string]string {
	var attrs map[string]string
	for {
		key, val, more := z.TagAttr()
		if len(key) > 0 {
			if attrs == nil {
				attrs = make(map[string]string)
			}
			attrs[string(key)] = string(val)
		}
		if !more {
			return attrs
		}
	}
}

// componentProps reads the attributes of a component tag, restoring the
// written case of each name (the tokenizer lower-cases them) and unwrapping
// JSX-style {expression} values.
func componentProps(z *html.Tokenizer, raw string) map[string]string {
	attrs := elementAttrs(z)
	if len(attrs) == 0 {
		return nil
	}
	names := attrNames(raw)
	props := make(map[string]string, len(attrs))
	for key, val := range attrs {
		if written, ok := names[key]; ok {
			key = written
		}
		props[key] = jsxValue(val)
	}
	return props
}

// attrNames maps lower-cased attribute names of a start tag to their written form.
func attrNames(raw string) map[string]string {
	names := make(map[string]string)
	i := strings.IndexAny(raw, " \t\n\r\f/>")
	for i >= 0 && i < len(raw) {
		for i < len(raw) && strings.IndexByte(" \t\n\r\f/", raw[i]) >= 0 {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			break
		}
		start := i
		for i < len(raw) && strings.IndexByte(" \t\n\r\f/>=", raw[i]) < 0 {
			i++
		}
		if i == start {
			i++
			continue
		}
		name := raw[start:i]
		if _, seen := names[strings.ToLower(name)]; !seen {
			names[strings.ToLower(name)] = name
		}
		for i < len(raw) && strings.IndexByte(" \t\n\r\f", raw[i]) >= 0 {
			i++
		}
		if i >= len(raw) || raw[i] != '=' {
			continue
		}
		i++
		for i < len(raw) && strings.IndexByte(" \t\n\r\f", raw[i]) >= 0 {
			i++
		}
		if i < len(raw) && (raw[i] == '"' || raw[i] == '\'') {
			end := strings.IndexByte(raw[i+1:], raw[i])
			if end < 0 {
				break
			}
			i += end + 2
			continue
		}
		for i < len(raw) && strings.IndexByte(" \t\n\r\f>", raw[i]) < 0 {
			i++
		}
	}
	return names
}

// jsxValue unwraps {value}, {"value"} and {'value'} attribute values.
func jsxValue(v string) string {
	if len(v) < 2 || v[0] != '{' || v[len(v)-1] != '}' {
		return v
	}
	v = strings.TrimSpace(v[1 : len(v)-1])
	if len(v) >= 2 {
		if q := v[0]; (q == '"' || q == '\'' || q == '`') && v[len(v)-1] == q {
			return v[1 : len(v)-1]
		}
	}
	return v
}
