// Package compiler turns a document body into server-rendered HTML plus a
// serialized component tree that a client can hydrate.
//
// Bodies are Markdown with embedded components written as capitalized tags
// (<Link href="/about">about</Link>). Markdown is rendered with goldmark,
// then the HTML token stream is scanned and every component tag is replaced
// by the output of the registry entry with that name.
package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/sitebuilder/internal/components"
)

// Result is the output of compiling one body.
type Result struct {
	// RenderedOutput is the HTML fragment with all components expanded.
	RenderedOutput string
	// CompiledSource is the JSON-encoded node tree (see Source).
	CompiledSource string
}

// Compiler compiles document bodies against a component registry.
type Compiler interface {
	Compile(ctx context.Context, body string, registry *components.Registry) (Result, error)
}

// UnknownComponentError reports a component tag with no registry entry.
type UnknownComponentError struct {
	Name string
}

func (e *UnknownComponentError) Error() string { return "unknown component " + e.Name }

// SourceVersion is the format version written into every compiled source.
const SourceVersion = 1

// Source is the serialized form of a compiled body.
type Source struct {
	Version int     `json:"version"`
	Nodes   []*Node `json:"nodes"`
}

// Markdown is the default Compiler.
type Markdown struct {
	md goldmark.Markdown
}

// New returns a Markdown compiler with GitHub flavoured Markdown, generated
// heading ids and raw HTML passthrough enabled.
func New() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// Compile renders body and expands its components.
func (m *Markdown) Compile(ctx context.Context, body string, registry *components.Registry) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	if err := m.md.Convert([]byte(body), &buf); err != nil {
		return Result{}, fmt.Errorf("markdown: %w", err)
	}

	nodes, err := parseFragment(buf.Bytes())
	if err != nil {
		return Result{}, err
	}

	rendered, err := expand(ctx, nodes, registry)
	if err != nil {
		return Result{}, err
	}

	source, err := json.Marshal(Source{Version: SourceVersion, Nodes: nodes})
	if err != nil {
		return Result{}, fmt.Errorf("encode compiled source: %w", err)
	}

	return Result{RenderedOutput: rendered, CompiledSource: string(source)}, nil
}

// expand renders nodes, replacing component nodes with their registry output.
// Children are rendered before the component that wraps them.
func expand(ctx context.Context, nodes []*Node, registry *components.Registry) (string, error) {
	var b bytes.Buffer
	for _, n := range nodes {
		switch n.Type {
		case NodeText:
			b.WriteString(n.raw)
		case NodeRaw:
			b.WriteString(n.Value)
		case NodeElement:
			inner, err := expand(ctx, n.Children, registry)
			if err != nil {
				return "", err
			}
			b.WriteString(n.open)
			b.WriteString(inner)
			b.WriteString(n.close)
		case NodeComponent:
			if err := ctx.Err(); err != nil {
				return "", err
			}
			c, ok := registry.Lookup(n.Tag)
			if !ok {
				return "", &UnknownComponentError{Name: n.Tag}
			}
			inner, err := expand(ctx, n.Children, registry)
			if err != nil {
				return "", err
			}
			out, err := c.Render(components.Props(n.Props), inner)
			if err != nil {
				return "", fmt.Errorf("component <%s>: %w", n.Tag, err)
			}
			b.WriteString(out)
		}
	}
	return b.String(), nil
}
