// Package pages defines the static pages rendered on every build.
package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"git.home.luguber.info/inful/sitebuilder/internal/components"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

//go:embed layouts/*.html
var layouts embed.FS

// Registry returns the static pages in render order. Links are rendered with
// the Link component of registry.
func Registry(registry *components.Registry) ([]site.StaticPage, error) {
	link, ok := registry.Lookup(components.NameLink)
	if !ok {
		return nil, fmt.Errorf("pages: component %s is not registered", components.NameLink)
	}

	tmpl, err := template.New("pages").Funcs(template.FuncMap{
		"link": func(href, label string) (template.HTML, error) {
			out, err := link.Render(components.Props{"href": href}, template.HTMLEscapeString(label))
			return template.HTML(out), err //nolint:gosec // Link escapes its attributes and label is escaped above.
		},
		"date": func(d site.Date) string { return d.Format("2006-01-02") },
	}).ParseFS(layouts, "layouts/*.html")
	if err != nil {
		return nil, fmt.Errorf("pages: parse layouts: %w", err)
	}

	return []site.StaticPage{
		{
			Name:        "Index",
			Title:       "Home",
			Description: "Notes on software, tools and the occasional detour.",
			Tags:        []string{"blog", "software"},
			Component:   layout(tmpl, "index.html"),
		},
		{
			Name:        "About",
			Title:       "About",
			Description: "Who writes this blog.",
			Tags:        []string{"about"},
			Component:   layout(tmpl, "about.html"),
		},
	}, nil
}

func layout(tmpl *template.Template, name string) site.PageComponent {
	return site.PageComponentFunc(func(data *site.SiteData) (string, error) {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
			return "", err
		}
		return buf.String(), nil
	})
}
