// Package site holds the domain model shared by the build stages: parsed
// documents, static pages and the aggregated navigation manifest.
package site

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Metadata is the required front matter of a content document.
type Metadata struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	CreatedAt   Date     `yaml:"createdAt"`
}

// Document is one parsed content file.
type Document struct {
	Metadata Metadata
	Body     string

	// SourcePath is the file the document was read from (relative to the project root).
	SourcePath string
	// RawFrontMatter holds the front matter bytes exactly as written, without delimiters.
	RawFrontMatter []byte
	// Newline is the newline sequence detected in the source ("\n" or "\r\n").
	Newline string
	// BOM and ClosedAtEOF record a leading byte order mark and a closing
	// delimiter without a trailing newline.
	BOM         bool
	ClosedAtEOF bool
	// Fingerprint is the content fingerprint of front matter and body.
	Fingerprint string
}

// PageComponent server-renders a static page against the site manifest.
type PageComponent interface {
	Render(data *SiteData) (string, error)
}

// PageComponentFunc adapts a function to PageComponent.
type PageComponentFunc func(data *SiteData) (string, error)

// Render calls f(data).
func (f PageComponentFunc) Render(data *SiteData) (string, error) { return f(data) }

// StaticPage is a page defined at build time rather than from content files.
type StaticPage struct {
	Name        string
	Title       string
	Description string
	Tags        []string
	Component   PageComponent
}

var lower = cases.Lower(language.Und)

// FileStem returns the lower-cased page name used for output file names and paths.
func (p StaticPage) FileStem() string {
	return lower.String(strings.TrimSpace(p.Name))
}

// SiteData is the aggregated navigation manifest serialized to site-data.json.
type SiteData struct {
	Posts []PostEntry `json:"posts"`
	Pages []PageEntry `json:"pages"`
}

// PostEntry is the navigation record for one document.
type PostEntry struct {
	Title       string   `json:"title"`
	CreatedAt   Date     `json:"createdAt"`
	Slug        string   `json:"slug"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Path        string   `json:"path"`
}

// PageEntry is the navigation record for one static page.
type PageEntry struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}
