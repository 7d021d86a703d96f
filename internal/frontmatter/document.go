package frontmatter

import (
	"errors"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	builderrors "git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// documentFields mirrors site.Metadata with pointer fields so that absent keys
// can be told apart from empty values.
type documentFields struct {
	Title       *string    `yaml:"title"`
	Slug        *string    `yaml:"slug"`
	Description *string    `yaml:"description"`
	Tags        *[]string  `yaml:"tags"`
	CreatedAt   *site.Date `yaml:"createdAt"`
}

// ParseDocument splits raw into front matter and body and decodes the
// required metadata fields. source names the file in error messages.
//
// Every failure is a parse error: a missing or unterminated front matter
// block, invalid YAML, or a missing required field.
func ParseDocument(source string, raw []byte) (site.Document, error) {
	fm, body, had, style, err := Split(raw)
	if err != nil {
		return site.Document{}, builderrors.ParseFailed(source, "unterminated front matter", err)
	}
	if !had {
		return site.Document{}, builderrors.ParseFailed(source, "missing front matter", ErrMissingFrontMatter)
	}

	var fields documentFields
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return site.Document{}, builderrors.ParseFailed(source, "invalid front matter", err)
	}

	meta, err := fields.metadata()
	if err != nil {
		return site.Document{}, builderrors.ParseFailed(source, err.Error(), err)
	}

	return site.Document{
		Metadata:       meta,
		Body:           string(body),
		SourcePath:     source,
		RawFrontMatter: fm,
		Newline:        style.Newline,
		BOM:            style.BOM,
		ClosedAtEOF:    style.ClosedAtEOF,
		Fingerprint:    mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(fm), style.Newline), string(body)),
	}, nil
}

// SerializeDocument reassembles the original file content of a parsed document.
func SerializeDocument(doc site.Document) []byte {
	return Join(doc.RawFrontMatter, []byte(doc.Body), true, Style{Newline: doc.Newline, BOM: doc.BOM, ClosedAtEOF: doc.ClosedAtEOF})
}

func (f documentFields) metadata() (site.Metadata, error) {
	var missing []string
	text := func(name string, v *string) string {
		if v == nil || strings.TrimSpace(*v) == "" {
			missing = append(missing, name)
			return ""
		}
		return *v
	}

	meta := site.Metadata{
		Title:       text("title", f.Title),
		Slug:        text("slug", f.Slug),
		Description: text("description", f.Description),
	}
	if f.Tags == nil {
		missing = append(missing, "tags")
	} else {
		meta.Tags = append([]string{}, (*f.Tags)...)
	}
	if f.CreatedAt == nil || f.CreatedAt.IsZero() {
		missing = append(missing, "createdAt")
	} else {
		meta.CreatedAt = *f.CreatedAt
	}

	if len(missing) > 0 {
		return site.Metadata{}, errors.New("missing required field(s): " + strings.Join(missing, ", "))
	}
	return meta, nil
}
