// Package templates provides the flat placeholder substitution engine used to
// assemble output pages and hydration stubs, together with the embedded
// default templates.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	builderrors "git.home.luguber.info/inful/sitebuilder/internal/errors"
)

// Name identifies one of the templates the renderers use.
type Name string

const (
	PageHTML    Name = "page.html.template"
	PageHydrate Name = "pageHydrate.tsx.template"
	Post        Name = "Post.tsx.template"
)

// Names lists every template in a Set.
var Names = []Name{PageHTML, PageHydrate, Post}

//go:embed defaults/*.template
var embeddedDefaults embed.FS

// Info records where a template body came from.
// Source is "embedded" (built-in default) or "file" (user override).
type Info struct {
	Source string `json:"source"`
	Path   string `json:"path,omitempty"`
}

// Set holds the template bodies for one build. It is read-only after LoadSet.
type Set struct {
	bodies map[Name]string
	info   map[Name]Info
}

// LoadSet returns the embedded defaults, overridden by same-named files in
// dir. An empty dir selects the defaults only.
func LoadSet(dir string) (*Set, error) {
	s := &Set{
		bodies: make(map[Name]string, len(Names)),
		info:   make(map[Name]Info, len(Names)),
	}
	for _, name := range Names {
		if dir != "" {
			p := filepath.Join(dir, string(name))
			// #nosec G304 -- p is built from a fixed template name under the configured directory.
			b, err := os.ReadFile(p)
			switch {
			case err == nil:
				s.bodies[name] = string(b)
				s.info[name] = Info{Source: "file", Path: p}
				continue
			case !errors.Is(err, fs.ErrNotExist):
				return nil, builderrors.IOFailed("read template", p, err)
			}
		}
		b, err := embeddedDefaults.ReadFile("defaults/" + string(name))
		if err != nil {
			return nil, builderrors.InternalError(fmt.Sprintf("embedded template %s missing", name), err)
		}
		s.bodies[name] = string(b)
		s.info[name] = Info{Source: "embedded"}
	}
	return s, nil
}

// Execute renders the named template with values.
func (s *Set) Execute(name Name, values map[string]string) string {
	return Render(s.bodies[name], values)
}

// Body returns the raw template body.
func (s *Set) Body(name Name) string { return s.bodies[name] }

// Info reports where the named template was loaded from.
func (s *Set) Info(name Name) Info { return s.info[name] }
