package components

// Names of the built-in components.
const (
	NameLink    = "Link"
	NamePost    = "Post"
	NameCallout = "Callout"
)

// Library returns the UI component library (components usable from pages
// and documents alike).
func Library() *Registry {
	return mustRegistry(
		Entry{Name: NameLink, Component: Link},
		Entry{Name: NamePost, Component: Post},
	)
}

// Markdown returns the components only meaningful inside document bodies.
func Markdown() *Registry {
	return mustRegistry(
		Entry{Name: NameCallout, Component: Callout},
	)
}

// Default merges Library and Markdown; this is the registry a build uses.
func Default() *Registry {
	return Merge(Library(), Markdown())
}

func mustRegistry(entries ...Entry) *Registry {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}
