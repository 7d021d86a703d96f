// Package components holds the component registry consulted when compiling
// document bodies and rendering page shells, and the built-in components.
package components

import (
	"fmt"
	"sort"
)

// Props are the attributes a component was invoked with.
type Props map[string]string

// Component renders markup for one component invocation. children is the
// already-rendered inner HTML.
type Component interface {
	Render(props Props, children string) (string, error)
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(props Props, children string) (string, error)

// Render calls f(props, children).
func (f ComponentFunc) Render(props Props, children string) (string, error) {
	return f(props, children)
}

// Entry pairs a component with the name it is invoked by.
type Entry struct {
	Name      string
	Component Component
}

// Registry is an immutable name -> component mapping. It is built once and
// passed explicitly to everything that renders components.
type Registry struct {
	byName map[string]Component
	names  []string
}

// NewRegistry builds a registry. Empty names, nil components and duplicate
// names are rejected.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{byName: make(map[string]Component, len(entries))}
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("component name is required")
		}
		if e.Component == nil {
			return nil, fmt.Errorf("component %s is nil", e.Name)
		}
		if _, exists := r.byName[e.Name]; exists {
			return nil, fmt.Errorf("component %s already registered", e.Name)
		}
		r.byName[e.Name] = e.Component
		r.names = append(r.names, e.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Merge combines registries into a new one. A name defined in several
// registries resolves to the last one.
func Merge(registries ...*Registry) *Registry {
	merged := &Registry{byName: make(map[string]Component)}
	for _, r := range registries {
		if r == nil {
			continue
		}
		for name, c := range r.byName {
			merged.byName[name] = c
		}
	}
	for name := range merged.byName {
		merged.names = append(merged.names, name)
	}
	sort.Strings(merged.names)
	return merged
}

// Lookup returns the component registered under name.
func (r *Registry) Lookup(name string) (Component, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.byName[name]
	return c, ok
}

// Names lists the registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.names...)
}
