package ir

import (
	"fmt"
	"sort"
)

// Registry maps stable component names to their definitions. Name order is
// deterministic (sorted) so every iteration over the registry produces the
// same sequence, keeping rendered output byte-identical across runs.
type Registry struct {
	names  []string
	byName map[string]Component
}

// NewRegistry builds a registry from a component list. Duplicate names are
// rejected; name order is normalised to sorted order regardless of input.
func NewRegistry(components []Component) (*Registry, error) {
	byName := make(map[string]Component, len(components))
	names := make([]string, 0, len(components))
	for _, c := range components {
		if c.Name == "" {
			return nil, fmt.Errorf("ir: component name is required")
		}
		if _, exists := byName[c.Name]; exists {
			return nil, fmt.Errorf("ir: duplicate component %q", c.Name)
		}
		byName[c.Name] = c
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return &Registry{names: names, byName: byName}, nil
}

// Get looks up a component by name.
func (r *Registry) Get(name string) (Component, bool) {
	if r == nil {
		return Component{}, false
	}
	c, ok := r.byName[name]
	return c, ok
}

// Has reports whether a component is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns the component names in deterministic order. The returned
// slice is a copy.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.names...)
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Components returns the registered components in name order.
func (r *Registry) Components() []Component {
	if r == nil {
		return nil
	}
	out := make([]Component, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}
