// Package overlays holds the animation and transition catalogs used by the
// renderer. Every catalog entry is a function of elapsed time registered
// under the tag that clips reference by name.
package overlays

import "sort"

// Registry maps catalog tags to entries.
type Registry[F any] struct {
	entries map[string]F
}

// NewRegistry creates an empty registry
func NewRegistry[F any]() *Registry[F] {
	return &Registry[F]{
		entries: make(map[string]F),
	}
}

// Register adds or replaces an entry
func (r *Registry[F]) Register(name string, fn F) {
	r.entries[name] = fn
}

// Get retrieves an entry by tag
func (r *Registry[F]) Get(name string) (F, bool) {
	fn, ok := r.entries[name]
	return fn, ok
}

// Has reports whether a tag is registered.
func (r *Registry[F]) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// List returns all registered tags, sorted
func (r *Registry[F]) List() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of entries.
func (r *Registry[F]) Len() int {
	return len(r.entries)
}
