package vellum

import (
	"errors"
	"fmt"
	"io"
	"slices"
)

// Registry maps capability names to implementations supplied by the host
// application. Each editor owns one; nothing in the core depends on what is
// registered. Not safe for concurrent use.
type Registry struct {
	items map[string]any
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]any)}
}

// Register adds impl under name. Empty names, nil implementations and
// duplicate names fail with ErrIllegalArgument.
func (r *Registry) Register(name string, impl any) error {
	switch {
	case name == "":
		return illegalArgument("capability name is empty")
	case impl == nil:
		return illegalArgument("capability %q has nil implementation", name)
	}
	if _, ok := r.items[name]; ok {
		return illegalArgument("capability %q already registered", name)
	}
	r.items[name] = impl
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the implementation registered under name.
func (r *Registry) Lookup(name string) (any, bool) {
	impl, ok := r.items[name]
	return impl, ok
}

// LookupAs returns the implementation registered under name if it is a T.
func LookupAs[T any](r *Registry, name string) (T, bool) {
	impl, ok := r.items[name]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := impl.(T)
	return t, ok
}

// Unregister removes name and returns its implementation. The registry does
// not close it.
func (r *Registry) Unregister(name string) (any, bool) {
	impl, ok := r.items[name]
	if !ok {
		return nil, false
	}
	delete(r.items, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return impl, true
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Close closes every registered io.Closer in reverse registration order and
// empties the registry. All closers run; their errors are joined.
func (r *Registry) Close() error {
	var errs []error
	for i := len(r.order) - 1; i >= 0; i-- {
		name := r.order[i]
		if c, ok := r.items[name].(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("vellum: close capability %q: %w", name, err))
			}
		}
	}
	clear(r.items)
	r.order = nil
	return errors.Join(errs...)
}
