package templates

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnknownTemplate is returned when a template name or value is not known.
var ErrUnknownTemplate = errors.New("unknown template")

// Module is implemented by anything that contributes templates to a Registry.
type Module interface {
	Register(r *Registry)
}

// Registry holds the templates offered for node creation, in presentation
// order.
type Registry struct {
	ordered []Template
	byName  map[string]Template
}

// New creates an empty registry and registers the given modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{byName: make(map[string]Template)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds a template. Registering the same template twice is a
// programming error and panics.
func (r *Registry) Register(t Template) {
	if !t.Valid() {
		panic(fmt.Sprintf("template %d is not declared", int(t)))
	}
	if _, exists := r.byName[t.Name()]; exists {
		panic(fmt.Sprintf("template with name '%s' already registered", t.Name()))
	}
	slog.Debug("Registering node template.", "name", t.Name())
	r.byName[t.Name()] = t
	r.ordered = append(r.ordered, t)
}

// All returns the registered templates in registration order.
func (r *Registry) All() []Template {
	return append([]Template(nil), r.ordered...)
}

// Lookup finds a registered template by its Name.
func (r *Registry) Lookup(name string) (Template, error) {
	t, ok := r.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return t, nil
}

// CategoryGroup is one collapsible group of a node finder.
type CategoryGroup struct {
	Name      string
	Templates []Template
}

// Categories groups the registered templates by category, in order of first
// appearance. A template listed under several categories appears in each.
func (r *Registry) Categories() []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[string]int)
	for _, t := range r.ordered {
		for _, c := range t.Categories() {
			i, ok := index[c]
			if !ok {
				i = len(groups)
				index[c] = i
				groups = append(groups, CategoryGroup{Name: c})
			}
			groups[i].Templates = append(groups[i].Templates, t)
		}
	}
	return groups
}

// Builtin registers every built-in template in menu order.
type Builtin struct{}

// Register implements Module.
func (Builtin) Register(r *Registry) {
	for _, t := range []Template{
		MakeScalar,
		MakeVector,
		AddScalar,
		SubtractScalar,
		AddVector,
		SubtractVector,
		VectorTimesScalar,
		Scaffold,
		Text,
	} {
		r.Register(t)
	}
}
