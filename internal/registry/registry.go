package registry

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/specialistvlad/mlgridgo/internal/transform"
)

// Module is the interface that all pipeline modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the transform modules of a single application instance, in
// registration order.
type Registry struct {
	modules []*transform.Module
	byName  map[string]*transform.Module
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		byName: make(map[string]*transform.Module),
	}
}

// Module returns the named module, creating it on first use.
func (r *Registry) Module(name string) *transform.Module {
	if m, ok := r.byName[name]; ok {
		return m
	}
	slog.Debug("Registering pipeline module.", "name", name)
	m := transform.NewModule(name)
	r.byName[name] = m
	r.modules = append(r.modules, m)
	return m
}

// Register adds functions to the named module. Declaring the same function
// twice in one module panics.
func (r *Registry) Register(module string, fns ...*transform.Function) {
	r.Module(module).Add(fns...)
}

// Modules returns every module in registration order.
func (r *Registry) Modules() []*transform.Module {
	return append([]*transform.Module(nil), r.modules...)
}

// Names returns the module names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.modules))
	for i, m := range r.modules {
		names[i] = m.Name()
	}
	return names
}

// Lookup returns the named modules in the order asked for. All unknown names
// are reported together.
func (r *Registry) Lookup(names ...string) ([]*transform.Module, error) {
	out := make([]*transform.Module, 0, len(names))
	var unknown []string
	for _, name := range names {
		m, ok := r.byName[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		out = append(out, m)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown module(s) %s; registered: %s",
			strings.Join(unknown, ", "), strings.Join(r.Names(), ", "))
	}
	return out, nil
}
