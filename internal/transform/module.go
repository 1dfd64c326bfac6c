package transform

import "fmt"

// Module is an ordered, named collection of functions. Declaration order is
// preserved and is the order every consumer sees.
type Module struct {
	name      string
	functions []*Function
	index     map[string]int
}

// NewModule creates a module holding the given functions.
func NewModule(name string, fns ...*Function) *Module {
	m := &Module{name: name, index: make(map[string]int)}
	m.Add(fns...)
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Add appends functions to the module. Declaring the same name twice is a
// programming error and panics.
func (m *Module) Add(fns ...*Function) {
	for _, fn := range fns {
		if fn == nil {
			panic(fmt.Sprintf("module '%s': nil function", m.name))
		}
		if _, exists := m.index[fn.Name]; exists {
			panic(fmt.Sprintf("module '%s': function '%s' already declared", m.name, fn.Name))
		}
		m.index[fn.Name] = len(m.functions)
		m.functions = append(m.functions, fn)
	}
}

// Functions returns the module's functions in declaration order.
func (m *Module) Functions() []*Function {
	return append([]*Function(nil), m.functions...)
}

// Lookup returns the function with the given name.
func (m *Module) Lookup(name string) (*Function, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.functions[i], true
}

// Len returns the number of functions in the module.
func (m *Module) Len() int {
	return len(m.functions)
}
