package object

import "sort"

// Environment maps names to values. Environments chain to a parent:
// lookups walk outward while bindings always land in the innermost scope.
type Environment struct {
	store  map[string]Object
	parent *Environment
}

// NewEnvironment returns an empty scope chained to parent, which may be nil
// for the global scope.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{store: map[string]Object{}, parent: parent}
}

// Get returns the value bound to name in this scope or the nearest
// enclosing scope.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.parent {
		if obj, ok := env.store[name]; ok {
			return obj, true
		}
	}
	return nil, false
}

// Define binds name in this scope, shadowing any outer binding.
func (e *Environment) Define(name string, value Object) {
	e.store[name] = value
}

// Parent returns the enclosing scope, or nil for the global scope.
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Names returns the names bound directly in this scope in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
