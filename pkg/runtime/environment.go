package runtime

import "sort"

type binding struct {
	value Value
	bound bool
}

// Environment provides lexical scoping for OBJ runtime values. Frames are
// shared by reference wherever captured, so a closure observes mutation made
// through any other holder of the same frame.
type Environment struct {
	cells  map[string]*binding
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		cells:  make(map[string]*binding),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define inserts or rebinds a cell in the current frame, shadowing outer
// cells of the same name.
func (e *Environment) Define(name string, value Value) {
	e.cells[name] = &binding{value: value, bound: true}
}

// Declare introduces an unbound cell in the current frame. Reading it before
// a set fails; Declare on an existing cell leaves it untouched.
func (e *Environment) Declare(name string) {
	if _, ok := e.cells[name]; ok {
		return
	}
	e.cells[name] = &binding{}
}

// Get retrieves a binding, searching outward through the frame chain.
func (e *Environment) Get(name string) (Value, error) {
	if cell, ok := e.cells[name]; ok {
		if !cell.bound {
			return nil, Unbound(name, "")
		}
		return cell.value, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, Unbound(name, "")
}

// Assign mutates the nearest cell with the given name, binding it if it was
// declared but never set. It never creates a new cell.
func (e *Environment) Assign(name string, value Value) error {
	if cell, ok := e.cells[name]; ok {
		cell.value = value
		cell.bound = true
		return nil
	}
	if e.parent != nil {
		return e.parent.Assign(name, value)
	}
	return Unbound(name, "")
}

// HasLocal reports whether this frame holds a cell (bound or not) for name.
func (e *Environment) HasLocal(name string) bool {
	_, ok := e.cells[name]
	return ok
}

// GetLocal reads a cell from this frame only, without walking outward.
func (e *Environment) GetLocal(name string) (Value, error) {
	cell, ok := e.cells[name]
	if !ok || !cell.bound {
		return nil, Unbound(name, "")
	}
	return cell.value, nil
}

// SetLocal mutates a cell in this frame only.
func (e *Environment) SetLocal(name string, value Value) error {
	cell, ok := e.cells[name]
	if !ok {
		return Unbound(name, "")
	}
	cell.value = value
	cell.bound = true
	return nil
}

// Keys returns this frame's cell names in sorted order (useful for
// determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.cells))
	for k := range e.cells {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extend creates a child frame over the current environment.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
