package lang

import (
	"iter"
	"maps"
	"slices"
)

// Namespace is one scope of name bindings, linked to its enclosing scope.
//
// Lookups walk outward through parents. Functions keep a pointer to the
// namespace they were defined in, so that scope stays alive and shared for as
// long as any such function is reachable.
type Namespace struct {
	bindings map[string]Value
	parent   *Namespace
}

// NewRootNamespace returns an empty namespace with no parent.
func NewRootNamespace() *Namespace {
	return &Namespace{bindings: make(map[string]Value)}
}

// Child returns a new empty namespace enclosed by ns.
func (ns *Namespace) Child() *Namespace {
	return &Namespace{bindings: make(map[string]Value), parent: ns}
}

// Parent returns the enclosing namespace, or nil for a root.
func (ns *Namespace) Parent() *Namespace { return ns.parent }

// Lookup returns the value bound to name in ns or the nearest enclosing
// namespace that binds it.
func (ns *Namespace) Lookup(name string) (Value, bool) {
	for s := ns; s != nil; s = s.parent {
		if v, ok := s.bindings[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Define binds name in ns itself, shadowing any enclosing binding.
func (ns *Namespace) Define(name string, v Value) {
	ns.bindings[name] = v
}

// Assign rebinds name in the nearest namespace that already binds it, or
// defines it in ns if no namespace does. A block can therefore update a
// variable of an enclosing scope, while names first assigned inside the block
// stay local to it. Use Define to shadow an enclosing binding instead.
func (ns *Namespace) Assign(name string, v Value) {
	for s := ns; s != nil; s = s.parent {
		if _, ok := s.bindings[name]; ok {
			s.bindings[name] = v

			return
		}
	}

	ns.bindings[name] = v
}

// Local reports whether name is bound in ns itself.
func (ns *Namespace) Local(name string) bool {
	_, ok := ns.bindings[name]

	return ok
}

// Names returns every name visible from ns, sorted.
func (ns *Namespace) Names() []string {
	seen := make(map[string]struct{})

	for s := ns; s != nil; s = s.parent {
		for name := range s.bindings {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// All returns an iterator over the bindings visible from ns, sorted by name.
// Shadowed bindings are skipped.
func (ns *Namespace) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range ns.Names() {
			v, _ := ns.Lookup(name)
			if !yield(name, v) {
				return
			}
		}
	}
}
