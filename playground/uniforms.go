package playground

import (
	"sort"
	"sync"
)

// ControlHandle is an opaque key into the UI layer's control table. The
// registry stores handles but never constructs or destroys the controls
// they name; control lifetime belongs to the UI layer.
type ControlHandle uint64

// ControlHost is the UI side of the uniform binding boundary. All three
// calls are side-effecting and never reversed by the registry.
type ControlHost interface {
	CreateControl(name string, def, min, max float32) ControlHandle
	UpdateControlRange(handle ControlHandle, min, max float32)
	DisposeControl(handle ControlHandle)
}

type uniformBinding struct {
	handle ControlHandle
	decl   UniformDecl
}

// UniformBindingRegistry associates declared uniform names with live UI
// control handles. Identity is by name: a uniform whose type or range
// changes without a rename keeps its handle, so user-adjusted slider
// values survive benign recompiles.
type UniformBindingRegistry struct {
	mu       sync.RWMutex
	host     ControlHost
	bindings map[string]*uniformBinding
}

// NewUniformBindingRegistry creates a registry that requests and releases
// controls through host.
func NewUniformBindingRegistry(host ControlHost) *UniformBindingRegistry {
	return &UniformBindingRegistry{
		host:     host,
		bindings: make(map[string]*uniformBinding),
	}
}

// Reconcile aligns the registry with the uniform declarations of a
// successful compile: names missing from the registry get a fresh control
// seeded with the declared default and range, names missing from the
// declarations are removed and their controls disposed, and surviving
// names keep their existing handle, taking a changed range in place.
func (r *UniformBindingRegistry) Reconcile(decls []UniformDecl) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(decls))
	for _, d := range decls {
		seen[d.Name] = true
		if b, ok := r.bindings[d.Name]; ok {
			if b.decl.Min != d.Min || b.decl.Max != d.Max {
				r.host.UpdateControlRange(b.handle, d.Min, d.Max)
			}
			b.decl = d
			continue
		}
		r.bindings[d.Name] = &uniformBinding{
			handle: r.host.CreateControl(d.Name, d.Default, d.Min, d.Max),
			decl:   d,
		}
	}

	for name, b := range r.bindings {
		if !seen[name] {
			r.host.DisposeControl(b.handle)
			delete(r.bindings, name)
		}
	}
}

// Lookup returns the control handle bound to a uniform name.
func (r *UniformBindingRegistry) Lookup(name string) (ControlHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[name]
	if !ok {
		return 0, false
	}
	return b.handle, true
}

// Decl returns the declaration currently bound to a uniform name.
func (r *UniformBindingRegistry) Decl(name string) (UniformDecl, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[name]
	if !ok {
		return UniformDecl{}, false
	}
	return b.decl, true
}

// Names returns the bound uniform names, sorted.
func (r *UniformBindingRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of bound uniforms.
func (r *UniformBindingRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}
