package playground

import "sync"

// EntryPointRegistry holds the ordered list of dispatchable entry points
// most recently reported by a successful compile. A failed compile never
// touches it.
type EntryPointRegistry struct {
	mu      sync.RWMutex
	entries []EntryPoint
}

// NewEntryPointRegistry creates an empty registry.
func NewEntryPointRegistry() *EntryPointRegistry {
	return &EntryPointRegistry{}
}

// Replace swaps the whole list atomically. Downstream dispatch scheduling
// must never observe a partially updated list.
func (r *EntryPointRegistry) Replace(entries []EntryPoint) {
	fresh := make([]EntryPoint, len(entries))
	copy(fresh, entries)

	r.mu.Lock()
	r.entries = fresh
	r.mu.Unlock()
}

// List returns a copy of the current entry points in dispatch order.
func (r *EntryPointRegistry) List() []EntryPoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]EntryPoint, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len reports the number of registered entry points.
func (r *EntryPointRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
