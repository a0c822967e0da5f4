package playground

import (
	"fmt"
	"sync"
)

// TextureSlotRegistry holds the ordered list of currently bound texture
// resource identifiers. It is independent of compile state: slots may be
// swapped while the current shader is broken, and changes take effect on
// the engine's next dispatch.
type TextureSlotRegistry struct {
	mu       sync.RWMutex
	slots    []string
	onChange func(slots []string)
}

// NewTextureSlotRegistry creates an empty registry.
func NewTextureSlotRegistry() *TextureSlotRegistry {
	return &TextureSlotRegistry{}
}

// SetSlot binds a resource identifier to a slot index, growing the list
// as needed. An empty resourceID unbinds the slot.
func (r *TextureSlotRegistry) SetSlot(index int, resourceID string) error {
	if index < 0 {
		return fmt.Errorf("playground: texture slot index %d out of range", index)
	}

	r.mu.Lock()
	for len(r.slots) <= index {
		r.slots = append(r.slots, "")
	}
	r.slots[index] = resourceID
	notify := r.onChange
	slots := make([]string, len(r.slots))
	copy(slots, r.slots)
	r.mu.Unlock()

	if notify != nil {
		notify(slots)
	}
	return nil
}

// Slots returns a copy of the current slot list in order.
func (r *TextureSlotRegistry) Slots() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.slots))
	copy(out, r.slots)
	return out
}

// SetObserver registers the single change observer, used to forward slot
// changes to the engine out-of-band from compiles.
func (r *TextureSlotRegistry) SetObserver(fn func(slots []string)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}
