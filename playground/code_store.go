package playground

import "sync"

// CodeStore holds the current shader source text and a monotonically
// increasing revision counter. It is a pure value holder: no validation
// happens here, and it never talks to the compiler itself.
type CodeStore struct {
	mu       sync.Mutex
	text     string
	revision uint64
	onChange func()
}

// NewCodeStore creates an empty CodeStore at revision zero.
func NewCodeStore() *CodeStore {
	return &CodeStore{}
}

// SetText records new source text and bumps the revision. The registered
// change observer fires after the store is updated, outside the lock, so
// an observer taking a Snapshot always sees at least this revision.
func (s *CodeStore) SetText(text string) {
	s.mu.Lock()
	s.text = text
	s.revision++
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// Snapshot returns the current text and its revision atomically. The
// revision carried in a compile request always matches the text snapshot
// it was taken with.
func (s *CodeStore) Snapshot() (string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.revision
}

// Revision returns the current revision without copying the text.
func (s *CodeStore) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// SetObserver registers the single change observer. The reload controller
// owns this hook; it is a scheduling trigger, not a general subscription
// mechanism.
func (s *CodeStore) SetObserver(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}
