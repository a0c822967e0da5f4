package main

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shaderdesk/shaderdesk/playground"
)

// loggingHost is the CLI's stand-in for a UI control panel: it hands
// out handles and, when verbose, narrates control lifecycle.
type loggingHost struct {
	verbose bool
	next    uint64
}

func (h *loggingHost) CreateControl(name string, def, min, max float32) playground.ControlHandle {
	handle := playground.ControlHandle(atomic.AddUint64(&h.next, 1))
	if h.verbose {
		fmt.Printf("uniform %s: default %g range [%g, %g]\n", name, def, min, max)
	}
	return handle
}

func (h *loggingHost) UpdateControlRange(handle playground.ControlHandle, min, max float32) {
	if h.verbose {
		fmt.Printf("uniform control %d: range [%g, %g]\n", handle, min, max)
	}
}

func (h *loggingHost) DisposeControl(handle playground.ControlHandle) {
	if h.verbose {
		fmt.Printf("uniform control %d: removed\n", handle)
	}
}

// markerRelay forwards markers to a sink installed after the controller
// is built. The LSP server needs the controller to exist before it can
// be constructed, so the sink arrives late.
type markerRelay struct {
	mu     sync.Mutex
	target playground.MarkerSink
}

func (r *markerRelay) set(sink playground.MarkerSink) {
	r.mu.Lock()
	r.target = sink
	r.mu.Unlock()
}

func (r *markerRelay) SetMarkers(markers []playground.Marker) {
	r.mu.Lock()
	t := r.target
	r.mu.Unlock()
	if t != nil {
		t.SetMarkers(markers)
	}
}

func (r *markerRelay) ClearMarkers() {
	r.mu.Lock()
	t := r.target
	r.mu.Unlock()
	if t != nil {
		t.ClearMarkers()
	}
}
