package playground

import (
	"context"
	"sync"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Shared test infrastructure for playground package tests.
//
// The controller is asynchronous; tests drive it through a scriptable
// gateway and poll for the observable outcome instead of sleeping for
// fixed intervals.
// ---------------------------------------------------------------------------

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// settle gives queued asynchronous work a moment to land before a
// negative assertion ("nothing else happened").
func settle() {
	time.Sleep(20 * time.Millisecond)
}

// scriptGateway is a CompileGateway whose responses are computed by a
// test-provided function. When gated, every Compile call waits for one
// token on proceed before responding.
type scriptGateway struct {
	mu       sync.Mutex
	requests []CompileRequest
	respond  func(req CompileRequest) (CompileResult, error)
	proceed  chan struct{}

	resets int
}

func newScriptGateway(respond func(req CompileRequest) (CompileResult, error)) *scriptGateway {
	return &scriptGateway{respond: respond}
}

func (g *scriptGateway) gate() {
	g.proceed = make(chan struct{})
}

func (g *scriptGateway) release() {
	g.proceed <- struct{}{}
}

func (g *scriptGateway) Compile(ctx context.Context, req CompileRequest) (CompileResult, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	proceed := g.proceed
	g.mu.Unlock()

	if proceed != nil {
		select {
		case <-proceed:
		case <-ctx.Done():
			return CompileResult{}, ctx.Err()
		}
	}
	return g.respond(req)
}

func (g *scriptGateway) Reset(ctx context.Context) error {
	g.mu.Lock()
	g.resets++
	g.mu.Unlock()
	return nil
}

func (g *scriptGateway) requestCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

func (g *scriptGateway) lastRequest() CompileRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests[len(g.requests)-1]
}

// okResult builds a successful CompileResult for a request.
func okResult(req CompileRequest, entries []EntryPoint, uniforms []UniformDecl) (CompileResult, error) {
	return CompileResult{
		Revision:    req.Revision,
		OK:          true,
		EntryPoints: entries,
		Uniforms:    uniforms,
	}, nil
}

// failResult builds a failed CompileResult carrying a diagnostic.
func failResult(req CompileRequest, diag Diagnostic) (CompileResult, error) {
	return CompileResult{Revision: req.Revision, Diagnostic: diag}, nil
}

// recordingHost is a ControlHost that records every call.
type recordingHost struct {
	mu       sync.Mutex
	next     ControlHandle
	created  []string
	disposed []string
	byHandle map[ControlHandle]string
	ranges   map[string][2]float32
}

func newRecordingHost() *recordingHost {
	return &recordingHost{
		byHandle: make(map[ControlHandle]string),
		ranges:   make(map[string][2]float32),
	}
}

func (h *recordingHost) CreateControl(name string, def, min, max float32) ControlHandle {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	h.created = append(h.created, name)
	h.byHandle[h.next] = name
	h.ranges[name] = [2]float32{min, max}
	return h.next
}

func (h *recordingHost) UpdateControlRange(handle ControlHandle, min, max float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ranges[h.byHandle[handle]] = [2]float32{min, max}
}

func (h *recordingHost) DisposeControl(handle ControlHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disposed = append(h.disposed, h.byHandle[handle])
}

func (h *recordingHost) createdNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.created))
	copy(out, h.created)
	return out
}

func (h *recordingHost) disposedNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.disposed))
	copy(out, h.disposed)
	return out
}

// recordingSink is a MarkerSink that remembers the last marker set.
type recordingSink struct {
	mu      sync.Mutex
	markers []Marker
	sets    int
	clears  int
}

func (s *recordingSink) SetMarkers(markers []Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = markers
	s.sets++
}

func (s *recordingSink) ClearMarkers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = nil
	s.clears++
}

func (s *recordingSink) current() []Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers
}

func (s *recordingSink) clearCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

// newTestController assembles a controller with recording collaborators.
func newTestController(t *testing.T, gw CompileGateway, hotReload bool) (*Controller, *recordingHost, *recordingSink) {
	t.Helper()
	host := newRecordingHost()
	sink := &recordingSink{}
	c := NewController(ControllerConfig{
		Code:      NewCodeStore(),
		Entries:   NewEntryPointRegistry(),
		Uniforms:  NewUniformBindingRegistry(host),
		Textures:  NewTextureSlotRegistry(),
		Gateway:   gw,
		Markers:   sink,
		HotReload: hotReload,
		Playing:   true,
	})
	t.Cleanup(c.Stop)
	return c, host, sink
}
