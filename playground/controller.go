// Package playground coordinates a user-edited shader source against an
// external compile/execute engine. It schedules compiles, reconciles the
// entry-point and uniform registries from successful results, turns
// compiler diagnostics into editor markers, and keeps the runtime controls
// (play/pause/reset/hot-reload, texture slots) consistent with whatever
// shader is currently loaded.
package playground

import (
	"context"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("shaderdesk.playground")

// MarkerSink is the outbound editor boundary. SetMarkers replaces all
// markers atomically; ClearMarkers removes them.
type MarkerSink interface {
	SetMarkers(markers []Marker)
	ClearMarkers()
}

type noopMarkerSink struct{}

func (noopMarkerSink) SetMarkers([]Marker) {}
func (noopMarkerSink) ClearMarkers()       {}

// Mode is the controller's logical state.
type Mode int

const (
	// ModeIdle is the initial state, before any compile has completed.
	ModeIdle Mode = iota

	// ModeCompilePending means a compile request is in flight.
	ModeCompilePending

	// ModePlaying means the last compile succeeded and dispatch runs.
	ModePlaying

	// ModePaused means the last compile succeeded and dispatch is held.
	ModePaused

	// ModeErrored means the last compile failed; the previously
	// successful program keeps running on the engine side.
	ModeErrored
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeCompilePending:
		return "compile-pending"
	case ModePlaying:
		return "playing"
	case ModePaused:
		return "paused"
	case ModeErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// RuntimeFlags mirrors the play/pause/reset/reload switches. Only the
// controller mutates it, through its transition operations.
type RuntimeFlags struct {
	Playing               bool
	ResetRequested        bool
	HotReload             bool
	ManualReloadRequested bool
}

// ControllerConfig wires a Controller's collaborators. Code and Gateway
// are required; a nil Markers gets a no-op sink.
type ControllerConfig struct {
	Code     *CodeStore
	Entries  *EntryPointRegistry
	Uniforms *UniformBindingRegistry
	Textures *TextureSlotRegistry
	Gateway  CompileGateway
	Markers  MarkerSink

	// HotReload and Playing seed the initial runtime flags.
	HotReload bool
	Playing   bool
}

// Controller is the state machine governing play/pause/reset/hot-reload
// and manual reload, and the sole component allowed to request a compile.
// All registry mutation is serialized on its event loop goroutine; the
// exported methods are safe to call from any goroutine.
//
// Compiles are single-flight by latest revision: an edit arriving while a
// request is in flight supersedes it, and a result whose revision no
// longer matches the latest requested one is discarded without touching
// any registry. That comparison is the only defense against out-of-order
// asynchronous completions, and the only one needed.
type Controller struct {
	code     *CodeStore
	entries  *EntryPointRegistry
	uniforms *UniformBindingRegistry
	textures *TextureSlotRegistry
	gateway  CompileGateway
	markers  MarkerSink

	events   chan func()
	quit     chan struct{}
	stopOnce sync.Once
	ctx      context.Context
	cancel   context.CancelFunc

	// Loop-owned state. Never touched off the event loop goroutine.
	flags           RuntimeFlags
	mode            Mode
	latestRequested uint64
	inFlight        bool
	pending         bool
	lastDiag        *Diagnostic
	compiledOnce    bool
}

// NewController creates a Controller, registers it as the CodeStore's
// change observer, and starts its event loop.
func NewController(cfg ControllerConfig) *Controller {
	if cfg.Markers == nil {
		cfg.Markers = noopMarkerSink{}
	}
	if cfg.Entries == nil {
		cfg.Entries = NewEntryPointRegistry()
	}
	if cfg.Textures == nil {
		cfg.Textures = NewTextureSlotRegistry()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		code:     cfg.Code,
		entries:  cfg.Entries,
		uniforms: cfg.Uniforms,
		textures: cfg.Textures,
		gateway:  cfg.Gateway,
		markers:  cfg.Markers,
		events:   make(chan func(), 64),
		quit:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
	c.flags.HotReload = cfg.HotReload
	c.flags.Playing = cfg.Playing

	c.code.SetObserver(func() {
		c.do(c.handleEdit)
	})

	go c.loop()
	return c
}

// loop runs queued transitions sequentially on a dedicated goroutine.
func (c *Controller) loop() {
	for {
		select {
		case fn := <-c.events:
			fn()
		case <-c.quit:
			return
		}
	}
}

// do schedules fn on the event loop. Safe from any goroutine.
func (c *Controller) do(fn func()) {
	select {
	case c.events <- fn:
	case <-c.quit:
	}
}

// doWait runs fn on the event loop and blocks until it returns.
func (c *Controller) doWait(fn func()) {
	done := make(chan struct{})
	c.do(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
	case <-c.quit:
	}
}

// Stop terminates the event loop. In-flight compile results are dropped.
// The controller otherwise runs for the lifetime of the editing session.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		c.cancel()
		close(c.quit)
	})
}

// --- Accessors -------------------------------------------------------------

// Code returns the controller's CodeStore.
func (c *Controller) Code() *CodeStore { return c.code }

// Entries returns the entry-point registry.
func (c *Controller) Entries() *EntryPointRegistry { return c.entries }

// Uniforms returns the uniform binding registry.
func (c *Controller) Uniforms() *UniformBindingRegistry { return c.uniforms }

// Textures returns the texture slot registry.
func (c *Controller) Textures() *TextureSlotRegistry { return c.textures }

// Mode reports the controller's logical state.
func (c *Controller) Mode() Mode {
	var m Mode
	c.doWait(func() { m = c.mode })
	return m
}

// Flags reports the current runtime flags.
func (c *Controller) Flags() RuntimeFlags {
	var f RuntimeFlags
	c.doWait(func() { f = c.flags })
	return f
}

// CurrentDiagnostic returns the stored diagnostic, if any.
func (c *Controller) CurrentDiagnostic() (Diagnostic, bool) {
	var (
		d  Diagnostic
		ok bool
	)
	c.doWait(func() {
		if c.lastDiag != nil {
			d = *c.lastDiag
			ok = true
		}
	})
	return d, ok
}

// --- Transitions -----------------------------------------------------------

// SetHotReload toggles automatic recompilation on every edit. Turning it
// on does not retroactively compile accumulated edits; the next edit or
// manual reload does.
func (c *Controller) SetHotReload(on bool) {
	c.doWait(func() { c.flags.HotReload = on })
}

// Play resumes dispatching of the current program.
func (c *Controller) Play() {
	c.doWait(func() {
		c.flags.Playing = true
		if c.mode == ModePaused {
			c.mode = ModePlaying
		}
	})
}

// Pause holds dispatching without discarding the current program.
func (c *Controller) Pause() {
	c.doWait(func() {
		c.flags.Playing = false
		if c.mode == ModePlaying {
			c.mode = ModePaused
		}
	})
}

// ManualReload requests a compile of the current text regardless of the
// hot-reload setting. The flag clears once the request is submitted.
func (c *Controller) ManualReload() {
	c.doWait(func() {
		c.flags.ManualReloadRequested = true
		c.scheduleCompile()
	})
}

// Reset asks the engine to clear runtime state (elapsed time, pass
// buffers) on its next render tick. The flag stays set until the engine
// acknowledges. Gateways that cannot reset clear the flag immediately.
func (c *Controller) Reset() {
	c.doWait(func() {
		c.flags.ResetRequested = true
		r, ok := c.gateway.(Resetter)
		if !ok {
			c.flags.ResetRequested = false
			return
		}
		go func() {
			if err := r.Reset(c.ctx); err != nil {
				log.Errorf("reset: %s", err.Error())
			}
			c.do(func() { c.flags.ResetRequested = false })
		}()
	})
}

// --- Compile scheduling (loop goroutine only) ------------------------------

func (c *Controller) handleEdit() {
	if !c.flags.HotReload {
		// Text accumulates in the store until a manual reload.
		return
	}
	c.scheduleCompile()
}

// scheduleCompile snapshots the latest revision and submits it. A request
// already in flight is superseded: its result will fail the revision
// comparison, and the newer snapshot is submitted when it lands. At most
// one compile is in flight per controller.
func (c *Controller) scheduleCompile() {
	text, rev := c.code.Snapshot()
	if rev == 0 {
		// Nothing has ever been loaded into the store.
		c.flags.ManualReloadRequested = false
		return
	}
	c.latestRequested = rev
	if c.inFlight {
		c.pending = true
		return
	}
	c.submit(text, rev)
}

func (c *Controller) submit(text string, rev uint64) {
	c.inFlight = true
	c.flags.ManualReloadRequested = false
	c.mode = ModeCompilePending
	log.Debugf("compile submitted: revision %d", rev)

	go func() {
		res, err := c.gateway.Compile(c.ctx, CompileRequest{Source: text, Revision: rev})
		c.do(func() { c.finish(rev, res, err) })
	}()
}

// finish applies a compile outcome if it still matches the latest
// requested revision. Stale outcomes are discarded without mutating any
// registry or marker state.
func (c *Controller) finish(rev uint64, res CompileResult, err error) {
	c.inFlight = false
	defer c.resubmitPending()

	if rev != c.latestRequested {
		log.Debugf("discarding stale compile result: revision %d, latest %d", rev, c.latestRequested)
		return
	}

	switch {
	case err != nil:
		// Gateway unreachable. Surfaced as a persistent diagnostic;
		// retried only on the next edit or manual trigger.
		d := Diagnostic{
			Summary: fmt.Sprintf("compile engine unreachable: %s", err.Error()),
			Row:     1,
			Col:     1,
		}
		c.lastDiag = &d
		c.mode = ModeErrored
		c.publishMarkers()
		log.Errorf("compile revision %d: %s", rev, err.Error())

	case res.OK:
		c.entries.Replace(res.EntryPoints)
		c.uniforms.Reconcile(res.Uniforms)
		c.lastDiag = nil
		c.compiledOnce = true
		if c.flags.Playing {
			c.mode = ModePlaying
		} else {
			c.mode = ModePaused
		}
		c.markers.ClearMarkers()
		log.Debugf("compile succeeded: revision %d, %d entry points", rev, len(res.EntryPoints))

	default:
		// Compile diagnostics are expected and non-fatal. The previous
		// program keeps running unmodified on the engine side.
		d := res.Diagnostic
		c.lastDiag = &d
		c.mode = ModeErrored
		c.publishMarkers()
	}
}

func (c *Controller) resubmitPending() {
	if !c.pending || c.inFlight {
		return
	}
	c.pending = false
	text, rev := c.code.Snapshot()
	c.latestRequested = rev
	c.submit(text, rev)
}

func (c *Controller) publishMarkers() {
	text, _ := c.code.Snapshot()
	c.markers.SetMarkers(MapToMarkers(*c.lastDiag, NewLineDocument(text)))
}
