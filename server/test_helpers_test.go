package server

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/shaderdesk/shaderdesk/playground"
	"github.com/shaderdesk/shaderdesk/wgsl"
)

// ---------------------------------------------------------------------------
// Shared test infrastructure for server package tests.
//
// Services are exercised by calling their methods directly; the HTTP
// round trip through the codec is covered once in server_test.go.
// ---------------------------------------------------------------------------

// nullHost satisfies ControlHost for tests that don't inspect controls.
type nullHost struct{ next playground.ControlHandle }

func (h *nullHost) CreateControl(string, float32, float32, float32) playground.ControlHandle {
	h.next++
	return h.next
}
func (h *nullHost) UpdateControlRange(playground.ControlHandle, float32, float32) {}
func (h *nullHost) DisposeControl(playground.ControlHandle)                       {}

// newTestController assembles a controller over the in-process front
// end with hot reload on, the way the CLI wires it without an engine.
func newTestController(t *testing.T) *playground.Controller {
	t.Helper()
	ctrl := playground.NewController(playground.ControllerConfig{
		Code:      playground.NewCodeStore(),
		Uniforms:  playground.NewUniformBindingRegistry(&nullHost{}),
		Gateway:   wgsl.NewGateway(),
		HotReload: true,
		Playing:   true,
	})
	t.Cleanup(ctrl.Stop)
	return ctrl
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

func connectReq[T any](msg *T) *connect.Request[T] {
	return connect.NewRequest(msg)
}

func bg() context.Context {
	return context.Background()
}

const validShader = `@compute @workgroup_size(16, 16)
fn main_image(@builtin(global_invocation_id) id: uint3) {
    let r = custom.radius;
    textureStore(screen, int2(id.xy), float4(r, 0.0, 0.0, 1.0));
}
`

const brokenShader = "fn broken() {\n"
