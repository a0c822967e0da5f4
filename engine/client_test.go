package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shaderdesk/shaderdesk/playground"
)

// fakeEngine runs a WebSocket endpoint that feeds every decoded frame
// to handle and writes back whatever it returns. A nil return sends
// nothing, which models an engine that never answers.
func fakeEngine(t *testing.T, handle func(f *Frame) *Frame) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			f, err := UnmarshalFrame(data)
			if err != nil {
				return
			}
			reply := handle(f)
			if reply == nil {
				continue
			}
			out, err := MarshalFrame(reply)
			if err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, out); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialTest(t *testing.T, url string) *Client {
	t.Helper()
	c, err := Dial(context.Background(), url)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClientCompile_RoundTrip(t *testing.T) {
	url := fakeEngine(t, func(f *Frame) *Frame {
		if f.Kind != KindCompile {
			return nil
		}
		return EncodeResult(f.Seq, playground.CompileResult{
			Revision:    f.Compile.Revision,
			OK:          true,
			EntryPoints: []playground.EntryPoint{{Name: "main_image", Kind: playground.KindImage, WorkgroupSize: [3]uint32{16, 16, 1}}},
		})
	})

	c := dialTest(t, url)
	res, err := c.Compile(context.Background(), playground.CompileRequest{Source: "fn f() {}", Revision: 4})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !res.OK || res.Revision != 4 {
		t.Errorf("result = %+v, want OK at revision 4", res)
	}
	if len(res.EntryPoints) != 1 || res.EntryPoints[0].Name != "main_image" {
		t.Errorf("entry points = %+v, want main_image", res.EntryPoints)
	}
}

func TestClientCompile_FailureCarriesDiagnostic(t *testing.T) {
	url := fakeEngine(t, func(f *Frame) *Frame {
		return EncodeResult(f.Seq, playground.CompileResult{
			Revision:   f.Compile.Revision,
			Diagnostic: playground.Diagnostic{Summary: "expected ';'", Row: 3, Col: 7},
		})
	})

	c := dialTest(t, url)
	res, err := c.Compile(context.Background(), playground.CompileRequest{Source: "broken", Revision: 1})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if res.OK {
		t.Fatal("failed compile reported OK")
	}
	if res.Diagnostic.Summary != "expected ';'" || res.Diagnostic.Row != 3 {
		t.Errorf("diagnostic = %+v, want the engine's error at row 3", res.Diagnostic)
	}
}

func TestClientReset_WaitsForAck(t *testing.T) {
	url := fakeEngine(t, func(f *Frame) *Frame {
		if f.Kind != KindReset {
			return nil
		}
		return &Frame{Seq: f.Seq, Kind: KindAck}
	})

	c := dialTest(t, url)
	if err := c.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
}

func TestClientSetTextureSlot_FireAndForget(t *testing.T) {
	got := make(chan TextureFrame, 1)
	url := fakeEngine(t, func(f *Frame) *Frame {
		if f.Kind == KindTexture {
			got <- *f.Texture
		}
		return nil
	})

	c := dialTest(t, url)
	if err := c.SetTextureSlot(2, "https://example.com/noise.png"); err != nil {
		t.Fatalf("set texture slot: %v", err)
	}

	select {
	case tf := <-got:
		if tf.Slot != 2 || tf.URL != "https://example.com/noise.png" {
			t.Errorf("texture frame = %+v, want slot 2 with the URL", tf)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("engine never saw the texture frame")
	}
}

func TestClientCompile_ContextCancel(t *testing.T) {
	url := fakeEngine(t, func(f *Frame) *Frame { return nil })

	c := dialTest(t, url)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Compile(ctx, playground.CompileRequest{Source: "fn f() {}", Revision: 1})
	if err != context.DeadlineExceeded {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestClientCompile_ConnectionLost(t *testing.T) {
	url := fakeEngine(t, func(f *Frame) *Frame {
		// First frame kills the connection without answering.
		panic(http.ErrAbortHandler)
	})

	c := dialTest(t, url)
	_, err := c.Compile(context.Background(), playground.CompileRequest{Source: "fn f() {}", Revision: 1})
	if err == nil {
		t.Fatal("compile on a dead connection returned no error")
	}
	if !strings.Contains(err.Error(), "connection lost") {
		t.Errorf("err = %v, want a connection-lost error", err)
	}

	// The client stays failed for later calls too.
	if err := c.Reset(context.Background()); err == nil {
		t.Error("reset on a dead connection returned no error")
	}
}
