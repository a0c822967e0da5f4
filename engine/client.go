// Package engine speaks to a remote compile/execute engine over a
// CBOR-framed WebSocket. The client satisfies the playground's gateway
// interfaces, so a controller wired to it behaves exactly as it does
// with the in-process front end.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/tliron/commonlog"

	"github.com/shaderdesk/shaderdesk/playground"
)

var log = commonlog.GetLogger("shaderdesk.engine")

// Client is a gateway backed by a live engine connection. It is safe
// for concurrent use; replies are matched to callers by frame sequence
// number, so several requests may be in flight at once.
type Client struct {
	conn *websocket.Conn

	// writeMu serializes writes; gorilla allows one concurrent writer.
	writeMu sync.Mutex

	mu      sync.Mutex
	seq     uint64
	waiters map[uint64]chan *Frame
	connErr error
}

// Dial connects to an engine at a ws:// or wss:// URL.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("engine: dial %s: %w", url, err)
	}
	c := &Client{
		conn:    conn,
		waiters: make(map[uint64]chan *Frame),
	}
	go c.readLoop()
	return c, nil
}

// Close cleanly shuts the connection down. Callers blocked in Compile
// or Reset return with a connection error.
func (c *Client) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	c.writeMu.Lock()
	c.conn.WriteMessage(websocket.CloseMessage, msg)
	c.writeMu.Unlock()
	return c.conn.Close()
}

// Compile sends the snapshot to the engine and waits for its answer.
func (c *Client) Compile(ctx context.Context, req playground.CompileRequest) (playground.CompileResult, error) {
	reply, err := c.call(ctx, EncodeRequest(0, req))
	if err != nil {
		return playground.CompileResult{}, err
	}
	if reply.Kind != KindResult || reply.Result == nil {
		return playground.CompileResult{}, fmt.Errorf("engine: unexpected reply kind %d to compile", reply.Kind)
	}
	return DecodeResult(reply.Result), nil
}

// Reset asks the engine to clear runtime state and waits for the
// acknowledgement it sends on its next render tick.
func (c *Client) Reset(ctx context.Context) error {
	reply, err := c.call(ctx, &Frame{Kind: KindReset})
	if err != nil {
		return err
	}
	if reply.Kind != KindAck {
		return fmt.Errorf("engine: unexpected reply kind %d to reset", reply.Kind)
	}
	return nil
}

// SetTextureSlot rebinds one channel slot on the engine. Fire and
// forget: the engine applies it on its next frame.
func (c *Client) SetTextureSlot(slot int, url string) error {
	return c.write(&Frame{
		Kind:    KindTexture,
		Texture: &TextureFrame{Slot: slot, URL: url},
	})
}

// call sends a frame with a fresh sequence number and blocks until the
// matching reply, the context ends, or the connection dies.
func (c *Client) call(ctx context.Context, f *Frame) (*Frame, error) {
	c.mu.Lock()
	if c.connErr != nil {
		err := c.connErr
		c.mu.Unlock()
		return nil, err
	}
	c.seq++
	f.Seq = c.seq
	ch := make(chan *Frame, 1)
	c.waiters[f.Seq] = ch
	c.mu.Unlock()

	if err := c.write(f); err != nil {
		c.mu.Lock()
		delete(c.waiters, f.Seq)
		c.mu.Unlock()
		return nil, err
	}

	select {
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.waiters, f.Seq)
		c.mu.Unlock()
		return nil, ctx.Err()
	case reply, ok := <-ch:
		if !ok {
			c.mu.Lock()
			err := c.connErr
			c.mu.Unlock()
			return nil, err
		}
		return reply, nil
	}
}

func (c *Client) write(f *Frame) error {
	data, err := MarshalFrame(f)
	if err != nil {
		return fmt.Errorf("engine: marshal frame: %w", err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return fmt.Errorf("engine: write frame: %w", err)
	}
	return nil
}

func (c *Client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.fail(fmt.Errorf("engine: connection lost: %w", err))
			return
		}
		f, err := UnmarshalFrame(data)
		if err != nil {
			log.Warningf("dropping malformed frame: %v", err)
			continue
		}
		switch f.Kind {
		case KindResult, KindAck:
			c.deliver(f)
		default:
			log.Warningf("dropping unexpected frame kind %d", f.Kind)
		}
	}
}

func (c *Client) deliver(f *Frame) {
	c.mu.Lock()
	ch := c.waiters[f.Seq]
	delete(c.waiters, f.Seq)
	c.mu.Unlock()
	if ch == nil {
		log.Warningf("no waiter for reply seq %d", f.Seq)
		return
	}
	ch <- f
}

// fail marks the connection dead and wakes every pending caller.
func (c *Client) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connErr == nil {
		c.connErr = err
	}
	for seq, ch := range c.waiters {
		delete(c.waiters, seq)
		close(ch)
	}
}
