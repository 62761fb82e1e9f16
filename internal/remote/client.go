package remote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fcurrie/ledmatrix-golang/internal/types"
	"github.com/fcurrie/ledmatrix-golang/pkg/matrix"
)

var ErrNotConnected = errors.New("not connected")

// Client represents a control client for the display daemon. A connection
// that fails or times out is dropped and redialled by the next command.
type Client struct {
	addr string
	log  *zap.SugaredLogger

	mu     sync.Mutex
	conn   *websocket.Conn
	dialed bool
	nextID uint64
}

// NewClient creates a new client for the daemon at addr (host:port)
func NewClient(addr string, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{addr: addr, log: log}
}

// Connect connects to the daemon's websocket
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	c.conn = conn
	c.dialed = true
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	u := url.URL{Scheme: "ws", Host: c.addr, Path: "/ws"}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", u.String(), err)
	}
	conn.SetPingHandler(func(data string) error {
		c.log.Debugw("ping from daemon")
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
	})
	return conn, nil
}

// drop discards a connection whose state is no longer usable. c.mu is held.
func (c *Client) drop(reason error) {
	if c.conn == nil {
		return
	}
	c.log.Debugw("dropping daemon connection", "error", reason)
	_ = c.conn.Close()
	c.conn = nil
}

// Close closes the connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialed = false
	if c.conn == nil {
		return nil
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Do sends cmd and waits for its reply. A reply that is not OK is returned
// together with an error carrying its code.
//
// A websocket read that times out leaves the connection unusable, so when ctx
// ends before the reply arrives the connection is dropped; the next call dials
// again.
func (c *Client) Do(ctx context.Context, cmd types.Command) (types.Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		if !c.dialed {
			return types.Reply{}, ErrNotConnected
		}
		conn, err := c.dial(ctx)
		if err != nil {
			return types.Reply{}, err
		}
		c.log.Debugw("reconnected to daemon", "addr", c.addr)
		c.conn = conn
	}
	conn := c.conn

	c.nextID++
	cmd.ID = c.nextID

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(cmd); err != nil {
		c.drop(err)
		return types.Reply{}, fmt.Errorf("failed to send %s: %w", cmd.Op, err)
	}

	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
	})
	deadline, hasDeadline := ctx.Deadline()
	conn.SetReadDeadline(deadline)

	var reply types.Reply
	err := conn.ReadJSON(&reply)
	if !stop() {
		// The deadline may already have been moved to now.
		c.drop(ctx.Err())
	}
	if err != nil {
		c.drop(err)
		if hasDeadline && !time.Now().Before(deadline) {
			// The read deadline can expire just before ctx does.
			<-ctx.Done()
		}
		if ctx.Err() != nil {
			return types.Reply{}, ctx.Err()
		}
		return types.Reply{}, fmt.Errorf("failed to read reply to %s: %w", cmd.Op, err)
	}
	if reply.ID != cmd.ID {
		err := fmt.Errorf("reply %d does not answer %s %d", reply.ID, cmd.Op, cmd.ID)
		c.drop(err)
		return types.Reply{}, err
	}
	if !reply.OK {
		return reply, types.Errorf(reply.Code, reply.Error, nil)
	}
	return reply, nil
}

func (c *Client) PixelOn(ctx context.Context, row, col int) error {
	_, err := c.Do(ctx, types.Command{Op: types.OpPixelOn, Row: row, Col: col})
	return err
}

func (c *Client) PixelOff(ctx context.Context, row, col int) error {
	_, err := c.Do(ctx, types.Command{Op: types.OpPixelOff, Row: row, Col: col})
	return err
}

func (c *Client) SetRaw(ctx context.Context, buf [matrix.Pixels]byte) error {
	_, err := c.Do(ctx, types.Command{Op: types.OpSetRaw, Frame: frameInts(buf)})
	return err
}

func (c *Client) SetChar(ctx context.Context, ch byte) error {
	_, err := c.Do(ctx, types.Command{Op: types.OpSetChar, Char: string([]byte{ch})})
	return err
}

// Shift scrolls text once, or hands it to the marquee when loop is set.
func (c *Client) Shift(ctx context.Context, text string, delay time.Duration, loop bool) error {
	_, err := c.Do(ctx, types.Command{
		Op:      types.OpShift,
		Text:    text,
		DelayMS: int(delay / time.Millisecond),
		Loop:    loop,
	})
	return err
}

func (c *Client) Icon(ctx context.Context, name string) error {
	_, err := c.Do(ctx, types.Command{Op: types.OpIcon, Icon: name})
	return err
}

func (c *Client) Anim(ctx context.Context, name string, fps int) error {
	_, err := c.Do(ctx, types.Command{Op: types.OpAnim, Anim: name, FPS: fps})
	return err
}

func (c *Client) Clear(ctx context.Context) error {
	_, err := c.Do(ctx, types.Command{Op: types.OpClear})
	return err
}

// Frame fetches the logical frame.
func (c *Client) Frame(ctx context.Context) ([matrix.Pixels]byte, error) {
	var f [matrix.Pixels]byte
	reply, err := c.Do(ctx, types.Command{Op: types.OpFrame})
	if err != nil {
		return f, err
	}
	if len(reply.Frame) != matrix.Pixels {
		return f, fmt.Errorf("daemon sent %d cells, want %d", len(reply.Frame), matrix.Pixels)
	}
	for i, v := range reply.Frame {
		if v != 0 {
			f[i] = 1
		}
	}
	return f, nil
}

// Status fetches the daemon's status.
func (c *Client) Status(ctx context.Context) (types.DisplayStatus, error) {
	reply, err := c.Do(ctx, types.Command{Op: types.OpStatus})
	if err != nil {
		return types.DisplayStatus{}, err
	}
	if reply.Status == nil {
		return types.DisplayStatus{}, fmt.Errorf("daemon sent no status")
	}
	return *reply.Status, nil
}
