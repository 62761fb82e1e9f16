// Package remote exposes a display over HTTP and a websocket command channel.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fcurrie/ledmatrix-golang/internal/anim"
	"github.com/fcurrie/ledmatrix-golang/internal/display"
	"github.com/fcurrie/ledmatrix-golang/internal/icon"
	"github.com/fcurrie/ledmatrix-golang/internal/types"
	"github.com/fcurrie/ledmatrix-golang/pkg/matrix"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	defaultDelay = 100 * time.Millisecond
)

// Server serves one display.
type Server struct {
	display  types.Display
	renderer *display.Renderer
	preview  display.Preview
	log      *zap.SugaredLogger
	upgrader websocket.Upgrader
	started  time.Time

	// writes orders display writes against the start of a one-shot scroll.
	// shifting is set under it and cleared when the scroll ends.
	writes   sync.Mutex
	shifting atomic.Bool
	updated  atomic.Int64
}

// NewServer creates a server for d. r may be nil, in which case looping
// shifts are refused.
func NewServer(d types.Display, r *display.Renderer, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{
		display:  d,
		renderer: r,
		preview:  display.DefaultPreview,
		log:      log,
		started:  time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.updated.Store(s.started.UnixNano())
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/frame.png", s.handleFrame)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Infow("control server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("failed to serve on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down control server: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Status returns the daemon's view of the display.
func (s *Server) Status() types.DisplayStatus {
	st := types.DisplayStatus{
		Matrix:      s.display.Status(),
		Scrolling:   s.shifting.Load(),
		Uptime:      time.Since(s.started),
		LastUpdated: time.Unix(0, s.updated.Load()),
	}
	if s.renderer != nil {
		st.Scrolling = st.Scrolling || s.renderer.Scrolling()
		st.Message = s.renderer.Message()
	}
	return st
}

// Execute runs one command. A one-shot shift blocks until the scroll ends or
// ctx is done.
func (s *Server) Execute(ctx context.Context, cmd types.Command) types.Reply {
	reply := types.Reply{ID: cmd.ID}
	if err := s.execute(ctx, cmd, &reply); err != nil {
		reply.Code = types.CodeOf(err)
		reply.Error = err.Error()
		s.log.Debugw("command failed", "op", cmd.Op, "code", reply.Code, "error", err)
		return reply
	}
	reply.OK = true
	return reply
}

func (s *Server) execute(ctx context.Context, cmd types.Command, reply *types.Reply) error {
	switch cmd.Op {
	case types.OpFrame:
		reply.Frame = frameInts(s.display.Frame())
		return nil
	case types.OpStatus:
		st := s.Status()
		reply.Status = &st
		return nil
	case types.OpPixelOn, types.OpPixelOff, types.OpSetRaw, types.OpSetChar,
		types.OpIcon, types.OpClear, types.OpShift, types.OpAnim:
	default:
		return types.Errorf(types.CodeUnknownOp, string(cmd.Op), nil)
	}

	if cmd.Op == types.OpShift {
		if cmd.DelayMS < 0 {
			return types.Errorf(types.CodeInvalidParams, "delay_ms must not be negative", nil)
		}
		if !cmd.Loop {
			return s.shift(ctx, cmd)
		}
	}

	s.writes.Lock()
	defer s.writes.Unlock()
	if s.shifting.Load() {
		return types.Errorf(types.CodeBusy, "a scroll is in progress", nil)
	}
	defer s.updated.Store(time.Now().UnixNano())

	switch cmd.Op {
	case types.OpShift:
		if s.renderer == nil {
			return types.Errorf(types.CodeInvalidParams, "no marquee on this display", nil)
		}
		s.renderer.Submit(cmd.Text)
		return nil
	case types.OpAnim:
		return s.animate(cmd)
	}

	// Direct writes take the display back from the marquee.
	if s.renderer != nil {
		s.renderer.Hold()
	}

	switch cmd.Op {
	case types.OpPixelOn:
		s.display.PixelOn(cmd.Row, cmd.Col)
	case types.OpPixelOff:
		s.display.PixelOff(cmd.Row, cmd.Col)
	case types.OpClear:
		s.display.Clear()
	case types.OpSetChar:
		if len(cmd.Char) != 1 {
			return types.Errorf(types.CodeInvalidParams, "char must be a single byte", nil)
		}
		s.display.SetChar(cmd.Char[0])
	case types.OpSetRaw:
		if len(cmd.Frame) != matrix.Pixels {
			return types.Errorf(types.CodeInvalidParams,
				fmt.Sprintf("frame must have %d cells, got %d", matrix.Pixels, len(cmd.Frame)), nil)
		}
		var buf [matrix.Pixels]byte
		for i, v := range cmd.Frame {
			if v != 0 {
				buf[i] = 1
			}
		}
		s.display.SetRaw(buf)
	case types.OpIcon:
		frame, err := icon.Get(cmd.Icon)
		if errors.Is(err, icon.ErrUnknown) {
			return types.Errorf(types.CodeUnknownIcon, cmd.Icon, err)
		}
		if err != nil {
			return err
		}
		s.display.SetRaw(frame)
	}
	reply.Frame = frameInts(s.display.Frame())
	return nil
}

// shift runs a one-shot scroll. Direct writes are refused with busy until
// it ends.
func (s *Server) shift(ctx context.Context, cmd types.Command) error {
	delay := time.Duration(cmd.DelayMS) * time.Millisecond
	if delay == 0 {
		delay = defaultDelay
	}

	s.writes.Lock()
	started := s.shifting.CompareAndSwap(false, true)
	s.writes.Unlock()
	if !started {
		return types.Errorf(types.CodeBusy, "a scroll is in progress", nil)
	}
	defer s.shifting.Store(false)
	defer s.updated.Store(time.Now().UnixNano())

	if s.renderer != nil {
		s.renderer.Hold()
	}
	if err := s.display.ShiftString(ctx, cmd.Text, delay); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return types.Errorf(types.CodeTimeout, "scroll interrupted", err)
		}
		return err
	}
	return nil
}

func (s *Server) animate(cmd types.Command) error {
	if s.renderer == nil {
		return types.Errorf(types.CodeInvalidParams, "no animations on this display", nil)
	}
	a, err := anim.ByName(cmd.Anim)
	if err != nil {
		return types.Errorf(types.CodeInvalidParams, cmd.Anim, err)
	}
	s.renderer.Animate(a, cmd.FPS)
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Status())
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.preview.WritePNG(w, s.display.Frame()); err != nil {
		s.log.Warnw("failed to write frame preview", "error", err)
	}
}

// handleWS reads commands and writes one reply per command. Pings keep idle
// connections alive.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("failed to upgrade websocket", "error", err)
		return
	}
	c := &wsConn{conn: conn}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go c.pingLoop(ctx)

	s.log.Debugw("control client connected", "remote", r.RemoteAddr)
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warnw("websocket read failed", "error", err)
			}
			return
		}

		var cmd types.Command
		var reply types.Reply
		if err := json.Unmarshal(message, &cmd); err != nil {
			reply = types.Reply{Code: types.CodeInvalidParams, Error: fmt.Sprintf("invalid command: %v", err)}
		} else {
			reply = s.Execute(ctx, cmd)
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		if err := c.writeJSON(reply); err != nil {
			s.log.Warnw("websocket write failed", "error", err)
			return
		}
	}
}

type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// pingLoop also closes the connection once ctx is done, which unblocks the
// reader on server shutdown.
func (c *wsConn) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.conn.Close()
			return
		case <-ticker.C:
			c.mu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func frameInts(f [matrix.Pixels]byte) []int {
	out := make([]int, len(f))
	for i, v := range f {
		out[i] = int(v)
	}
	return out
}
