package display

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fcurrie/ledmatrix-golang/internal/anim"
	"github.com/fcurrie/ledmatrix-golang/internal/types"
)

// Renderer scrolls a marquee message across a display, over and over, until
// the message changes or the renderer is stopped. It can play an animation
// in place of the message.
type Renderer struct {
	display types.Display
	delay   time.Duration
	log     *zap.SugaredLogger

	mu      sync.Mutex
	message string
	anim    anim.Animation
	fps     int
	cancel  context.CancelFunc
	wake    chan struct{}
	// playing is held by Run while a scroll or animation writes frames.
	playing sync.Mutex

	scrolling atomic.Bool
	loops     atomic.Uint64
}

// NewRenderer creates a new renderer instance showing cfg.Message.
func NewRenderer(d types.Display, cfg types.DisplayConfig, log *zap.SugaredLogger) *Renderer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	delay := cfg.ScrollDelay()
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	return &Renderer{
		display: d,
		delay:   delay,
		log:     log,
		message: cfg.Message,
		wake:    make(chan struct{}, 1),
	}
}

// Submit replaces the marquee message, abandoning the scroll or animation in
// progress. An empty message stops scrolling and leaves the display to direct
// writes.
func (r *Renderer) Submit(msg string) { r.replace(msg, nil, 0) }

// Animate plays a at fps until something else is submitted.
func (r *Renderer) Animate(a anim.Animation, fps int) { r.replace("", a, fps) }

// Hold stops the marquee and any animation, returning once neither writes
// to the display any more.
func (r *Renderer) Hold() {
	r.replace("", nil, 0)
	r.playing.Lock()
	r.playing.Unlock()
}

func (r *Renderer) replace(msg string, a anim.Animation, fps int) {
	r.mu.Lock()
	r.message = msg
	r.anim = a
	r.fps = fps
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Message returns the current marquee message.
func (r *Renderer) Message() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.message
}

// Scrolling reports whether a scroll or animation is in progress.
func (r *Renderer) Scrolling() bool { return r.scrolling.Load() }

// Loops returns the number of completed passes of the message.
func (r *Renderer) Loops() uint64 { return r.loops.Load() }

// Run scrolls until ctx is done.
func (r *Renderer) Run(ctx context.Context) error {
	for {
		r.mu.Lock()
		msg, a, fps := r.message, r.anim, r.fps
		sctx, cancel := context.WithCancel(ctx)
		r.cancel = cancel
		r.mu.Unlock()

		if msg == "" && a == nil {
			cancel()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-r.wake:
				continue
			}
		}

		var err error
		r.playing.Lock()
		r.scrolling.Store(true)
		if a != nil {
			err = anim.Play(sctx, r.display, a, fps)
		} else {
			err = r.display.ShiftString(sctx, msg, r.delay)
		}
		r.scrolling.Store(false)
		r.playing.Unlock()
		cancel()

		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, context.Canceled):
			r.log.Debugw("scroll replaced", "message", msg)
		case err != nil:
			r.log.Errorw("failed to scroll", "message", msg, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.delay):
			}
		default:
			r.loops.Add(1)
		}
	}
}
