package epicycle

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/olivier-w/epicycles/internal/canvas"
)

var (
	// ErrNoCanvas is returned by Start when there is nothing to draw on.
	ErrNoCanvas = errors.New("epicycle: no canvas")
	// ErrNoAnimator is returned by Start when there is nothing to animate.
	ErrNoAnimator = errors.New("epicycle: no animator")
	// ErrNoScheduler is returned by Start without a frame source.
	ErrNoScheduler = errors.New("epicycle: no scheduler")
)

// Controller is the handle of one running animation. The host that
// started it owns it and must call Stop when the animation leaves view.
// All methods must be called from the goroutine driving the Scheduler.
type Controller struct {
	id     uuid.UUID
	anim   *Animator
	canvas canvas.Canvas
	sched  Scheduler
	log    *zap.Logger

	live         bool
	frames       uint64
	cancelFrame  func()
	cancelResize func()
}

// Start draws the first frame immediately and keeps requesting frames
// from s until Stop is called.
func Start(a *Animator, c canvas.Canvas, s Scheduler, log *zap.Logger) (*Controller, error) {
	switch {
	case a == nil:
		return nil, ErrNoAnimator
	case c == nil:
		return nil, ErrNoCanvas
	case s == nil:
		return nil, ErrNoScheduler
	}
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.New()
	ctl := &Controller{
		id:     id,
		anim:   a,
		canvas: c,
		sched:  s,
		log:    log.With(zap.String("animation", id.String())),
		live:   true,
	}
	ctl.log.Debug("animation started",
		zap.Int("terms", a.Model().Terms),
		zap.Int("samples", a.Model().N),
		zap.Stringer("phase", a.Phase()),
	)
	ctl.frame()
	return ctl, nil
}

func (c *Controller) frame() {
	// A scheduler may still deliver a frame after its cancel ran.
	if !c.live {
		return
	}
	c.cancelFrame = nil
	before := c.anim.Phase()
	c.anim.Frame(c.canvas)
	c.frames++
	if after := c.anim.Phase(); after != before {
		c.log.Debug("phase changed",
			zap.Stringer("from", before),
			zap.Stringer("to", after),
			zap.Uint64("frame", c.frames),
		)
	}
	c.cancelFrame = c.sched.RequestFrame(c.frame)
}

// Stop ends the animation. No frame is drawn after Stop returns and a
// pending resize is dropped. Calling Stop again does nothing.
func (c *Controller) Stop() {
	if !c.live {
		return
	}
	c.live = false
	if c.cancelFrame != nil {
		c.cancelFrame()
		c.cancelFrame = nil
	}
	if c.cancelResize != nil {
		c.cancelResize()
		c.cancelResize = nil
	}
	c.log.Debug("animation stopped", zap.Uint64("frames", c.frames))
}

// Resize schedules a rebuild for a w×h canvas once resizing has been
// quiet for the configured debounce. Each call restarts the wait.
func (c *Controller) Resize(w, h int) {
	if !c.live || w <= 0 || h <= 0 {
		return
	}
	if c.cancelResize != nil {
		c.cancelResize()
	}
	c.cancelResize = c.sched.AfterFunc(c.anim.cfg.ResizeDebounce, func() {
		c.cancelResize = nil
		if !c.live {
			return
		}
		if err := c.anim.Resize(context.Background(), w, h); err != nil {
			c.log.Warn("resize failed", zap.Error(err))
			return
		}
		c.log.Debug("resized", zap.Int("width", w), zap.Int("height", h))
	})
}

// Phase reports PhaseStopped once stopped, else the animator's phase.
func (c *Controller) Phase() Phase {
	if !c.live {
		return PhaseStopped
	}
	return c.anim.Phase()
}

func (c *Controller) ID() uuid.UUID { return c.id }
func (c *Controller) Running() bool { return c.live }
func (c *Controller) Frames() uint64 { return c.frames }
func (c *Controller) Animator() *Animator { return c.anim }
