// Package epicycle turns a Fourier model into an animation: a chain of
// rotating arms whose tip leaves a fading trace, drawn over a flock of
// drifting dots. Frames are produced by an Animator and paced by a
// Controller on a Scheduler.
package epicycle

import (
	"context"
	"fmt"
	"math"

	"github.com/jbeda/geom"

	"github.com/olivier-w/epicycles/internal/canvas"
	"github.com/olivier-w/epicycles/internal/fourier"
)

// Phase is the lifecycle state of an animation.
type Phase int

const (
	PhaseStarting Phase = iota
	PhaseSettling
	PhaseTracing
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "starting"
	case PhaseSettling:
		return "settling"
	case PhaseTracing:
		return "tracing"
	case PhaseStopped:
		return "stopped"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

var (
	// Background is the color every frame starts from.
	Background = canvas.Opaque(0x11, 0x11, 0x11)
	armColor   = canvas.Opaque(0xff, 0xff, 0xff)
)

// Animator owns the per-instance state of one animation. It is not safe
// for concurrent use; a Controller serializes access to it.
type Animator struct {
	cfg  Config
	src  fourier.Path
	full []fourier.Component

	model  *fourier.Model
	width  float64
	height float64
	anchor geom.Coord

	clock        Clock
	phase        Phase
	settled      int
	settleFrames int
	trace        *Trace
	flock        *Flock
	frames       uint64
}

// NewAnimator analyzes src for a w×h canvas and returns an animator in
// the starting phase.
func NewAnimator(ctx context.Context, cfg Config, src fourier.Path, w, h int) (*Animator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fourier.ErrDegeneratePath
	}
	a := &Animator{
		cfg:          cfg,
		src:          src,
		clock:        NewClock(cfg.DurationSeconds, cfg.FrameRate),
		settleFrames: cfg.SettleFrames(),
		trace:        NewTrace(cfg.TraceCapacity),
		flock:        NewFlock(cfg.Flock, 0),
	}
	if err := a.analyze(ctx, w, h, cfg.Analyzer.Terms); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Animator) analyze(ctx context.Context, w, h, terms int) error {
	model, full, err := fourier.Analyze(ctx, a.src, a.cfg.Analyzer, float64(h))
	if err != nil {
		return err
	}
	model.Retruncate(full, terms)
	a.model, a.full = model, full
	a.width, a.height = float64(w), float64(h)
	a.anchor = geom.Coord{X: a.width * a.cfg.AnchorX, Y: a.height * a.cfg.AnchorY}
	return nil
}

// Resize rebuilds the model for a new canvas size. The phase and clocks
// carry on; the trace and dot trails are cleared since their coordinates
// belong to the old geometry. On error the animator is left unchanged.
func (a *Animator) Resize(ctx context.Context, w, h int) error {
	if err := a.analyze(ctx, w, h, a.model.Terms); err != nil {
		return fmt.Errorf("resize to %dx%d: %w", w, h, err)
	}
	a.trace.Clear()
	a.flock.Reset()
	return nil
}

// SetTerms changes how many components drive the chain. The full spectrum
// is kept, so no transform is needed. The trace is restarted.
func (a *Animator) SetTerms(terms int) {
	a.model.Retruncate(a.full, min(max(terms, 0), len(a.full)))
	a.trace.Clear()
}

// Frame draws one frame onto c and advances time by one step.
func (a *Animator) Frame(c canvas.Canvas) {
	if a.phase == PhaseStarting {
		a.phase = PhaseSettling
	}
	unit := a.height / referenceHeight

	c.Fill(Background)

	a.flock.Step(a.clock.Dots, a.width, a.height)
	a.flock.Draw(c, unit)
	tip := a.drawArms(c, unit)

	switch a.phase {
	case PhaseSettling:
		a.settled++
		if a.settled >= a.settleFrames {
			a.phase = PhaseTracing
			a.clock.Epicycle = 0
			a.trace.Clear()
		}
	case PhaseTracing:
		a.trace.Push(tip)
	}

	a.drawTrace(c, unit)
	a.clock.Advance()
	a.frames++
}

// Draw repaints the current state onto c without advancing time, for
// hosts that need a still picture, such as a paused view after a resize.
func (a *Animator) Draw(c canvas.Canvas) {
	unit := a.height / referenceHeight
	c.Fill(Background)
	a.flock.Draw(c, unit)
	a.drawArms(c, unit)
	a.drawTrace(c, unit)
}

func (a *Animator) drawArms(c canvas.Canvas, unit float64) geom.Coord {
	arm := canvas.Style{Color: armColor, Width: unit}
	return a.model.Eval(a.anchor, a.clock.Epicycle, func(from, to geom.Coord) {
		c.StrokeLine(from, to, arm)
	})
}

// drawTrace renders the trace as runs of connected segments, breaking a
// run wherever two consecutive points are at least the jump threshold
// apart. Older segments are darker and more transparent.
func (a *Animator) drawTrace(c canvas.Canvas, unit float64) {
	n := a.trace.Len()
	if n < 2 {
		return
	}
	jump := a.cfg.JumpThreshold * unit
	prev := a.trace.At(0)
	for i := 1; i < n; i++ {
		p := a.trace.At(i)
		if p.DistanceFrom(prev) < jump {
			c.StrokeLine(prev, p, traceStyle(n, i, unit))
		}
		prev = p
	}
}

func traceStyle(n, i int, unit float64) canvas.Style {
	age := float64(n - i)
	fade := math.Max(0, 1-age/float64(n))
	enh := math.Pow(fade, 1.2)
	brightness := uint8(40 + 205*enh)
	s := canvas.Style{
		Color: canvas.RGBA{G: brightness, A: 0.3 + 0.7*enh},
		Width: 2 * unit,
	}
	if enh > 0.5 {
		s.Blur = 15 * enh * unit
		s.Glow = canvas.Opaque(0, brightness, 0)
	}
	return s
}

func (a *Animator) Phase() Phase { return a.phase }
func (a *Animator) Trace() *Trace { return a.trace }
func (a *Animator) Flock() *Flock { return a.flock }
func (a *Animator) Clock() Clock { return a.clock }
func (a *Animator) Model() *fourier.Model { return a.model }
func (a *Animator) Spectrum() []fourier.Component { return a.full }
func (a *Animator) Frames() uint64 { return a.frames }
func (a *Animator) Config() Config { return a.cfg }
func (a *Animator) Size() (w, h float64) { return a.width, a.height }
func (a *Animator) SettleFrames() int { return a.settleFrames }
