// Package export renders an epicycle animation to files: an animated GIF
// of the canvas and a stereo WAV that draws the shape on an oscilloscope
// in XY mode.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/olivier-w/epicycles/internal/canvas"
	"github.com/olivier-w/epicycles/internal/epicycle"
)

// ErrBadOptions is returned for option values that cannot produce output.
var ErrBadOptions = errors.New("export: bad options")

// GIFOptions controls which frames are captured.
type GIFOptions struct {
	// Frames is the number of animation frames to run.
	Frames int
	// Every keeps one frame out of Every.
	Every int
	// Width and Height resize the animation first when both are set.
	Width  int
	Height int
	// Delay between captured frames; GIF stores it in 10ms units.
	Delay time.Duration
}

// DefaultGIFOptions covers the settle period and one full cycle at a
// third of the frame rate.
func DefaultGIFOptions(cfg epicycle.Config) GIFOptions {
	every := 3
	return GIFOptions{
		Frames: cfg.SettleFrames() + int(cfg.DurationSeconds*cfg.FrameRate),
		Every:  every,
		Delay:  time.Duration(float64(every) * float64(time.Second) / cfg.FrameRate),
	}
}

// GIF runs a on an offscreen raster with a synthetic clock and writes the
// captured frames to w.
func GIF(ctx context.Context, w io.Writer, a *epicycle.Animator, opts GIFOptions, log *zap.Logger) error {
	if opts.Frames <= 0 || opts.Every <= 0 {
		return fmt.Errorf("%w: frames=%d every=%d", ErrBadOptions, opts.Frames, opts.Every)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Width > 0 && opts.Height > 0 {
		if err := a.Resize(ctx, opts.Width, opts.Height); err != nil {
			return err
		}
	}
	fw, fh := a.Size()
	raster := canvas.NewRaster(int(fw), int(fh))
	bounds := raster.Image().Bounds()

	start := time.Unix(0, 0)
	sched := epicycle.NewLoopScheduler(start)
	interval := a.Config().FrameInterval()
	ctl, err := epicycle.Start(a, raster, sched, log)
	if err != nil {
		return err
	}
	defer ctl.Stop()

	delay := max(int(opts.Delay/(10*time.Millisecond)), 2)
	out := &gif.GIF{}
	for i := 0; i < opts.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			sched.Paint(start.Add(time.Duration(i) * interval))
		}
		if i%opts.Every != 0 {
			continue
		}
		frame := image.NewPaletted(bounds, palette.Plan9)
		draw.FloydSteinberg.Draw(frame, bounds, raster.Image(), image.Point{})
		out.Image = append(out.Image, frame)
		out.Delay = append(out.Delay, delay)
	}

	log.Info("encoding gif",
		zap.Int("frames", len(out.Image)),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()),
	)
	if err := gif.EncodeAll(w, out); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}
