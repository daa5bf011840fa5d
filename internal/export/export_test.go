package export

import (
	"bytes"
	"context"
	"errors"
	"image/gif"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/jbeda/geom"
	"go.uber.org/zap"

	"github.com/olivier-w/epicycles/internal/epicycle"
	"github.com/olivier-w/epicycles/internal/fourier"
)

type circlePath struct{ r float64 }

func (c circlePath) TotalLength() float64 { return 2 * math.Pi * c.r }
func (c circlePath) PointAtLength(d float64) geom.Coord {
	a := d / c.r
	return geom.Coord{X: c.r * math.Cos(a), Y: c.r * math.Sin(a)}
}

func newAnimator(t *testing.T) *epicycle.Animator {
	t.Helper()
	cfg := epicycle.DefaultConfig()
	cfg.Analyzer.SampleCount = 32
	cfg.Analyzer.Terms = 8
	cfg.Flock.Count = 3
	cfg.Flock.Seed = 1
	a, err := epicycle.NewAnimator(context.Background(), cfg, circlePath{r: 5}, 120, 80)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestGIFCapturesEveryNthFrame(t *testing.T) {
	a := newAnimator(t)
	var buf bytes.Buffer
	opts := GIFOptions{Frames: 10, Every: 3, Width: 80, Height: 48, Delay: 50 * time.Millisecond}
	if err := GIF(context.Background(), &buf, a, opts, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	if a.Frames() != 10 {
		t.Fatalf("expected 10 frames run, got %d", a.Frames())
	}

	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Image) != 4 {
		t.Fatalf("expected 4 captured frames, got %d", len(g.Image))
	}
	if b := g.Image[0].Bounds(); b.Dx() != 80 || b.Dy() != 48 {
		t.Fatalf("expected 80x48 frames, got %v", b)
	}
	if g.Delay[0] != 5 {
		t.Fatalf("expected delay of 5 (x10ms), got %d", g.Delay[0])
	}
}

func TestGIFRejectsBadOptions(t *testing.T) {
	a := newAnimator(t)
	var buf bytes.Buffer
	if err := GIF(context.Background(), &buf, a, GIFOptions{Frames: 0, Every: 1}, nil); !errors.Is(err, ErrBadOptions) {
		t.Fatalf("expected ErrBadOptions, got %v", err)
	}
	if err := GIF(context.Background(), &buf, a, GIFOptions{Frames: 5, Every: 0}, nil); !errors.Is(err, ErrBadOptions) {
		t.Fatalf("expected ErrBadOptions, got %v", err)
	}
}

func TestGIFHonorsCancellation(t *testing.T) {
	a := newAnimator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := GIF(ctx, &buf, a, GIFOptions{Frames: 5, Every: 1}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatal("expected nothing written")
	}
}

func TestDefaultGIFOptionsCoverOneCycle(t *testing.T) {
	opts := DefaultGIFOptions(epicycle.DefaultConfig())
	if opts.Frames != 60+540 {
		t.Fatalf("expected settle plus one cycle, got %d", opts.Frames)
	}
	if opts.Delay != 50*time.Millisecond {
		t.Fatalf("expected 50ms delay, got %v", opts.Delay)
	}
}

func TestWAVDrawsShapeInXY(t *testing.T) {
	m := &fourier.Model{N: 4, Terms: 1, Components: []fourier.Component{{Freq: 1, Amp: 2}}}
	path := filepath.Join(t.TempDir(), "shape.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	opts := WAVOptions{SampleRate: 8000, Frequency: 100, Cycles: 3}
	if err := WAV(f, m, opts); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		t.Fatal("expected a valid wav file")
	}
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if pcm.Format.NumChannels != 2 || pcm.Format.SampleRate != 8000 {
		t.Fatalf("unexpected format %+v", pcm.Format)
	}
	if len(pcm.Data) != 80*2*3 {
		t.Fatalf("expected %d samples, got %d", 80*2*3, len(pcm.Data))
	}

	peak := int(math.Round(32767 * headroom))
	if l, r := pcm.Data[0], pcm.Data[1]; l != peak || r != 0 {
		t.Fatalf("expected (%d, 0) at t=0, got (%d, %d)", peak, l, r)
	}
	// A quarter cycle later the point is at the bottom of the circle in
	// canvas coordinates, which plays as the top on the scope.
	if l, r := pcm.Data[40], pcm.Data[41]; l != 0 || r != -peak {
		t.Fatalf("expected (0, %d) at quarter cycle, got (%d, %d)", -peak, l, r)
	}
}

func TestWAVRejectsBadOptions(t *testing.T) {
	m := &fourier.Model{N: 1}
	path := filepath.Join(t.TempDir(), "bad.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	for _, opts := range []WAVOptions{
		{SampleRate: 0, Frequency: 50, Cycles: 1},
		{SampleRate: 100, Frequency: 80, Cycles: 1},
		{SampleRate: 8000, Frequency: 50, Cycles: 0},
	} {
		if err := WAV(f, m, opts); !errors.Is(err, ErrBadOptions) {
			t.Fatalf("%+v: expected ErrBadOptions, got %v", opts, err)
		}
	}
}
