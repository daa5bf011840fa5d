package canvas

import (
	"math"
	"strings"
	"testing"

	"github.com/jbeda/geom"
)

var white = Style{Color: Opaque(255, 255, 255)}

func TestBrailleStrokeSetsDotsAlongLine(t *testing.T) {
	b := NewBraille(10, 5)
	b.SetProfile(ProfileNone)
	b.Fill(Opaque(17, 17, 17))

	b.StrokeLine(geom.Coord{X: 0, Y: 0}, geom.Coord{X: 19, Y: 0}, white)
	for x := range 20 {
		if !b.Dot(x, 0) {
			t.Fatalf("expected dot at (%d,0)", x)
		}
	}
	if b.Dot(0, 1) {
		t.Fatal("expected no dot below the line")
	}
}

func TestBrailleFillClearsDots(t *testing.T) {
	b := NewBraille(4, 2)
	b.StrokeLine(geom.Coord{}, geom.Coord{X: 7, Y: 7}, white)
	b.Fill(Opaque(0, 0, 0))
	w, h := b.Size()
	for y := range h {
		for x := range w {
			if b.Dot(x, y) {
				t.Fatalf("expected cleared surface, dot at (%d,%d)", x, y)
			}
		}
	}
}

func TestBrailleClipsAndSkipsNonFinite(t *testing.T) {
	b := NewBraille(4, 2)
	b.SetProfile(ProfileNone)
	b.StrokeLine(geom.Coord{X: -1e9, Y: 3}, geom.Coord{X: 1e9, Y: 3}, white)
	if !b.Dot(0, 3) || !b.Dot(7, 3) {
		t.Fatal("expected clipped line to span the surface")
	}
	b.StrokeLine(geom.Coord{X: math.NaN()}, geom.Coord{X: 3, Y: 3}, white)
	b.FillCircle(geom.Coord{X: math.Inf(1)}, 2, white)
}

func TestBrailleRenderShape(t *testing.T) {
	b := NewBraille(6, 3)
	b.SetProfile(ProfileNone)
	b.Fill(Opaque(0, 0, 0))
	b.FillCircle(geom.Coord{X: 5, Y: 5}, 2, white)

	out := b.Render()
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	for _, l := range lines {
		if n := len([]rune(l)); n != 6 {
			t.Fatalf("expected 6 cells per row, got %d in %q", n, l)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatal("expected no escape sequences without color")
	}
	if !strings.ContainsFunc(out, func(r rune) bool { return r > 0x2800 && r <= 0x28FF }) {
		t.Fatal("expected braille glyphs in output")
	}
}

func TestBrailleKeepsBrightestColor(t *testing.T) {
	b := NewBraille(1, 1)
	b.SetProfile(ProfileTrueColor)
	b.Fill(Opaque(0, 0, 0))
	b.FillCircle(geom.Coord{X: 0, Y: 0}, 0.5, Style{Color: Opaque(0, 245, 0)})
	b.FillCircle(geom.Coord{X: 1, Y: 1}, 0.5, Style{Color: Opaque(0, 40, 0)})

	out := b.Render()
	if !strings.Contains(out, "\x1b[38;2;0;245;0m") {
		t.Fatalf("expected brightest color to win, got %q", out)
	}
	if !strings.HasSuffix(out, "\x1b[0m") {
		t.Fatalf("expected trailing reset, got %q", out)
	}
}

func TestBrailleGlowBrightens(t *testing.T) {
	b := NewBraille(1, 1)
	plain := b.shade(Style{Color: Opaque(100, 100, 100)})
	glow := b.shade(Style{Color: Opaque(100, 100, 100), Blur: 20})
	if luma(glow) <= luma(plain) {
		t.Fatalf("expected glow to brighten, plain=%v glow=%v", plain, glow)
	}
}

func TestProfileFromEnv(t *testing.T) {
	env := func(kv map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) {
			v, ok := kv[k]
			return v, ok
		}
	}
	cases := []struct {
		vars map[string]string
		want Profile
	}{
		{map[string]string{"NO_COLOR": "", "COLORTERM": "truecolor"}, ProfileNone},
		{map[string]string{"COLORTERM": "24bit", "TERM": "xterm"}, ProfileTrueColor},
		{map[string]string{"TERM": "xterm-256color"}, ProfileANSI256},
		{map[string]string{"TERM": "dumb"}, ProfileNone},
		{map[string]string{"TERM": "xterm"}, ProfileANSI16},
	}
	for _, tc := range cases {
		if got := profileFromEnv(env(tc.vars)); got != tc.want {
			t.Fatalf("env %v: expected profile %d, got %d", tc.vars, tc.want, got)
		}
	}
}

func TestClipSegment(t *testing.T) {
	r := geom.Rect{Max: geom.Coord{X: 10, Y: 10}}
	a, b, ok := clipSegment(geom.Coord{X: -5, Y: 5}, geom.Coord{X: 15, Y: 5}, r)
	if !ok {
		t.Fatal("expected crossing segment to survive")
	}
	if a.X != 0 || b.X != 10 || a.Y != 5 || b.Y != 5 {
		t.Fatalf("unexpected clip result %v %v", a, b)
	}
	if _, _, ok := clipSegment(geom.Coord{X: -5, Y: -5}, geom.Coord{X: -1, Y: 20}, r); ok {
		t.Fatal("expected outside segment to be rejected")
	}
}

func TestRasterFillAndStroke(t *testing.T) {
	r := NewRaster(40, 20)
	r.Fill(Opaque(17, 17, 17))
	if got := r.Image().RGBAAt(5, 5); got.R != 17 || got.G != 17 || got.B != 17 || got.A != 255 {
		t.Fatalf("unexpected background %v", got)
	}

	r.StrokeLine(geom.Coord{X: 2, Y: 10}, geom.Coord{X: 38, Y: 10}, Style{Color: Opaque(0, 245, 0), Width: 2})
	if got := r.Image().RGBAAt(20, 10); got.G < 200 {
		t.Fatalf("expected green stroke at (20,10), got %v", got)
	}
	if got := r.Image().RGBAAt(20, 2); got.G != 17 {
		t.Fatalf("expected untouched pixel away from stroke, got %v", got)
	}
}

func TestRasterCircleAndGlow(t *testing.T) {
	r := NewRaster(40, 40)
	r.Fill(Opaque(0, 0, 0))
	r.FillCircle(geom.Coord{X: 20, Y: 20}, 4, Style{
		Color: Opaque(150, 200, 255),
		Blur:  20,
		Glow:  RGBA{R: 100, G: 150, B: 255, A: 1},
	})
	if got := r.Image().RGBAAt(20, 20); got.B < 200 {
		t.Fatalf("expected disc center to be painted, got %v", got)
	}
	if got := r.Image().RGBAAt(20, 26); got.B == 0 {
		t.Fatalf("expected glow halo outside the disc, got %v", got)
	}
	if got := r.Image().RGBAAt(2, 2); got.B != 0 {
		t.Fatalf("expected corner untouched, got %v", got)
	}
}
