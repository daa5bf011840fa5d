package shapes

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jbeda/geom"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func near(a, b geom.Coord, tol float64) bool {
	return a.DistanceFrom(b) <= tol
}

func TestPolylineLengthAndLookup(t *testing.T) {
	pl := &Polyline{}
	pl.MoveTo(geom.Coord{X: 0, Y: 0})
	pl.LineTo(geom.Coord{X: 10, Y: 0})
	pl.LineTo(geom.Coord{X: 10, Y: 10})
	pl.Close()

	if got, want := pl.TotalLength(), 20+math.Sqrt(200); math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected length %v, got %v", want, got)
	}
	cases := []struct {
		d    float64
		want geom.Coord
	}{
		{0, geom.Coord{X: 0, Y: 0}},
		{5, geom.Coord{X: 5, Y: 0}},
		{10, geom.Coord{X: 10, Y: 0}},
		{15, geom.Coord{X: 10, Y: 5}},
		{-3, geom.Coord{X: 0, Y: 0}},
		{1e6, geom.Coord{X: 0, Y: 0}},
	}
	for _, tc := range cases {
		if got := pl.PointAtLength(tc.d); !near(got, tc.want, 1e-9) {
			t.Fatalf("d=%v: expected %v, got %v", tc.d, tc.want, got)
		}
	}
}

func TestPolylineMoveAddsNoLength(t *testing.T) {
	pl := &Polyline{}
	pl.MoveTo(geom.Coord{})
	pl.LineTo(geom.Coord{X: 4})
	pl.MoveTo(geom.Coord{X: 100, Y: 100})
	pl.LineTo(geom.Coord{X: 100, Y: 104})

	if got := pl.TotalLength(); got != 8 {
		t.Fatalf("expected length 8, got %v", got)
	}
	if got := pl.PointAtLength(6); !near(got, geom.Coord{X: 100, Y: 102}, 1e-9) {
		t.Fatalf("expected point on second subpath, got %v", got)
	}
}

func TestParsePathDataBasicCommands(t *testing.T) {
	pl, err := ParsePathData("M0,0 H10 V10 h-10 z")
	if err != nil {
		t.Fatal(err)
	}
	if got := pl.TotalLength(); math.Abs(got-40) > 1e-12 {
		t.Fatalf("expected square perimeter 40, got %v", got)
	}
	if pl.Len() != 4 {
		t.Fatalf("expected 4 segments, got %d", pl.Len())
	}
}

func TestParsePathDataImplicitAndRelative(t *testing.T) {
	// After m, extra pairs are relative line-tos.
	pl, err := ParsePathData("m1 1 2 0 0 2-2 0z")
	if err != nil {
		t.Fatal(err)
	}
	if got := pl.TotalLength(); math.Abs(got-8) > 1e-12 {
		t.Fatalf("expected perimeter 8, got %v", got)
	}
	if got := pl.PointAtLength(3); !near(got, geom.Coord{X: 3, Y: 2}, 1e-9) {
		t.Fatalf("unexpected point %v", got)
	}
}

func TestParsePathDataCurvesEndOnTarget(t *testing.T) {
	for _, d := range []string{
		"M0 0 C 0 10 10 10 10 0",
		"M0 0 c0 10 10 10 10 0",
		"M0 0 Q 5 10 10 0",
		"M0 0 C0 5 5 5 5 0 S 10 -5 10 0",
		"M0 0 Q2.5 5 5 0 T 10 0",
	} {
		pl, err := ParsePathData(d)
		if err != nil {
			t.Fatalf("%q: %v", d, err)
		}
		end := pl.PointAtLength(pl.TotalLength())
		if !near(end, geom.Coord{X: 10, Y: 0}, 1e-9) {
			t.Fatalf("%q: expected end at (10,0), got %v", d, end)
		}
		if pl.Len() < 4 {
			t.Fatalf("%q: expected curve to be subdivided, got %d segments", d, pl.Len())
		}
	}
}

func TestParsePathDataArc(t *testing.T) {
	pl, err := ParsePathData("M0 0 A5 5 0 0 1 10 0")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := pl.TotalLength(), 5*math.Pi; math.Abs(got-want) > 0.05 {
		t.Fatalf("expected half circumference %v, got %v", want, got)
	}
	mid := pl.PointAtLength(pl.TotalLength() / 2)
	if math.Abs(mid.X-5) > 0.05 || math.Abs(math.Abs(mid.Y)-5) > 0.05 {
		t.Fatalf("expected arc apex near (5,±5), got %v", mid)
	}

	packed, err := ParsePathData("M0 0a5 5 0 1110 0")
	if err != nil {
		t.Fatalf("packed flags: %v", err)
	}
	if math.Abs(packed.TotalLength()-5*math.Pi) > 0.05 {
		t.Fatalf("expected packed-flag arc length %v, got %v", 5*math.Pi, packed.TotalLength())
	}
}

func TestParsePathDataErrors(t *testing.T) {
	for _, d := range []string{"10 10", "M0 0 L", "M0 0 X 1 1", "M0 0 A5 5 0 2 0 1 1"} {
		if _, err := ParsePathData(d); err == nil {
			t.Fatalf("%q: expected error", d)
		}
	}
	pl, err := ParsePathData("   ")
	if err != nil {
		t.Fatalf("expected empty data to parse, got %v", err)
	}
	if pl.TotalLength() != 0 {
		t.Fatal("expected zero length for empty data")
	}
}

const doc = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 20">
  <path id="frame" d="M0 0 H20 V20 H0 Z"/>
  <g><path id="svgPath" d="M0 0 L3 4"/></g>
</svg>`

func TestLoadSVGSelectsPath(t *testing.T) {
	pl, err := LoadSVG(strings.NewReader(doc), "svgPath")
	if err != nil {
		t.Fatal(err)
	}
	if pl.TotalLength() != 5 {
		t.Fatalf("expected selected path length 5, got %v", pl.TotalLength())
	}

	first, err := LoadSVG(strings.NewReader(doc), "")
	if err != nil {
		t.Fatal(err)
	}
	if first.TotalLength() != 80 {
		t.Fatalf("expected first path length 80, got %v", first.TotalLength())
	}

	if _, err := LoadSVG(strings.NewReader(doc), "missing"); !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
	if _, err := LoadSVG(strings.NewReader("<svg></svg>"), ""); !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound for empty svg, got %v", err)
	}
}

func TestBuiltinShapes(t *testing.T) {
	names := BuiltinNames()
	if len(names) < 4 {
		t.Fatalf("expected at least 4 built-in shapes, got %v", names)
	}
	for _, name := range names {
		p, err := Builtin(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if p.TotalLength() <= 0 {
			t.Fatalf("%s: expected positive length", name)
		}
		var r geom.Rect
		for i := range 200 {
			pt := p.PointAtLength(float64(i) / 200 * p.TotalLength())
			if i == 0 {
				r = geom.Rect{Min: pt, Max: pt}
			}
			r.ExpandToContainCoord(pt)
		}
		if h := math.Max(r.Width(), r.Height()); h < 6 || h > 16 {
			t.Fatalf("%s: expected extent near 10 units, got %v", name, h)
		}
	}
	if _, err := Builtin("dodecahedron"); !errors.Is(err, ErrUnsupportedShape) {
		t.Fatalf("expected ErrUnsupportedShape, got %v", err)
	}
}

func TestOpenResolvesFilesAndNames(t *testing.T) {
	if _, err := Open("Heart", ""); err != nil {
		t.Fatalf("expected case-insensitive built-in, got %v", err)
	}
	if _, err := Open("notes.txt", ""); !errors.Is(err, ErrUnsupportedShape) {
		t.Fatalf("expected ErrUnsupportedShape, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "shape.svg")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Open(path, "svgPath")
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalLength() != 5 {
		t.Fatalf("expected length 5, got %v", p.TotalLength())
	}
	if _, err := Open(path, "nope"); !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
}

func TestIsSupportedExt(t *testing.T) {
	if !IsSupportedExt(".SVG") {
		t.Fatal("expected .SVG to be supported")
	}
	if IsSupportedExt(".png") {
		t.Fatal("expected .png to be unsupported")
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "shape.svg")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := Watch(path, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	other := filepath.Join(filepath.Dir(path), "other.svg")
	if err := os.WriteFile(other, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Events():
	case <-time.After(3 * time.Second):
		t.Fatal("expected a reload event")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
