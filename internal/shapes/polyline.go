// Package shapes provides the curves fed to the Fourier analyzer: polylines
// flattened from SVG path data, analytic circles and a few built-in shapes.
package shapes

import (
	"math"
	"sort"

	"github.com/jbeda/geom"
)

type segment struct {
	a, b geom.Coord
}

// Polyline is a sequence of straight segments grouped into subpaths. A move
// between subpaths contributes no length, so PointAtLength jumps across it
// the way a browser's getPointAtLength does.
type Polyline struct {
	segs   []segment
	cum    []float64 // arc length at the end of each segment
	start  geom.Coord
	cur    geom.Coord
	hasCur bool
}

// MoveTo starts a new subpath at p.
func (pl *Polyline) MoveTo(p geom.Coord) {
	pl.start, pl.cur, pl.hasCur = p, p, true
}

// LineTo appends a segment from the current point to p. Without a current
// point it behaves like MoveTo.
func (pl *Polyline) LineTo(p geom.Coord) {
	if !pl.hasCur {
		pl.MoveTo(p)
		return
	}
	if l := pl.cur.DistanceFrom(p); l > 0 {
		pl.segs = append(pl.segs, segment{a: pl.cur, b: p})
		pl.cum = append(pl.cum, pl.TotalLength()+l)
	}
	pl.cur = p
}

// Close joins the current point back to the start of the subpath.
func (pl *Polyline) Close() {
	if !pl.hasCur {
		return
	}
	pl.LineTo(pl.start)
	pl.cur = pl.start
}

// Current returns the pen position.
func (pl *Polyline) Current() geom.Coord { return pl.cur }

// Len returns the number of segments.
func (pl *Polyline) Len() int { return len(pl.segs) }

func (pl *Polyline) TotalLength() float64 {
	if len(pl.cum) == 0 {
		return 0
	}
	return pl.cum[len(pl.cum)-1]
}

// PointAtLength returns the point d units along the path, clamped to the
// ends.
func (pl *Polyline) PointAtLength(d float64) geom.Coord {
	if len(pl.segs) == 0 {
		return pl.start
	}
	total := pl.TotalLength()
	d = math.Max(0, math.Min(d, total))

	i := sort.SearchFloat64s(pl.cum, d)
	if i >= len(pl.segs) {
		i = len(pl.segs) - 1
	}
	s := pl.segs[i]
	l := s.a.DistanceFrom(s.b)
	t := 1 - (pl.cum[i]-d)/l
	return s.a.Plus(s.b.Minus(s.a).Times(t))
}

// Bounds returns the bounding box of all segment endpoints.
func (pl *Polyline) Bounds() geom.Rect {
	if len(pl.segs) == 0 {
		return geom.Rect{Min: pl.start, Max: pl.start}
	}
	r := geom.Rect{Min: pl.segs[0].a, Max: pl.segs[0].a}
	for _, s := range pl.segs {
		r.ExpandToContainCoord(s.a)
		r.ExpandToContainCoord(s.b)
	}
	return r
}

// Circle is an analytic circle traversed from angle zero with increasing
// angle.
type Circle struct {
	Center geom.Coord
	Radius float64
}

func (c Circle) TotalLength() float64 { return 2 * math.Pi * c.Radius }

func (c Circle) PointAtLength(d float64) geom.Coord {
	if c.Radius == 0 {
		return c.Center
	}
	sin, cos := math.Sincos(d / c.Radius)
	return geom.Coord{X: c.Center.X + c.Radius*cos, Y: c.Center.Y + c.Radius*sin}
}
