package canvas

import (
	"math"

	"github.com/jbeda/geom"
)

func finite(p geom.Coord) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// clipSegment clips a-b to r with Liang-Barsky. ok is false when nothing
// of the segment lies inside r.
func clipSegment(a, b geom.Coord, r geom.Rect) (geom.Coord, geom.Coord, bool) {
	if !finite(a) || !finite(b) {
		return a, b, false
	}
	d := b.Minus(a)
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-d.X, a.X - r.Min.X},
		{d.X, r.Max.X - a.X},
		{-d.Y, a.Y - r.Min.Y},
		{d.Y, r.Max.Y - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return a.Plus(d.Times(t0)), a.Plus(d.Times(t1)), true
}
