package fourier

import (
	"math"

	"github.com/jbeda/geom"
)

// Points samples p at n positions spaced evenly by arc length. The first
// sample sits at length zero and the last one step short of the full
// length, so a closed path is not sampled twice at its seam.
func Points(p Path, n int) ([]geom.Coord, error) {
	if n <= 0 {
		return nil, ErrNoSamples
	}
	if p == nil {
		return nil, ErrDegeneratePath
	}
	length := p.TotalLength()
	if !(length > 0) || math.IsInf(length, 0) {
		return nil, ErrDegeneratePath
	}

	pts := make([]geom.Coord, n)
	for i := range n {
		pts[i] = p.PointAtLength(float64(i) / float64(n) * length)
	}
	return pts, nil
}

// Center subtracts the centroid of pts and multiplies by scale.
func Center(pts []geom.Coord, scale float64) Signal {
	if len(pts) == 0 {
		return nil
	}
	var sum geom.Coord
	for _, p := range pts {
		sum = sum.Plus(p)
	}
	mean := sum.Times(1 / float64(len(pts)))

	s := make(Signal, len(pts))
	for i, p := range pts {
		d := p.Minus(mean).Times(scale)
		s[i] = complex(d.X, d.Y)
	}
	return s
}

// Sample is Points followed by Center.
func Sample(p Path, n int, scale float64) (Signal, error) {
	pts, err := Points(p, n)
	if err != nil {
		return nil, err
	}
	return Center(pts, scale), nil
}

// Extent returns the larger side of the bounding box of pts.
func Extent(pts []geom.Coord) float64 {
	if len(pts) == 0 {
		return 0
	}
	r := geom.Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.ExpandToContainCoord(p)
	}
	return math.Max(r.Width(), r.Height())
}

// Centroid returns the mean of the signal.
func (s Signal) Centroid() complex128 {
	if len(s) == 0 {
		return 0
	}
	var sum complex128
	for _, v := range s {
		sum += v
	}
	return sum / complex(float64(len(s)), 0)
}
