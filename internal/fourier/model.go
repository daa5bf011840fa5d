package fourier

import (
	"context"
	"fmt"
	"math"

	"github.com/jbeda/geom"
)

// Model is a truncated, amplitude-ordered set of components ready to drive
// an epicycle chain. It is read-only once built.
type Model struct {
	N          int
	Terms      int
	Scale      float64
	Components []Component
}

// Analyze samples p for a drawing area of the given height and returns the
// truncated model together with the full sorted spectrum. Keeping the full
// spectrum lets callers change the term count without another transform.
func Analyze(ctx context.Context, p Path, o Options, height float64) (*Model, []Component, error) {
	pts, err := Points(p, o.SampleCount)
	if err != nil {
		return nil, nil, err
	}
	scale := o.Scale(height, Extent(pts))
	full, err := Transform(ctx, Center(pts, scale))
	if err != nil {
		return nil, nil, fmt.Errorf("transforming %d samples: %w", len(pts), err)
	}

	m := &Model{N: len(pts), Scale: scale}
	m.Retruncate(full, o.Terms)
	return m, full, nil
}

// Retruncate replaces the component list with a new truncation of full.
func (m *Model) Retruncate(full []Component, terms int) {
	if terms < 0 {
		terms = 0
	}
	m.Terms = terms
	m.Components = Truncate(full, m.N, terms)
}

// Wavenumber maps raw indices above N/2 back to negative frequencies.
func (m *Model) Wavenumber(c Component) int {
	if c.Freq > m.N/2 {
		return c.Freq - m.N
	}
	return c.Freq
}

// Eval sums the rotating arms at phase t starting from origin and returns
// the tip of the chain. arm, when non-nil, is called for every arm in
// stored order.
func (m *Model) Eval(origin geom.Coord, t float64, arm func(from, to geom.Coord)) geom.Coord {
	p := origin
	for _, c := range m.Components {
		angle := float64(m.Wavenumber(c))*t + c.Phase
		sin, cos := math.Sincos(angle)
		next := geom.Coord{X: p.X + c.Amp*cos, Y: p.Y + c.Amp*sin}
		if arm != nil {
			arm(p, next)
		}
		p = next
	}
	return p
}
