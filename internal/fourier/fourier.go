// Package fourier decomposes a closed 2D path into rotating vectors.
//
// A path is sampled at equally spaced arc-length positions, centered on its
// centroid and scaled to the drawing height. The resulting complex signal is
// transformed with a direct DFT, sorted by amplitude and truncated to the
// lowest signed frequencies. Summing the surviving components as rotating
// arms reproduces an approximation of the input path.
package fourier

import (
	"errors"

	"github.com/jbeda/geom"
)

const (
	defaultSampleCount = 600
	defaultTerms       = 80
	defaultPathUnits   = 11
	defaultFillRatio   = 0.6
)

var (
	// ErrDegeneratePath is returned when a path has no usable arc length.
	ErrDegeneratePath = errors.New("fourier: path has zero or non-finite length")
	// ErrNoSamples is returned when the sample count is not positive.
	ErrNoSamples = errors.New("fourier: sample count must be positive")
)

// Path is a continuous curve that can be queried by arc length.
type Path interface {
	TotalLength() float64
	PointAtLength(d float64) geom.Coord
}

// Signal is a centered, scaled sequence of path samples. The real part
// holds x and the imaginary part holds y.
type Signal []complex128

// Component is one frequency bin of a size-N transform.
type Component struct {
	Freq  int     // raw bin index in [0, N)
	Amp   float64 // radius of the rotating arm
	Phase float64 // starting angle in (-pi, pi]
}

// Options controls sampling density, term count and scaling.
type Options struct {
	SampleCount int     `yaml:"sample_count"`
	Terms       int     `yaml:"terms"`
	PathUnits   float64 `yaml:"path_units"`
	FillRatio   float64 `yaml:"fill_ratio"`
	Fit         bool    `yaml:"fit"`
}

// DefaultOptions returns 600 samples, 80 terms and a scale of height/11*0.6.
func DefaultOptions() Options {
	return Options{
		SampleCount: defaultSampleCount,
		Terms:       defaultTerms,
		PathUnits:   defaultPathUnits,
		FillRatio:   defaultFillRatio,
	}
}

// Scale returns the pixel scale for a drawing area of the given height.
// extent is the larger side of the path's bounding box and is only used
// when Fit is set.
func (o Options) Scale(height, extent float64) float64 {
	units := o.PathUnits
	if o.Fit && extent > 0 {
		units = extent
	}
	if units <= 0 {
		units = defaultPathUnits
	}
	return height / units * o.FillRatio
}
