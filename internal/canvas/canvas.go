// Package canvas defines the drawing surface used by the epicycle renderer
// and provides a braille terminal surface and a raster image surface.
package canvas

import "github.com/jbeda/geom"

// RGBA is an 8-bit color with a straight alpha in [0, 1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Opaque returns c with full alpha.
func Opaque(r, g, b uint8) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Style describes how a stroke or disc is painted. Blur is a glow radius in
// pixels drawn in Glow behind the shape; zero disables it.
type Style struct {
	Color RGBA
	Width float64
	Blur  float64
	Glow  RGBA
}

// Canvas is a 2D raster surface in pixel coordinates with the origin at the
// top left. Implementations clip silently.
type Canvas interface {
	Size() (w, h int)
	Fill(c RGBA)
	StrokeLine(a, b geom.Coord, s Style)
	FillCircle(center geom.Coord, r float64, s Style)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// over composites c onto bg using c's alpha.
func over(c RGBA, bg RGBA) RGBA {
	a := clamp01(c.A)
	mix := func(fg, bg uint8) uint8 {
		return uint8(float64(fg)*a + float64(bg)*(1-a) + 0.5)
	}
	return RGBA{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B), A: 1}
}

// luma is the perceived brightness of c in [0, 255].
func luma(c RGBA) float64 {
	return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
}
