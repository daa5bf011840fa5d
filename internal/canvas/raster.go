package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/jbeda/geom"
	"golang.org/x/image/vector"
)

// circleSegments is the polygon resolution used for discs.
const circleSegments = 24

// Raster is an in-memory RGBA image surface. Strokes and discs are filled
// polygons; glow is approximated by a wider translucent pass underneath.
type Raster struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

// NewRaster creates a w x h surface.
func NewRaster(w, h int) *Raster {
	w, h = max(w, 1), max(h, 1)
	return &Raster{
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
		z:   vector.NewRasterizer(w, h),
	}
}

// Image returns the backing image. It is overwritten by later draws.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Size() (w, h int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) Fill(c RGBA) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(nrgba(over(c, RGBA{}))), image.Point{}, draw.Src)
}

func (r *Raster) StrokeLine(a, b geom.Coord, s Style) {
	width := math.Max(s.Width, 1)
	if s.Blur > 0 {
		glow := s.Glow
		glow.A *= 0.35
		r.stroke(a, b, width+s.Blur*0.6, glow)
	}
	r.stroke(a, b, width, s.Color)
}

func (r *Raster) FillCircle(center geom.Coord, radius float64, s Style) {
	if !finite(center) || radius <= 0 {
		return
	}
	if s.Blur > 0 {
		glow := s.Glow
		glow.A *= 0.35
		r.disc(center, radius+s.Blur*0.4, glow)
	}
	r.disc(center, radius, s.Color)
}

func (r *Raster) stroke(a, b geom.Coord, width float64, c RGBA) {
	w, h := r.Size()
	pad := width + 1
	bounds := geom.Rect{
		Min: geom.Coord{X: -pad, Y: -pad},
		Max: geom.Coord{X: float64(w) + pad, Y: float64(h) + pad},
	}
	a, b, ok := clipSegment(a, b, bounds)
	if !ok {
		return
	}
	d := b.Minus(a)
	l := d.Magnitude()
	if l == 0 {
		r.disc(a, width/2, c)
		return
	}
	n := geom.Coord{X: -d.Y, Y: d.X}.Times(width / 2 / l)
	r.polygon([]geom.Coord{a.Plus(n), b.Plus(n), b.Minus(n), a.Minus(n)}, c)
}

func (r *Raster) disc(center geom.Coord, radius float64, c RGBA) {
	w, h := r.Size()
	if center.X+radius < 0 || center.Y+radius < 0 ||
		center.X-radius > float64(w) || center.Y-radius > float64(h) {
		return
	}
	pts := make([]geom.Coord, circleSegments)
	for i := range pts {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / circleSegments)
		pts[i] = geom.Coord{X: center.X + radius*cos, Y: center.Y + radius*sin}
	}
	r.polygon(pts, c)
}

func (r *Raster) polygon(pts []geom.Coord, c RGBA) {
	if c.A <= 0 || len(pts) < 3 {
		return
	}
	w, h := r.Size()
	r.z.Reset(w, h)
	r.z.DrawOp = draw.Over
	r.z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.z.LineTo(float32(p.X), float32(p.Y))
	}
	r.z.ClosePath()
	r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(nrgba(c)), image.Point{})
}

func nrgba(c RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(clamp01(c.A)*255 + 0.5)}
}
