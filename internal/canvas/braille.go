package canvas

import (
	"math"
	"strings"

	"github.com/jbeda/geom"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// Braille is a terminal surface where each character cell holds a 2x4 grid
// of dots. A cell has a single foreground color, so the brightest
// contribution wins. The background color is only used for alpha blending.
type Braille struct {
	cols, rows int
	profile    Profile
	bg         RGBA
	bits       []uint8
	colors     []RGBA
	lum        []float64
}

// NewBraille creates a surface of cols x rows cells using the detected
// terminal color profile.
func NewBraille(cols, rows int) *Braille {
	b := &Braille{profile: DetectProfile()}
	b.Resize(cols, rows)
	return b
}

// SetProfile overrides the detected color profile.
func (b *Braille) SetProfile(p Profile) { b.profile = p }

// Resize reallocates the surface and clears it.
func (b *Braille) Resize(cols, rows int) {
	cols = max(cols, 1)
	rows = max(rows, 1)
	b.cols, b.rows = cols, rows
	b.bits = make([]uint8, cols*rows)
	b.colors = make([]RGBA, cols*rows)
	b.lum = make([]float64, cols*rows)
}

// Cells returns the surface size in character cells.
func (b *Braille) Cells() (cols, rows int) { return b.cols, b.rows }

// Size returns the surface size in dots.
func (b *Braille) Size() (w, h int) { return b.cols * 2, b.rows * 4 }

func (b *Braille) Fill(c RGBA) {
	b.bg = over(c, RGBA{})
	clear(b.bits)
	clear(b.colors)
	clear(b.lum)
}

func (b *Braille) StrokeLine(from, to geom.Coord, s Style) {
	w, h := b.Size()
	a, z, ok := clipSegment(from, to, geom.Rect{Max: geom.Coord{X: float64(w) - 0.5, Y: float64(h) - 0.5}})
	if !ok {
		return
	}
	c := b.shade(s)
	d := z.Minus(a)
	steps := int(math.Ceil(math.Max(math.Abs(d.X), math.Abs(d.Y))))
	if steps == 0 {
		b.plot(a, c)
		return
	}
	for i := 0; i <= steps; i++ {
		b.plot(a.Plus(d.Times(float64(i)/float64(steps))), c)
	}
}

func (b *Braille) FillCircle(center geom.Coord, r float64, s Style) {
	if !finite(center) {
		return
	}
	c := b.shade(s)
	if r < 0.75 {
		b.plot(center, c)
		return
	}
	ri := int(math.Ceil(r))
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= r*r {
				b.plot(geom.Coord{X: center.X + float64(dx), Y: center.Y + float64(dy)}, c)
			}
		}
	}
}

// shade resolves a style to the color a dot is painted with. Glow has no
// spatial extent at this resolution, so it brightens the dot instead.
func (b *Braille) shade(s Style) RGBA {
	c := over(s.Color, b.bg)
	if s.Blur <= 0 {
		return c
	}
	boost := 1 + math.Min(s.Blur, 40)/40
	scale := func(v uint8) uint8 {
		return uint8(math.Min(255, float64(v)*boost))
	}
	return RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: 1}
}

func (b *Braille) plot(p geom.Coord, c RGBA) {
	x, y := int(math.Round(p.X)), int(math.Round(p.Y))
	w, h := b.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	idx := (y/4)*b.cols + x/2
	b.bits[idx] |= 1 << brailleBits[x%2][y%4]
	if l := luma(c); l >= b.lum[idx] {
		b.lum[idx] = l
		b.colors[idx] = c
	}
}

// Dot reports whether the dot at (x, y) is set.
func (b *Braille) Dot(x, y int) bool {
	w, h := b.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	return b.bits[(y/4)*b.cols+x/2]&(1<<brailleBits[x%2][y%4]) != 0
}

// Render returns the surface as rows of braille characters with ANSI colors
// for the current profile.
func (b *Braille) Render() string {
	var out strings.Builder
	color := newANSIState(b.profile)
	for r := range b.rows {
		if r > 0 {
			out.WriteByte('\n')
		}
		for c := range b.cols {
			idx := r*b.cols + c
			if b.bits[idx] == 0 {
				out.WriteByte(' ')
				continue
			}
			color.set(&out, b.colors[idx])
			out.WriteRune(rune(0x2800 + int(b.bits[idx])))
		}
		color.reset(&out)
	}
	return out.String()
}
