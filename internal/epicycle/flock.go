package epicycle

import (
	"math"
	"math/rand/v2"

	"github.com/jbeda/geom"

	"github.com/olivier-w/epicycles/internal/canvas"
)

var (
	dotColor  = canvas.RGBA{R: 120, G: 170, B: 255}
	dotShadow = canvas.RGBA{R: 100, G: 150, B: 255}
	headColor = canvas.Opaque(150, 200, 255)
)

// Dot is one member of the flock drifting across the lower band of the
// canvas.
type Dot struct {
	SpawnTime float64
	Phase     float64
	Speed     float64
	Trail     []geom.Coord

	head    geom.Coord
	visible bool
}

// Head returns the dot position computed by the last Step and whether the
// dot was on screen.
func (d *Dot) Head() (geom.Coord, bool) { return d.head, d.visible }

// Flock is a fixed-size population of dots. A dot that leaves the right
// edge is respawned in place at the left, so the population never changes.
type Flock struct {
	dots  []Dot
	rng   *rand.Rand
	trail int
	pull  float64
}

// NewFlock creates cfg.Count dots staggered half a time unit apart, as if
// they had been spawned over the preceding interval.
func NewFlock(cfg FlockConfig, now float64) *Flock {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	f := &Flock{
		dots:  make([]Dot, cfg.Count),
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		trail: cfg.Trail,
		pull:  cfg.Pull,
	}
	for i := range f.dots {
		f.spawn(&f.dots[i], now-float64(i)*0.5)
	}
	return f
}

func (f *Flock) spawn(d *Dot, at float64) {
	*d = Dot{
		SpawnTime: at,
		Phase:     f.rng.Float64() * twoPi,
		Speed:     0.65 + f.rng.Float64()*0.1,
		Trail:     make([]geom.Coord, 0, f.trail),
	}
}

// Len is the population size.
func (f *Flock) Len() int { return len(f.dots) }

// Dots exposes the population for inspection.
func (f *Flock) Dots() []Dot { return f.dots }

// Reset clears every trail, used when the canvas geometry changes.
func (f *Flock) Reset() {
	for i := range f.dots {
		f.dots[i].Trail = f.dots[i].Trail[:0]
		f.dots[i].visible = false
	}
}

// Step moves every dot to its position at time now on a w×h canvas. Dots
// that have left the canvas are respawned and not drawn this frame.
func (f *Flock) Step(now, w, h float64) {
	span := w + 100
	var sumY float64
	var shown int
	for i := range f.dots {
		d := &f.dots[i]
		d.visible = false
		age := now - d.SpawnTime
		x := -50 + age*d.Speed*span/10
		if x > w+100 {
			f.spawn(d, now)
			continue
		}
		if x >= w+50 {
			continue
		}
		progress := (x + 50) / span
		band := h*0.725 + math.Sin((1-progress)*twoPi)*h*0.1
		swoosh1 := math.Sin(age*1.5+d.Phase) * h * 0.085
		swoosh2 := math.Sin(age*0.8+d.Phase*1.3) * h * 0.06
		d.head = geom.Coord{X: x, Y: band + swoosh1 + swoosh2}
		d.visible = true
		sumY += d.head.Y
		shown++
	}
	if shown == 0 {
		return
	}

	// Pull everyone toward the group's mean height so they move as a flock.
	center := sumY / float64(shown)
	for i := range f.dots {
		d := &f.dots[i]
		if !d.visible {
			continue
		}
		d.head.Y += (center - d.head.Y) * f.pull
		if f.trail == 0 {
			continue
		}
		if len(d.Trail) == f.trail {
			copy(d.Trail, d.Trail[1:])
			d.Trail = d.Trail[:f.trail-1]
		}
		d.Trail = append(d.Trail, d.head)
	}
}

// Draw paints trails and heads of the dots shown by the last Step. unit
// scales sizes relative to a 300px tall canvas.
func (f *Flock) Draw(c canvas.Canvas, unit float64) {
	for i := range f.dots {
		d := &f.dots[i]
		if !d.visible {
			continue
		}
		n := len(d.Trail)
		for j := 0; j < n-1; j++ {
			fade := float64(j) / float64(n-1)
			alpha := fade * 0.85
			col := dotColor
			col.A = alpha
			glow := dotShadow
			glow.A = alpha * 0.8
			c.FillCircle(d.Trail[j], (1.5+fade*2.5)*unit, canvas.Style{
				Color: col,
				Blur:  20 * fade * unit,
				Glow:  glow,
			})
		}
		c.FillCircle(d.head, 4*unit, canvas.Style{
			Color: headColor,
			Blur:  25 * unit,
			Glow:  canvas.Opaque(dotShadow.R, dotShadow.G, dotShadow.B),
		})
	}
}
