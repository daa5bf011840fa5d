package shapes

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jbeda/geom"

	"github.com/olivier-w/epicycles/internal/fourier"
)

// ErrUnsupportedShape is returned for references that are neither a
// built-in name nor a supported file.
var ErrUnsupportedShape = errors.New("shapes: unsupported shape")

// parametricSteps is the polyline resolution of built-in curves.
const parametricSteps = 720

// Built-in shapes are authored roughly 10 units tall so the default scale
// of height/11 leaves a margin.
var builtins = map[string]func() fourier.Path{
	"circle": func() fourier.Path {
		return Circle{Radius: 5}
	},
	"heart": func() fourier.Path {
		return parametric(func(t float64) geom.Coord {
			s := math.Sin(t)
			return geom.Coord{
				X: 16 * s * s * s,
				Y: -(13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)),
			}.Times(0.33)
		})
	},
	"lemniscate": func() fourier.Path {
		return parametric(func(t float64) geom.Coord {
			sin, cos := math.Sincos(t)
			d := 1 + sin*sin
			return geom.Coord{X: 7 * cos / d, Y: 7 * sin * cos / d}
		})
	},
	"star": func() fourier.Path {
		pl := &Polyline{}
		for i := range 10 {
			r := 5.0
			if i%2 == 1 {
				r = 2
			}
			sin, cos := math.Sincos(-math.Pi/2 + float64(i)*math.Pi/5)
			pt := geom.Coord{X: r * cos, Y: r * sin}
			if i == 0 {
				pl.MoveTo(pt)
			} else {
				pl.LineTo(pt)
			}
		}
		pl.Close()
		return pl
	},
}

func parametric(f func(t float64) geom.Coord) *Polyline {
	pl := &Polyline{}
	pl.MoveTo(f(0))
	for i := 1; i < parametricSteps; i++ {
		pl.LineTo(f(2 * math.Pi * float64(i) / parametricSteps))
	}
	pl.Close()
	return pl
}

// BuiltinNames returns the built-in shape names in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a built-in shape by name.
func Builtin(name string) (fourier.Path, error) {
	f, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (built-in: %s)", ErrUnsupportedShape, name, strings.Join(BuiltinNames(), ", "))
	}
	return f(), nil
}

// Open resolves ref as a built-in shape name or an SVG file. id selects the
// <path> element inside the file.
func Open(ref, id string) (fourier.Path, error) {
	if _, ok := builtins[strings.ToLower(ref)]; ok {
		return Builtin(ref)
	}
	ext := filepath.Ext(ref)
	if !IsSupportedExt(ext) {
		return nil, fmt.Errorf("%w: %s (supported: %s or a built-in name)", ErrUnsupportedShape, ref, SupportedExtsList())
	}
	f, err := os.Open(ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pl, err := LoadSVG(f, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	return pl, nil
}
