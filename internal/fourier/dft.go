package fourier

import (
	"context"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// binsPerTask keeps each worker busy long enough to amortize scheduling.
const binsPerTask = 32

// Transform computes the direct DFT of s and returns one component per bin,
// sorted by descending amplitude. The sign convention is chosen so that
// reconstruction rotates each arm by +k*t.
//
// Bins are independent, so they are spread over a bounded worker pool; the
// summation order inside a bin is fixed, which keeps the output identical
// to a serial pass.
func Transform(ctx context.Context, s Signal) ([]Component, error) {
	n := len(s)
	out := make([]Component, n)
	if n == 0 {
		return out, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for lo := 0; lo < n; lo += binsPerTask {
		hi := min(lo+binsPerTask, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for k := lo; k < hi; k++ {
				out[k] = bin(s, k)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amp > out[j].Amp
	})
	return out, nil
}

func bin(s Signal, k int) Component {
	n := len(s)
	var re, im float64
	for j, v := range s {
		// k*j is reduced mod n first so large products keep full precision.
		phi := 2 * math.Pi * float64((k*j)%n) / float64(n)
		sin, cos := math.Sincos(phi)
		x, y := real(v), imag(v)
		re += x*cos + y*sin
		im += -x*sin + y*cos
	}
	re /= float64(n)
	im /= float64(n)

	phase := math.Atan2(im, re)
	if phase == -math.Pi {
		phase = math.Pi
	}
	return Component{
		Freq:  k,
		Amp:   math.Hypot(re, im),
		Phase: phase,
	}
}

// Truncate keeps the components whose raw index lies within m/2 of DC in
// the signed sense: freq <= m/2 or freq >= n-m/2. Amplitude order is kept.
//
// The filter looks at frequency, not at amplitude rank, so a small m can
// keep a quiet high bin and drop a louder mid bin.
func Truncate(cs []Component, n, m int) []Component {
	half := m / 2
	out := make([]Component, 0, min(len(cs), m+1))
	for _, c := range cs {
		if c.Freq <= half || c.Freq >= n-half {
			out = append(out, c)
		}
	}
	return out
}
