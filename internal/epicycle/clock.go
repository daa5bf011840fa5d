package epicycle

import "math"

const twoPi = 2 * math.Pi

func ceil(v float64) float64 {
	// Guard against 59.99999999 style products of settle time and rate.
	return math.Ceil(v - 1e-9)
}

// Clock holds the two phase accumulators of an animation. Epicycle drives
// the chain and wraps at 2π; Dots only grows and is used as a spawn time
// reference by the flock.
type Clock struct {
	Epicycle float64
	Dots     float64
	Step     float64
}

// NewClock returns a clock that covers 2π in duration*rate steps.
func NewClock(duration, rate float64) Clock {
	return Clock{Step: twoPi / (duration * rate)}
}

// Advance moves both accumulators forward by one step.
func (c *Clock) Advance() {
	c.Epicycle += c.Step
	c.Dots += c.Step
	if c.Epicycle >= twoPi {
		c.Epicycle = math.Mod(c.Epicycle, twoPi)
	}
}
