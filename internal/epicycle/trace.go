package epicycle

import "github.com/jbeda/geom"

// Trace is a bounded FIFO of reconstructed points. Pushing beyond capacity
// evicts the oldest point.
type Trace struct {
	buf []geom.Coord
	w   int // write position
	n   int // current fill level
}

// NewTrace creates a trace holding at most capacity points.
func NewTrace(capacity int) *Trace {
	return &Trace{buf: make([]geom.Coord, max(capacity, 1))}
}

// Push appends p, overwriting the oldest point if full.
func (t *Trace) Push(p geom.Coord) {
	t.buf[t.w] = p
	t.w = (t.w + 1) % len(t.buf)
	if t.n < len(t.buf) {
		t.n++
	}
}

func (t *Trace) Len() int { return t.n }
func (t *Trace) Cap() int { return len(t.buf) }

// At returns the i-th point counting from the oldest.
func (t *Trace) At(i int) geom.Coord {
	start := (t.w - t.n + len(t.buf)) % len(t.buf)
	return t.buf[(start+i)%len(t.buf)]
}

// Points returns a copy of the trace, oldest first.
func (t *Trace) Points() []geom.Coord {
	out := make([]geom.Coord, t.n)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

// Clear empties the trace.
func (t *Trace) Clear() {
	t.w = 0
	t.n = 0
}
