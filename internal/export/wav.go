package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jbeda/geom"

	"github.com/olivier-w/epicycles/internal/fourier"
)

const (
	bitDepth = 16
	headroom = 0.9
)

// WAVOptions controls the XY audio rendering.
type WAVOptions struct {
	SampleRate int
	// Frequency is how many times per second the shape is drawn.
	Frequency float64
	Cycles    int
}

// DefaultWAVOptions draws the shape 50 times a second for two seconds.
func DefaultWAVOptions() WAVOptions {
	return WAVOptions{SampleRate: 44100, Frequency: 50, Cycles: 100}
}

// WAV writes the reconstructed shape as 16-bit stereo PCM with x on the
// left channel and -y on the right, so that an oscilloscope in XY mode
// shows it upright. Output is normalized to the chain's reach.
func WAV(w io.WriteSeeker, m *fourier.Model, opts WAVOptions) error {
	if opts.SampleRate <= 0 || opts.Frequency <= 0 || opts.Cycles <= 0 {
		return fmt.Errorf("%w: rate=%d frequency=%v cycles=%d",
			ErrBadOptions, opts.SampleRate, opts.Frequency, opts.Cycles)
	}
	perCycle := int(math.Round(float64(opts.SampleRate) / opts.Frequency))
	if perCycle < 2 {
		return fmt.Errorf("%w: frequency %v too high for rate %d", ErrBadOptions, opts.Frequency, opts.SampleRate)
	}

	var reach float64
	for _, c := range m.Components {
		reach += c.Amp
	}
	if reach == 0 {
		reach = 1
	}
	peak := float64(int(1)<<(bitDepth-1)-1) * headroom

	cycle := make([]int, 0, perCycle*2)
	for i := 0; i < perCycle; i++ {
		t := 2 * math.Pi * float64(i) / float64(perCycle)
		p := m.Eval(geom.Coord{}, t, nil)
		cycle = append(cycle,
			int(math.Round(p.X/reach*peak)),
			int(math.Round(-p.Y/reach*peak)),
		)
	}

	enc := wav.NewEncoder(w, opts.SampleRate, bitDepth, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: opts.SampleRate},
		Data:           cycle,
		SourceBitDepth: bitDepth,
	}
	for range opts.Cycles {
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("write wav: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish wav: %w", err)
	}
	return nil
}
