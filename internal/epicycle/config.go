package epicycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/olivier-w/epicycles/internal/fourier"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("epicycle: invalid config")

// referenceHeight is the canvas height the pixel constants are tuned for.
// Sizes, widths, glow radii and the jump threshold scale with height/300.
const referenceHeight = 300

// Config collects every tunable of the animation.
type Config struct {
	Analyzer fourier.Options `yaml:"analyzer"`

	// DurationSeconds is how long one full 2π cycle of the chain takes at
	// FrameRate frames per second.
	DurationSeconds float64 `yaml:"duration_seconds"`
	FrameRate       float64 `yaml:"frame_rate"`
	SettleSeconds   float64 `yaml:"settle_seconds"`

	TraceCapacity int     `yaml:"trace_capacity"`
	JumpThreshold float64 `yaml:"jump_threshold"`

	// Anchor of the chain as a fraction of the canvas size.
	AnchorX float64 `yaml:"anchor_x"`
	AnchorY float64 `yaml:"anchor_y"`

	ResizeDebounce time.Duration `yaml:"resize_debounce"`

	Flock FlockConfig `yaml:"flock"`
}

// FlockConfig controls the decorative dots.
type FlockConfig struct {
	Count int     `yaml:"count"`
	Trail int     `yaml:"trail"`
	Pull  float64 `yaml:"pull"`
	// Seed fixes the random phases and speeds; zero picks a random seed.
	Seed uint64 `yaml:"seed"`
}

// DefaultConfig returns a 9 second cycle at 60fps with a one second settle,
// a 1000 point trace and 20 dots.
func DefaultConfig() Config {
	return Config{
		Analyzer:        fourier.DefaultOptions(),
		DurationSeconds: 9,
		FrameRate:       60,
		SettleSeconds:   1,
		TraceCapacity:   1000,
		JumpThreshold:   30,
		AnchorX:         1.0 / 3,
		AnchorY:         0.5,
		ResizeDebounce:  250 * time.Millisecond,
		Flock: FlockConfig{
			Count: 20,
			Trail: 20,
			Pull:  0.125,
		},
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case c.Analyzer.SampleCount <= 0:
		return fmt.Errorf("%w: sample_count must be positive", ErrInvalidConfig)
	case c.Analyzer.Terms < 0:
		return fmt.Errorf("%w: terms must not be negative", ErrInvalidConfig)
	case c.Analyzer.FillRatio <= 0:
		return fmt.Errorf("%w: fill_ratio must be positive", ErrInvalidConfig)
	case c.DurationSeconds <= 0:
		return fmt.Errorf("%w: duration_seconds must be positive", ErrInvalidConfig)
	case c.FrameRate <= 0:
		return fmt.Errorf("%w: frame_rate must be positive", ErrInvalidConfig)
	case c.SettleSeconds < 0:
		return fmt.Errorf("%w: settle_seconds must not be negative", ErrInvalidConfig)
	case c.TraceCapacity <= 0:
		return fmt.Errorf("%w: trace_capacity must be positive", ErrInvalidConfig)
	case c.Flock.Count < 0 || c.Flock.Trail < 0:
		return fmt.Errorf("%w: flock count and trail must not be negative", ErrInvalidConfig)
	case c.Flock.Pull < 0 || c.Flock.Pull > 1:
		return fmt.Errorf("%w: flock pull must be within [0, 1]", ErrInvalidConfig)
	}
	return nil
}

// SettleFrames is the number of frames spent settling before tracing.
func (c Config) SettleFrames() int {
	return int(ceil(c.SettleSeconds * c.FrameRate))
}

// FrameInterval is the wall-clock time between frames.
func (c Config) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.FrameRate)
}
