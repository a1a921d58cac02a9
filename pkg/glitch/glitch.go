package glitch

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	apperr "github.com/matzehuels/glitchid/pkg/errors"
	"github.com/matzehuels/glitchid/pkg/surface"
)

// ErrNoSurface is returned when no drawing surface can be bound to the
// frame. Nothing is rendered in that case.
var ErrNoSurface = errors.New("glitch: drawing surface unavailable")

// Frame size limits and defaults.
const (
	DefaultSize = 500
	MinSize     = 64
	MaxSize     = 2048

	DefaultChromaOffset   = 5
	DefaultScanlineGap    = 4
	DefaultScanlineFactor = 0.7
	DefaultSliceCount     = 3
)

// Stage names one step of the pipeline.
type Stage string

const (
	StagePrepare   Stage = "prepare"
	StageContrast  Stage = "contrast"
	StageShift     Stage = "shift"
	StageScanlines Stage = "scanlines"
	StageSlices    Stage = "slices"
	StageOverlay   Stage = "overlay"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StagePrepare, StageContrast, StageShift, StageScanlines, StageSlices, StageOverlay}

// Config holds the fixed effect parameters. The zero value means defaults.
type Config struct {
	Size           int
	ChromaOffset   int
	ScanlineGap    int
	ScanlineFactor float64
	SliceCount     int

	// Workers bounds goroutines used by the per-pixel stages.
	// Zero uses GOMAXPROCS; output does not depend on it.
	Workers int

	// StageHook, if set, is called after each stage with its duration.
	StageHook func(stage Stage, elapsed time.Duration)
}

// DefaultConfig returns the reference parameters.
func DefaultConfig() Config {
	return Config{
		Size:           DefaultSize,
		ChromaOffset:   DefaultChromaOffset,
		ScanlineGap:    DefaultScanlineGap,
		ScanlineFactor: DefaultScanlineFactor,
		SliceCount:     DefaultSliceCount,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Size == 0 {
		c.Size = d.Size
	}
	if c.ChromaOffset == 0 {
		c.ChromaOffset = d.ChromaOffset
	}
	if c.ScanlineGap == 0 {
		c.ScanlineGap = d.ScanlineGap
	}
	if c.ScanlineFactor == 0 {
		c.ScanlineFactor = d.ScanlineFactor
	}
	if c.SliceCount == 0 {
		c.SliceCount = d.SliceCount
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// Validate checks the configuration after defaults are applied.
func (c Config) Validate() error {
	c = c.withDefaults()
	if err := apperr.ValidateSize(c.Size, MinSize, MaxSize); err != nil {
		return err
	}
	if c.ChromaOffset < 0 || c.ChromaOffset >= c.Size {
		return apperr.New(apperr.ErrCodeInvalidInput, "chroma offset %d out of range", c.ChromaOffset)
	}
	if c.ScanlineFactor < 0 || c.ScanlineFactor > 1 {
		return apperr.New(apperr.ErrCodeInvalidInput, "scanline factor %v out of range [0, 1]", c.ScanlineFactor)
	}
	if c.SliceCount < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "slice count %d is negative", c.SliceCount)
	}
	return nil
}

// Input is everything a single render consumes.
type Input struct {
	Source   []byte       // encoded image, or empty for the placeholder
	Identity string       // uppercased by the overlay
	Time     time.Time    // frame caption clock; zero means now
	Rand     RandomSource // nil means a freshly seeded generator
}

// Output is the result of a render.
type Output struct {
	Buffer  *PixelBuffer
	Source  SourceKind
	Slices  []Slice
	FrameID string
}

// Render runs the six stages on a fresh Size×Size buffer.
//
// The only failure mode is a missing drawing capability, reported before
// any stage runs (wrapping ErrNoSurface), or an invalid Config. A returned
// buffer is always complete and fully opaque.
func Render(cfg Config, newSurface surface.Factory, in Input) (*Output, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if newSurface == nil {
		return nil, ErrNoSurface
	}

	buf := NewPixelBuffer(cfg.Size, cfg.Size)
	s, err := newSurface(buf.RGBA())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSurface, err)
	}
	if s == nil {
		return nil, ErrNoSurface
	}

	rng := in.Rand
	if rng == nil {
		rng = NewRandom(NewSeed())
	}
	ts := in.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	out := &Output{Buffer: buf}
	run := func(stage Stage, fn func() error) error {
		start := time.Now()
		if err := fn(); err != nil {
			return fmt.Errorf("%s: %w", stage, err)
		}
		if cfg.StageHook != nil {
			cfg.StageHook(stage, time.Since(start))
		}
		return nil
	}

	var lum *LuminanceBuffer
	steps := []struct {
		stage Stage
		fn    func() error
	}{
		{StagePrepare, func() (err error) {
			out.Source, err = Prepare(s, in.Source)
			return err
		}},
		{StageContrast, func() error {
			lum = Contrast(buf, cfg.Workers)
			return nil
		}},
		{StageShift, func() error {
			Shift(buf, lum, cfg.ChromaOffset, cfg.Workers)
			return nil
		}},
		{StageScanlines, func() error {
			DarkenScanlines(buf, cfg.ScanlineGap, cfg.ScanlineFactor)
			return nil
		}},
		{StageSlices, func() error {
			out.Slices = Corrupt(buf, cfg.SliceCount, rng)
			return nil
		}},
		{StageOverlay, func() (err error) {
			out.FrameID, err = Overlay(s, in.Identity, ts, rng)
			return err
		}},
	}
	for _, step := range steps {
		if err := run(step.stage, step.fn); err != nil {
			return nil, err
		}
	}

	buf.seal()
	return out, nil
}
