// Package config holds the settings of one simulation run and resolves them
// into the scene, response strategy and rendering engine.
//
// Every setting is checked by Validate before any tracing starts, so a
// misconfigured run fails without doing work.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-eir/dsp/auralize"
	"github.com/cwbudde/algo-eir/measure/eir"
	"github.com/cwbudde/algo-eir/sim/scene"
	"github.com/cwbudde/algo-eir/sim/trace"
)

// Configuration errors.
var (
	ErrUnknownScene    = errors.New("config: unknown scene")
	ErrInvalidRays     = errors.New("config: ray count must be positive")
	ErrInvalidScale    = errors.New("config: scale must be positive")
	ErrMissingInput    = errors.New("config: missing input file")
	ErrMissingOutput   = errors.New("config: missing output file")
	ErrInvalidDelay    = errors.New("config: max delay must be positive")
	ErrInvalidBin      = errors.New("config: bin width must not be negative")
	ErrInvalidInterval = errors.New("config: snapshot interval must not be negative")
	ErrInvalidWindow   = errors.New("config: invalid window")
	ErrInvalidPhysics  = errors.New("config: invalid propagation setting")
	ErrInvalidWorkers  = errors.New("config: worker count must not be negative")
)

// Config is the full set of run settings.
type Config struct {
	Scene  int
	Rays   int
	Scale  float64
	Method string // snapshot or interpolated
	IRs    string // single or multi

	Input  string
	Output string
	Export string // optional csv path for the responses

	Seed     uint64
	Workers  int     // 0 uses one per CPU
	MaxDelay float64 // seconds of response per instant
	// BinWidth is the histogram resolution in seconds; 0 uses one sample
	// period of the input.
	BinWidth float64
	// SnapshotInterval spaces snapshot instants in seconds; 0 uses the
	// window hop.
	SnapshotInterval float64
	Hop              int // window spacing in samples
	Crossfade        int // window ramp in samples
	Limiter          string
	SpeedOfSound     float64
	MaxBounces       int
	FoldLoops        bool
	Dither           bool // triangular dither on the 16-bit output
}

// Option mutates a Config.
type Option func(*Config)

// Default returns the settings of a plain run: scene 0 traced with 100000
// rays, a single snapshot response and a scale of 10000.
func Default() Config {
	t := trace.DefaultOptions()
	a := auralize.DefaultOptions()
	return Config{
		Rays:         t.Rays,
		Scale:        a.Scale,
		Method:       eir.Snapshot.String(),
		IRs:          eir.Single.String(),
		Seed:         t.Seed,
		MaxDelay:     t.MaxDelay,
		Hop:          a.Hop,
		Crossfade:    a.Crossfade,
		Limiter:      a.Limiter.String(),
		SpeedOfSound: t.SpeedOfSound,
		MaxBounces:   t.MaxBounces,
		FoldLoops:    true,
	}
}

// New applies opts to the defaults and validates the result.
func New(opts ...Option) (Config, error) {
	c := Default()
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c, c.Validate()
}

// WithScene selects a catalog scene.
func WithScene(id int) Option { return func(c *Config) { c.Scene = id } }

// WithRays sets the number of rays per instant.
func WithRays(n int) Option { return func(c *Config) { c.Rays = n } }

// WithScale sets the output gain.
func WithScale(s float64) Option { return func(c *Config) { c.Scale = s } }

// WithMethod sets the response method by name.
func WithMethod(m string) Option { return func(c *Config) { c.Method = m } }

// WithIRs sets the response cardinality by name.
func WithIRs(irs string) Option { return func(c *Config) { c.IRs = irs } }

// WithFiles sets the input and output audio paths.
func WithFiles(input, output string) Option {
	return func(c *Config) { c.Input, c.Output = input, output }
}

// WithExport sets the csv export path.
func WithExport(path string) Option { return func(c *Config) { c.Export = path } }

// WithSeed sets the random seed.
func WithSeed(seed uint64) Option { return func(c *Config) { c.Seed = seed } }

// WithWorkers sets the number of goroutines.
func WithWorkers(n int) Option { return func(c *Config) { c.Workers = n } }

// WithMaxDelay sets the response length in seconds.
func WithMaxDelay(d float64) Option { return func(c *Config) { c.MaxDelay = d } }

// WithWindow sets the window hop and crossfade in samples.
func WithWindow(hop, crossfade int) Option {
	return func(c *Config) { c.Hop, c.Crossfade = hop, crossfade }
}

// WithSnapshotInterval sets the snapshot spacing in seconds.
func WithSnapshotInterval(d float64) Option { return func(c *Config) { c.SnapshotInterval = d } }

// WithLimiter sets the limiter by name.
func WithLimiter(l string) Option { return func(c *Config) { c.Limiter = l } }

// Validate reports the first unusable setting other than the file paths,
// which CheckFiles covers.
func (c Config) Validate() error {
	if c.Scene < 0 || c.Scene >= scene.CatalogSize {
		return fmt.Errorf("%w: %d (want 0..%d)", ErrUnknownScene, c.Scene, scene.CatalogSize-1)
	}
	if c.Rays <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRays, c.Rays)
	}
	if !positive(c.Scale) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, c.Scale)
	}
	if _, err := eir.ParseMethod(c.Method); err != nil {
		return fmt.Errorf("config: method: %w", err)
	}
	if _, err := eir.ParseCardinality(c.IRs); err != nil {
		return fmt.Errorf("config: irs: %w", err)
	}
	if _, err := auralize.ParseLimiter(c.Limiter); err != nil {
		return fmt.Errorf("config: limiter: %w", err)
	}
	if !positive(c.MaxDelay) {
		return fmt.Errorf("%w: %v", ErrInvalidDelay, c.MaxDelay)
	}
	if c.BinWidth < 0 || math.IsNaN(c.BinWidth) || math.IsInf(c.BinWidth, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidBin, c.BinWidth)
	}
	if c.SnapshotInterval < 0 || math.IsNaN(c.SnapshotInterval) || math.IsInf(c.SnapshotInterval, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidInterval, c.SnapshotInterval)
	}
	if c.Hop <= 0 || c.Crossfade < 0 || c.Crossfade > c.Hop {
		return fmt.Errorf("%w: hop %d, crossfade %d", ErrInvalidWindow, c.Hop, c.Crossfade)
	}
	if !positive(c.SpeedOfSound) || c.MaxBounces < 0 {
		return fmt.Errorf("%w: speed of sound %v, max bounces %d", ErrInvalidPhysics, c.SpeedOfSound, c.MaxBounces)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	return nil
}

// CheckFiles reports a missing input or output path. Runs that render
// audio need both.
func (c Config) CheckFiles() error {
	if c.Input == "" {
		return ErrMissingInput
	}
	if c.Output == "" {
		return ErrMissingOutput
	}
	return nil
}

// SceneValue returns a fresh copy of the selected catalog scene.
func (c Config) SceneValue() (*scene.Scene, error) {
	sc, err := scene.Catalog(c.Scene)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownScene, err)
	}
	return sc, nil
}

// Strategy resolves the method and cardinality for audio at sampleRate.
func (c Config) Strategy(sampleRate float64) (eir.Strategy, error) {
	if !positive(sampleRate) {
		return nil, fmt.Errorf("config: sample rate %v", sampleRate)
	}
	m, err := eir.ParseMethod(c.Method)
	if err != nil {
		return nil, err
	}
	card, err := eir.ParseCardinality(c.IRs)
	if err != nil {
		return nil, err
	}

	opts := eir.DefaultOptions()
	opts.Trace.Rays = c.Rays
	opts.Trace.Seed = c.Seed
	opts.Trace.MaxDelay = c.MaxDelay
	opts.Trace.SpeedOfSound = c.SpeedOfSound
	opts.Trace.MaxBounces = c.MaxBounces
	opts.Workers = c.Workers
	opts.FoldLoops = c.FoldLoops
	opts.BinWidth = c.BinWidth
	if opts.BinWidth == 0 {
		opts.BinWidth = 1 / sampleRate
	}
	opts.SnapshotInterval = c.SnapshotInterval
	if opts.SnapshotInterval == 0 {
		opts.SnapshotInterval = float64(c.Hop) / sampleRate
	}
	return eir.NewStrategy(m, card, opts)
}

// Engine returns the rendering engine.
func (c Config) Engine() (*auralize.Engine, error) {
	l, err := auralize.ParseLimiter(c.Limiter)
	if err != nil {
		return nil, err
	}
	opts := auralize.DefaultOptions()
	opts.Scale = c.Scale
	opts.Hop = c.Hop
	opts.Crossfade = c.Crossfade
	opts.Limiter = l
	opts.Seed = c.Seed
	opts.Workers = c.Workers
	return auralize.New(opts)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
