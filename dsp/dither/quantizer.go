package dither

import (
	"math"
	"math/rand/v2"
)

// Quantizer maps samples in [-1, 1] to integer codes. Full scale maps to
// ±(2^(bits-1) - 1), so decoding a code c as c / 2^(bits-1) recovers the
// input within one LSB.
type Quantizer struct {
	bitDepth   int
	ditherType DitherType
	amplitude  float64
	limit      bool
	rng        *rand.Rand

	scale float64
}

// NewQuantizer creates a Quantizer. The default is 16-bit with triangular
// dither of one LSB and limiting enabled.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	q := &Quantizer{
		bitDepth:   cfg.bitDepth,
		ditherType: cfg.ditherType,
		amplitude:  cfg.amplitude,
		limit:      cfg.limit,
		rng:        cfg.rng,
		scale:      math.Exp2(float64(cfg.bitDepth-1)) - 1,
	}
	if q.rng == nil && q.ditherType != DitherNone {
		q.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return q, nil
}

// ProcessInteger quantizes one sample.
func (q *Quantizer) ProcessInteger(input float64) int {
	x := q.scale*input + q.noise()
	if q.limit {
		x = math.Max(-q.scale, math.Min(q.scale, x))
	}
	return int(math.Round(x))
}

// Quantize writes the codes of src into dst, which must be at least as long.
func (q *Quantizer) Quantize(dst []int, src []float64) {
	for i, v := range src {
		dst[i] = q.ProcessInteger(v)
	}
}

func (q *Quantizer) noise() float64 {
	switch q.ditherType {
	case DitherRectangular:
		return q.amplitude * (2*q.rng.Float64() - 1)
	case DitherTriangular:
		return q.amplitude * (q.rng.Float64() - q.rng.Float64())
	default:
		return 0
	}
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// DitherType returns the dither noise type.
func (q *Quantizer) DitherType() DitherType { return q.ditherType }

// FullScale returns the largest code magnitude.
func (q *Quantizer) FullScale() int { return int(q.scale) }
