// Package window generates window functions used to taper and crossfade
// blocks of samples.
package window

import "math"

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
)

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
	invert   bool
}

// WithPeriodic generates the periodic form, whose period is the window length,
// instead of the symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// WithInvert returns 1 - w[n] instead of w[n].
func WithInvert() Option {
	return func(c *config) {
		c.invert = true
	}
}

var hannCoeffs = []float64{0.5, -0.5}

// Generate returns window coefficients of the given length, or nil when
// length is not positive.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	den := float64(max(length-1, 1))
	if cfg.periodic {
		den = float64(length)
	}

	out := make([]float64, length)
	for i := range out {
		v := eval(t, float64(i)/den)
		if cfg.invert {
			v = 1 - v
		}
		out[i] = v
	}
	return out
}

// Ramp returns n gains of a Hann crossfade: the rising half of a periodic
// Hann window of length 2n, or its complement when falling. A rising and a
// falling ramp of the same length sum to one at every sample.
func Ramp(n int, falling bool) []float64 {
	if n <= 0 {
		return nil
	}
	opts := []Option{WithPeriodic()}
	if falling {
		opts = append(opts, WithInvert())
	}
	return Generate(TypeHann, 2*n, opts...)[:n]
}

func eval(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return cosineSum(x, hannCoeffs)
	default:
		return 1
	}
}

// cosineSum evaluates sum c[k]·cos(2πkx) at the normalized position x.
func cosineSum(x float64, coeffs []float64) float64 {
	var sum float64
	for k, c := range coeffs {
		sum += c * math.Cos(2*math.Pi*float64(k)*x)
	}
	return sum
}
