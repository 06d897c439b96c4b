package auralize

import (
	"errors"
	"math"
)

// Errors returned by the engine.
var (
	ErrEmptyInput      = errors.New("auralize: empty input")
	ErrEmptyKernel     = errors.New("auralize: empty kernel")
	ErrInvalidRate     = errors.New("auralize: invalid sample rate")
	ErrInvalidSchedule = errors.New("auralize: invalid window schedule")
	ErrInvalidScale    = errors.New("auralize: invalid scale")
	ErrUnknownLimiter  = errors.New("auralize: unknown limiter")
	ErrNoResponses     = errors.New("auralize: no impulse responses")
)

// Buffer is a mono signal at a fixed sample rate.
type Buffer struct {
	Samples    []float64
	SampleRate float64
}

// Len returns the number of samples.
func (b Buffer) Len() int { return len(b.Samples) }

// Duration returns the length of the signal in seconds.
func (b Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / b.SampleRate
}

func (b Buffer) validate() error {
	if len(b.Samples) == 0 {
		return ErrEmptyInput
	}
	if !(b.SampleRate > 0) || math.IsInf(b.SampleRate, 0) {
		return ErrInvalidRate
	}
	return nil
}
