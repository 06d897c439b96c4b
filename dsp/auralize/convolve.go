package auralize

import (
	"fmt"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// directThreshold is the kernel or signal length up to which time-domain
// convolution beats the FFT path.
const directThreshold = 64

// Convolver holds a kernel prepared for repeated linear convolution.
// It is immutable after construction and safe for concurrent use.
type Convolver struct {
	kernel []float64

	// FFT overlap-add state; spectrum is nil on the direct path.
	spectrum  []complex128
	blockSize int
	fftSize   int
}

// NewConvolver prepares kernel for convolution. blockSize sets the input
// segment length of the overlap-add path; 0 picks one from the kernel length.
func NewConvolver(kernel []float64, blockSize int) (*Convolver, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	c := &Convolver{kernel: kernel}
	if len(kernel) <= directThreshold {
		return c, nil
	}

	if blockSize <= 0 {
		blockSize = max(nextPowerOf2(len(kernel)), 256)
	}
	c.blockSize = blockSize
	c.fftSize = nextPowerOf2(blockSize + len(kernel) - 1)

	plan, err := algofft.NewPlan64(c.fftSize)
	if err != nil {
		return nil, fmt.Errorf("auralize: fft plan of size %d: %w", c.fftSize, err)
	}
	padded := make([]complex128, c.fftSize)
	for i, v := range kernel {
		padded[i] = complex(v, 0)
	}
	c.spectrum = make([]complex128, c.fftSize)
	if err := plan.Forward(c.spectrum, padded); err != nil {
		return nil, fmt.Errorf("auralize: kernel fft: %w", err)
	}
	return c, nil
}

// KernelLen returns the kernel length.
func (c *Convolver) KernelLen() int { return len(c.kernel) }

// OutputLen returns the length of the full convolution of n input samples.
func (c *Convolver) OutputLen(n int) int { return n + len(c.kernel) - 1 }

// Process returns the full linear convolution of x with the kernel.
func (c *Convolver) Process(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	out := make([]float64, c.OutputLen(len(x)))
	if err := c.AddTo(out, x); err != nil {
		return nil, err
	}
	return out, nil
}

// AddTo accumulates the convolution of x into dst, which must hold at least
// OutputLen(len(x)) samples.
func (c *Convolver) AddTo(dst, x []float64) error {
	if need := c.OutputLen(len(x)); len(dst) < need {
		return fmt.Errorf("auralize: output holds %d samples, need %d", len(dst), need)
	}
	if c.spectrum == nil || len(x) <= directThreshold {
		addDirect(dst, x, c.kernel)
		return nil
	}
	return c.addOverlapAdd(dst, x)
}

func addDirect(dst, x, h []float64) {
	scaled := make([]float64, len(h))
	for i, v := range x {
		if v == 0 {
			continue
		}
		vecmath.ScaleBlock(scaled, h, v)
		vecmath.AddBlockInPlace(dst[i:i+len(h)], scaled)
	}
}

func (c *Convolver) addOverlapAdd(dst, x []float64) error {
	// Plans carry scratch state, so each call owns one.
	plan, err := algofft.NewPlan64(c.fftSize)
	if err != nil {
		return fmt.Errorf("auralize: fft plan of size %d: %w", c.fftSize, err)
	}
	block := make([]complex128, c.fftSize)

	for start := 0; start < len(x); start += c.blockSize {
		end := min(start+c.blockSize, len(x))

		clear(block)
		for i, v := range x[start:end] {
			block[i] = complex(v, 0)
		}
		if err := plan.Forward(block, block); err != nil {
			return fmt.Errorf("auralize: forward fft: %w", err)
		}
		for i := range block {
			block[i] *= c.spectrum[i]
		}
		if err := plan.Inverse(block, block); err != nil {
			return fmt.Errorf("auralize: inverse fft: %w", err)
		}

		n := end - start + len(c.kernel) - 1
		for i, v := range block[:n] {
			dst[start+i] += real(v)
		}
	}
	return nil
}

// Convolve returns the full linear convolution of x and h.
func Convolve(x, h []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	c, err := NewConvolver(h, 0)
	if err != nil {
		return nil, err
	}
	return c.Process(x)
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
