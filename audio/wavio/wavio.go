// Package wavio reads and writes WAV files as mono float buffers.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-eir/dsp/auralize"
	"github.com/cwbudde/algo-eir/dsp/dither"
)

// Errors returned for unusable input.
var (
	ErrInvalidFile       = errors.New("wavio: not a valid wav file")
	ErrUnsupportedFormat = errors.New("wavio: unsupported sample format")
	ErrEmptyBuffer       = errors.New("wavio: empty buffer")
)

const (
	formatPCM      = 1
	outputBitDepth = 16
)

// Format describes the source encoding of a decoded file.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Decode reads PCM audio from r, averaging all channels into one and
// scaling samples to [-1, 1].
func Decode(r io.ReadSeeker) (auralize.Buffer, Format, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return auralize.Buffer{}, Format{}, ErrInvalidFile
	}
	if d.WavAudioFormat != formatPCM {
		return auralize.Buffer{}, Format{}, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, d.WavAudioFormat)
	}

	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return auralize.Buffer{}, Format{}, fmt.Errorf("wavio: decode: %w", err)
	}
	f := Format{
		SampleRate: pcm.Format.SampleRate,
		Channels:   pcm.Format.NumChannels,
		BitDepth:   int(d.BitDepth),
	}
	if f.Channels <= 0 || f.SampleRate <= 0 {
		return auralize.Buffer{}, f, fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupportedFormat, f.Channels, f.SampleRate)
	}
	if f.BitDepth < 8 || f.BitDepth > 32 {
		return auralize.Buffer{}, f, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, f.BitDepth)
	}

	// 8-bit wav samples are unsigned.
	var offset float64
	if f.BitDepth == 8 {
		offset = 128
	}
	fullScale := math.Ldexp(1, f.BitDepth-1)

	frames := len(pcm.Data) / f.Channels
	samples := make([]float64, frames)
	for i := range samples {
		var sum float64
		for _, v := range pcm.Data[i*f.Channels : (i+1)*f.Channels] {
			sum += (float64(v) - offset) / fullScale
		}
		samples[i] = sum / float64(f.Channels)
	}
	return auralize.Buffer{Samples: samples, SampleRate: float64(f.SampleRate)}, f, nil
}

// EncodeOption configures Encode.
type EncodeOption func(*encodeConfig)

type encodeConfig struct {
	dither bool
	seed   uint64
}

// WithDither adds triangular dither of one LSB peak before quantization,
// drawn from a stream keyed by seed.
func WithDither(seed uint64) EncodeOption {
	return func(c *encodeConfig) {
		c.dither = true
		c.seed = seed
	}
}

// Encode writes buf to w as 16-bit mono PCM. Samples outside [-1, 1] are
// clipped.
func Encode(w io.WriteSeeker, buf auralize.Buffer, opts ...EncodeOption) error {
	var cfg encodeConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if buf.Len() == 0 {
		return ErrEmptyBuffer
	}
	rate := int(math.Round(buf.SampleRate))
	if rate <= 0 {
		return fmt.Errorf("%w: sample rate %v", ErrUnsupportedFormat, buf.SampleRate)
	}

	dt := dither.DitherNone
	if cfg.dither {
		dt = dither.DitherTriangular
	}
	q, err := dither.NewQuantizer(
		dither.WithBitDepth(outputBitDepth),
		dither.WithDitherType(dt),
		dither.WithRNG(rand.New(rand.NewPCG(cfg.seed, 0))),
	)
	if err != nil {
		return fmt.Errorf("wavio: quantizer: %w", err)
	}
	data := make([]int, buf.Len())
	q.Quantize(data, buf.Samples)

	e := wav.NewEncoder(w, rate, outputBitDepth, 1, formatPCM)
	pcm := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: outputBitDepth,
	}
	if err := e.Write(pcm); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}
	if err := e.Close(); err != nil {
		return fmt.Errorf("wavio: finalize: %w", err)
	}
	return nil
}

// ReadFile decodes the wav file at path.
func ReadFile(path string) (auralize.Buffer, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return auralize.Buffer{}, Format{}, fmt.Errorf("wavio: open %q: %w", path, err)
	}
	defer f.Close()

	buf, format, err := Decode(f)
	if err != nil {
		return auralize.Buffer{}, format, fmt.Errorf("wavio: read %q: %w", path, err)
	}
	return buf, format, nil
}

// WriteFile encodes buf to a new wav file at path.
func WriteFile(path string, buf auralize.Buffer, opts ...EncodeOption) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("wavio: close %q: %w", path, cerr)
		}
	}()

	if err := Encode(f, buf, opts...); err != nil {
		return fmt.Errorf("wavio: write %q: %w", path, err)
	}
	return nil
}
