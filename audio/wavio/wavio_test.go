package wavio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-eir/dsp/auralize"
	"github.com/cwbudde/algo-eir/internal/testutil"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sine.wav")
	in := auralize.Buffer{Samples: testutil.DeterministicSine(440, 8000, 0.8, 800), SampleRate: 8000}

	require.NoError(t, WriteFile(path, in))
	out, format, err := ReadFile(path)
	require.NoError(t, err)

	require.Equal(t, Format{SampleRate: 8000, Channels: 1, BitDepth: 16}, format)
	require.Equal(t, in.SampleRate, out.SampleRate)
	require.Len(t, out.Samples, in.Len())
	for i := range in.Samples {
		require.InDelta(t, in.Samples[i], out.Samples[i], 2.0/32768, "sample %d", i)
	}
}

func TestEncodeClips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loud.wav")
	require.NoError(t, WriteFile(path, auralize.Buffer{Samples: []float64{2, -3, 0.5}, SampleRate: 100}))

	out, _, err := ReadFile(path)
	require.NoError(t, err)
	require.InDelta(t, 32767.0/32768, out.Samples[0], 1e-12)
	require.InDelta(t, -32767.0/32768, out.Samples[1], 1e-12)
}

func TestDither(t *testing.T) {
	dir := t.TempDir()
	// A constant below half a code: plain rounding always picks zero.
	level := 0.3 / 32767
	in := auralize.Buffer{Samples: make([]float64, 4000), SampleRate: 8000}
	for i := range in.Samples {
		in.Samples[i] = level
	}

	plain := filepath.Join(dir, "plain.wav")
	require.NoError(t, WriteFile(plain, in))
	out, _, err := ReadFile(plain)
	require.NoError(t, err)
	for _, v := range out.Samples {
		require.Zero(t, v)
	}

	dithered := filepath.Join(dir, "dithered.wav")
	require.NoError(t, WriteFile(dithered, in, WithDither(3)))
	out, _, err = ReadFile(dithered)
	require.NoError(t, err)

	var sum float64
	for _, v := range out.Samples {
		require.LessOrEqual(t, math.Abs(v*32768), 2.0, "dither exceeds two codes")
		sum += v * 32768
	}
	// The dithered mean tracks the input level.
	require.InDelta(t, 0.3, sum/float64(len(out.Samples)), 0.05)

	again := filepath.Join(dir, "again.wav")
	require.NoError(t, WriteFile(again, in, WithDither(3)))
	first, err := os.ReadFile(dithered)
	require.NoError(t, err)
	second, err := os.ReadFile(again)
	require.NoError(t, err)
	require.Equal(t, first, second, "same seed must give the same file")
}

func TestDecodeAveragesChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	e := wav.NewEncoder(f, 100, 16, 2, 1)
	require.NoError(t, e.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 100},
		Data:           []int{16384, 0, -16384, -16384, 8192, 24576},
		SourceBitDepth: 16,
	}))
	require.NoError(t, e.Close())
	require.NoError(t, f.Close())

	out, format, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, format.Channels)
	testutil.RequireSliceNearlyEqual(t, out.Samples, []float64{0.25, -0.5, 0.5}, 1e-12)
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.wav")
	_, _, err := ReadFile(missing)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Contains(t, err.Error(), missing)

	junk := filepath.Join(dir, "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("definitely not a riff file"), 0o600))
	_, _, err = ReadFile(junk)
	require.ErrorIs(t, err, ErrInvalidFile)
	require.Contains(t, err.Error(), junk)
}

func TestWriteErrors(t *testing.T) {
	dir := t.TempDir()

	err := WriteFile(filepath.Join(dir, "empty.wav"), auralize.Buffer{SampleRate: 100})
	require.ErrorIs(t, err, ErrEmptyBuffer)

	err = WriteFile(filepath.Join(dir, "no", "such", "dir.wav"), auralize.Buffer{Samples: []float64{0}, SampleRate: 100})
	require.ErrorIs(t, err, os.ErrNotExist)
}
