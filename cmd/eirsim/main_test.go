package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-eir/audio/wavio"
	"github.com/cwbudde/algo-eir/config"
	"github.com/cwbudde/algo-eir/dsp/auralize"
	"github.com/cwbudde/algo-eir/internal/log"
	"github.com/cwbudde/algo-eir/internal/testutil"
	"github.com/cwbudde/algo-eir/measure/eir"
)

func TestMain(m *testing.M) {
	log.SetSink(io.Discard)
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	err := app.Run(append([]string{"eirsim"}, args...))
	return buf.String(), err
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "in.wav")
	in := auralize.Buffer{Samples: testutil.DeterministicNoise(1, 0.5, 2000), SampleRate: 8000}
	require.NoError(t, wavio.WriteFile(path, in))
	return path
}

func TestListScenes(t *testing.T) {
	out, err := run(t, "scenes")
	require.NoError(t, err)
	for _, name := range []string{"static-cube", "rotating-panel", "approaching-receiver", "fly-by", "rotating-room", "l-shaped-room"} {
		require.Contains(t, out, name)
	}
}

func TestVersionAndVerboseFlags(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	require.Contains(t, out, "0.1.0")

	out, err = run(t, "-v", "scenes")
	require.NoError(t, err)
	require.Contains(t, out, "static-cube")

	_, err = run(t, "-vv", "scenes")
	require.NoError(t, err)
	log.SetSink(io.Discard)
}

func TestRenderLogsMetricsAsOneTable(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	var logs bytes.Buffer
	log.SetSink(&logs)
	defer log.SetSink(io.Discard)

	_, err := run(t, "render", "-i", input, "-o", filepath.Join(dir, "out.wav"),
		"--rays", "2000", "--max-delay", "0.05")
	require.NoError(t, err)

	text := logs.String()
	require.Equal(t, 1, strings.Count(text, "response metrics"))
	require.Contains(t, text, "| Instant (s) | Direct (ms) |")
}

func TestRenderSingle(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	output := filepath.Join(dir, "out.wav")
	export := filepath.Join(dir, "ir.csv")

	_, err := run(t, "render", "-i", input, "-o", output, "--export", export,
		"--rays", "5000", "--max-delay", "0.05", "--workers", "2")
	require.NoError(t, err)

	out, _, err := wavio.ReadFile(output)
	require.NoError(t, err)
	require.GreaterOrEqual(t, out.Len(), 2000)
	require.Equal(t, 8000.0, out.SampleRate)

	f, err := os.Open(export)
	require.NoError(t, err)
	defer f.Close()
	series, err := eir.ReadCSV(f)
	require.NoError(t, err)
	require.Len(t, series, 1)
	require.NotEmpty(t, series[0].Pairs)
}

func TestRenderMulti(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	output := filepath.Join(dir, "out.wav")

	_, err := run(t, "render", "-i", input, "-o", output,
		"--scene", "1", "--method", "interpolated", "--irs", "multi",
		"--hop", "512", "--crossfade", "128", "--rays", "100", "--max-delay", "0.02",
		"--limiter", "clip", "--dither")
	require.NoError(t, err)

	out, _, err := wavio.ReadFile(output)
	require.NoError(t, err)
	require.GreaterOrEqual(t, out.Len(), 2000)
}

func TestRenderRejectsConfiguration(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	_, err := run(t, "render", "-o", filepath.Join(dir, "out.wav"))
	require.ErrorIs(t, err, config.ErrMissingInput)

	_, err = run(t, "render", "-i", input, "-o", filepath.Join(dir, "out.wav"), "--scene", "9")
	require.ErrorIs(t, err, config.ErrUnknownScene)

	_, err = run(t, "render", "-i", filepath.Join(dir, "missing.wav"), "-o", filepath.Join(dir, "out.wav"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalyze(t *testing.T) {
	export := filepath.Join(t.TempDir(), "ir.csv")
	out, err := run(t, "analyze", "--irs", "multi", "--duration", "0.3",
		"--hop", "4410", "--rays", "3000", "--max-delay", "0.2", "--export", export)
	require.NoError(t, err)
	require.Contains(t, out, "Instant (s)")

	f, err := os.Open(export)
	require.NoError(t, err)
	defer f.Close()
	series, err := eir.ReadCSV(f)
	require.NoError(t, err)
	require.Len(t, series, 3, "snapshots at 0, 0.1 and 0.2 s")
}
