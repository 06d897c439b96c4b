// Package auralize renders audio through energetic impulse responses.
//
// An energy response carries no phase, so each bin is turned into an impulse
// of amplitude sqrt(energy) with a pseudo-random sign that depends only on the
// bin index and a seed. The resulting kernel is applied either once to the
// whole signal (time-invariant) or per analysis window, with Hann crossfades
// between windows (time-variant).
//
// # Usage
//
// Time-invariant rendering with a single response:
//
//	eng, err := auralize.New(auralize.DefaultOptions())
//	out, stats, err := eng.Single(in, ir)
//
// Time-variant rendering builds one response per window instant:
//
//	instants := eng.Instants(in)
//	irs, _, err := strategy.Build(sc, instants)
//	out, stats, err := eng.Multi(in, irs)
//
// # Output level
//
// Rendered samples are multiplied by Options.Scale and then either
// normalized to full scale when they exceed it (Normalize) or hard clipped
// to [-1, 1] (Clip).
package auralize
