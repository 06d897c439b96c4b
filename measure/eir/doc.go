// Package eir builds energetic impulse responses (EIRs) from ray-traced hit
// events and analyses them.
//
// An EIR is a histogram of received energy over propagation delay, with one
// bin per audio sample period by default. For time-variant scenes a Strategy
// decides how responses for different instants are obtained:
//
//   - Snapshot: the scene is frozen at the snapshot instant at or below each
//     instant, on a grid spaced a fixed interval apart, for the whole trace.
//   - Interpolated: every instant is traced against continuously moving
//     geometry, with poses evaluated at exact arrival times.
//
// Either method yields one response (single) or one per analysis window
// instant (multi).
//
// # Usage
//
//	s, err := eir.NewStrategy(eir.Interpolated, eir.Multi, eir.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	responses, stats, err := s.Build(sc, instants)
//
// Analysis follows ISO 3382 on the energy histogram directly:
//
//	m, err := eir.Analyze(responses[0])
//	fmt.Printf("T30 = %.2f s, C80 = %.1f dB\n", m.T30, m.C80)
package eir
