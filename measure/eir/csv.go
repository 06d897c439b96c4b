package eir

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrMalformedCSV is returned by ReadCSV for input it cannot parse.
var ErrMalformedCSV = errors.New("eir: malformed csv")

var csvHeader = []string{"instant", "time", "energy"}

// Pair is one exported (delay, energy) sample.
type Pair struct {
	Time   float64
	Energy float64
}

// Series is the exported form of one response.
type Series struct {
	Instant float64
	Pairs   []Pair
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes the non-empty bins of every response as rows of
// instant,time,energy. The instant column is the response's Time: the
// emission instant that was traced, which for a snapshot or a folded looping
// scene differs from the requested instant. Responses shared between
// consecutive requested instants are written once, so a series maps to a run
// of windows rather than to a single window.
func WriteCSV(w io.Writer, responses []*ImpulseResponse) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("eir: write csv header: %w", err)
	}

	var prev *ImpulseResponse
	for _, ir := range responses {
		if ir == nil || ir == prev {
			continue
		}
		prev = ir
		instant := formatFloat(ir.Time)
		for t, e := range ir.Pairs() {
			if err := cw.Write([]string{instant, formatFloat(t), formatFloat(e)}); err != nil {
				return fmt.Errorf("eir: write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("eir: flush csv: %w", err)
	}
	return nil
}

// ReadCSV parses the output of WriteCSV. Consecutive rows with the same
// instant form one series.
func ReadCSV(r io.Reader) ([]Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedCSV, err)
	}
	for i, h := range csvHeader {
		if header[i] != h {
			return nil, fmt.Errorf("%w: header column %d is %q, want %q", ErrMalformedCSV, i, header[i], h)
		}
	}

	var out []Series
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
		}

		var v [3]float64
		for i, s := range rec {
			if v[i], err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %w", ErrMalformedCSV, line, csvHeader[i], err)
			}
		}
		if len(out) == 0 || out[len(out)-1].Instant != v[0] {
			out = append(out, Series{Instant: v[0]})
		}
		last := &out[len(out)-1]
		last.Pairs = append(last.Pairs, Pair{Time: v[1], Energy: v[2]})
	}
}
