// Package dither quantizes float samples in [-1, 1] to signed integer PCM
// codes, optionally adding dither noise before rounding.
package dither

import "fmt"

// DitherType selects the probability distribution used for dither noise.
type DitherType int

const (
	// DitherNone rounds without noise.
	DitherNone DitherType = iota
	// DitherRectangular adds uniform noise of ±amplitude LSB.
	DitherRectangular
	// DitherTriangular adds triangular (TPDF) noise of ±amplitude LSB, which
	// makes the mean of the quantized signal follow the input exactly.
	DitherTriangular

	ditherTypeCount
)

var ditherTypeNames = [ditherTypeCount]string{"None", "Rectangular", "Triangular"}

func (dt DitherType) String() string {
	if dt.Valid() {
		return ditherTypeNames[dt]
	}
	return fmt.Sprintf("DitherType(%d)", int(dt))
}

// Valid reports whether dt is a known dither type.
func (dt DitherType) Valid() bool {
	return dt >= 0 && dt < ditherTypeCount
}
