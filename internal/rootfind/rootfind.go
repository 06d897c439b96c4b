// Package rootfind provides bounded-iteration root finding used by the ray
// tracer to resolve intersections with moving geometry.
//
// Every solver runs for at most Options.MaxIter iterations. A solver that
// cannot meet its tolerance within that budget returns ErrNoConvergence so
// callers can treat the outcome as a local miss.
package rootfind

import (
	"errors"
	"iter"
	"math"
)

// Errors returned by the solvers.
var (
	ErrNoConvergence = errors.New("rootfind: no convergence within iteration budget")
	ErrNotBracketed  = errors.New("rootfind: root is not bracketed")
	ErrInvalidRange  = errors.New("rootfind: invalid search range")
)

const machineEpsilon = 2.220446049250313e-16

// Options bounds the work done by a solver.
type Options struct {
	// Tolerance is the absolute tolerance on the abscissa.
	Tolerance float64
	// MaxIter caps the number of refinement iterations.
	MaxIter int
}

// DefaultOptions returns the tolerance and iteration budget used by the tracer:
// nanosecond resolution with 64 iterations.
func DefaultOptions() Options {
	return Options{Tolerance: 1e-9, MaxIter: 64}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.MaxIter <= 0 {
		o.MaxIter = d.MaxIter
	}
	return o
}

// Brent finds a root of f in [a, b] using Brent's method. f(a) and f(b) must
// have opposite signs (or one of them must be zero).
func Brent(f func(float64) float64, a, b float64, opts Options) (float64, error) {
	opts = opts.withDefaults()

	fa, fb := f(a), f(b)
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if (fa > 0) == (fb > 0) {
		return 0, ErrNotBracketed
	}

	c, fc := b, fb
	var d, e float64

	for range opts.MaxIter {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol := 2*machineEpsilon*math.Abs(b) + 0.5*opts.Tolerance
		m := 0.5 * (c - b)
		if math.Abs(m) <= tol || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol && math.Abs(fa) > math.Abs(fb) {
			// inverse quadratic interpolation, or secant when a == c
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2 * m * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*m*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)

			if 2*p < math.Min(3*m*q-math.Abs(tol*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = m
				e = d
			}
		} else {
			d = m
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol {
			b += d
		} else {
			b += math.Copysign(tol, m)
		}
		fb = f(b)
	}

	return b, ErrNoConvergence
}

// Bound returns an upper bound on |f'| over the interval that starts at t and
// extends |ft|/bound to the right, given ft = f(t).
type Bound func(t, ft float64) float64

// March locates roots of a function with a known local Lipschitz bound by
// conservative advancement: from t it steps |f(t)|/L, which can never jump over
// a root, and hands the final sign change to Brent.
type March struct {
	// MinStep floors the advancement so a root that is only touched still
	// produces a sign change within a finite number of steps.
	MinStep float64
	// MinFraction raises the floor to this fraction of the search range.
	// Roots closer together than the floor may be missed in pairs, but a
	// function that hovers near zero no longer exhausts the step budget.
	MinFraction float64
	// MaxSteps caps the number of advancement steps.
	MaxSteps int

	Options
}

// DefaultMarch returns the marching parameters used by the tracer: steps of
// at least 10 ns and 1/8192 of the range, within a budget that the floor
// alone can never exhaust.
func DefaultMarch() March {
	return March{MinStep: 1e-8, MinFraction: 1.0 / 8192, MaxSteps: 16384, Options: DefaultOptions()}
}

// Roots yields the roots of f in (lo, hi] in ascending order. A root exactly at
// lo is not reported. A bracket that Brent cannot resolve, or an exhausted step
// budget, yields ErrNoConvergence; the caller decides whether to keep iterating.
func (m March) Roots(f func(float64) float64, bound Bound, lo, hi float64) iter.Seq2[float64, error] {
	return func(yield func(float64, error) bool) {
		if !(hi > lo) || math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			yield(0, ErrInvalidRange)
			return
		}
		minStep := math.Max(m.MinStep, m.MinFraction*(hi-lo))
		if minStep <= 0 {
			minStep = (hi - lo) * 1e-9
		}
		maxSteps := m.MaxSteps
		if maxSteps <= 0 {
			maxSteps = DefaultMarch().MaxSteps
		}

		x0 := lo
		f0 := f(x0)
		for steps := 0; x0 < hi; steps++ {
			if steps == maxSteps {
				yield(x0, ErrNoConvergence)
				return
			}

			step := minStep
			if l := bound(x0, f0); l > 0 && !math.IsInf(l, 0) {
				step = math.Max(math.Abs(f0)/l, minStep)
			}
			x1 := math.Min(x0+step, hi)
			f1 := f(x1)

			switch {
			case f1 == 0:
				if !yield(x1, nil) {
					return
				}
			case f0 != 0 && (f0 > 0) != (f1 > 0):
				root, err := Brent(f, x0, x1, m.Options)
				if !yield(root, err) {
					return
				}
			}

			x0, f0 = x1, f1
		}
	}
}

// First returns the smallest root reported by Roots.
// ok is false when f has no root in (lo, hi].
func (m March) First(f func(float64) float64, bound Bound, lo, hi float64) (root float64, ok bool, err error) {
	for r, rerr := range m.Roots(f, bound, lo, hi) {
		if rerr != nil {
			return 0, false, rerr
		}
		return r, true, nil
	}
	return 0, false, nil
}

// Quadratic returns the real roots of a*x² + b*x + c = 0 in ascending order.
// n is the number of valid entries in roots (0, 1 or 2). A degenerate leading
// coefficient reduces the equation to a linear one.
func Quadratic(a, b, c float64) (roots [2]float64, n int) {
	if a == 0 {
		if b == 0 {
			return roots, 0
		}
		roots[0] = -c / b
		return roots, 1
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return roots, 0
	}
	if disc == 0 {
		roots[0] = -b / (2 * a)
		return roots, 1
	}

	// avoids cancellation when b and sqrt(disc) are close in magnitude
	q := -0.5 * (b + math.Copysign(math.Sqrt(disc), b))
	r0, r1 := q/a, c/q
	if r0 > r1 {
		r0, r1 = r1, r0
	}
	roots[0], roots[1] = r0, r1
	return roots, 2
}
