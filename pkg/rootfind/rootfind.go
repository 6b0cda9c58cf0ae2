// Package rootfind provides a small bisection search for inverting monotonic
// scalar functions over a bounded bracket.
package rootfind

// Default search budget. Fifty halvings of the bracket reduce a 60 K
// temperature interval well below any physically meaningful resolution.
const (
	DefaultIterations = 50
	DefaultTolerance  = 0.01
)

// Bisect searches [lo, hi] for x such that f(x) ≈ target, assuming f is
// monotonic on the bracket (either direction). It stops early once
// |f(x) − target| < tol and otherwise returns the bracket midpoint after
// maxIter halvings. The target is not required to be bracketed; in that
// case the search converges to the nearer bracket edge.
func Bisect(f func(float64) float64, target, lo, hi float64, maxIter int, tol float64) float64 {
	if maxIter <= 0 {
		maxIter = DefaultIterations
	}

	increasing := f(hi) >= f(lo)

	for i := 0; i < maxIter; i++ {
		mid := (lo + hi) / 2
		val := f(mid)

		if diff := val - target; diff < tol && diff > -tol {
			return mid
		}

		if (val < target) == increasing {
			lo = mid
		} else {
			hi = mid
		}
	}

	return (lo + hi) / 2
}
