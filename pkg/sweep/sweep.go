// Package sweep runs families of crystallizer simulations across a
// parameter range on a worker pool and quantifies how the batch outcome
// responds. Each run is independent: one failed configuration never aborts
// the rest of the sweep.
package sweep

import (
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/chemproc/crystalsim/internal/log"
	"github.com/chemproc/crystalsim/pkg/crystallizer"
)

// DefaultWorkers bounds sweep parallelism when the caller does not choose.
const DefaultWorkers = 4

// Setter applies one swept value to a copy of the base batch parameters.
type Setter func(*crystallizer.BatchParams, float64)

// Point is the outcome of a single run in a sweep. Exactly one of Result
// and Err is meaningful.
type Point struct {
	RunID  string
	Value  float64
	Result *crystallizer.BatchResult
	Err    error
}

// Linspace returns n evenly spaced values across [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

// Vary solves one batch per value, applying each value to a copy of base
// through set. Runs execute concurrently on a pool of the given size;
// results come back in value order regardless of completion order.
func Vary(base crystallizer.BatchParams, values []float64, set Setter, workers int) ([]Point, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	log.Debugf("sweeping %d values on %d workers", len(values), workers)

	points := make([]Point, len(values))
	var wg sync.WaitGroup
	for i, v := range values {
		i, v := i, v
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			params := base
			set(&params, v)
			res, solveErr := crystallizer.Solve(params)
			points[i] = Point{RunID: uuid.NewString(), Value: v, Result: res, Err: solveErr}
		})
		if err != nil {
			wg.Done()
			points[i] = Point{RunID: uuid.NewString(), Value: v, Err: err}
		}
	}
	wg.Wait()

	return points, nil
}

// Sensitivity summarizes how the batch yield responds over a sweep with an
// ordinary least-squares fit of yield against the swept value.
type Sensitivity struct {
	Parameter string
	Points    []Point

	Slope     float64 // yield percent per parameter unit
	Intercept float64
	R2        float64

	Failed int // runs excluded from the fit
}

// Analyze fits yield against the swept parameter. Failed runs are counted
// and excluded; fewer than two successful runs leave the fit zeroed.
func Analyze(parameter string, points []Point) Sensitivity {
	s := Sensitivity{Parameter: parameter, Points: points}

	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Err != nil || p.Result == nil {
			s.Failed++
			continue
		}
		xs = append(xs, p.Value)
		ys = append(ys, p.Result.YieldPercent)
	}
	if len(xs) < 2 {
		return s
	}

	s.Intercept, s.Slope = stat.LinearRegression(xs, ys, nil, false)
	s.R2 = stat.RSquared(xs, ys, nil, s.Intercept, s.Slope)
	log.Debugf("%s sensitivity: slope %.4g, R² %.3f, %d failed runs",
		parameter, s.Slope, s.R2, s.Failed)
	return s
}
