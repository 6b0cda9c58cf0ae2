package ode

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Butcher coefficients for TR-BDF2 written as a two-stage ESDIRK method
// (Hosea & Shampine, 1996). gamma is the trapezoidal sub-step fraction, d
// the diagonal coefficient shared by both implicit stages, so a single
// iteration-matrix factorization serves the whole step.
var (
	trGamma = 2 - math.Sqrt2
	trD     = 1 - math.Sqrt2/2
	trW     = math.Sqrt2 / 4

	// Weights of the embedded second-order error estimate,
	// e_j = b_j − b̂_j. They sum to zero.
	trE1 = (math.Sqrt2 - 1) / 3
	trE2 = -1.0 / 3
	trE3 = (2 - math.Sqrt2) / 3
)

// Tolerance on the Newton update, measured in units of the step error
// tolerance. Iteration error is kept an order of magnitude below the
// truncation error so it never pollutes step-size control.
const newtonTolerance = 0.1

// TRBDF2 integrates dy/dt = f(t, y) with the one-step, L-stable TR-BDF2
// method: a trapezoidal stage followed by a BDF2 stage, with an embedded
// second-order error estimate driving adaptive step size. The implicit
// stages are solved by simplified Newton iteration against a
// finite-difference Jacobian refreshed once per step.
//
// The step size persists across Integrate calls, so integrating a long span
// in many short reporting segments does not restart the controller each
// time. A TRBDF2 value is not safe for concurrent use.
type TRBDF2 struct {
	f   Func
	n   int
	cfg Config

	h     float64
	stats Statistics

	// Per-step work arrays
	f1, f2, f3 []float64
	z, zPrev   []float64
	resid      []float64
	yTmp, fTmp []float64
	errv       []float64

	jac *mat.Dense
	m   *mat.Dense
	lu  mat.LU
	rhs *mat.VecDense
	sol *mat.VecDense
}

// NewTRBDF2 creates an integrator for an n-dimensional system. The Config
// zero value selects the defaults documented on Config.
func NewTRBDF2(f Func, n int, cfg Config) *TRBDF2 {
	return &TRBDF2{
		f:     f,
		n:     n,
		cfg:   cfg,
		f1:    make([]float64, n),
		f2:    make([]float64, n),
		f3:    make([]float64, n),
		z:     make([]float64, n),
		zPrev: make([]float64, n),
		resid: make([]float64, n),
		yTmp:  make([]float64, n),
		fTmp:  make([]float64, n),
		errv:  make([]float64, n),
		jac:   mat.NewDense(n, n, nil),
		m:     mat.NewDense(n, n, nil),
		rhs:   mat.NewVecDense(n, nil),
		sol:   mat.NewVecDense(n, nil),
	}
}

// Stats returns the work counters accumulated over all Integrate calls.
func (s *TRBDF2) Stats() Statistics { return s.stats }

// Integrate advances y from t0 to t1 in place. On failure y holds the last
// accepted state and the returned error wraps one of the package sentinel
// errors in a StepError.
func (s *TRBDF2) Integrate(t0, t1 float64, y []float64) error {
	span := t1 - t0
	if span <= 0 {
		return nil
	}
	cfg := s.cfg.withDefaults(span)

	if s.h <= 0 {
		s.h = cfg.InitialStep
	}
	if s.h > cfg.MaxStep {
		s.h = cfg.MaxStep
	}

	t := t0
	budget := cfg.MaxSteps
	for t < t1 {
		if budget <= 0 {
			return &StepError{Step: s.stats.Steps, Time: t, Err: ErrMaxSteps}
		}
		budget--

		h := s.h
		if t+h > t1 {
			h = t1 - t
		}

		norm, ok := s.attemptStep(cfg, t, h, y)
		if !ok {
			// Newton failure or non-finite values: halve and retry
			s.stats.Rejected++
			s.h = h / 2
			if s.h < cfg.MinStep {
				return &StepError{Step: s.stats.Steps, Time: t, Err: ErrNonFinite}
			}
			continue
		}

		if norm > 1 {
			s.stats.Rejected++
			s.h = h * math.Max(0.9*math.Pow(norm, -1.0/3), 0.1)
			if s.h < cfg.MinStep {
				return &StepError{Step: s.stats.Steps, Time: t, Err: ErrStepTooSmall}
			}
			continue
		}

		// Accept: z holds the stage-3 solution
		copy(y, s.z)
		t += h
		s.stats.Steps++
		s.stats.LastStep = h

		factor := 0.9 * math.Pow(math.Max(norm, 1e-10), -1.0/3)
		s.h = h * math.Min(math.Max(factor, 0.2), 5)
		if s.h > cfg.MaxStep {
			s.h = cfg.MaxStep
		}
	}

	return nil
}

// attemptStep tries one TR-BDF2 step of size h from (t, y). On success it
// leaves the advanced state in s.z and returns the weighted error norm.
// It returns ok=false when the Newton iteration fails to converge or
// non-finite values appear.
func (s *TRBDF2) attemptStep(cfg Config, t, h float64, y []float64) (norm float64, ok bool) {
	s.f(t, y, s.f1)
	s.stats.Evaluations++
	if !allFinite(s.f1) {
		return 0, false
	}

	s.buildJacobian(cfg, t, y)
	s.buildIterationMatrix(h)
	s.lu.Factorize(s.m)

	hd := h * trD

	// Stage 2 (trapezoidal): z − hd·f(t+γh, z) = y + hd·f1
	tg := t + trGamma*h
	for i := range s.resid {
		s.resid[i] = y[i] + hd*s.f1[i]
		s.z[i] = y[i] + trGamma*h*s.f1[i] // explicit Euler predictor
	}
	if !s.newtonSolve(cfg, tg, hd, y) {
		return 0, false
	}
	s.f(tg, s.z, s.f2)
	s.stats.Evaluations++

	// Stage 3 (BDF2): z − hd·f(t+h, z) = y + h·w·(f1 + f2)
	tn := t + h
	for i := range s.resid {
		s.resid[i] = y[i] + h*trW*(s.f1[i]+s.f2[i])
		s.z[i] += (1 - trGamma) * h * s.f2[i]
	}
	if !s.newtonSolve(cfg, tn, hd, y) {
		return 0, false
	}
	s.f(tn, s.z, s.f3)
	s.stats.Evaluations++

	if !allFinite(s.z) || !allFinite(s.f3) {
		return 0, false
	}

	// Embedded error estimate, smoothed through the iteration matrix as in
	// Hosea & Shampine so stiff components do not dominate the norm.
	for i := range s.errv {
		s.errv[i] = h * (trE1*s.f1[i] + trE2*s.f2[i] + trE3*s.f3[i])
		s.rhs.SetVec(i, s.errv[i])
	}
	if err := s.lu.SolveVecTo(s.sol, false, s.rhs); err == nil {
		for i := range s.errv {
			s.errv[i] = s.sol.AtVec(i)
		}
	}

	norm = s.weightedNorm(s.errv, y, s.z, cfg)
	if math.IsNaN(norm) || math.IsInf(norm, 0) {
		return 0, false
	}
	return norm, true
}

// newtonSolve iterates z ← z − M⁻¹·(z − hd·f(ts, z) − resid) until the
// update drops below the Newton tolerance. The reference state y supplies
// the error weights.
func (s *TRBDF2) newtonSolve(cfg Config, ts, hd float64, y []float64) bool {
	prevNorm := math.Inf(1)
	for iter := 0; iter < cfg.MaxNewtonIterations; iter++ {
		s.f(ts, s.z, s.fTmp)
		s.stats.Evaluations++

		for i := range s.z {
			s.rhs.SetVec(i, -(s.z[i] - hd*s.fTmp[i] - s.resid[i]))
		}
		if err := s.lu.SolveVecTo(s.sol, false, s.rhs); err != nil {
			return false
		}

		for i := range s.z {
			s.z[i] += s.sol.AtVec(i)
			s.errv[i] = s.sol.AtVec(i)
		}
		if !allFinite(s.z) {
			return false
		}

		updNorm := s.weightedNorm(s.errv, y, s.z, cfg)
		if updNorm < newtonTolerance {
			return true
		}
		if updNorm > 2*prevNorm {
			return false // diverging
		}
		prevNorm = updNorm
	}
	return false
}

// buildJacobian fills s.jac with a forward-difference approximation of
// ∂f/∂y at (t, y), reusing s.f1 as the base evaluation.
func (s *TRBDF2) buildJacobian(cfg Config, t float64, y []float64) {
	const sqrtEps = 1.4901161193847656e-08 // sqrt(machine epsilon)

	copy(s.yTmp, y)
	for j := 0; j < s.n; j++ {
		scale := 1.0
		if cfg.Scale != nil && j < len(cfg.Scale) && cfg.Scale[j] > 0 {
			scale = cfg.Scale[j]
		}
		delta := sqrtEps * math.Max(math.Abs(y[j]), scale)

		s.yTmp[j] = y[j] + delta
		s.f(t, s.yTmp, s.fTmp)
		s.yTmp[j] = y[j]

		inv := 1 / delta
		for i := 0; i < s.n; i++ {
			s.jac.Set(i, j, (s.fTmp[i]-s.f1[i])*inv)
		}
	}
	s.stats.Evaluations += s.n
	s.stats.JacobianEvaluations++
}

// buildIterationMatrix forms M = I − h·d·J.
func (s *TRBDF2) buildIterationMatrix(h float64) {
	hd := h * trD
	for i := 0; i < s.n; i++ {
		for j := 0; j < s.n; j++ {
			v := -hd * s.jac.At(i, j)
			if i == j {
				v++
			}
			s.m.Set(i, j, v)
		}
	}
}

// weightedNorm computes the RMS of v scaled by the per-component error
// weights atol + rtol·max(|a_i|, |b_i|).
func (s *TRBDF2) weightedNorm(v, a, b []float64, cfg Config) float64 {
	var sum float64
	for i := range v {
		w := cfg.ATol + cfg.RTol*math.Max(math.Abs(a[i]), math.Abs(b[i]))
		r := v[i] / w
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(v)))
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
