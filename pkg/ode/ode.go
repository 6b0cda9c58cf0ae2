// Package ode provides time integration for systems of first-order ordinary
// differential equations dy/dt = f(t, y). The TRBDF2 integrator is implicit
// and L-stable, suitable for the stiff kinetic systems that arise when
// source terms switch on sharply (e.g. near a supersaturation
// zero-crossing).
package ode

import (
	"errors"
	"fmt"
)

// Func evaluates the right-hand side of the system, writing dy/dt into dydt.
// dydt is owned by the integrator and must be fully overwritten.
type Func func(t float64, y, dydt []float64)

// Config controls step selection and tolerances.
type Config struct {
	// InitialStep is the first step size attempted. If 0, the integrator
	// picks a small fraction of the integration span.
	InitialStep float64

	// MinStep aborts integration with ErrStepTooSmall when the controller
	// is forced below it. If 0, a tiny fraction of the span is used.
	MinStep float64

	// MaxStep caps the step size. If 0, the span itself is the cap.
	MaxStep float64

	// RTol and ATol are the relative and absolute error tolerances used in
	// the weighted error norm. Defaults: 1e-6 and 1e-8.
	RTol float64
	ATol float64

	// MaxSteps bounds the number of step attempts, accepted or rejected,
	// per Integrate call. Default 100000.
	MaxSteps int

	// MaxNewtonIterations bounds the Newton solve within each implicit
	// stage. Default 8.
	MaxNewtonIterations int

	// Scale optionally provides per-component typical magnitudes, used to
	// floor the finite-difference Jacobian perturbations. Components that
	// start at zero but grow to large magnitudes (number densities, for
	// example) need a floor well above roundoff. If nil or zero-valued,
	// a floor of 1 is used.
	Scale []float64
}

func (c Config) withDefaults(span float64) Config {
	if c.RTol <= 0 {
		c.RTol = 1e-6
	}
	if c.ATol <= 0 {
		c.ATol = 1e-8
	}
	if c.InitialStep <= 0 {
		c.InitialStep = span * 1e-3
	}
	if c.MinStep <= 0 {
		c.MinStep = span * 1e-12
	}
	if c.MaxStep <= 0 {
		c.MaxStep = span
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = 100000
	}
	if c.MaxNewtonIterations <= 0 {
		c.MaxNewtonIterations = 8
	}
	return c
}

// Statistics reports integrator work counters, accumulated across
// Integrate calls.
type Statistics struct {
	Steps               int     // accepted steps
	Rejected            int     // rejected step attempts
	Evaluations         int     // right-hand side evaluations
	JacobianEvaluations int     // finite-difference Jacobian builds
	LastStep            float64 // size of the last accepted step
}

// Add accumulates counters from another Statistics value.
func (s *Statistics) Add(o Statistics) {
	s.Steps += o.Steps
	s.Rejected += o.Rejected
	s.Evaluations += o.Evaluations
	s.JacobianEvaluations += o.JacobianEvaluations
	s.LastStep = o.LastStep
}

// Integration failure modes. All are wrapped in a StepError carrying the
// step count and time of failure.
var (
	// ErrStepTooSmall indicates the error controller pushed the step size
	// below the configured minimum without meeting tolerance.
	ErrStepTooSmall = errors.New("ode: step size underflow")

	// ErrMaxSteps indicates the step budget was exhausted before reaching
	// the end of the integration span.
	ErrMaxSteps = errors.New("ode: maximum step count exceeded")

	// ErrNonFinite indicates NaN or Inf appeared in the state or
	// derivative and could not be cured by step reduction.
	ErrNonFinite = errors.New("ode: non-finite value in state")
)

// StepError wraps an integration failure with the step and time at which it
// occurred.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%v at t=%g (step %d)", e.Err, e.Time, e.Step)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
