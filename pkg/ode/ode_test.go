package ode

import (
	"errors"
	"math"
	"testing"
)

func TestExponentialDecay(t *testing.T) {
	f := func(_ float64, y, dydt []float64) {
		dydt[0] = -y[0]
	}

	s := NewTRBDF2(f, 1, Config{})
	y := []float64{1}
	if err := s.Integrate(0, 1, y); err != nil {
		t.Fatalf("Integrate: %v", err)
	}

	// Accumulated global error at the default tolerances sits just above
	// 1e-5 over this span.
	want := math.Exp(-1)
	if math.Abs(y[0]-want) > 2e-5 {
		t.Errorf("y(1) = %v, want %v", y[0], want)
	}
}

func TestLinearSystem(t *testing.T) {
	// y1' = −y1, y2' = y1 − y2 with y(0) = (1, 0)
	// has the solution y1 = e^−t, y2 = t·e^−t.
	f := func(_ float64, y, dydt []float64) {
		dydt[0] = -y[0]
		dydt[1] = y[0] - y[1]
	}

	s := NewTRBDF2(f, 2, Config{})
	y := []float64{1, 0}
	if err := s.Integrate(0, 2, y); err != nil {
		t.Fatalf("Integrate: %v", err)
	}

	want1 := math.Exp(-2)
	want2 := 2 * math.Exp(-2)
	if math.Abs(y[0]-want1) > 1e-5 {
		t.Errorf("y1(2) = %v, want %v", y[0], want1)
	}
	if math.Abs(y[1]-want2) > 1e-5 {
		t.Errorf("y2(2) = %v, want %v", y[1], want2)
	}
}

func TestStiffRelaxation(t *testing.T) {
	// Prothero-Robinson problem: y' = λ(y − sin t) + cos t with λ = −1e4.
	// The exact solution for y(0) = 0 is y = sin t; an explicit method
	// would need steps near 1/|λ| while TR-BDF2 strides across.
	const lambda = -1e4
	f := func(tt float64, y, dydt []float64) {
		dydt[0] = lambda*(y[0]-math.Sin(tt)) + math.Cos(tt)
	}

	s := NewTRBDF2(f, 1, Config{})
	y := []float64{0}
	if err := s.Integrate(0, 1, y); err != nil {
		t.Fatalf("Integrate: %v", err)
	}

	if math.Abs(y[0]-math.Sin(1)) > 1e-4 {
		t.Errorf("y(1) = %v, want %v", y[0], math.Sin(1))
	}

	stats := s.Stats()
	if stats.Steps > 5000 {
		t.Errorf("took %d steps on a stiff problem, expected far fewer", stats.Steps)
	}
}

func TestSegmentedIntegration(t *testing.T) {
	f := func(_ float64, y, dydt []float64) {
		dydt[0] = -y[0]
	}

	// Integrating in short reporting segments must land on the same answer
	// as a single span.
	s := NewTRBDF2(f, 1, Config{})
	y := []float64{1}
	for i := 0; i < 10; i++ {
		t0 := float64(i) * 0.1
		t1 := float64(i+1) * 0.1
		if err := s.Integrate(t0, t1, y); err != nil {
			t.Fatalf("segment %d: %v", i, err)
		}
	}

	want := math.Exp(-1)
	if math.Abs(y[0]-want) > 1e-5 {
		t.Errorf("segmented y(1) = %v, want %v", y[0], want)
	}
}

func TestMaxStepsExceeded(t *testing.T) {
	f := func(_ float64, y, dydt []float64) {
		dydt[0] = -y[0]
	}

	s := NewTRBDF2(f, 1, Config{MaxSteps: 2, MaxStep: 1e-4})
	y := []float64{1}
	err := s.Integrate(0, 1, y)
	if !errors.Is(err, ErrMaxSteps) {
		t.Fatalf("Integrate error = %v, want ErrMaxSteps", err)
	}

	var se *StepError
	if !errors.As(err, &se) {
		t.Fatal("error does not wrap a StepError")
	}
	if se.Time < 0 || se.Time >= 1 {
		t.Errorf("failure time %v outside integration span", se.Time)
	}
}

func TestStatistics(t *testing.T) {
	f := func(_ float64, y, dydt []float64) {
		dydt[0] = -y[0]
	}

	s := NewTRBDF2(f, 1, Config{})
	y := []float64{1}
	if err := s.Integrate(0, 1, y); err != nil {
		t.Fatalf("Integrate: %v", err)
	}

	stats := s.Stats()
	if stats.Steps == 0 {
		t.Error("no steps recorded")
	}
	if stats.Evaluations <= stats.Steps {
		t.Error("evaluation count should exceed step count for an implicit method")
	}
	if stats.JacobianEvaluations == 0 {
		t.Error("no Jacobian evaluations recorded")
	}
	if stats.LastStep <= 0 {
		t.Error("last step size not recorded")
	}

	var total Statistics
	total.Add(stats)
	total.Add(stats)
	if total.Steps != 2*stats.Steps {
		t.Errorf("Add: got %d steps, want %d", total.Steps, 2*stats.Steps)
	}
}
