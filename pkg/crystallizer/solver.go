// Package crystallizer simulates batch cooling crystallization by solving
// the one-dimensional population balance equation coupled to a solute mass
// balance. Crystal sizes are discretized on a uniform grid with first-order
// upwind differences, nucleation enters as a boundary source at size zero,
// and the resulting stiff ODE system is integrated with the implicit TR-BDF2
// method.
package crystallizer

import (
	"fmt"
	"math"

	"github.com/chemproc/crystalsim/internal/constants"
	"github.com/chemproc/crystalsim/pkg/cooling"
	"github.com/chemproc/crystalsim/pkg/kinetics"
	"github.com/chemproc/crystalsim/pkg/ode"
)

// growthFloor gates the nucleation boundary flux. Below this growth rate no
// crystals advect out of the first bin, so the boundary source is shut off
// with it to keep the flux balance consistent.
const growthFloor = 1e-12

// Typical number density used to scale Jacobian perturbations for the bin
// components. Populations in a seeded batch span 1e8 to 1e14 #/(m³·m).
const densityScale = 1e10

// BatchResult holds the trajectory and final state of one simulated batch.
type BatchResult struct {
	// Trajectory samples, one entry per report point including t=0.
	Times            []float64 // h
	Temperatures     []float64 // °C
	Concentrations   []float64 // g/100g solution
	Supersaturations []float64

	FinalDistribution  Distribution
	FinalConcentration float64 // g/100g solution
	FinalTemperatureC  float64

	// Distribution summarizes the final crystal population.
	Distribution Stats

	// TotalCrystalMass is the crystal mass in the whole vessel, kg.
	TotalCrystalMass float64

	// YieldPercent is the fraction of the initial solute recovered as
	// crystal, 100·(C0 − C_final)/C0.
	YieldPercent float64

	Integrator ode.Statistics
}

// Solve runs one batch crystallization. It validates params, integrates the
// population balance from t=0 to the batch duration, and returns the
// trajectory with final distribution statistics.
//
// A batch that never becomes supersaturated is not an error: it returns a
// result with zero yield and an empty distribution. Integration breakdowns
// return an error wrapping ErrNumericalInstability.
func Solve(params BatchParams) (*BatchResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	p := params.withDefaults()

	kin := kinetics.Default()
	if p.Kinetics != nil {
		kin = kinetics.NewModel(*p.Kinetics)
	}

	duration := p.DurationHours * 3600

	var schedule cooling.Schedule
	if p.Policy == cooling.Feedback {
		schedule = cooling.NewFeedback(p.TargetSupersaturation)
	} else {
		var err error
		schedule, err = cooling.NewSchedule(p.Policy, p.TStartC, p.TEndC, duration)
		if err != nil {
			return nil, err
		}
	}

	grid := NewSizeGrid(p.NSizeBins, p.MaxCrystalSize)
	nbins := p.NSizeBins
	dim := nbins + 1

	// State vector: bin densities followed by the solute concentration.
	y := make([]float64, dim)
	y[nbins] = p.InitialConcentration

	rhs := func(t float64, y, dydt []float64) {
		conc := y[nbins]
		tempC := schedule.Temperature(t, conc)
		s := kin.Supersaturation(conc, tempC)
		mass := suspensionMass(y[:nbins], grid)

		g := kin.GrowthRate(s, tempC+constants.KelvinOffset)
		b := kin.NucleationRate(s, mass)
		dL := grid.Delta

		// Boundary bin: nucleation source against upwind outflow. Both
		// terms are gated together so a stalled population stays put.
		if g > growthFloor {
			dydt[0] = b/dL - g*y[0]/dL
		} else {
			dydt[0] = 0
		}
		for i := 1; i < nbins; i++ {
			dydt[i] = -g * (y[i] - y[i-1]) / dL
		}

		// Solute depletion from growth over the total crystal area basis
		var area float64
		for i := 0; i < nbins; i++ {
			l := grid.Nodes[i]
			area += y[i] * l * l * dL
		}
		dydt[nbins] = -3 * constants.CrystalDensity * constants.ShapeFactor *
			g * area / p.DepletionScale
	}

	scale := make([]float64, dim)
	for i := 0; i < nbins; i++ {
		scale[i] = densityScale
	}
	scale[nbins] = p.InitialConcentration

	integ := ode.NewTRBDF2(rhs, dim, ode.Config{
		RTol:  1e-6,
		ATol:  1e-8,
		Scale: scale,
	})

	result := &BatchResult{
		Times:            make([]float64, 0, p.ReportPoints+1),
		Temperatures:     make([]float64, 0, p.ReportPoints+1),
		Concentrations:   make([]float64, 0, p.ReportPoints+1),
		Supersaturations: make([]float64, 0, p.ReportPoints+1),
	}
	record := func(t float64) {
		conc := y[nbins]
		tempC := schedule.Temperature(t, conc)
		result.Times = append(result.Times, t/3600)
		result.Temperatures = append(result.Temperatures, tempC)
		result.Concentrations = append(result.Concentrations, conc)
		result.Supersaturations = append(result.Supersaturations, kin.Supersaturation(conc, tempC))
	}

	record(0)
	reportStep := duration / float64(p.ReportPoints)
	for k := 1; k <= p.ReportPoints; k++ {
		t0 := float64(k-1) * reportStep
		t1 := float64(k) * reportStep
		if k == p.ReportPoints {
			t1 = duration
		}
		if err := integ.Integrate(t0, t1, y); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNumericalInstability, err)
		}
		record(t1)
	}
	result.Integrator = integ.Stats()

	finalConc := y[nbins]
	if math.IsNaN(finalConc) || math.IsInf(finalConc, 0) {
		return nil, fmt.Errorf("%w: non-finite concentration", ErrNumericalInstability)
	}
	// The solute can only be consumed, never created
	if finalConc > p.InitialConcentration*(1+1e-9) {
		return nil, fmt.Errorf("%w: concentration rose from %g to %g",
			ErrNumericalInstability, p.InitialConcentration, finalConc)
	}

	density := make([]float64, nbins)
	copy(density, y[:nbins])
	result.FinalDistribution = Distribution{Grid: grid, Density: density}
	result.FinalConcentration = finalConc
	result.FinalTemperatureC = schedule.Temperature(duration, finalConc)
	result.Distribution = Analyze(result.FinalDistribution)
	result.TotalCrystalMass = result.Distribution.CrystalMass * p.VesselVolume
	result.YieldPercent = 100 * (p.InitialConcentration - finalConc) / p.InitialConcentration

	return result, nil
}
