// Package solubility provides empirical property correlations for aqueous
// sucrose solutions: equilibrium solubility, solution density and viscosity,
// and the Dühring boiling-point elevation used by the evaporator train.
package solubility

import "math"

// Sucrose returns the equilibrium sucrose concentration at the given
// temperature, in g sucrose per 100 g solution.
// Empirical correlation: C* = 64.18 + 0.1337·T + 5.52e-3·T² − 9.73e-6·T³
// The cubic is smooth and monotonically increasing over the 0–100°C
// operating range; it is defined for all real inputs but only meaningful
// within that range.
func Sucrose(tempC float64) float64 {
	t := tempC
	return 64.18 + 0.1337*t + 5.52e-3*t*t - 9.73e-6*t*t*t
}

// SolutionDensity returns the density of a sucrose solution in kg/m³.
// Water density correlation with a linear sucrose correction, based on
// Perry's Handbook data.
func SolutionDensity(concentrationPct, tempC float64) float64 {
	x := concentrationPct / 100.0
	t := tempC

	rhoWater := 1000.0 - 0.0736*t - 0.00355*t*t
	return rhoWater * (1 + 0.4*x)
}

// SolutionViscosity returns the dynamic viscosity of a sucrose solution
// in Pa·s. Water viscosity from the Andrade correlation with an exponential
// sucrose correction.
func SolutionViscosity(concentrationPct, tempC float64) float64 {
	x := concentrationPct / 100.0
	tK := tempC + 273.15

	muWater := 2.414e-5 * math.Pow(10, 247.8/(tK-140))
	return muWater * math.Exp(4.5*x)
}

// Dühring correlation coefficients for sucrose boiling-point elevation.
// BPE = a·X² + b·X with X the sucrose mass fraction.
const (
	duhringQuadratic = 25.0
	duhringLinear    = 5.0
)

// BoilingPointElevation returns the boiling-point elevation of a sucrose
// solution over pure water, in °C (equivalently K).
func BoilingPointElevation(concentrationPct float64) float64 {
	x := concentrationPct / 100.0
	return duhringQuadratic*x*x + duhringLinear*x
}
