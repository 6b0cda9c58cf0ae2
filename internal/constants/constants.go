// Package constants defines physical constants shared across the simulation packages.
package constants

import "math"

const (
	// GasConstant is the universal gas constant in J/(mol·K)
	GasConstant = 8.314

	// KelvinOffset converts between Celsius and Kelvin
	KelvinOffset = 273.15

	// CrystalDensity is the density of crystalline sucrose in kg/m³
	CrystalDensity = 1580.0

	// WaterHeatCapacity is the specific heat of liquid water in J/(kg·K),
	// used as the basis for solution enthalpy estimates
	WaterHeatCapacity = 4186.0
)

// ShapeFactor is the volumetric shape factor for spherical crystals (π/6)
var ShapeFactor = math.Pi / 6
