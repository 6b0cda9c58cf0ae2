package crystallizer

import (
	"math"

	"github.com/chemproc/crystalsim/internal/constants"
	"github.com/chemproc/crystalsim/pkg/solubility"
)

// Vessel sizing assumptions for a stirred batch cooling crystallizer.
const (
	freeboardFactor   = 1.2 // total volume over working volume
	aspectRatio       = 1.5 // straight-side height over diameter
	coilHTC           = 500 // overall coefficient for the cooling coil, W/(m²·K)
	coilApproach      = 15  // mean temperature difference to coolant, K
	specificAgitation = 300 // installed agitator power per slurry volume, W/m³
)

// VesselDesign is a preliminary mechanical sizing for a batch run.
type VesselDesign struct {
	TotalVolume   float64 // m³ including freeboard
	Diameter      float64 // m
	Height        float64 // m, straight side
	CoolingDuty   float64 // W, average over the batch
	CoolingArea   float64 // m² of coil surface
	AgitatorPower float64 // W
}

// SizeVessel produces a preliminary vessel design for the batch described by
// params: a 1.5:1 cylindrical vessel with 20% freeboard, a cooling coil
// sized for the average sensible heat duty, and agitation at a fixed
// specific power.
func SizeVessel(params BatchParams) VesselDesign {
	p := params.withDefaults()

	total := p.VesselVolume * freeboardFactor
	diameter := math.Cbrt(total / (aspectRatio * math.Pi / 4))
	height := aspectRatio * diameter

	// Sensible heat of the batch charge across the cooling span
	tAvg := (p.TStartC + p.TEndC) / 2
	charge := solubility.SolutionDensity(p.InitialConcentration, tAvg) * p.VesselVolume
	duty := charge * constants.WaterHeatCapacity * (p.TStartC - p.TEndC) /
		(p.DurationHours * 3600)

	return VesselDesign{
		TotalVolume:   total,
		Diameter:      diameter,
		Height:        height,
		CoolingDuty:   duty,
		CoolingArea:   duty / (coilHTC * coilApproach),
		AgitatorPower: specificAgitation * p.VesselVolume,
	}
}
