package crystallizer

import (
	"errors"
	"fmt"

	"github.com/chemproc/crystalsim/pkg/cooling"
	"github.com/chemproc/crystalsim/pkg/kinetics"
)

// Validation failures returned by Solve before any integration starts.
// Each is wrapped with the offending value; match with errors.Is.
var (
	ErrInvalidConcentration = errors.New("initial concentration must be positive")
	ErrInvalidBins          = errors.New("size grid needs at least 2 bins")
	ErrInvalidDuration      = errors.New("batch duration must be positive")
	ErrInvalidVolume        = errors.New("vessel volume must be positive")
)

// ErrNumericalInstability reports that the stiff integrator failed or the
// solution left its physical bounds. It indicates a solver breakdown, not a
// bad input: retry with more bins or a gentler cooling profile.
var ErrNumericalInstability = errors.New("population balance integration unstable")

// Solver defaults applied by withDefaults for zero-valued fields.
const (
	DefaultBins           = 50
	DefaultReportPoints   = 200
	DefaultDepletionScale = 10.0
)

// BatchParams describes one batch cooling crystallization run.
type BatchParams struct {
	TStartC float64 // initial temperature, °C
	TEndC   float64 // final temperature, °C

	// InitialConcentration is the starting solute concentration,
	// g per 100 g solution.
	InitialConcentration float64

	VesselVolume  float64 // working volume, m³
	DurationHours float64 // batch time, h

	Policy cooling.Policy

	// TargetSupersaturation is the setpoint held by the feedback policy.
	// Ignored by the time-based policies. Zero selects the default 0.05.
	TargetSupersaturation float64

	NSizeBins      int     // size grid nodes, default 50
	MaxCrystalSize float64 // upper edge of the size axis in m, default 1 mm

	// DepletionScale divides the mass-balance coupling term, calibrating
	// how strongly crystal growth consumes dissolved solute. Treat it as
	// a fitted constant to be validated against reference mass-balance
	// data, not derived from first principles.
	DepletionScale float64

	// ReportPoints is the number of trajectory samples recorded, default
	// 200. The integrator steps adaptively between samples.
	ReportPoints int

	// Kinetics overrides the sucrose default parameter set when non-nil.
	Kinetics *kinetics.Parameters
}

func (p BatchParams) withDefaults() BatchParams {
	if p.NSizeBins == 0 {
		p.NSizeBins = DefaultBins
	}
	if p.MaxCrystalSize <= 0 {
		p.MaxCrystalSize = DefaultMaxCrystalSize
	}
	if p.DepletionScale <= 0 {
		p.DepletionScale = DefaultDepletionScale
	}
	if p.ReportPoints <= 0 {
		p.ReportPoints = DefaultReportPoints
	}
	if p.TargetSupersaturation <= 0 {
		p.TargetSupersaturation = cooling.DefaultTargetSupersaturation
	}
	if p.Policy == "" {
		p.Policy = cooling.Linear
	}
	return p
}

// Validate checks the physical inputs. Defaults are not applied first, so a
// zero NSizeBins passes here and is filled in by Solve.
func (p BatchParams) Validate() error {
	if p.InitialConcentration <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidConcentration, p.InitialConcentration)
	}
	if p.NSizeBins != 0 && p.NSizeBins < 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidBins, p.NSizeBins)
	}
	if p.DurationHours <= 0 {
		return fmt.Errorf("%w: got %g h", ErrInvalidDuration, p.DurationHours)
	}
	if p.VesselVolume <= 0 {
		return fmt.Errorf("%w: got %g m³", ErrInvalidVolume, p.VesselVolume)
	}
	// Heating instead of cooling is physically pointless but not rejected:
	// it simply never develops supersaturation.
	return nil
}
