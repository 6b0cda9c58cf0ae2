// Package cooling defines the batch cooling schedules that drive the
// crystallizer temperature: a constant-rate linear ramp, an exponential
// approach to the final temperature, and a feedback schedule that holds the
// supersaturation at a setpoint by inverting the solubility curve.
package cooling

import (
	"fmt"
	"math"

	"github.com/chemproc/crystalsim/pkg/rootfind"
	"github.com/chemproc/crystalsim/pkg/solubility"
)

// Policy names a cooling strategy.
type Policy string

const (
	Linear      Policy = "linear"
	Exponential Policy = "exponential"
	Feedback    Policy = "feedback"
)

// DefaultTargetSupersaturation is the setpoint used by the feedback
// schedule when the caller does not specify one.
const DefaultTargetSupersaturation = 0.05

// Temperature search bracket for inverting the solubility curve, °C.
const (
	feedbackSearchLow  = 20.0
	feedbackSearchHigh = 80.0
)

// Schedule produces the crystallizer temperature for an elapsed batch time.
// The concentration argument is the current solute concentration
// (g/100g solution); the time-based schedules ignore it, the feedback
// schedule is a function of it and must be re-evaluated at every solver
// step. Beyond the batch duration a schedule saturates rather than
// extrapolating.
type Schedule interface {
	Temperature(t, concentration float64) float64
	Policy() Policy
}

// NewSchedule builds a schedule for the named policy over a batch that cools
// from startC to endC across durationSec seconds. The feedback policy holds
// the default supersaturation setpoint; use NewFeedback for a custom target.
func NewSchedule(policy Policy, startC, endC, durationSec float64) (Schedule, error) {
	switch policy {
	case Linear:
		return &linearSchedule{startC: startC, endC: endC, duration: durationSec}, nil
	case Exponential:
		return newExponential(startC, endC, durationSec), nil
	case Feedback:
		return NewFeedback(DefaultTargetSupersaturation), nil
	default:
		return nil, fmt.Errorf("unknown cooling policy %q", policy)
	}
}

// linearSchedule ramps at constant rate and holds the end temperature
// once the duration has elapsed.
type linearSchedule struct {
	startC   float64
	endC     float64
	duration float64
}

func (s *linearSchedule) Temperature(t, _ float64) float64 {
	if t >= s.duration {
		return s.endC
	}

	rate := (s.startC - s.endC) / s.duration
	return s.startC - rate*t
}

func (s *linearSchedule) Policy() Policy { return Linear }

// exponentialSchedule decays toward the end temperature. The decay constant
// is chosen so that 95% of the total temperature drop is achieved at the end
// of the batch: exp(−β·duration) = 0.05.
type exponentialSchedule struct {
	startC   float64
	endC     float64
	duration float64
	beta     float64
}

func newExponential(startC, endC, durationSec float64) *exponentialSchedule {
	return &exponentialSchedule{
		startC:   startC,
		endC:     endC,
		duration: durationSec,
		beta:     -math.Log(0.05) / durationSec,
	}
}

func (s *exponentialSchedule) Temperature(t, _ float64) float64 {
	// Clamp instead of extrapolating past the batch end
	if t > s.duration {
		t = s.duration
	}

	return s.endC + (s.startC-s.endC)*math.Exp(-s.beta*t)
}

func (s *exponentialSchedule) Policy() Policy { return Exponential }

// FeedbackSchedule holds the relative supersaturation at a fixed target by
// solving C* = C/(1+S_target) for temperature with a bisection search over
// the solubility curve. It is a function of the current concentration, not
// of elapsed time.
type FeedbackSchedule struct {
	target float64

	// Bisection results memoized per 0.01 g/100g concentration bucket.
	// The solver evaluates the schedule many times per step at nearly
	// identical concentrations; bucketed reuse stays within the bisection
	// tolerance without changing observable behavior.
	memo map[int64]float64
}

// NewFeedback creates a feedback schedule holding the given supersaturation
// target.
func NewFeedback(target float64) *FeedbackSchedule {
	return &FeedbackSchedule{
		target: target,
		memo:   make(map[int64]float64),
	}
}

func (s *FeedbackSchedule) Temperature(_, concentration float64) float64 {
	key := int64(math.Round(concentration * 100))
	if temp, ok := s.memo[key]; ok {
		return temp
	}

	// Find T such that solubility(T) = C/(1+S_target)
	cStarTarget := concentration / (1 + s.target)
	temp := rootfind.Bisect(solubility.Sucrose, cStarTarget,
		feedbackSearchLow, feedbackSearchHigh,
		rootfind.DefaultIterations, rootfind.DefaultTolerance)

	s.memo[key] = temp
	return temp
}

func (s *FeedbackSchedule) Policy() Policy { return Feedback }

// Target returns the supersaturation setpoint.
func (s *FeedbackSchedule) Target() float64 { return s.target }
