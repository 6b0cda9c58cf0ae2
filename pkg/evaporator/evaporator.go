// Package evaporator models a forward-feed multiple-effect evaporator train
// concentrating sucrose solution ahead of crystallization. Heating steam
// drives the first effect; each later effect boils under the vapor of the
// one before it at a progressively lower pressure set by the condenser.
package evaporator

import (
	"errors"
	"fmt"
	"math"

	"github.com/chemproc/crystalsim/internal/constants"
	"github.com/chemproc/crystalsim/pkg/solubility"
	"github.com/chemproc/crystalsim/pkg/steam"
)

const (
	MinEffects = 2
	MaxEffects = 5

	// Heat lost to surroundings per effect, as a fraction of its duty.
	heatLossFraction = 0.03

	// Fouling resistance added to each effect's clean coefficient, m²·K/W.
	foulingResistance = 0.0002
)

// Clean heat-transfer coefficients by effect position, W/(m²·K). Transfer
// degrades down the train as the liquor thickens and cools.
var defaultCoefficients = []float64{2500, 2200, 1800, 1500, 1200}

var (
	ErrEffectCount   = errors.New("evaporator: effect count out of range")
	ErrConcentration = errors.New("evaporator: product concentration must exceed feed")
	ErrPressureOrder = errors.New("evaporator: steam pressure must exceed condenser pressure")
)

// Input describes one evaporation campaign.
type Input struct {
	Effects int

	FeedRate             float64 // kg/h
	FeedConcentration    float64 // % by mass
	ProductConcentration float64 // % by mass
	FeedTemperatureC     float64

	SteamPressure     float64 // Pa, heating steam to the first effect
	CondenserPressure float64 // Pa, at the final condenser

	// Coefficients optionally overrides the per-effect clean heat-transfer
	// coefficients, W/(m²·K).
	Coefficients []float64
}

// EffectResult reports one effect of the train.
type EffectResult struct {
	Number        int
	FeedRate      float64 // kg/h entering liquor
	VaporRate     float64 // kg/h evaporated
	LiquorRate    float64 // kg/h leaving liquor
	Concentration float64 // % by mass leaving
	BoilingTemp   float64 // K, including boiling point elevation
	Pressure      float64 // Pa
	HeatDuty      float64 // W, including losses
	ExchangeArea  float64 // m²
}

// Result summarizes the whole train.
type Result struct {
	Effects []EffectResult

	TotalEvaporation float64 // kg/h
	TotalArea        float64 // m²
	SteamConsumption float64 // kg/h of heating steam
	SteamEconomy     float64 // kg evaporated per kg of heating steam
	SpecificSteam    float64 // kg steam per kg evaporated
}

// Simulate solves the mass and energy balances of the train. The evaporation
// duty is split equally across effects, the standard first approximation for
// forward feed.
func Simulate(in Input) (*Result, error) {
	if in.Effects < MinEffects || in.Effects > MaxEffects {
		return nil, fmt.Errorf("%w: %d", ErrEffectCount, in.Effects)
	}
	if in.ProductConcentration <= in.FeedConcentration || in.FeedConcentration <= 0 {
		return nil, fmt.Errorf("%w: %g%% to %g%%", ErrConcentration,
			in.FeedConcentration, in.ProductConcentration)
	}
	if in.SteamPressure <= in.CondenserPressure {
		return nil, fmt.Errorf("%w: %g Pa vs %g Pa", ErrPressureOrder,
			in.SteamPressure, in.CondenserPressure)
	}

	coeffs := in.Coefficients
	if coeffs == nil {
		coeffs = defaultCoefficients[:in.Effects]
	}

	pressures := effectPressures(in.SteamPressure, in.CondenserPressure, in.Effects)

	// Mass balance: sucrose is conserved, water leaves as vapor.
	sucrose := in.FeedRate * in.FeedConcentration / 100
	product := sucrose / (in.ProductConcentration / 100)
	totalEvap := in.FeedRate - product
	perEffect := totalEvap / float64(in.Effects)

	steamLatent := steam.LatentHeat(in.SteamPressure)
	steamTemp := steam.SaturationTemperature(in.SteamPressure)

	res := &Result{Effects: make([]EffectResult, 0, in.Effects)}
	liquorIn := in.FeedRate
	concIn := in.FeedConcentration
	tempIn := in.FeedTemperatureC + constants.KelvinOffset
	var firstDuty float64

	for i := 0; i < in.Effects; i++ {
		liquorOut := liquorIn - perEffect
		concOut := liquorIn * concIn / liquorOut

		boiling := steam.SaturationTemperature(pressures[i]) +
			solubility.BoilingPointElevation(concOut)

		hIn := liquorEnthalpy(tempIn, concIn)
		hOut := liquorEnthalpy(boiling, concOut)

		sensible := liquorIn / 3600 * (hOut - hIn)
		latent := perEffect / 3600 * steam.LatentHeat(pressures[i])
		duty := (sensible + latent) * (1 + heatLossFraction)

		var deltaT float64
		if i == 0 {
			deltaT = steamTemp - boiling
		} else {
			deltaT = res.Effects[i-1].BoilingTemp - boiling
		}

		u := 1 / (1/coeffs[i] + foulingResistance)
		var area float64
		if deltaT > 0 {
			area = duty / (u * deltaT)
		}

		res.Effects = append(res.Effects, EffectResult{
			Number:        i + 1,
			FeedRate:      liquorIn,
			VaporRate:     perEffect,
			LiquorRate:    liquorOut,
			Concentration: concOut,
			BoilingTemp:   boiling,
			Pressure:      pressures[i],
			HeatDuty:      duty,
			ExchangeArea:  area,
		})
		res.TotalArea += area
		if i == 0 {
			firstDuty = duty
		}

		liquorIn = liquorOut
		concIn = concOut
		tempIn = boiling
	}

	res.TotalEvaporation = totalEvap
	res.SteamConsumption = firstDuty / steamLatent * 3600
	if res.SteamConsumption > 0 {
		res.SteamEconomy = totalEvap / res.SteamConsumption
		res.SpecificSteam = res.SteamConsumption / totalEvap
	}
	return res, nil
}

// effectPressures distributes operating pressures logarithmically from just
// under the heating steam down to the condenser.
func effectPressures(steamP, condenserP float64, n int) []float64 {
	top := math.Log10(steamP * 0.9)
	bottom := math.Log10(condenserP)
	step := (top - bottom) / float64(n-1)

	pressures := make([]float64, n)
	for i := range pressures {
		pressures[i] = math.Pow(10, top-float64(i)*step)
	}
	return pressures
}

// liquorEnthalpy approximates sucrose solution enthalpy from the water heat
// capacity corrected for dissolved solids, referenced to 0°C.
func liquorEnthalpy(tempK, concentrationPct float64) float64 {
	x := concentrationPct / 100
	cp := constants.WaterHeatCapacity * (1 - 0.3*x)
	return cp * (tempK - constants.KelvinOffset)
}
