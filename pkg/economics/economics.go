// Package economics evaluates the capital and operating costs of a sugar
// concentration and crystallization line. Equipment costs follow power-law
// correlations; utility prices are Moroccan market figures in MAD.
package economics

import "math"

// Unit prices, MAD. Converted from EUR references at roughly 11 MAD/EUR.
const (
	SteamPricePerTonne  = 275.0 // MAD/t
	WaterPricePerM3     = 1.65  // MAD/m³
	ElectricityPerKWh   = 1.32  // MAD/kWh
	LaborRatePerHour    = 40.0  // MAD/h per operator
	DefaultOperators    = 2
	DefaultHoursPerYear = 8000.0
)

// Equipment cost correlations, MAD = coefficient · size^exponent.
const (
	evaporatorCostCoeff = 15000.0
	evaporatorCostExp   = 0.65
	crystallizerCoeff   = 25000.0
	crystallizerExp     = 0.6
	exchangerCostCoeff  = 8000.0
	exchangerCostExp    = 0.7
)

// CapitalCosts breaks down the installed equipment cost, MAD.
type CapitalCosts struct {
	Evaporators  float64
	Crystallizer float64
	Exchangers   float64
	Total        float64
}

// CapitalCost prices the main equipment: evaporator effects and exchangers
// by heat-transfer area in m², the crystallizer by volume in m³.
func CapitalCost(evaporatorAreas []float64, crystallizerVolume float64, exchangerAreas []float64) CapitalCosts {
	var c CapitalCosts
	for _, a := range evaporatorAreas {
		c.Evaporators += evaporatorCostCoeff * math.Pow(a, evaporatorCostExp)
	}
	c.Crystallizer = crystallizerCoeff * math.Pow(crystallizerVolume, crystallizerExp)
	for _, a := range exchangerAreas {
		c.Exchangers += exchangerCostCoeff * math.Pow(a, exchangerCostExp)
	}
	c.Total = c.Evaporators + c.Crystallizer + c.Exchangers
	return c
}

// Utilities describes hourly consumptions of the running plant.
type Utilities struct {
	SteamKgPerHour float64
	WaterM3PerHour float64
	ElectricalKW   float64
	Operators      int
	HoursPerYear   float64
}

// OperatingCosts breaks down the annual cost of running the plant, MAD/year.
type OperatingCosts struct {
	Steam       float64
	Water       float64
	Electricity float64
	Labor       float64
	Total       float64
}

// OperatingCost computes annual utility and labor costs. Zero-valued
// Operators and HoursPerYear fall back to the plant defaults.
func OperatingCost(u Utilities) OperatingCosts {
	if u.Operators == 0 {
		u.Operators = DefaultOperators
	}
	if u.HoursPerYear == 0 {
		u.HoursPerYear = DefaultHoursPerYear
	}

	c := OperatingCosts{
		Steam:       u.SteamKgPerHour / 1000 * SteamPricePerTonne * u.HoursPerYear,
		Water:       u.WaterM3PerHour * WaterPricePerM3 * u.HoursPerYear,
		Electricity: u.ElectricalKW * ElectricityPerKWh * u.HoursPerYear,
		Labor:       float64(u.Operators) * LaborRatePerHour * u.HoursPerYear,
	}
	c.Total = c.Steam + c.Water + c.Electricity + c.Labor
	return c
}

// Profitability reports simple return-on-investment indicators.
type Profitability struct {
	AnnualRevenue   float64 // MAD/year
	AnnualProfit    float64 // MAD/year
	PaybackYears    float64 // +Inf when the plant never pays back
	CostPerTonne    float64 // MAD/t of product
	ProfitMarginPct float64
}

// ROI evaluates the investment against annual production in tonnes and a
// selling price per tonne.
func ROI(capex, annualOpex, annualTonnes, pricePerTonne float64) Profitability {
	p := Profitability{
		AnnualRevenue: annualTonnes * pricePerTonne,
	}
	p.AnnualProfit = p.AnnualRevenue - annualOpex

	if p.AnnualProfit > 0 {
		p.PaybackYears = capex / p.AnnualProfit
	} else {
		p.PaybackYears = math.Inf(1)
	}
	if annualTonnes > 0 {
		p.CostPerTonne = annualOpex / annualTonnes
	}
	if p.AnnualRevenue > 0 {
		p.ProfitMarginPct = p.AnnualProfit / p.AnnualRevenue * 100
	}
	return p
}

// AnnualizedCost spreads the investment over the plant life with the capital
// recovery factor at the given discount rate and adds the annual operating
// cost, MAD/year.
func AnnualizedCost(capex, annualOpex float64, lifeYears int, discountRate float64) float64 {
	var crf float64
	if discountRate > 0 {
		g := math.Pow(1+discountRate, float64(lifeYears))
		crf = discountRate * g / (g - 1)
	} else {
		crf = 1 / float64(lifeYears)
	}
	return capex*crf + annualOpex
}
