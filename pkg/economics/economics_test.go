package economics

import (
	"math"
	"testing"
)

func TestCapitalCost(t *testing.T) {
	c := CapitalCost([]float64{100, 80}, 12, []float64{25})

	wantEvap := 15000*math.Pow(100, 0.65) + 15000*math.Pow(80, 0.65)
	if math.Abs(c.Evaporators-wantEvap)/wantEvap > 1e-12 {
		t.Errorf("evaporator cost %v, want %v", c.Evaporators, wantEvap)
	}
	wantCryst := 25000 * math.Pow(12, 0.6)
	if math.Abs(c.Crystallizer-wantCryst)/wantCryst > 1e-12 {
		t.Errorf("crystallizer cost %v, want %v", c.Crystallizer, wantCryst)
	}
	wantExch := 8000 * math.Pow(25, 0.7)
	if math.Abs(c.Exchangers-wantExch)/wantExch > 1e-12 {
		t.Errorf("exchanger cost %v, want %v", c.Exchangers, wantExch)
	}
	if math.Abs(c.Total-(c.Evaporators+c.Crystallizer+c.Exchangers)) > 1e-6 {
		t.Error("total does not sum the components")
	}
}

func TestCapitalCostEconomyOfScale(t *testing.T) {
	// Sub-linear exponents: doubling the area must cost less than double.
	small := CapitalCost([]float64{50}, 10, nil)
	big := CapitalCost([]float64{100}, 10, nil)
	if big.Evaporators >= 2*small.Evaporators {
		t.Errorf("no economy of scale: %v vs %v", big.Evaporators, small.Evaporators)
	}
}

func TestOperatingCost(t *testing.T) {
	c := OperatingCost(Utilities{
		SteamKgPerHour: 2500,
		WaterM3PerHour: 30,
		ElectricalKW:   150,
	})

	if want := 2.5 * 275 * 8000; math.Abs(c.Steam-want) > 1e-6 {
		t.Errorf("steam cost %v, want %v", c.Steam, want)
	}
	if want := 30 * 1.65 * 8000; math.Abs(c.Water-want) > 1e-6 {
		t.Errorf("water cost %v, want %v", c.Water, want)
	}
	if want := 150 * 1.32 * 8000; math.Abs(c.Electricity-want) > 1e-6 {
		t.Errorf("electricity cost %v, want %v", c.Electricity, want)
	}
	// Two operators by default
	if want := 2 * 40 * 8000.0; math.Abs(c.Labor-want) > 1e-6 {
		t.Errorf("labor cost %v, want %v", c.Labor, want)
	}
}

func TestROI(t *testing.T) {
	p := ROI(10e6, 4e6, 20000, 400)

	if want := 20000 * 400.0; p.AnnualRevenue != want {
		t.Errorf("revenue %v, want %v", p.AnnualRevenue, want)
	}
	if want := 8e6 - 4e6; p.AnnualProfit != want {
		t.Errorf("profit %v, want %v", p.AnnualProfit, want)
	}
	if want := 10e6 / 4e6; math.Abs(p.PaybackYears-want) > 1e-12 {
		t.Errorf("payback %v years, want %v", p.PaybackYears, want)
	}
	if want := 4e6 / 20000; math.Abs(p.CostPerTonne-want) > 1e-9 {
		t.Errorf("production cost %v/t, want %v", p.CostPerTonne, want)
	}
	if math.Abs(p.ProfitMarginPct-50) > 1e-9 {
		t.Errorf("margin %v%%, want 50", p.ProfitMarginPct)
	}
}

func TestROINeverProfitable(t *testing.T) {
	p := ROI(10e6, 9e6, 20000, 400)
	if !math.IsInf(p.PaybackYears, 1) {
		t.Errorf("payback %v, want +Inf for a loss-making plant", p.PaybackYears)
	}
}

func TestAnnualizedCost(t *testing.T) {
	// CRF at 8% over 15 years is about 0.1168
	got := AnnualizedCost(10e6, 2e6, 15, 0.08)
	g := math.Pow(1.08, 15)
	want := 10e6*(0.08*g/(g-1)) + 2e6
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("annualized cost %v, want %v", got, want)
	}

	// Zero discount rate degenerates to straight-line depreciation
	if got := AnnualizedCost(15e6, 1e6, 15, 0); math.Abs(got-2e6) > 1e-6 {
		t.Errorf("straight-line annualized cost %v, want 2e6", got)
	}
}
