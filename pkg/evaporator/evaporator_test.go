package evaporator

import (
	"errors"
	"math"
	"testing"
)

func referenceTrain() Input {
	return Input{
		Effects:              4,
		FeedRate:             10000,
		FeedConcentration:    15,
		ProductConcentration: 65,
		FeedTemperatureC:     85,
		SteamPressure:        250e3,
		CondenserPressure:    10e3,
	}
}

func TestSimulateMassBalance(t *testing.T) {
	res, err := Simulate(referenceTrain())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if len(res.Effects) != 4 {
		t.Fatalf("got %d effects, want 4", len(res.Effects))
	}

	// Sucrose in = sucrose out of the last effect
	last := res.Effects[3]
	sucroseIn := 10000 * 15.0 / 100
	sucroseOut := last.LiquorRate * last.Concentration / 100
	if math.Abs(sucroseIn-sucroseOut)/sucroseIn > 1e-9 {
		t.Errorf("sucrose not conserved: %v in, %v out", sucroseIn, sucroseOut)
	}

	// Water balance: feed = product + total vapor
	var vapor float64
	for _, e := range res.Effects {
		vapor += e.VaporRate
	}
	if math.Abs(10000-last.LiquorRate-vapor) > 1e-6 {
		t.Errorf("flow balance broken: product %v + vapor %v != feed", last.LiquorRate, vapor)
	}
	if math.Abs(vapor-res.TotalEvaporation) > 1e-6 {
		t.Errorf("TotalEvaporation %v disagrees with per-effect sum %v", res.TotalEvaporation, vapor)
	}

	// Final concentration hits the product spec
	if math.Abs(last.Concentration-65) > 1e-9 {
		t.Errorf("final concentration %v%%, want 65", last.Concentration)
	}
}

func TestSimulateTrainProfile(t *testing.T) {
	res, err := Simulate(referenceTrain())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	for i := 1; i < len(res.Effects); i++ {
		prev, cur := res.Effects[i-1], res.Effects[i]
		if cur.Pressure >= prev.Pressure {
			t.Errorf("pressure not decreasing at effect %d: %v >= %v", i+1, cur.Pressure, prev.Pressure)
		}
		if cur.BoilingTemp >= prev.BoilingTemp {
			t.Errorf("boiling temperature not decreasing at effect %d", i+1)
		}
		if cur.Concentration <= prev.Concentration {
			t.Errorf("concentration not rising at effect %d", i+1)
		}
	}

	for _, e := range res.Effects {
		if e.HeatDuty <= 0 || e.ExchangeArea <= 0 {
			t.Errorf("effect %d has non-positive duty %v or area %v", e.Number, e.HeatDuty, e.ExchangeArea)
		}
	}
}

func TestSteamEconomy(t *testing.T) {
	res, err := Simulate(referenceTrain())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	// Multiple effects reuse vapor: better than single-effect, bounded by
	// the effect count.
	if res.SteamEconomy <= 1 || res.SteamEconomy >= 4 {
		t.Errorf("steam economy %v outside (1, 4)", res.SteamEconomy)
	}
	if math.Abs(res.SpecificSteam*res.SteamEconomy-1) > 1e-9 {
		t.Error("specific steam is not the reciprocal of economy")
	}
	if res.SteamConsumption <= 0 {
		t.Error("steam consumption must be positive")
	}
}

func TestMoreEffectsImproveEconomy(t *testing.T) {
	in := referenceTrain()
	in.Effects = 2
	two, err := Simulate(in)
	if err != nil {
		t.Fatalf("2 effects: %v", err)
	}

	in.Effects = 5
	five, err := Simulate(in)
	if err != nil {
		t.Fatalf("5 effects: %v", err)
	}

	if five.SteamEconomy <= two.SteamEconomy {
		t.Errorf("economy did not improve: %v with 5 effects vs %v with 2",
			five.SteamEconomy, two.SteamEconomy)
	}
}

func TestSimulateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		want   error
	}{
		{
			name:   "too few effects",
			mutate: func(in *Input) { in.Effects = 1 },
			want:   ErrEffectCount,
		},
		{
			name:   "too many effects",
			mutate: func(in *Input) { in.Effects = 6 },
			want:   ErrEffectCount,
		},
		{
			name:   "product below feed",
			mutate: func(in *Input) { in.ProductConcentration = 10 },
			want:   ErrConcentration,
		},
		{
			name:   "condenser above steam",
			mutate: func(in *Input) { in.CondenserPressure = 300e3 },
			want:   ErrPressureOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := referenceTrain()
			tt.mutate(&in)
			if _, err := Simulate(in); !errors.Is(err, tt.want) {
				t.Errorf("Simulate error = %v, want %v", err, tt.want)
			}
		})
	}
}
