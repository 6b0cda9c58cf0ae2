package kinetics

import (
	"math"
	"testing"

	"github.com/chemproc/crystalsim/pkg/solubility"
)

func TestSupersaturationClamp(t *testing.T) {
	m := Default()

	// For any temperature with positive solubility, a concentration at or
	// below the solubility must give exactly zero supersaturation, never
	// a negative value.
	for temp := 0.0; temp <= 100; temp += 5 {
		cStar := solubility.Sucrose(temp)
		for _, c := range []float64{0, cStar * 0.5, cStar * 0.99, cStar} {
			if s := m.Supersaturation(c, temp); s != 0 {
				t.Errorf("Supersaturation(%v, %v°C) = %v, want 0", c, temp, s)
			}
		}
	}
}

func TestSupersaturationPositive(t *testing.T) {
	m := Default()

	// C = 78 g/100g at 30°C: C* ≈ 72.90, S ≈ 0.070
	s := m.Supersaturation(78, 30)
	want := (78 - solubility.Sucrose(30)) / solubility.Sucrose(30)
	if math.Abs(s-want) > 1e-12 {
		t.Errorf("Supersaturation(78, 30) = %v, want %v", s, want)
	}
	if s < 0.06 || s > 0.08 {
		t.Errorf("Supersaturation(78, 30) = %v, expected ~0.07", s)
	}
}

func TestNucleationRate(t *testing.T) {
	m := Default()

	tests := []struct {
		name           string
		s              float64
		suspensionMass float64
		wantZero       bool
	}{
		{name: "zero supersaturation", s: 0, suspensionMass: 10, wantZero: true},
		{name: "negative supersaturation", s: -0.1, suspensionMass: 10, wantZero: true},
		{name: "positive driving force", s: 0.05, suspensionMass: 10, wantZero: false},
		{name: "zero suspension mass still nucleates", s: 0.05, suspensionMass: 0, wantZero: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := m.NucleationRate(tt.s, tt.suspensionMass)
			if tt.wantZero && b != 0 {
				t.Errorf("NucleationRate = %v, want 0", b)
			}
			if !tt.wantZero && b <= 0 {
				t.Errorf("NucleationRate = %v, want > 0", b)
			}
		})
	}
}

func TestNucleationMassFloor(t *testing.T) {
	m := Default()

	// With j = 0.5 the rate at zero mass must equal the rate at the floor,
	// not NaN or zero.
	atZero := m.NucleationRate(0.05, 0)
	atFloor := m.NucleationRate(0.05, suspensionMassFloor)
	if math.IsNaN(atZero) || atZero != atFloor {
		t.Errorf("mass floor not applied: at zero %v, at floor %v", atZero, atFloor)
	}

	// More suspended mass means more secondary nucleation
	if m.NucleationRate(0.05, 100) <= m.NucleationRate(0.05, 10) {
		t.Error("nucleation rate should increase with suspension mass")
	}
}

func TestGrowthRate(t *testing.T) {
	m := Default()

	if g := m.GrowthRate(0, 323.15); g != 0 {
		t.Errorf("GrowthRate at S=0 is %v, want 0", g)
	}

	// Reference point of the calibrated fit: S = 0.05 at 50°C
	g := m.GrowthRate(0.05, 323.15)
	want := 3.0e-2 * math.Pow(0.05, 1.5) * math.Exp(-18000/(8.314*323.15))
	if math.Abs(g-want)/want > 1e-12 {
		t.Errorf("GrowthRate = %v, want %v", g, want)
	}

	// Arrhenius: growth accelerates with temperature at fixed S
	if m.GrowthRate(0.05, 343.15) <= m.GrowthRate(0.05, 303.15) {
		t.Error("growth rate should increase with temperature")
	}

	// Magnitude check: on the order of 1000 μm/h at moderate supersaturation
	micronsPerHour := g * 1e6 * 3600
	if micronsPerHour < 50 || micronsPerHour > 2000 {
		t.Errorf("growth rate %v μm/h outside calibrated range", micronsPerHour)
	}
}
