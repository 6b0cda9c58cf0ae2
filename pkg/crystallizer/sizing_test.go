package crystallizer

import (
	"math"
	"testing"
)

func TestSizeVessel(t *testing.T) {
	d := SizeVessel(nominalBatch())

	if want := 10 * freeboardFactor; math.Abs(d.TotalVolume-want) > 1e-12 {
		t.Errorf("total volume %v, want %v", d.TotalVolume, want)
	}
	if ratio := d.Height / d.Diameter; math.Abs(ratio-aspectRatio) > 1e-9 {
		t.Errorf("aspect ratio %v, want %v", ratio, aspectRatio)
	}
	// The cylinder at the design aspect ratio must hold the total volume
	vol := math.Pi / 4 * d.Diameter * d.Diameter * d.Height
	if math.Abs(vol-d.TotalVolume)/d.TotalVolume > 1e-9 {
		t.Errorf("cylinder volume %v does not match total %v", vol, d.TotalVolume)
	}

	if d.CoolingDuty <= 0 {
		t.Fatal("cooling duty must be positive for a cooling batch")
	}
	if want := d.CoolingDuty / (coilHTC * coilApproach); math.Abs(d.CoolingArea-want) > 1e-9 {
		t.Errorf("coil area %v, want %v", d.CoolingArea, want)
	}
	if want := specificAgitation * 10.0; d.AgitatorPower != want {
		t.Errorf("agitator power %v, want %v", d.AgitatorPower, want)
	}
}

func TestSizeVesselScalesWithVolume(t *testing.T) {
	small := nominalBatch()
	big := nominalBatch()
	big.VesselVolume = 40

	ds := SizeVessel(small)
	db := SizeVessel(big)
	if db.Diameter <= ds.Diameter || db.CoolingArea <= ds.CoolingArea {
		t.Error("larger batch should need a larger vessel and coil")
	}
}
