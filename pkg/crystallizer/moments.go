package crystallizer

import (
	"math"

	"github.com/chemproc/crystalsim/internal/constants"
)

// Distribution is a crystal size distribution on a uniform grid: Density[i]
// is the population number density at Grid.Nodes[i] in #/(m³·m).
type Distribution struct {
	Grid    SizeGrid
	Density []float64
}

// Moment computes the k-th moment of the distribution,
// m_k = Σ n_i·L_i^k·ΔL, by rectangle quadrature over the grid.
func (d Distribution) Moment(k int) float64 {
	var sum float64
	for i, n := range d.Density {
		sum += n * math.Pow(d.Grid.Nodes[i], float64(k)) * d.Grid.Delta
	}
	return sum
}

// Stats summarizes a size distribution. Sizes are reported in microns;
// moments keep SI units.
type Stats struct {
	M0 float64 // total number, #/m³
	M1 float64 // total length, m/m³
	M2 float64 // total area basis, m²/m³
	M3 float64 // total volume basis, m³/m³

	MeanSizeMicrons   float64 // number-weighted mean, m1/m0
	StdDevMicrons     float64
	CV                float64 // coefficient of variation, dimensionless
	MedianSizeMicrons float64 // L50 from the cumulative number distribution

	// CrystalMass is the suspended crystal mass per unit volume,
	// ρ·kv·m3, in kg/m³.
	CrystalMass float64
}

// Analyze computes the summary statistics of a distribution. A degenerate
// distribution (no crystals) yields all-zero statistics rather than NaN.
func Analyze(d Distribution) Stats {
	st := Stats{
		M0: d.Moment(0),
		M1: d.Moment(1),
		M2: d.Moment(2),
		M3: d.Moment(3),
	}
	st.CrystalMass = constants.CrystalDensity * constants.ShapeFactor * st.M3

	if st.M0 <= 0 {
		return st
	}

	mean := st.M1 / st.M0
	variance := st.M2/st.M0 - mean*mean
	if variance < 0 {
		variance = 0
	}
	std := math.Sqrt(variance)

	st.MeanSizeMicrons = mean * 1e6
	st.StdDevMicrons = std * 1e6
	if mean > 0 {
		st.CV = std / mean
	}
	st.MedianSizeMicrons = median(d) * 1e6
	return st
}

// median finds L50 as the grid node whose normalized cumulative count sits
// nearest the 50th percentile. Nodes below the first populated bin are
// skipped, and ties within accumulation rounding go to the smaller size.
func median(d Distribution) float64 {
	total := d.Moment(0)
	if total <= 0 {
		return 0
	}

	const tieTol = 1e-9
	var cum float64
	best := 0
	bestDist := math.Inf(1)
	for i, n := range d.Density {
		cum += n * d.Grid.Delta
		if cum <= 0 {
			continue
		}
		if dist := math.Abs(cum/total - 0.5); dist < bestDist-tieTol {
			bestDist = dist
			best = i
		}
	}
	return d.Grid.Nodes[best]
}

// suspensionMass computes the crystal mass per slurry volume, kg/m³, from a
// raw density slice during integration.
func suspensionMass(density []float64, grid SizeGrid) float64 {
	var m3 float64
	for i, n := range density {
		l := grid.Nodes[i]
		m3 += n * l * l * l * grid.Delta
	}
	return constants.CrystalDensity * constants.ShapeFactor * m3
}
