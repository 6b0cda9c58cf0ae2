package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chemproc/crystalsim/pkg/cooling"
	"github.com/chemproc/crystalsim/pkg/crystallizer"
	"github.com/chemproc/crystalsim/pkg/evaporator"
)

// Scenario is the YAML description of a simulation campaign. Only the batch
// section is required; the evaporator and economics sections enable the
// corresponding reports when present.
type Scenario struct {
	Batch      BatchSection       `yaml:"batch"`
	Evaporator *EvaporatorSection `yaml:"evaporator,omitempty"`
	Economics  *EconomicsSection  `yaml:"economics,omitempty"`
}

type BatchSection struct {
	StartTempC           float64 `yaml:"start_temp_c"`
	EndTempC             float64 `yaml:"end_temp_c"`
	InitialConcentration float64 `yaml:"initial_concentration"`
	VesselVolumeM3       float64 `yaml:"vessel_volume_m3"`
	DurationHours        float64 `yaml:"duration_hours"`
	CoolingPolicy        string  `yaml:"cooling_policy"`
	SizeBins             int     `yaml:"size_bins"`
	TargetSupersat       float64 `yaml:"target_supersaturation"`
}

type EvaporatorSection struct {
	Effects              int     `yaml:"effects"`
	FeedRateKgH          float64 `yaml:"feed_rate_kg_h"`
	FeedConcentration    float64 `yaml:"feed_concentration"`
	ProductConcentration float64 `yaml:"product_concentration"`
	FeedTempC            float64 `yaml:"feed_temp_c"`
	SteamPressurePa      float64 `yaml:"steam_pressure_pa"`
	CondenserPressurePa  float64 `yaml:"condenser_pressure_pa"`
}

type EconomicsSection struct {
	ProductPricePerTonne float64 `yaml:"product_price_mad_per_tonne"`
	AnnualTonnes         float64 `yaml:"annual_production_tonnes"`
	PlantLifeYears       int     `yaml:"plant_life_years"`
	DiscountRate         float64 `yaml:"discount_rate"`
}

// defaultScenario is the nominal sugar batch used when no file is given.
func defaultScenario() Scenario {
	return Scenario{
		Batch: BatchSection{
			StartTempC:           70,
			EndTempC:             30,
			InitialConcentration: 78,
			VesselVolumeM3:       10,
			DurationHours:        4,
			CoolingPolicy:        string(cooling.Linear),
			SizeBins:             50,
		},
	}
}

// loadScenario reads and parses a scenario file.
func loadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading scenario: %w", err)
	}

	s := defaultScenario()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parsing scenario: %w", err)
	}
	return s, nil
}

func (s Scenario) batchParams() crystallizer.BatchParams {
	return crystallizer.BatchParams{
		TStartC:               s.Batch.StartTempC,
		TEndC:                 s.Batch.EndTempC,
		InitialConcentration:  s.Batch.InitialConcentration,
		VesselVolume:          s.Batch.VesselVolumeM3,
		DurationHours:         s.Batch.DurationHours,
		Policy:                cooling.Policy(s.Batch.CoolingPolicy),
		NSizeBins:             s.Batch.SizeBins,
		TargetSupersaturation: s.Batch.TargetSupersat,
	}
}

func (e EvaporatorSection) input() evaporator.Input {
	return evaporator.Input{
		Effects:              e.Effects,
		FeedRate:             e.FeedRateKgH,
		FeedConcentration:    e.FeedConcentration,
		ProductConcentration: e.ProductConcentration,
		FeedTemperatureC:     e.FeedTempC,
		SteamPressure:        e.SteamPressurePa,
		CondenserPressure:    e.CondenserPressurePa,
	}
}
