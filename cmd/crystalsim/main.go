// crystalsim simulates a batch sucrose cooling crystallization, optionally
// together with the upstream multiple-effect evaporator train and a
// techno-economic summary, from a YAML scenario file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chemproc/crystalsim/internal/log"
	"github.com/chemproc/crystalsim/pkg/cooling"
	"github.com/chemproc/crystalsim/pkg/crystallizer"
	"github.com/chemproc/crystalsim/pkg/economics"
	"github.com/chemproc/crystalsim/pkg/evaporator"
)

var version = "dev"

func main() {
	var (
		scenarioPath = flag.String("scenario", "", "YAML scenario file (defaults to the nominal batch)")
		policy       = flag.String("policy", "", "Override the cooling policy: linear, exponential or feedback")
		bins         = flag.Int("bins", 0, "Override the number of size bins")
		debug        = flag.Bool("debug", false, "Enable debug logging")
		showVersion  = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("crystalsim %s\n", version)
		return
	}

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(*scenarioPath, *policy, *bins); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(scenarioPath, policyOverride string, binsOverride int) error {
	scenario := defaultScenario()
	if scenarioPath != "" {
		var err error
		scenario, err = loadScenario(scenarioPath)
		if err != nil {
			return err
		}
		log.Infof("loaded scenario from %s", scenarioPath)
	}

	params := scenario.batchParams()
	if policyOverride != "" {
		params.Policy = cooling.Policy(policyOverride)
	}
	if binsOverride > 0 {
		params.NSizeBins = binsOverride
	}

	log.Debugf("batch parameters: %+v", params)
	log.Infof("simulating %s cooling batch, %.0f°C to %.0f°C over %.1f h",
		params.Policy, params.TStartC, params.TEndC, params.DurationHours)

	result, err := crystallizer.Solve(params)
	if err != nil {
		return fmt.Errorf("batch simulation: %w", err)
	}
	printBatch(result)

	design := crystallizer.SizeVessel(params)
	printVessel(design)

	var evapResult *evaporator.Result
	if scenario.Evaporator != nil {
		evapResult, err = evaporator.Simulate(scenario.Evaporator.input())
		if err != nil {
			return fmt.Errorf("evaporator simulation: %w", err)
		}
		printEvaporator(evapResult)
	}

	if scenario.Economics != nil {
		printEconomics(*scenario.Economics, design, evapResult)
	}

	return nil
}

func printBatch(r *crystallizer.BatchResult) {
	fmt.Println("Batch crystallization")
	fmt.Println("---------------------")
	fmt.Printf("  Final temperature:    %8.1f °C\n", r.FinalTemperatureC)
	fmt.Printf("  Final concentration:  %8.2f g/100g\n", r.FinalConcentration)
	fmt.Printf("  Yield:                %8.2f %%\n", r.YieldPercent)
	fmt.Printf("  Median size (L50):    %8.1f μm\n", r.Distribution.MedianSizeMicrons)
	fmt.Printf("  Mean size:            %8.1f μm\n", r.Distribution.MeanSizeMicrons)
	fmt.Printf("  Size CV:              %8.3f\n", r.Distribution.CV)
	fmt.Printf("  Slurry density:       %8.3f kg/m³\n", r.Distribution.CrystalMass)
	fmt.Printf("  Crystal mass:         %8.2f kg\n", r.TotalCrystalMass)
	fmt.Printf("  Integrator steps:     %8d (%d rejected)\n",
		r.Integrator.Steps, r.Integrator.Rejected)
	fmt.Println()
}

func printVessel(d crystallizer.VesselDesign) {
	fmt.Println("Vessel design")
	fmt.Println("-------------")
	fmt.Printf("  Total volume:         %8.1f m³\n", d.TotalVolume)
	fmt.Printf("  Diameter x height:    %8.2f x %.2f m\n", d.Diameter, d.Height)
	fmt.Printf("  Cooling duty:         %8.1f kW\n", d.CoolingDuty/1000)
	fmt.Printf("  Coil area:            %8.1f m²\n", d.CoolingArea)
	fmt.Printf("  Agitator power:       %8.1f kW\n", d.AgitatorPower/1000)
	fmt.Println()
}

func printEvaporator(r *evaporator.Result) {
	fmt.Println("Evaporator train")
	fmt.Println("----------------")
	for _, e := range r.Effects {
		fmt.Printf("  Effect %d: %7.0f kg/h vapor at %6.1f kPa, %5.1f%% out, %6.1f m²\n",
			e.Number, e.VaporRate, e.Pressure/1000, e.Concentration, e.ExchangeArea)
	}
	fmt.Printf("  Total evaporation:    %8.0f kg/h\n", r.TotalEvaporation)
	fmt.Printf("  Steam consumption:    %8.0f kg/h\n", r.SteamConsumption)
	fmt.Printf("  Steam economy:        %8.2f kg/kg\n", r.SteamEconomy)
	fmt.Println()
}

func printEconomics(section EconomicsSection, design crystallizer.VesselDesign, evap *evaporator.Result) {
	var evapAreas []float64
	var steamKgH float64
	if evap != nil {
		for _, e := range evap.Effects {
			evapAreas = append(evapAreas, e.ExchangeArea)
		}
		steamKgH = evap.SteamConsumption
	}

	capex := economics.CapitalCost(evapAreas, design.TotalVolume, []float64{design.CoolingArea})
	opex := economics.OperatingCost(economics.Utilities{
		SteamKgPerHour: steamKgH,
		ElectricalKW:   design.AgitatorPower / 1000,
	})

	fmt.Println("Economics")
	fmt.Println("---------")
	fmt.Printf("  Capital cost:         %10.0f MAD\n", capex.Total)
	fmt.Printf("  Operating cost:       %10.0f MAD/yr\n", opex.Total)

	if section.AnnualTonnes > 0 && section.ProductPricePerTonne > 0 {
		roi := economics.ROI(capex.Total, opex.Total, section.AnnualTonnes, section.ProductPricePerTonne)
		fmt.Printf("  Annual profit:        %10.0f MAD/yr\n", roi.AnnualProfit)
		fmt.Printf("  Payback:              %10.1f years\n", roi.PaybackYears)
	}
	if section.PlantLifeYears > 0 {
		tca := economics.AnnualizedCost(capex.Total, opex.Total, section.PlantLifeYears, section.DiscountRate)
		fmt.Printf("  Annualized cost:      %10.0f MAD/yr\n", tca)
	}
	fmt.Println()
}
