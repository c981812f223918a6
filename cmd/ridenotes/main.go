package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	ridepower "github.com/lucasjlepore/ride-power"
	"github.com/lucasjlepore/ride-power/power"
	"github.com/lucasjlepore/ride-power/ride"
)

func main() {
	var (
		rider    = flag.Float64("rider", power.DefaultRiderWeightKG, "Rider weight in kg")
		bike     = flag.Float64("bike", power.DefaultBikeWeightKG, "Bike weight in kg")
		crr      = flag.Float64("crr", 0, "Rolling resistance coefficient (0 = from -tire, else 0.005)")
		tire     = flag.String("tire", "", "Tire preset: road25|road28|gravel|mtb|touring")
		friction = flag.String("friction", "legacy", "Friction model: legacy|physical")
		window   = flag.Int("window", power.DefaultWindow, "Trailing smoothing window in samples")
		start    = flag.Int("start", 0, "First sample index to summarize")
		end      = flag.Int("end", 0, "Last sample index to summarize (0 = last sample)")
		jsonOut  = flag.Bool("json", false, "Emit full analysis as JSON")
		list     = flag.Bool("list", false, "Treat the argument as a directory and list its ride files")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <path-to-fit-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *end <= 0 {
		*end = math.MaxInt
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if *list {
		files, err := ride.ListFiles(flag.Arg(0), ride.FilterBoth)
		if err != nil {
			fmt.Fprintf(os.Stderr, "list failed: %v\n", err)
			os.Exit(1)
		}
		for _, name := range files {
			fmt.Println(name)
		}
		return
	}

	model, err := power.ParseFrictionModel(*friction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	rollingResistance, err := power.ResolveRollingResistance(*crr, *tire)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	filePath := flag.Arg(0)
	analysis, _, err := ridepower.AnalyzeFile(filePath, ridepower.Config{
		RiderWeightKG:     *rider,
		BikeWeightKG:      *bike,
		RollingResistance: rollingResistance,
		Friction:          model,
		Window:            *window,
		StartIndex:        *start,
		EndIndex:          *end,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			fmt.Fprintf(os.Stderr, "json encode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(analysis.Notes)
}
