package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasjlepore/ride-power/pipeline"
	"github.com/lucasjlepore/ride-power/power"
)

func main() {
	var (
		fitPath   = flag.String("fit", "", "Path to input .fit file")
		outDir    = flag.String("out", "", "Output directory")
		rider     = flag.Float64("rider", power.DefaultRiderWeightKG, "Rider weight in kg")
		bike      = flag.Float64("bike", power.DefaultBikeWeightKG, "Bike weight in kg")
		crr       = flag.Float64("crr", 0, "Rolling resistance coefficient (0 = from --tire, else 0.005)")
		tire      = flag.String("tire", "", "Tire preset: road25|road28|gravel|mtb|touring")
		friction  = flag.String("friction", "legacy", "Friction model: legacy|physical")
		window    = flag.Int("window", power.DefaultWindow, "Trailing smoothing window in samples")
		start     = flag.Int("start", 0, "First sample index of the reported range")
		end       = flag.Int("end", 0, "Last sample index of the reported range (0 = last sample)")
		format    = flag.String("format", "parquet", "Power sample format: parquet|csv|csv.zst")
		overwrite = flag.Bool("overwrite", true, "Allow writing into non-empty output directories")
		verbose   = flag.Bool("v", false, "Verbose logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --fit input.fit --out outdir [--rider 70] [--bike 10] [--tire road25|road28|gravel|mtb|touring | --crr 0.005] [--friction legacy|physical] [--format parquet|csv|csv.zst]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if *end <= 0 {
		*end = math.MaxInt
	}

	if strings.TrimSpace(*fitPath) == "" || strings.TrimSpace(*outDir) == "" {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	result, err := pipeline.Run(pipeline.Options{
		ModelOptions: pipeline.ModelOptions{
			RiderWeightKG:     *rider,
			BikeWeightKG:      *bike,
			RollingResistance: *crr,
			Tire:              *tire,
			Friction:          *friction,
			Window:            *window,
			StartIndex:        *start,
			EndIndex:          *end,
		},
		FitPath:    *fitPath,
		OutDir:     *outDir,
		Format:     *format,
		Overwrite:  *overwrite,
		CopySource: true,
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ride_power failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ride_power complete\n")
	fmt.Printf("Output dir:          %s\n", result.OutputDir)
	fmt.Printf("manifest.json:       %s\n", result.ManifestPath)
	fmt.Printf("power samples:       %s\n", result.SamplesPath)
	fmt.Printf("ride analysis:       %s\n", result.AnalysisPath)
	fmt.Printf("ride notes:          %s\n", result.NotesPath)
	if result.SourceCopyPath != "" {
		fmt.Printf("source copy:         %s\n", result.SourceCopyPath)
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning:             %s\n", w)
	}
}
