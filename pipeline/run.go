package pipeline

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	ridepower "github.com/lucasjlepore/ride-power"
	"github.com/lucasjlepore/ride-power/power"
	"github.com/lucasjlepore/ride-power/ride"
)

const (
	formatParquet = "parquet"
	formatCSV     = "csv"
	formatCSVZstd = "csv.zst"

	manifestFile = "manifest.json"
	analysisFile = "ride_analysis.json"
	notesFile    = "ride_notes.md"
	sourceFile   = "source.fit"
)

var samplesHeader = []string{
	"ts_utc_iso", "elapsed_s", "record_index",
	"latitude_deg", "longitude_deg", "altitude_m", "speed_mps", "distance_m",
	"power_w", "hr_bpm", "cadence_rpm",
	"gravitational_power_w", "kinetic_power_w", "frictional_power_w", "calculated_power_w",
}

// Run executes the ride_power pipeline and writes all artifacts to opts.OutDir.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.FitPath) == "" {
		return nil, fmt.Errorf("fit path is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	data, err := os.ReadFile(opts.FitPath)
	if err != nil {
		return nil, fmt.Errorf("read fit file: %w", err)
	}

	res, err := RunBytes(BytesOptions{
		ModelOptions:   opts.ModelOptions,
		SourceFileName: filepath.Base(opts.FitPath),
		FitData:        data,
		Format:         opts.Format,
		CopySource:     opts.CopySource,
		Logger:         opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	if err := ensureOutputDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}
	for _, name := range sortedNames(res.Files) {
		path := filepath.Join(opts.OutDir, name)
		if err := os.WriteFile(path, res.Files[name], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}

	out := &Result{
		OutputDir:    opts.OutDir,
		ManifestPath: filepath.Join(opts.OutDir, manifestFile),
		SamplesPath:  filepath.Join(opts.OutDir, samplesFileName(normalizeFormat(opts.Format))),
		AnalysisPath: filepath.Join(opts.OutDir, analysisFile),
		NotesPath:    filepath.Join(opts.OutDir, notesFile),
		Warnings:     res.Warnings,
	}
	if _, ok := res.Files[sourceFile]; ok {
		out.SourceCopyPath = filepath.Join(opts.OutDir, sourceFile)
	}
	return out, nil
}

// RunBytes executes the pipeline in memory and returns the artifacts.
func RunBytes(opts BytesOptions) (*BytesResult, error) {
	if len(opts.FitData) == 0 {
		return nil, fmt.Errorf("fit data is required")
	}
	format := normalizeFormat(opts.Format)
	if format != formatParquet && format != formatCSV && format != formatCSVZstd {
		return nil, fmt.Errorf("unsupported format %q (expected parquet|csv|csv.zst)", opts.Format)
	}
	friction, err := power.ParseFrictionModel(strings.ToLower(strings.TrimSpace(opts.Friction)))
	if err != nil {
		return nil, err
	}
	crr, err := power.ResolveRollingResistance(opts.RollingResistance, opts.Tire)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sourceName := opts.SourceFileName
	if strings.TrimSpace(sourceName) == "" {
		sourceName = "input.fit"
	}

	series, err := ride.DecodeFIT(bytes.NewReader(opts.FitData))
	if err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("no record samples found")
	}
	logger.Debug("ride decoded", "source", sourceName, "samples", series.Len(),
		"altitude_source", series.AltitudeSource, "speed_source", series.SpeedSource)

	analysis, est, err := ridepower.AnalyzeSeries(series, ridepower.Config{
		RiderWeightKG:     opts.RiderWeightKG,
		BikeWeightKG:      opts.BikeWeightKG,
		RollingResistance: crr,
		Friction:          friction,
		Window:            opts.Window,
		StartIndex:        opts.StartIndex,
		EndIndex:          opts.EndIndex,
	})
	if err != nil {
		return nil, err
	}
	analysis.FilePath = sourceName
	logger.Info("power estimated",
		"samples", est.Len(),
		"range_start", analysis.RangeStart,
		"range_end", analysis.RangeEnd,
		"estimated_avg_w", math.Round(analysis.EstimatedAvgPowerWatts),
		"degenerate_intervals", len(est.Degenerate),
	)

	warnings := buildWarnings(series, analysis)
	for _, w := range warnings {
		logger.Warn(w)
	}

	samples := buildPowerSamples(series, est, analysis.RangeStart, analysis.RangeEnd)
	files := make(map[string][]byte, 5)
	samplesName := samplesFileName(format)
	switch format {
	case formatCSV:
		files[samplesName], err = marshalSamplesCSV(samples)
	case formatCSVZstd:
		var raw []byte
		raw, err = marshalSamplesCSV(samples)
		if err == nil {
			files[samplesName], err = compressZstd(raw)
		}
	case formatParquet:
		files[samplesName], err = marshalSamplesParquet(samples)
	}
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", samplesName, err)
	}

	if files[analysisFile], err = marshalJSON(analysis); err != nil {
		return nil, fmt.Errorf("write %s: %w", analysisFile, err)
	}
	files[notesFile] = []byte(analysis.Notes + "\n")
	if opts.CopySource {
		files[sourceFile] = append([]byte(nil), opts.FitData...)
	}

	sum := sha256.Sum256(opts.FitData)
	manifest := Manifest{
		FormatVersion:   ManifestFormatVersion,
		GeneratedAt:     time.Now().UTC(),
		SourceFileName:  sourceName,
		SourceSHA256:    hex.EncodeToString(sum[:]),
		SourceSizeBytes: int64(len(opts.FitData)),
		SampleCount:     series.Len(),
		RangeStart:      analysis.RangeStart,
		RangeEnd:        analysis.RangeEnd,
		SamplesFormat:   format,
		Files:           append(sortedNames(files), manifestFile),
		Warnings:        warnings,
	}
	sort.Strings(manifest.Files)
	if files[manifestFile], err = marshalJSON(manifest); err != nil {
		return nil, fmt.Errorf("write %s: %w", manifestFile, err)
	}

	return &BytesResult{
		Files:    files,
		Analysis: analysis,
		Warnings: warnings,
	}, nil
}

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return formatParquet
	}
	return format
}

func samplesFileName(format string) string {
	return "power_samples." + format
}

func buildWarnings(series *ride.Series, a *ridepower.Analysis) []string {
	var warnings []string
	if a.DegenerateIntervals > 0 {
		warnings = append(warnings, fmt.Sprintf("%d samples with zero or negative time step; power set to 0", a.DegenerateIntervals))
	}
	for _, c := range []ride.Column{ride.ColumnAltitude, ride.ColumnSpeed} {
		values := series.Values(c)
		nulls := len(values) - len(ride.NonNull(values))
		if nulls > 0 {
			warnings = append(warnings, fmt.Sprintf("%s null in %d of %d samples", c, nulls, len(values)))
		}
	}
	if !a.Summary.HasPower {
		warnings = append(warnings, "no measured power; comparison omitted")
	}
	if a.FrictionModel == power.FrictionLegacy.String() {
		warnings = append(warnings, "legacy friction model multiplies force*speed by the sample interval")
	}
	return warnings
}

func buildPowerSamples(series *ride.Series, est *power.Estimate, start, end int) []PowerSample {
	if series.Len() == 0 || end < start {
		return nil
	}
	firstTS := series.Timestamps[start]
	out := make([]PowerSample, 0, end-start+1)
	for i := start; i <= end; i++ {
		row := series.Sample(i)
		s := PowerSample{
			Timestamp:      row.Timestamp,
			RecordIndex:    i,
			ElapsedS:       math.NaN(),
			LatitudeDeg:    row.Latitude,
			LongitudeDeg:   row.Longitude,
			AltitudeM:      row.Altitude,
			SpeedMPS:       row.Speed,
			DistanceM:      row.Distance,
			PowerW:         row.Power,
			HRBPM:          row.HeartRate,
			CadenceRPM:     row.Cadence,
			GravitationalW: est.Gravitational[i],
			KineticW:       est.Kinetic[i],
			FrictionalW:    est.Frictional[i],
			CalculatedW:    est.Calculated[i],
		}
		if !row.Timestamp.IsZero() {
			s.TSUTCISO = row.Timestamp.UTC().Format(time.RFC3339)
			if !firstTS.IsZero() {
				s.ElapsedS = row.Timestamp.Sub(firstTS).Seconds()
			}
		}
		out = append(out, s)
	}
	return out
}

func marshalSamplesCSV(samples []PowerSample) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(samplesHeader); err != nil {
		return nil, err
	}
	for _, s := range samples {
		row := []string{
			s.TSUTCISO,
			formatFloat(s.ElapsedS),
			strconv.Itoa(s.RecordIndex),
			formatFloat(s.LatitudeDeg),
			formatFloat(s.LongitudeDeg),
			formatFloat(s.AltitudeM),
			formatFloat(s.SpeedMPS),
			formatFloat(s.DistanceM),
			formatFloat(s.PowerW),
			formatFloat(s.HRBPM),
			formatFloat(s.CadenceRPM),
			formatFloat(s.GravitationalW),
			formatFloat(s.KineticW),
			formatFloat(s.FrictionalW),
			formatFloat(s.CalculatedW),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalJSON(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func ensureOutputDir(path string, overwrite bool) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 && !overwrite {
		return fmt.Errorf("output directory is not empty: %s (set overwrite=true to allow)", path)
	}
	return nil
}

func sortedNames(files map[string][]byte) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// formatFloat renders NaN and infinities as empty cells.
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
