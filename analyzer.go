package ridepower

import (
	"fmt"
	"math"
	"time"

	"github.com/lucasjlepore/ride-power/power"
	"github.com/lucasjlepore/ride-power/ride"
)

// maxWorkIntervalSeconds caps the interval credited to one sample when
// integrating work, so recording pauses do not inflate the total.
const maxWorkIntervalSeconds = 5.0

// Config controls the power model and the reported sample range.
type Config struct {
	RiderWeightKG     float64
	BikeWeightKG      float64
	RollingResistance float64
	Physics           power.Physics
	Friction          power.FrictionModel
	Window            int

	// StartIndex and EndIndex select an inclusive sample range for the
	// reported statistics. The estimate always covers the whole ride.
	// An empty or inverted range selects every sample.
	StartIndex int
	EndIndex   int
}

// Params returns the estimator parameters carried by cfg.
func (cfg Config) Params() power.Params {
	return power.Params{
		RiderWeightKG:     cfg.RiderWeightKG,
		BikeWeightKG:      cfg.BikeWeightKG,
		RollingResistance: cfg.RollingResistance,
		Physics:           cfg.Physics,
		Friction:          cfg.Friction,
		Window:            cfg.Window,
	}
}

// Analysis compares measured ride data with the physical power estimate.
type Analysis struct {
	FilePath   string        `json:"file_path,omitempty"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	RangeStart int           `json:"range_start_index"`
	RangeEnd   int           `json:"range_end_index"`
	Summary    ride.Summary  `json:"summary"`
	Metrics    []ride.Metric `json:"metrics"`
	Columns    []string      `json:"columns"`

	RiderWeightKG     float64       `json:"rider_weight_kg"`
	BikeWeightKG      float64       `json:"bike_weight_kg"`
	SystemMassKG      float64       `json:"system_mass_kg"`
	RollingResistance float64       `json:"rolling_resistance_coefficient"`
	FrictionModel     string        `json:"friction_model"`
	Physics           power.Physics `json:"physics"`

	EstimatedAvgPowerWatts float64  `json:"estimated_avg_power_watts"`
	EstimatedMaxPowerWatts float64  `json:"estimated_max_power_watts"`
	EstimatedWorkKJ        float64  `json:"estimated_work_kj"`
	AvgGravitationalWatts  float64  `json:"avg_gravitational_power_watts"`
	AvgKineticWatts        float64  `json:"avg_kinetic_power_watts"`
	AvgFrictionalWatts     float64  `json:"avg_frictional_power_watts"`
	MeasuredWorkKJ         float64  `json:"measured_work_kj,omitempty"`
	PowerDeltaPct          *float64 `json:"power_delta_pct,omitempty"`
	DegenerateIntervals    int      `json:"degenerate_intervals"`
	NullEstimateSamples    int      `json:"null_estimate_samples"`

	Notes string `json:"notes"`
}

// AnalyzeFile loads a ride file and analyzes it.
func AnalyzeFile(path string, cfg Config) (*Analysis, *power.Estimate, error) {
	series, err := ride.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	analysis, est, err := AnalyzeSeries(series, cfg)
	if err != nil {
		return nil, nil, err
	}
	analysis.FilePath = path
	return analysis, est, nil
}

// AnalyzeSeries estimates power over the whole series and reports statistics
// for the configured range. The returned estimate covers every sample.
func AnalyzeSeries(series *ride.Series, cfg Config) (*Analysis, *power.Estimate, error) {
	est, err := power.Compute(series, cfg.Params())
	if err != nil {
		return nil, nil, fmt.Errorf("estimate power: %w", err)
	}

	start, end := ride.ClampRange(series.Len(), cfg.StartIndex, cfg.EndIndex)
	view := series.Slice(start, end)
	estView := est.Slice(start, end)

	analysis := &Analysis{
		RangeStart:        start,
		RangeEnd:          end,
		Summary:           ride.Summarize(view),
		RiderWeightKG:     est.Params.RiderWeightKG,
		BikeWeightKG:      est.Params.BikeWeightKG,
		SystemMassKG:      est.SystemMassKG,
		RollingResistance: est.Params.RollingResistance,
		FrictionModel:     est.Params.Friction.String(),
		Physics:           est.Params.Physics,
	}
	analysis.Metrics = analysis.Summary.Display()
	for _, c := range ride.Describe(view).Columns() {
		analysis.Columns = append(analysis.Columns, c.String())
	}
	if view.Len() > 0 {
		analysis.StartTime = view.Timestamps[0]
		analysis.EndTime = view.Timestamps[view.Len()-1]
	}

	calc := ride.NonNull(estView.Calculated)
	analysis.NullEstimateSamples = estView.Len() - len(calc)
	if len(calc) > 0 {
		analysis.EstimatedAvgPowerWatts = ride.Mean(calc)
		analysis.EstimatedMaxPowerWatts = maxValue(calc)
	}
	analysis.AvgGravitationalWatts = ride.Mean(ride.NonNull(estView.Gravitational))
	analysis.AvgKineticWatts = ride.Mean(ride.NonNull(estView.Kinetic))
	analysis.AvgFrictionalWatts = ride.Mean(ride.NonNull(estView.Frictional))
	analysis.EstimatedWorkKJ = workKJ(view.Timestamps, estView.Calculated)
	analysis.DegenerateIntervals = len(estView.Degenerate)

	if analysis.Summary.HasPower {
		analysis.MeasuredWorkKJ = workKJ(view.Timestamps, view.Power)
		if analysis.Summary.AvgPowerWatts > 0 && len(calc) > 0 {
			delta := pctChange(analysis.Summary.AvgPowerWatts, analysis.EstimatedAvgPowerWatts)
			analysis.PowerDeltaPct = &delta
		}
	}

	analysis.Notes = BuildRideNotes(analysis)
	return analysis, est, nil
}

// workKJ integrates power over time, crediting each sample with the interval
// to the next one.
func workKJ(timestamps []time.Time, watts []float64) float64 {
	joules := 0.0
	for i := 1; i < len(timestamps) && i < len(watts); i++ {
		p := watts[i-1]
		if math.IsNaN(p) || timestamps[i-1].IsZero() || timestamps[i].IsZero() {
			continue
		}
		delta := timestamps[i].Sub(timestamps[i-1]).Seconds()
		if delta <= 0 {
			continue
		}
		if delta > maxWorkIntervalSeconds {
			delta = 1
		}
		joules += p * delta
	}
	return joules / 1000.0
}

func maxValue(values []float64) float64 {
	max := 0.0
	found := false
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !found || v > max {
			max = v
			found = true
		}
	}
	return max
}

func pctChange(start, end float64) float64 {
	if start == 0 {
		return 0
	}
	return ((end / start) - 1.0) * 100.0
}
