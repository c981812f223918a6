package ride

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

const mpsToKmh = 3.6

// Summary holds descriptive ride statistics that need no physical model.
// Zero values mean unavailable; the Has* flags disambiguate.
type Summary struct {
	Samples        int     `json:"samples"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	DistanceMeters float64 `json:"distance_meters"`
	AvgSpeedMps    float64 `json:"avg_speed_mps"`
	MaxSpeedMps    float64 `json:"max_speed_mps"`
	AvgPowerWatts  float64 `json:"avg_power_watts"`
	MaxPowerWatts  float64 `json:"max_power_watts"`
	AvgHeartRate   float64 `json:"avg_heart_rate_bpm"`
	MaxHeartRate   float64 `json:"max_heart_rate_bpm"`
	AvgCadence     float64 `json:"avg_cadence_rpm"`
	ElevationGainM float64 `json:"elevation_gain_m"`
	ElevationLossM float64 `json:"elevation_loss_m"`
	HasElapsed     bool    `json:"has_elapsed"`
	HasDistance    bool    `json:"has_distance"`
	HasSpeed       bool    `json:"has_speed"`
	HasPower       bool    `json:"has_power"`
	HasHeartRate   bool    `json:"has_heart_rate"`
	HasCadence     bool    `json:"has_cadence"`
	HasElevation   bool    `json:"has_elevation"`
	AltitudeSource string  `json:"altitude_source,omitempty"`
	SpeedSource    string  `json:"speed_source,omitempty"`
}

// Metric is one labelled display value.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summarize computes ride statistics over every sample of s.
func Summarize(s *Series) Summary {
	sum := Summary{Samples: s.Len()}
	if s.Len() == 0 {
		return sum
	}
	sum.AltitudeSource = s.AltitudeSource
	sum.SpeedSource = s.SpeedSource

	first, last := s.Timestamps[0], s.Timestamps[s.Len()-1]
	if !first.IsZero() && !last.IsZero() {
		sum.ElapsedSeconds = last.Sub(first).Seconds()
		sum.HasElapsed = true
	}

	if d := NonNull(s.Distance); len(d) > 0 {
		sum.DistanceMeters = floats.Max(d)
		sum.HasDistance = true
	}
	if v := NonNull(s.Speed); len(v) > 0 {
		sum.AvgSpeedMps = Mean(v)
		sum.MaxSpeedMps = floats.Max(v)
		sum.HasSpeed = true
	}
	if p := NonNull(s.Power); len(p) > 0 {
		sum.AvgPowerWatts = Mean(p)
		sum.MaxPowerWatts = floats.Max(p)
		sum.HasPower = true
	}
	if hr := NonNull(s.HeartRate); len(hr) > 0 {
		sum.AvgHeartRate = Mean(hr)
		sum.MaxHeartRate = floats.Max(hr)
		sum.HasHeartRate = true
	}
	if cad := NonNull(s.Cadence); len(cad) > 0 {
		sum.AvgCadence = Mean(cad)
		sum.HasCadence = true
	}
	if alt := NonNull(s.Altitude); len(alt) > 1 {
		for i := 1; i < len(alt); i++ {
			delta := alt[i] - alt[i-1]
			if delta > 0 {
				sum.ElevationGainM += delta
			} else {
				sum.ElevationLossM -= delta
			}
		}
		sum.HasElevation = true
	}
	return sum
}

// Display renders the headline ride metrics, "-" marking unavailable values.
func (s Summary) Display() []Metric {
	out := []Metric{
		{Label: "Total Time", Value: "-"},
		{Label: "Total Distance", Value: "-"},
		{Label: "Average Speed", Value: "-"},
		{Label: "Average Power", Value: "-"},
	}
	if s.HasElapsed {
		out[0].Value = FormatDuration(s.ElapsedSeconds)
	}
	if s.HasDistance {
		out[1].Value = fmt.Sprintf("%.2f km", s.DistanceMeters/1000)
	}
	if s.HasSpeed {
		out[2].Value = fmt.Sprintf("%.1f km/h", s.AvgSpeedMps*mpsToKmh)
	}
	if s.HasPower {
		out[3].Value = fmt.Sprintf("%.0f W", s.AvgPowerWatts)
	}
	return out
}

// FormatDuration renders whole seconds as "1hr 2min 3sec", dropping empty leading units.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dhr %dmin %dsec", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dmin %dsec", minutes, secs)
	default:
		return fmt.Sprintf("%dsec", secs)
	}
}

// NonNull returns the non-NaN values of a column in order.
func NonNull(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !IsNull(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean is the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values) / float64(len(values))
}
