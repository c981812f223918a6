package ride

import (
	"math"
	"time"
)

// Column names one recorded channel of a ride.
type Column int

const (
	ColumnTimestamp Column = iota
	ColumnLatitude
	ColumnLongitude
	ColumnAltitude
	ColumnPower
	ColumnHeartRate
	ColumnCadence
	ColumnSpeed
	ColumnDistance
	ColumnTemperature
	ColumnGrade
	ColumnGPSAccuracy

	numColumns
)

var columnNames = [numColumns]string{
	ColumnTimestamp:   "timestamp",
	ColumnLatitude:    "position_lat",
	ColumnLongitude:   "position_long",
	ColumnAltitude:    "altitude",
	ColumnPower:       "power",
	ColumnHeartRate:   "heart_rate",
	ColumnCadence:     "cadence",
	ColumnSpeed:       "speed",
	ColumnDistance:    "distance",
	ColumnTemperature: "temperature",
	ColumnGrade:       "grade",
	ColumnGPSAccuracy: "gps_accuracy",
}

func (c Column) String() string {
	if c < 0 || c >= numColumns {
		return "unknown"
	}
	return columnNames[c]
}

// Sample is one row of a ride. Null values are NaN; a null timestamp is the zero time.
type Sample struct {
	Timestamp   time.Time
	Latitude    float64
	Longitude   float64
	Altitude    float64
	Power       float64
	HeartRate   float64
	Cadence     float64
	Speed       float64
	Distance    float64
	Temperature float64
	Grade       float64
	GPSAccuracy float64
}

// NewSample returns a sample with every value null.
func NewSample(ts time.Time) Sample {
	nan := math.NaN()
	return Sample{
		Timestamp:   ts,
		Latitude:    nan,
		Longitude:   nan,
		Altitude:    nan,
		Power:       nan,
		HeartRate:   nan,
		Cadence:     nan,
		Speed:       nan,
		Distance:    nan,
		Temperature: nan,
		Grade:       nan,
		GPSAccuracy: nan,
	}
}

// Series is a column-oriented ride time series ordered by timestamp.
// All loaded columns have the same length; a nil column was not recorded.
// Indices are stable and are used to address ranges of the ride.
type Series struct {
	Timestamps  []time.Time
	Latitude    []float64
	Longitude   []float64
	Altitude    []float64
	Power       []float64
	HeartRate   []float64
	Cadence     []float64
	Speed       []float64
	Distance    []float64
	Temperature []float64
	Grade       []float64
	GPSAccuracy []float64

	// AltitudeSource and SpeedSource record which FIT field filled the column.
	AltitudeSource string
	SpeedSource    string
}

// Len returns the number of samples.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Timestamps)
}

// Values returns the backing slice of a numeric column, or nil for the timestamp column.
func (s *Series) Values(c Column) []float64 {
	if s == nil {
		return nil
	}
	switch c {
	case ColumnLatitude:
		return s.Latitude
	case ColumnLongitude:
		return s.Longitude
	case ColumnAltitude:
		return s.Altitude
	case ColumnPower:
		return s.Power
	case ColumnHeartRate:
		return s.HeartRate
	case ColumnCadence:
		return s.Cadence
	case ColumnSpeed:
		return s.Speed
	case ColumnDistance:
		return s.Distance
	case ColumnTemperature:
		return s.Temperature
	case ColumnGrade:
		return s.Grade
	case ColumnGPSAccuracy:
		return s.GPSAccuracy
	default:
		return nil
	}
}

// Sample returns row i. Columns that were not loaded read as NaN.
func (s *Series) Sample(i int) Sample {
	out := NewSample(s.Timestamps[i])
	out.Latitude = at(s.Latitude, i)
	out.Longitude = at(s.Longitude, i)
	out.Altitude = at(s.Altitude, i)
	out.Power = at(s.Power, i)
	out.HeartRate = at(s.HeartRate, i)
	out.Cadence = at(s.Cadence, i)
	out.Speed = at(s.Speed, i)
	out.Distance = at(s.Distance, i)
	out.Temperature = at(s.Temperature, i)
	out.Grade = at(s.Grade, i)
	out.GPSAccuracy = at(s.GPSAccuracy, i)
	return out
}

// FromSamples builds a series from rows in the given order. Every numeric
// column is loaded; the caller decides ordering.
func FromSamples(samples []Sample) *Series {
	n := len(samples)
	s := &Series{
		Timestamps:  make([]time.Time, n),
		Latitude:    make([]float64, n),
		Longitude:   make([]float64, n),
		Altitude:    make([]float64, n),
		Power:       make([]float64, n),
		HeartRate:   make([]float64, n),
		Cadence:     make([]float64, n),
		Speed:       make([]float64, n),
		Distance:    make([]float64, n),
		Temperature: make([]float64, n),
		Grade:       make([]float64, n),
		GPSAccuracy: make([]float64, n),
	}
	for i, r := range samples {
		s.Timestamps[i] = r.Timestamp
		s.Latitude[i] = r.Latitude
		s.Longitude[i] = r.Longitude
		s.Altitude[i] = r.Altitude
		s.Power[i] = r.Power
		s.HeartRate[i] = r.HeartRate
		s.Cadence[i] = r.Cadence
		s.Speed[i] = r.Speed
		s.Distance[i] = r.Distance
		s.Temperature[i] = r.Temperature
		s.Grade[i] = r.Grade
		s.GPSAccuracy[i] = r.GPSAccuracy
	}
	return s
}

// ClampRange clamps an inclusive index range to a series of n samples.
// When the clamped range is empty or inverted the whole series is selected.
func ClampRange(n, start, end int) (int, int) {
	if n <= 0 {
		return 0, -1
	}
	if start < 0 {
		start = 0
	}
	if end > n-1 {
		end = n - 1
	}
	if start >= end {
		return 0, n - 1
	}
	return start, end
}

// Slice returns a copy of the inclusive range [start, end] after ClampRange.
func (s *Series) Slice(start, end int) *Series {
	start, end = ClampRange(s.Len(), start, end)
	out := &Series{
		AltitudeSource: s.AltitudeSource,
		SpeedSource:    s.SpeedSource,
	}
	if end < start {
		return out
	}
	out.Timestamps = append([]time.Time(nil), s.Timestamps[start:end+1]...)
	out.Latitude = SliceValues(s.Latitude, start, end)
	out.Longitude = SliceValues(s.Longitude, start, end)
	out.Altitude = SliceValues(s.Altitude, start, end)
	out.Power = SliceValues(s.Power, start, end)
	out.HeartRate = SliceValues(s.HeartRate, start, end)
	out.Cadence = SliceValues(s.Cadence, start, end)
	out.Speed = SliceValues(s.Speed, start, end)
	out.Distance = SliceValues(s.Distance, start, end)
	out.Temperature = SliceValues(s.Temperature, start, end)
	out.Grade = SliceValues(s.Grade, start, end)
	out.GPSAccuracy = SliceValues(s.GPSAccuracy, start, end)
	return out
}

// SliceValues copies values[start:end+1]; a nil column stays nil.
func SliceValues(values []float64, start, end int) []float64 {
	if values == nil {
		return nil
	}
	return append([]float64(nil), values[start:end+1]...)
}

// IsNull reports whether v is a missing value.
func IsNull(v float64) bool {
	return math.IsNaN(v)
}

func at(values []float64, i int) float64 {
	if i < 0 || i >= len(values) {
		return math.NaN()
	}
	return values[i]
}
