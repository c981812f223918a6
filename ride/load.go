package ride

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tormoder/fit"
)

const (
	sourceAltitude         = "altitude"
	sourceEnhancedAltitude = "enhanced_altitude"
	sourceSpeed            = "speed"
	sourceEnhancedSpeed    = "enhanced_speed"

	semicirclesToDegrees = 180.0 / (1 << 31)
)

// FileFilter selects ride file extensions for ListFiles.
type FileFilter int

const (
	FilterBoth FileFilter = iota
	FilterFIT
	FilterGPX
)

func (f FileFilter) extensions() []string {
	switch f {
	case FilterFIT:
		return []string{".fit"}
	case FilterGPX:
		return []string{".gpx"}
	default:
		return []string{".fit", ".gpx"}
	}
}

// ListFiles returns the sorted names of ride files directly inside dir.
// A missing directory yields no files and no error.
func ListFiles(dir string, filter FileFilter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ride directory: %w", err)
	}
	exts := filter.extensions()
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		for _, ext := range exts {
			if strings.HasSuffix(name, ext) {
				files = append(files, name)
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// LoadFile reads a ride file, choosing the decoder by extension.
func LoadFile(path string) (*Series, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".fit":
	case ".gpx":
		return nil, fmt.Errorf("gpx loading is not implemented: %w", ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read FIT file: %w", err)
	}
	return DecodeFIT(bytes.NewReader(data))
}

// DecodeFIT decodes an activity FIT stream into a series.
func DecodeFIT(r io.Reader) (*Series, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}
	return FromRecords(activity.Records), nil
}

// FromRecords converts FIT record messages into a series ordered by timestamp.
// Records sharing a timestamp keep their file order.
func FromRecords(records []*fit.RecordMsg) *Series {
	rows := make([]*fit.RecordMsg, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		rows = append(rows, rec)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return validTimeOrZero(rows[i].Timestamp).Before(validTimeOrZero(rows[j].Timestamp))
	})

	samples := make([]Sample, 0, len(rows))
	altSource, speedSource := "", ""
	for _, rec := range rows {
		s := NewSample(validTimeOrZero(rec.Timestamp))
		s.Latitude, s.Longitude = extractPosition(rec)

		alt, src := extractAltitude(rec)
		s.Altitude = alt
		altSource = preferSource(altSource, src, sourceEnhancedAltitude)

		speed, src := extractSpeed(rec)
		s.Speed = speed
		speedSource = preferSource(speedSource, src, sourceEnhancedSpeed)

		s.Power = extractPower(rec)
		s.HeartRate = extractHeartRate(rec)
		s.Cadence = extractCadence(rec)
		s.Distance = finiteOrNaN(rec.GetDistanceScaled())
		s.Grade = finiteOrNaN(rec.GetGradeScaled())
		if rec.Temperature != math.MaxInt8 {
			s.Temperature = float64(rec.Temperature)
		}
		if rec.GpsAccuracy != math.MaxUint8 {
			s.GPSAccuracy = float64(rec.GpsAccuracy)
		}
		samples = append(samples, s)
	}

	series := FromSamples(samples)
	series.AltitudeSource = altSource
	series.SpeedSource = speedSource
	return series
}

// preferSource keeps the enhanced tag once any record used the enhanced field.
func preferSource(current, next, enhanced string) string {
	if next == "" || current == enhanced {
		return current
	}
	return next
}

func extractPosition(rec *fit.RecordMsg) (float64, float64) {
	lat, lon := math.NaN(), math.NaN()
	if !rec.PositionLat.Invalid() {
		lat = float64(rec.PositionLat.Semicircles()) * semicirclesToDegrees
	}
	if !rec.PositionLong.Invalid() {
		lon = float64(rec.PositionLong.Semicircles()) * semicirclesToDegrees
	}
	return lat, lon
}

func extractAltitude(rec *fit.RecordMsg) (float64, string) {
	alt := rec.GetEnhancedAltitudeScaled()
	if isFinite(alt) {
		return alt, sourceEnhancedAltitude
	}
	alt = rec.GetAltitudeScaled()
	if isFinite(alt) {
		return alt, sourceAltitude
	}
	return math.NaN(), ""
}

func extractSpeed(rec *fit.RecordMsg) (float64, string) {
	speed := rec.GetEnhancedSpeedScaled()
	if isFinite(speed) && speed >= 0 {
		return speed, sourceEnhancedSpeed
	}
	speed = rec.GetSpeedScaled()
	if isFinite(speed) && speed >= 0 {
		return speed, sourceSpeed
	}
	return math.NaN(), ""
}

func extractPower(rec *fit.RecordMsg) float64 {
	if rec.Power == math.MaxUint16 {
		return math.NaN()
	}
	return float64(rec.Power)
}

func extractHeartRate(rec *fit.RecordMsg) float64 {
	if rec.HeartRate == math.MaxUint8 {
		return math.NaN()
	}
	return float64(rec.HeartRate)
}

func extractCadence(rec *fit.RecordMsg) float64 {
	if rec.Cadence == math.MaxUint8 {
		return math.NaN()
	}
	return float64(rec.Cadence)
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func finiteOrNaN(v float64) float64 {
	if !isFinite(v) {
		return math.NaN()
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
