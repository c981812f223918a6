package ride

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/tormoder/fit"
)

var rideStart = time.Date(2026, 5, 3, 8, 0, 0, 0, time.UTC)

func TestDecodeFITRecords(t *testing.T) {
	records := []*fit.RecordMsg{
		testRecord(0, 120.0, 5.0),
		testRecord(1, 121.0, 5.5),
		testRecord(2, 123.0, 6.0),
	}
	records[1].Power = 230
	records[1].HeartRate = 142
	records[1].Cadence = 88

	series, err := DecodeFIT(bytes.NewReader(encodeRecords(t, records)))
	if err != nil {
		t.Fatalf("DecodeFIT() error: %v", err)
	}
	if series.Len() != 3 {
		t.Fatalf("expected 3 samples, got %d", series.Len())
	}
	wantAlt := []float64{120, 121, 123}
	wantSpeed := []float64{5, 5.5, 6}
	for i := range wantAlt {
		if math.Abs(series.Altitude[i]-wantAlt[i]) > 1e-9 {
			t.Fatalf("altitude[%d]: got %v want %v", i, series.Altitude[i], wantAlt[i])
		}
		if math.Abs(series.Speed[i]-wantSpeed[i]) > 1e-9 {
			t.Fatalf("speed[%d]: got %v want %v", i, series.Speed[i], wantSpeed[i])
		}
		if !series.Timestamps[i].Equal(rideStart.Add(time.Duration(i) * time.Second)) {
			t.Fatalf("timestamp[%d]: got %v", i, series.Timestamps[i])
		}
	}
	if series.Power[1] != 230 || series.HeartRate[1] != 142 || series.Cadence[1] != 88 {
		t.Fatalf("unexpected measured values: %v %v %v", series.Power[1], series.HeartRate[1], series.Cadence[1])
	}
	if !math.IsNaN(series.Power[0]) {
		t.Fatalf("expected unset power to be null, got %v", series.Power[0])
	}
	if series.AltitudeSource == "" || series.SpeedSource == "" {
		t.Fatalf("expected altitude and speed sources, got %q %q", series.AltitudeSource, series.SpeedSource)
	}

	a := Describe(series)
	if err := a.Require(ColumnTimestamp, ColumnAltitude, ColumnSpeed); err != nil {
		t.Fatalf("Require() error: %v", err)
	}
	if a.Has(ColumnLatitude) || a.Has(ColumnTemperature) {
		t.Fatalf("unrecorded columns reported present: %v", a.Columns())
	}
}

func TestFromRecordsSortsByTimestamp(t *testing.T) {
	records := []*fit.RecordMsg{
		testRecord(2, 102, 5),
		nil,
		testRecord(0, 100, 5),
		testRecord(1, 101, 5),
	}
	series := FromRecords(records)
	if series.Len() != 3 {
		t.Fatalf("expected nil record to be skipped, got %d samples", series.Len())
	}
	for i, want := range []float64{100, 101, 102} {
		if math.Abs(series.Altitude[i]-want) > 1e-9 {
			t.Fatalf("altitude[%d]: got %v want %v", i, series.Altitude[i], want)
		}
	}
}

func TestFromRecordsPrefersEnhancedFields(t *testing.T) {
	rec := testRecord(0, 100, 5)
	rec.EnhancedAltitude = uint32((250.0 + 500) * 5)
	rec.EnhancedSpeed = 7000

	series := FromRecords([]*fit.RecordMsg{rec})
	if math.Abs(series.Altitude[0]-250) > 1e-9 {
		t.Fatalf("expected enhanced altitude 250, got %v", series.Altitude[0])
	}
	if math.Abs(series.Speed[0]-7) > 1e-9 {
		t.Fatalf("expected enhanced speed 7, got %v", series.Speed[0])
	}
	if series.AltitudeSource != "enhanced_altitude" || series.SpeedSource != "enhanced_speed" {
		t.Fatalf("unexpected sources %q %q", series.AltitudeSource, series.SpeedSource)
	}
}

func TestLoadFileByExtension(t *testing.T) {
	tmp := t.TempDir()
	fitPath := filepath.Join(tmp, "ride.fit")
	data := encodeRecords(t, []*fit.RecordMsg{testRecord(0, 100, 5), testRecord(1, 101, 5)})
	if err := os.WriteFile(fitPath, data, 0o644); err != nil {
		t.Fatalf("write fit: %v", err)
	}

	series, err := LoadFile(fitPath)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if series.Len() != 2 {
		t.Fatalf("expected 2 samples, got %d", series.Len())
	}

	for _, name := range []string{"ride.gpx", "ride.tcx"} {
		_, err := LoadFile(filepath.Join(tmp, name))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
	}
}

func TestListFiles(t *testing.T) {
	tmp := t.TempDir()
	for _, name := range []string{"b.fit", "a.fit", "c.gpx", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(tmp, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmp, "d.fit"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cases := []struct {
		filter FileFilter
		want   []string
	}{
		{FilterBoth, []string{"a.fit", "b.fit", "c.gpx"}},
		{FilterFIT, []string{"a.fit", "b.fit"}},
		{FilterGPX, []string{"c.gpx"}},
	}
	for _, tc := range cases {
		got, err := ListFiles(tmp, tc.filter)
		if err != nil {
			t.Fatalf("ListFiles(%d) error: %v", tc.filter, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ListFiles(%d): got %v want %v", tc.filter, got, tc.want)
		}
	}

	got, err := ListFiles(filepath.Join(tmp, "missing"), FilterBoth)
	if err != nil || len(got) != 0 {
		t.Fatalf("missing directory: got %v, %v", got, err)
	}
}

func testRecord(offset int, altitude, speed float64) *fit.RecordMsg {
	rec := fit.NewRecordMsg()
	rec.Timestamp = rideStart.Add(time.Duration(offset) * time.Second)
	rec.Altitude = uint16((altitude + 500) * 5)
	rec.Speed = uint16(speed * 1000)
	return rec
}

func encodeRecords(t *testing.T, records []*fit.RecordMsg) []byte {
	t.Helper()

	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeActivity, header)
	if err != nil {
		t.Fatalf("new fit file: %v", err)
	}
	activity, err := file.Activity()
	if err != nil {
		t.Fatalf("activity accessor: %v", err)
	}
	activity.Records = append(activity.Records, records...)

	var buf bytes.Buffer
	if err := fit.Encode(&buf, file, binary.LittleEndian); err != nil {
		t.Fatalf("encode fit: %v", err)
	}
	return buf.Bytes()
}
