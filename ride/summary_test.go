package ride

import (
	"math"
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	samples := []Sample{
		NewSample(rideStart),
		NewSample(rideStart.Add(30 * time.Second)),
		NewSample(rideStart.Add(90 * time.Second)),
		NewSample(rideStart.Add(3725 * time.Second)),
	}
	alts := []float64{100, 110, 105, math.NaN()}
	speeds := []float64{4, 6, 8, 10}
	powers := []float64{200, math.NaN(), 300, 250}
	for i := range samples {
		samples[i].Altitude = alts[i]
		samples[i].Speed = speeds[i]
		samples[i].Power = powers[i]
		samples[i].Distance = float64(i) * 5000
	}

	sum := Summarize(FromSamples(samples))
	if sum.Samples != 4 || sum.ElapsedSeconds != 3725 {
		t.Fatalf("unexpected samples/elapsed: %d %v", sum.Samples, sum.ElapsedSeconds)
	}
	if sum.DistanceMeters != 15000 || !sum.HasDistance {
		t.Fatalf("unexpected distance %v", sum.DistanceMeters)
	}
	if sum.AvgSpeedMps != 7 || sum.MaxSpeedMps != 10 {
		t.Fatalf("unexpected speed %v / %v", sum.AvgSpeedMps, sum.MaxSpeedMps)
	}
	if sum.AvgPowerWatts != 250 || sum.MaxPowerWatts != 300 {
		t.Fatalf("null power should be skipped: %v / %v", sum.AvgPowerWatts, sum.MaxPowerWatts)
	}
	if sum.ElevationGainM != 10 || sum.ElevationLossM != 5 {
		t.Fatalf("unexpected elevation %v / %v", sum.ElevationGainM, sum.ElevationLossM)
	}
	if sum.HasHeartRate || sum.HasCadence {
		t.Fatal("null columns reported available")
	}

	metrics := sum.Display()
	want := []Metric{
		{Label: "Total Time", Value: "1hr 2min 5sec"},
		{Label: "Total Distance", Value: "15.00 km"},
		{Label: "Average Speed", Value: "25.2 km/h"},
		{Label: "Average Power", Value: "250 W"},
	}
	if len(metrics) != len(want) {
		t.Fatalf("expected %d metrics, got %d", len(want), len(metrics))
	}
	for i := range want {
		if metrics[i] != want[i] {
			t.Fatalf("metric %d: got %+v want %+v", i, metrics[i], want[i])
		}
	}
}

func TestDisplayMarksMissingValues(t *testing.T) {
	metrics := Summarize(&Series{}).Display()
	for _, m := range metrics {
		if m.Value != "-" {
			t.Fatalf("%s: expected \"-\", got %q", m.Label, m.Value)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		0:      "0sec",
		59:     "59sec",
		60:     "1min 0sec",
		61.9:   "1min 1sec",
		3600:   "1hr 0min 0sec",
		7384.5: "2hr 3min 4sec",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestMeanAndNonNull(t *testing.T) {
	values := []float64{1, math.NaN(), 3}
	nn := NonNull(values)
	if len(nn) != 2 || Mean(nn) != 2 {
		t.Fatalf("unexpected NonNull/Mean: %v %v", nn, Mean(nn))
	}
	if Mean(nil) != 0 {
		t.Fatal("mean of empty slice should be 0")
	}
}
