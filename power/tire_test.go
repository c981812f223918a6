package power

import (
	"errors"
	"testing"
)

func TestParseTire(t *testing.T) {
	cases := map[string]float64{
		"road25":  0.003,
		"road28":  0.004,
		"gravel":  0.006,
		" MTB ":   0.010,
		"touring": 0.007,
	}
	for name, want := range cases {
		got, err := ParseTire(name)
		if err != nil {
			t.Fatalf("ParseTire(%q) error: %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseTire(%q) = %v, want %v", name, got, want)
		}
	}

	_, err := ParseTire("tubular")
	var perr *InvalidParameterError
	if !errors.As(err, &perr) || perr.Name != "tire" {
		t.Fatalf("expected tire parameter error, got %v", err)
	}
}

func TestResolveRollingResistance(t *testing.T) {
	cases := []struct {
		name string
		crr  float64
		tire string
		want float64
	}{
		{"explicit coefficient wins", 0.008, "road25", 0.008},
		{"tire fills coefficient", 0, "gravel", 0.006},
		{"default", 0, "", DefaultRollingResistance},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveRollingResistance(tc.crr, tc.tire)
			if err != nil {
				t.Fatalf("ResolveRollingResistance() error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ResolveRollingResistance(%v, %q) = %v, want %v", tc.crr, tc.tire, got, tc.want)
			}
		})
	}

	if _, err := ResolveRollingResistance(0, "slick"); err == nil {
		t.Fatal("expected error for unknown tire")
	}
}
