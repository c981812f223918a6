// Package power estimates rider power output from altitude and speed.
//
// The model splits power into three components:
//
//	gravitational = Δ(m·g·h) / dt
//	kinetic       = Δ(½·m·v²) / dt
//	frictional    = (½·ρ·A·Cd·v² + Crr·m·g) · v
//
// and reports their sum, clipped at zero and smoothed with a trailing mean,
// as the calculated power. Wind, drivetrain losses and air density changes
// with altitude are not modelled.
package power

import (
	"math"

	"github.com/lucasjlepore/ride-power/ride"
)

// Estimate is the derived power series of one ride, index-aligned with the
// series it was computed from. Values are in watts; NaN marks a sample whose
// inputs were null.
type Estimate struct {
	Gravitational []float64
	Kinetic       []float64
	Frictional    []float64
	Calculated    []float64

	Params       Params
	SystemMassKG float64
	// Degenerate lists indices whose interval to the previous sample was
	// zero, negative or undefined. Their components are zero.
	Degenerate []int
}

// Len returns the number of samples in the estimate.
func (e *Estimate) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Calculated)
}

// Slice copies the inclusive range [start, end] after ride.ClampRange.
// It filters an existing estimate; nothing is recomputed.
func (e *Estimate) Slice(start, end int) *Estimate {
	start, end = ride.ClampRange(e.Len(), start, end)
	out := &Estimate{Params: e.Params, SystemMassKG: e.SystemMassKG}
	if end < start {
		return out
	}
	out.Gravitational = ride.SliceValues(e.Gravitational, start, end)
	out.Kinetic = ride.SliceValues(e.Kinetic, start, end)
	out.Frictional = ride.SliceValues(e.Frictional, start, end)
	out.Calculated = ride.SliceValues(e.Calculated, start, end)
	for _, idx := range e.Degenerate {
		if idx >= start && idx <= end {
			out.Degenerate = append(out.Degenerate, idx-start)
		}
	}
	return out
}

// Compute runs the power model over s. The series is read only; the result
// shares no memory with it. Parameters and required columns are validated
// before any computation, and on error no estimate is returned.
func Compute(s *ride.Series, p Params) (*Estimate, error) {
	p, err := p.normalized()
	if err != nil {
		return nil, err
	}
	if err := ride.Describe(s).Require(ride.ColumnTimestamp, ride.ColumnAltitude, ride.ColumnSpeed); err != nil {
		return nil, err
	}

	n := s.Len()
	phys := p.Physics
	mass := SystemMass(p)
	rollingForce := p.RollingResistance * mass * phys.Gravity
	dragFactor := 0.5 * phys.AirDensity * phys.FrontalArea * phys.DragCoefficient

	est := &Estimate{
		Gravitational: make([]float64, n),
		Kinetic:       make([]float64, n),
		Frictional:    make([]float64, n),
		Params:        p,
		SystemMassKG:  mass,
	}

	potential := func(i int) float64 { return mass * phys.Gravity * s.Altitude[i] }
	kinetic := func(i int) float64 { return 0.5 * mass * s.Speed[i] * s.Speed[i] }
	friction := func(i int) float64 {
		v := s.Speed[i]
		return (dragFactor*v*v + rollingForce) * v
	}

	if n > 0 && p.Friction == FrictionPhysical {
		est.Frictional[0] = friction(0)
	}
	for i := 1; i < n; i++ {
		dt, ok := interval(s, i)
		if !ok {
			est.Degenerate = append(est.Degenerate, i)
			continue
		}
		// NaN altitude or speed propagates through the arithmetic.
		est.Gravitational[i] = (potential(i) - potential(i-1)) / dt
		est.Kinetic[i] = (kinetic(i) - kinetic(i-1)) / dt
		est.Frictional[i] = friction(i)
		if p.Friction == FrictionLegacy {
			est.Frictional[i] *= dt
		}
	}

	raw := make([]float64, n)
	for i := range raw {
		raw[i] = est.Gravitational[i] + est.Kinetic[i] + est.Frictional[i]
	}
	est.Calculated = TrailingMean(ClipLower(raw, 0), p.Window)
	return est, nil
}

// interval returns the seconds between samples i-1 and i, or false when
// either timestamp is null or time did not advance.
func interval(s *ride.Series, i int) (float64, bool) {
	prev, cur := s.Timestamps[i-1], s.Timestamps[i]
	if prev.IsZero() || cur.IsZero() {
		return 0, false
	}
	dt := cur.Sub(prev).Seconds()
	if dt <= 0 {
		return 0, false
	}
	return dt, true
}

// ClipLower returns a copy of values with every value below floor replaced by floor.
// NaN values are kept.
func ClipLower(values []float64, floor float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v < floor {
			v = floor
		}
		out[i] = v
	}
	return out
}

// TrailingMean averages each value with up to window-1 preceding values.
// The window shrinks at the start of the series and NaN values are left out
// of the average; a window holding only NaN yields NaN.
func TrailingMean(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	for i := range values {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		sum, count := 0.0, 0
		for _, v := range values[lo : i+1] {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
		if count == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out
}
