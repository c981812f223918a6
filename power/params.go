package power

import (
	"fmt"
	"math"
)

// DefaultWindow is the trailing smoothing window applied to calculated power.
const DefaultWindow = 5

// Physics holds the physical constants of the model.
type Physics struct {
	// Gravity in m/s².
	Gravity float64 `json:"gravity"`
	// AirDensity in kg/m³. The default approximates air about a mile above
	// sea level at 30°C rather than the 1.225 kg/m³ sea level standard.
	AirDensity float64 `json:"air_density"`
	// FrontalArea of rider and bike in m².
	FrontalArea float64 `json:"frontal_area"`
	// DragCoefficient is dimensionless.
	DragCoefficient float64 `json:"drag_coefficient"`
}

// DefaultPhysics returns the constants the estimator uses unless overridden.
func DefaultPhysics() Physics {
	return Physics{
		Gravity:         9.81,
		AirDensity:      0.96,
		FrontalArea:     0.4,
		DragCoefficient: 0.76,
	}
}

func (p Physics) isZero() bool {
	return p == Physics{}
}

// FrictionModel selects how frictional power is derived from force and speed.
type FrictionModel int

const (
	// FrictionLegacy multiplies force*speed by the sampling interval. This is
	// not dimensionally power; it is kept so results match earlier releases.
	FrictionLegacy FrictionModel = iota
	// FrictionPhysical reports force*speed.
	FrictionPhysical
)

func (m FrictionModel) String() string {
	switch m {
	case FrictionLegacy:
		return "legacy"
	case FrictionPhysical:
		return "physical"
	default:
		return fmt.Sprintf("FrictionModel(%d)", int(m))
	}
}

// ParseFrictionModel maps "legacy" (or "") and "physical" to a model.
func ParseFrictionModel(s string) (FrictionModel, error) {
	switch s {
	case "", "legacy":
		return FrictionLegacy, nil
	case "physical":
		return FrictionPhysical, nil
	default:
		return 0, &InvalidParameterError{Name: "friction_model", Reason: fmt.Sprintf("unknown model %q (expected legacy|physical)", s)}
	}
}

// Params are the rider-specific inputs of one estimation.
type Params struct {
	RiderWeightKG     float64
	BikeWeightKG      float64
	RollingResistance float64

	// Physics defaults to DefaultPhysics when left zero.
	Physics Physics
	// Friction defaults to FrictionLegacy.
	Friction FrictionModel
	// Window defaults to DefaultWindow when zero.
	Window int
}

// InvalidParameterError reports a parameter outside its accepted range.
type InvalidParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid parameter %s: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("invalid parameter %s: %v (must be positive)", e.Name, e.Value)
}

// normalized fills defaults and validates every field.
func (p Params) normalized() (Params, error) {
	if p.Physics.isZero() {
		p.Physics = DefaultPhysics()
	}
	if p.Window == 0 {
		p.Window = DefaultWindow
	}

	checks := []struct {
		name  string
		value float64
	}{
		{"rider_weight", p.RiderWeightKG},
		{"bike_weight", p.BikeWeightKG},
		{"rolling_resistance_coefficient", p.RollingResistance},
		{"gravity", p.Physics.Gravity},
		{"air_density", p.Physics.AirDensity},
		{"frontal_area", p.Physics.FrontalArea},
		{"drag_coefficient", p.Physics.DragCoefficient},
	}
	for _, c := range checks {
		if !positiveFinite(c.value) {
			return p, &InvalidParameterError{Name: c.name, Value: c.value}
		}
	}
	if p.Window < 1 {
		return p, &InvalidParameterError{Name: "window", Value: float64(p.Window)}
	}
	if p.Friction != FrictionLegacy && p.Friction != FrictionPhysical {
		return p, &InvalidParameterError{Name: "friction_model", Reason: p.Friction.String()}
	}
	return p, nil
}

// SystemMass is the combined rider and bike mass in kg.
func SystemMass(p Params) float64 {
	return p.RiderWeightKG + p.BikeWeightKG
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
