package power

import (
	"fmt"
	"strings"
)

// DefaultRollingResistance applies when neither a coefficient nor a tire is given.
const DefaultRollingResistance = 0.005

// Default rider and bike masses in kg used by the command line tools.
const (
	DefaultRiderWeightKG = 70.0
	DefaultBikeWeightKG  = 10.0
)

// TirePreset maps a tire choice to a rolling resistance coefficient.
type TirePreset struct {
	Name              string
	Label             string
	RollingResistance float64
}

// TirePresets lists the supported tire choices.
var TirePresets = []TirePreset{
	{Name: "road25", Label: "Road (23-25mm, 100psi)", RollingResistance: 0.003},
	{Name: "road28", Label: "Road (28-32mm, 80psi)", RollingResistance: 0.004},
	{Name: "gravel", Label: "Gravel (35-40mm, 40psi)", RollingResistance: 0.006},
	{Name: "mtb", Label: "MTB (2.1-2.4in, 25psi)", RollingResistance: 0.010},
	{Name: "touring", Label: "Touring/Commuter", RollingResistance: 0.007},
}

// ParseTire returns the rolling resistance coefficient of a named preset.
func ParseTire(name string) (float64, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, p := range TirePresets {
		if p.Name == key {
			return p.RollingResistance, nil
		}
	}
	return 0, &InvalidParameterError{Name: "tire", Reason: fmt.Sprintf("unknown tire %q (expected %s)", name, tireNames())}
}

// ResolveRollingResistance picks the coefficient for a run. An explicit
// non-zero crr wins over the tire preset; with neither,
// DefaultRollingResistance applies.
func ResolveRollingResistance(crr float64, tire string) (float64, error) {
	if crr != 0 {
		return crr, nil
	}
	if strings.TrimSpace(tire) != "" {
		return ParseTire(tire)
	}
	return DefaultRollingResistance, nil
}

func tireNames() string {
	names := make([]string, len(TirePresets))
	for i, p := range TirePresets {
		names[i] = p.Name
	}
	return strings.Join(names, "|")
}
