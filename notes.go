package ridepower

import (
	"fmt"
	"math"
	"strings"
)

// BuildRideNotes renders an analysis as a plain-text report.
func BuildRideNotes(a *Analysis) string {
	if a == nil {
		return ""
	}

	var b strings.Builder

	if !a.StartTime.IsZero() {
		fmt.Fprintf(&b, "Ride: %s\n", a.StartTime.Format("2006-01-02 15:04:05"))
	}
	for _, m := range a.Metrics {
		fmt.Fprintf(&b, "%s: %s\n", m.Label, m.Value)
	}
	fmt.Fprintf(&b, "Samples %d-%d | Columns: %s\n", a.RangeStart, a.RangeEnd, strings.Join(a.Columns, ", "))
	if a.Summary.HasElevation {
		fmt.Fprintf(&b, "Elevation +%.0f/-%.0f m", a.Summary.ElevationGainM, a.Summary.ElevationLossM)
		if a.Summary.AltitudeSource != "" {
			fmt.Fprintf(&b, " (%s)", a.Summary.AltitudeSource)
		}
		b.WriteByte('\n')
	}
	if a.Summary.HasHeartRate || a.Summary.HasCadence {
		fmt.Fprintf(
			&b,
			"HR %.0f avg / %.0f max bpm | Cadence %.0f avg rpm\n",
			a.Summary.AvgHeartRate,
			a.Summary.MaxHeartRate,
			a.Summary.AvgCadence,
		)
	}

	b.WriteString("\nPower Model\n")
	fmt.Fprintf(
		&b,
		"- Mass %.1f kg (rider %.1f + bike %.1f) | Crr %.4f | friction %s\n",
		a.SystemMassKG,
		a.RiderWeightKG,
		a.BikeWeightKG,
		a.RollingResistance,
		a.FrictionModel,
	)
	fmt.Fprintf(
		&b,
		"- g %.2f m/s² | air %.3f kg/m³ | area %.2f m² | Cd %.2f\n",
		a.Physics.Gravity,
		a.Physics.AirDensity,
		a.Physics.FrontalArea,
		a.Physics.DragCoefficient,
	)

	b.WriteString("\nEstimated Power\n")
	fmt.Fprintf(
		&b,
		"- Calculated %.0f avg / %.0f max W | Work %.0f kJ\n",
		a.EstimatedAvgPowerWatts,
		a.EstimatedMaxPowerWatts,
		a.EstimatedWorkKJ,
	)
	fmt.Fprintf(
		&b,
		"- Components: gravitational %+.0f W, kinetic %+.0f W, frictional %.0f W (averages)\n",
		a.AvgGravitationalWatts,
		a.AvgKineticWatts,
		a.AvgFrictionalWatts,
	)
	if a.Summary.HasPower {
		fmt.Fprintf(
			&b,
			"- Measured %.0f avg / %.0f max W | Work %.0f kJ\n",
			a.Summary.AvgPowerWatts,
			a.Summary.MaxPowerWatts,
			a.MeasuredWorkKJ,
		)
	} else {
		b.WriteString("- No power meter data recorded; the estimate cannot be compared.\n")
	}
	if a.PowerDeltaPct != nil {
		fmt.Fprintf(&b, "- Estimate vs measured: %+.1f%%\n", *a.PowerDeltaPct)
	}

	if a.DegenerateIntervals > 0 || a.NullEstimateSamples > 0 {
		b.WriteString("\nData Quality\n")
		if a.DegenerateIntervals > 0 {
			fmt.Fprintf(&b, "- %d samples share or precede the previous timestamp; their power was set to zero.\n", a.DegenerateIntervals)
		}
		if a.NullEstimateSamples > 0 {
			fmt.Fprintf(&b, "- %d samples have no estimate because altitude or speed was missing.\n", a.NullEstimateSamples)
		}
	}

	b.WriteString("\nAssessment\n- ")
	b.WriteString(modelAssessment(a))
	b.WriteByte('\n')

	return strings.TrimSpace(b.String())
}

func modelAssessment(a *Analysis) string {
	if a.PowerDeltaPct == nil {
		if a.FrictionModel == "legacy" {
			return "Legacy friction scales force by the sampling interval; treat absolute values as relative effort only."
		}
		return "Estimate is uncalibrated; compare against a power meter ride to judge the constants."
	}
	switch delta := *a.PowerDeltaPct; {
	case math.Abs(delta) <= 10:
		return "Estimate tracks the power meter closely for this ride."
	case delta > 10:
		return "Estimate runs high; a lower drag coefficient or rolling resistance may fit this rider better."
	default:
		return "Estimate runs low; wind, drivetrain losses or a higher rolling resistance may explain the gap."
	}
}
