package eval

import (
	"math"

	"github.com/samijaber1/aegis-reliability/internal/duration"
	"github.com/samijaber1/aegis-reliability/internal/stats"
)

// SteadyState estimates availability from MTBF and MTTR as
// MTBF / (MTBF + MTTR). The formula is exact for an alternating up/down
// renewal process; the result is a planning figure, not a measurement.
func SteadyState(mtbf, mttr float64) (AvailabilityResult, error) {
	if !(isFinite(mtbf) && mtbf > 0) || !(isFinite(mttr) && mttr >= 0) {
		return AvailabilityResult{}, ErrInvalidSteadyState
	}

	return AvailabilityResult{
		Mode:         ModeSteadyState,
		Availability: mtbf / (mtbf + mttr),
		MTBF:         mtbf,
		MTTR:         mttr,
	}, nil
}

// PeriodAvailability computes uptime / period for a fixed period.
//
// The downtime source is chosen in priority order: individual downtime
// samples, then a consolidated downtime total, then failure count times an
// MTTR estimate. The first source that is present wins.
func PeriodAvailability(in PeriodInput) (AvailabilityResult, error) {
	total := in.Total
	if !(isFinite(total) && total > 0) {
		return AvailabilityResult{}, ErrInvalidPeriod
	}

	if len(in.DowntimeSamples) > 0 {
		return periodResult(ModeMeasured, total, stats.Sum(in.DowntimeSamples)), nil
	}

	if down, ok := provided(in.DowntimeTotal); ok && down >= 0 {
		return periodResult(ModeConsolidated, total, down), nil
	}

	if failures, ok := provided(in.FailureCount); ok && duration.IsInteger(failures) && failures >= 0 {
		mttr, ok := provided(in.MTTREstimate)
		if !ok || mttr < 0 {
			return AvailabilityResult{}, ErrMissingMTTREstimate
		}
		res := periodResult(ModeEstimated, total, failures*mttr)
		res.Failures = int(failures)
		res.MTTREstimate = mttr
		return res, nil
	}

	return AvailabilityResult{}, ErrInsufficientPeriodData
}

// provided dereferences an optional input, treating nil and non-finite
// values as absent
func provided(v *float64) (float64, bool) {
	if v == nil || !isFinite(*v) {
		return 0, false
	}
	return *v, true
}

func periodResult(mode Mode, total, downtime float64) AvailabilityResult {
	uptime := math.Max(0, total-downtime)
	return AvailabilityResult{
		Mode:         mode,
		Availability: uptime / total,
		Period:       total,
		Downtime:     downtime,
		Uptime:       uptime,
	}
}
