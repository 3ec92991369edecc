package eval

import (
	"math"

	"github.com/samijaber1/aegis-reliability/internal/duration"
	"github.com/samijaber1/aegis-reliability/internal/stats"
)

// SelectStrategy computes an MTBF or MTTR figure.
//
// A non-empty sample set always wins and yields a MethodSample result; the
// aggregate total and count are ignored in that case. Otherwise total/count
// is used, where total must be finite and >= 0 and count a positive integer.
// Pass NaN for a total or count that was not provided.
func SelectStrategy(samples []float64, total, count float64) (MetricResult, error) {
	if len(samples) > 0 {
		m := stats.Mean(samples)
		if !isFinite(m) || m <= 0 {
			return MetricResult{}, ErrInvalidSamples
		}
		return MetricResult{
			Method: MethodSample,
			Mean:   m,
			Median: stats.Median(samples),
			StdDev: stats.StdDev(samples),
			N:      len(samples),
		}, nil
	}

	if !(isFinite(total) && total >= 0) || !(duration.IsInteger(count) && count > 0) {
		return MetricResult{}, ErrInvalidAggregate
	}

	return MetricResult{
		Method: MethodAggregate,
		Mean:   total / count,
		Total:  total,
		Count:  int(count),
	}, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
