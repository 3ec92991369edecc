// Package stats reduces a sample set of durations to the summary statistics
// shown next to a sample-based result.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sum returns the total of a.
func Sum(a []float64) float64 {
	return floats.Sum(a)
}

// Mean returns the arithmetic mean of a, or NaN when a is empty.
func Mean(a []float64) float64 {
	if len(a) == 0 {
		return math.NaN()
	}
	return stat.Mean(a, nil)
}

// Median returns the middle value of a, averaging the two central values for
// even lengths. It returns NaN when a is empty and never reorders a.
func Median(a []float64) float64 {
	if len(a) == 0 {
		return math.NaN()
	}
	b := make([]float64, len(a))
	copy(b, a)
	sort.Float64s(b)

	m := len(b) / 2
	if len(b)%2 == 1 {
		return b[m]
	}
	return (b[m-1] + b[m]) / 2
}

// StdDev returns the population standard deviation of a. Fewer than two
// samples yield 0.
func StdDev(a []float64) float64 {
	if len(a) < 2 {
		return 0
	}
	return stat.PopStdDev(a, nil)
}
