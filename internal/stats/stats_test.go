package stats

import (
	"math"
	"testing"
)

func TestSum(t *testing.T) {
	if got := Sum([]float64{1, 2, 3}); got != 6 {
		t.Errorf("expected 6, got %v", got)
	}
	if got := Sum(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %v", got)
	}
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3}); got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
	if got := Mean(nil); !math.IsNaN(got) {
		t.Errorf("expected NaN for empty input, got %v", got)
	}
	if got := Mean([]float64{}); !math.IsNaN(got) {
		t.Errorf("expected NaN for empty slice, got %v", got)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name  string
		input []float64
		want  float64
	}{
		{"single", []float64{1}, 1},
		{"odd unsorted", []float64{1, 3, 2}, 2},
		{"even", []float64{1, 2, 3, 4}, 2.5},
		{"even unsorted", []float64{4, 1, 3, 2}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.input); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if got := Median(nil); !math.IsNaN(got) {
		t.Errorf("expected NaN for empty input, got %v", got)
	}
}

func TestMedian_DoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Median(in)
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Errorf("expected input to be untouched, got %v", in)
	}
}

func TestStdDev(t *testing.T) {
	tests := []struct {
		name  string
		input []float64
		want  float64
	}{
		{"empty", nil, 0},
		{"single", []float64{1}, 0},
		{"constant", []float64{1, 1}, 0},
		{"population", []float64{1, 2, 3, 4}, math.Sqrt(1.25)},
		{"pair", []float64{2, 4}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StdDev(tt.input)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
