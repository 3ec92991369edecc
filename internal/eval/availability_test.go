package eval

import (
	"errors"
	"math"
	"testing"
)

func TestSteadyState(t *testing.T) {
	tests := []struct {
		name                 string
		mtbf                 float64
		mttr                 float64
		expectedAvailability float64
		expectedErr          error
	}{
		{
			name:                 "typical",
			mtbf:                 200,
			mttr:                 2,
			expectedAvailability: 200.0 / 202.0,
		},
		{
			name:                 "zero repair time",
			mtbf:                 100,
			mttr:                 0,
			expectedAvailability: 1,
		},
		{
			name:        "zero mtbf",
			mtbf:        0,
			mttr:        2,
			expectedErr: ErrInvalidSteadyState,
		},
		{
			name:        "negative mttr",
			mtbf:        200,
			mttr:        -1,
			expectedErr: ErrInvalidSteadyState,
		},
		{
			name:        "missing mtbf",
			mtbf:        math.NaN(),
			mttr:        2,
			expectedErr: ErrInvalidSteadyState,
		},
		{
			name:        "missing mttr",
			mtbf:        200,
			mttr:        math.NaN(),
			expectedErr: ErrInvalidSteadyState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := SteadyState(tt.mtbf, tt.mttr)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Mode != ModeSteadyState {
				t.Errorf("expected mode=%s, got %s", ModeSteadyState, result.Mode)
			}
			if math.Abs(result.Availability-tt.expectedAvailability) > 1e-12 {
				t.Errorf("expected availability=%.6f, got %.6f", tt.expectedAvailability, result.Availability)
			}
		})
	}
}

func TestSteadyState_KnownValue(t *testing.T) {
	result, err := SteadyState(200, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.Availability-0.990099) > 0.000001 {
		t.Errorf("expected availability≈0.990099, got %.6f", result.Availability)
	}
}

func TestPeriodAvailability(t *testing.T) {
	tests := []struct {
		name                 string
		input                PeriodInput
		expectedMode         Mode
		expectedDowntime     float64
		expectedUptime       float64
		expectedAvailability float64
		expectedErr          error
	}{
		{
			name: "measured samples win over consolidated total",
			input: PeriodInput{
				Total:           720,
				DowntimeSamples: []float64{2.5, 1.25, 0.75, 0.5, 1},
				DowntimeTotal:   Float(100),
				FailureCount:    Float(3),
				MTTREstimate:    Float(2),
			},
			expectedMode:         ModeMeasured,
			expectedDowntime:     6,
			expectedUptime:       714,
			expectedAvailability: 714.0 / 720.0,
		},
		{
			name: "consolidated",
			input: PeriodInput{
				Total:         720,
				DowntimeTotal: Float(12),
				FailureCount:  Float(3),
				MTTREstimate:  Float(2),
			},
			expectedMode:         ModeConsolidated,
			expectedDowntime:     12,
			expectedUptime:       708,
			expectedAvailability: 1 - 12.0/720.0,
		},
		{
			name: "consolidated zero downtime",
			input: PeriodInput{
				Total:         720,
				DowntimeTotal: Float(0),
			},
			expectedMode:         ModeConsolidated,
			expectedDowntime:     0,
			expectedUptime:       720,
			expectedAvailability: 1,
		},
		{
			name: "estimated when downtime total is unset",
			input: PeriodInput{
				Total:        100,
				FailureCount: Float(3),
				MTTREstimate: Float(2),
			},
			expectedMode:         ModeEstimated,
			expectedDowntime:     6,
			expectedUptime:       94,
			expectedAvailability: 0.94,
		},
		{
			name: "downtime exceeds period",
			input: PeriodInput{
				Total:         10,
				DowntimeTotal: Float(25),
			},
			expectedMode:         ModeConsolidated,
			expectedDowntime:     25,
			expectedUptime:       0,
			expectedAvailability: 0,
		},
		{
			name: "invalid period",
			input: PeriodInput{
				Total:           0,
				DowntimeSamples: []float64{1},
			},
			expectedErr: ErrInvalidPeriod,
		},
		{
			name: "NaN downtime total is absent",
			input: PeriodInput{
				Total:         100,
				DowntimeTotal: Float(math.NaN()),
				FailureCount:  Float(3),
				MTTREstimate:  Float(2),
			},
			expectedMode:         ModeEstimated,
			expectedDowntime:     6,
			expectedUptime:       94,
			expectedAvailability: 0.94,
		},
		{
			name: "missing period",
			input: PeriodInput{
				Total:         math.NaN(),
				DowntimeTotal: Float(1),
			},
			expectedErr: ErrInvalidPeriod,
		},
		{
			name: "failures without mttr",
			input: PeriodInput{
				Total:        100,
				FailureCount: Float(3),
			},
			expectedErr: ErrMissingMTTREstimate,
		},
		{
			name: "fractional failures fall through",
			input: PeriodInput{
				Total:        100,
				FailureCount: Float(1.5),
				MTTREstimate: Float(2),
			},
			expectedErr: ErrInsufficientPeriodData,
		},
		{
			name: "nothing provided",
			input: PeriodInput{
				Total: 100,
			},
			expectedErr: ErrInsufficientPeriodData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := PeriodAvailability(tt.input)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Mode != tt.expectedMode {
				t.Errorf("expected mode=%s, got %s", tt.expectedMode, result.Mode)
			}
			if math.Abs(result.Downtime-tt.expectedDowntime) > 1e-9 {
				t.Errorf("expected downtime=%.4f, got %.4f", tt.expectedDowntime, result.Downtime)
			}
			if math.Abs(result.Uptime-tt.expectedUptime) > 1e-9 {
				t.Errorf("expected uptime=%.4f, got %.4f", tt.expectedUptime, result.Uptime)
			}
			if math.Abs(result.Availability-tt.expectedAvailability) > 1e-9 {
				t.Errorf("expected availability=%.6f, got %.6f", tt.expectedAvailability, result.Availability)
			}
			if result.Availability < 0 || result.Availability > 1 {
				t.Errorf("expected availability in [0,1], got %v", result.Availability)
			}
		})
	}
}

func TestPeriodAvailability_EstimatedEchoesInputs(t *testing.T) {
	result, err := PeriodAvailability(PeriodInput{
		Total:        100,
		FailureCount: Float(3),
		MTTREstimate: Float(2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Failures != 3 {
		t.Errorf("expected failures=3, got %d", result.Failures)
	}
	if result.MTTREstimate != 2 {
		t.Errorf("expected mttr estimate=2, got %v", result.MTTREstimate)
	}
}
