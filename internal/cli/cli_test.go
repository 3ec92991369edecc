package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/samijaber1/aegis-reliability/internal/calculator"
	"github.com/samijaber1/aegis-reliability/internal/eval"
	"github.com/samijaber1/aegis-reliability/internal/scenario"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCalcCommands(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		expectedOut   string
		expectedError error
	}{
		{
			name:        "mtbf samples",
			args:        []string{"--locale", "en-US", "mtbf", "100", "200", "300"},
			expectedOut: "Result = 200.000 hours",
		},
		{
			name:        "mttr aggregate",
			args:        []string{"--locale", "en-US", "mttr", "--total", "6:00:00", "--count", "3"},
			expectedOut: "Method: aggregate. Total repair time: 6.000 h, Count: 3.",
		},
		{
			name:          "mtbf invalid sample",
			args:          []string{"mtbf", "abc"},
			expectedError: eval.ErrInvalidRows,
		},
		{
			name:        "steady",
			args:        []string{"--locale", "en-US", "availability", "steady", "--mtbf", "200", "--mttr", "2"},
			expectedOut: "Availability (estimated) ≈ 99.01%",
		},
		{
			name:        "period measured",
			args:        []string{"--locale", "en-US", "availability", "period", "--period", "720", "02:30:00", "0.5"},
			expectedOut: "Availability (period) = 99.58%",
		},
		{
			name:        "period estimated",
			args:        []string{"--locale", "en-US", "availability", "period", "--period", "100", "--failures", "3", "--mttr", "2"},
			expectedOut: "Availability (period, estimated) ≈ 94.00%",
		},
		{
			name:          "period without data",
			args:          []string{"availability", "period", "--period", "100"},
			expectedError: eval.ErrInsufficientPeriodData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)

			if tt.expectedError != nil {
				if err != tt.expectedError {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, tt.expectedOut) {
				t.Errorf("expected output to contain %q, got %q", tt.expectedOut, out)
			}
		})
	}
}

func TestCalcCommands_JSON(t *testing.T) {
	out, _, err := execute(t, "--json", "mtbf", "--total", "1000", "--count", "4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Text   string `json:"text"`
		Metric struct {
			Method string  `json:"method"`
			Mean   float64 `json:"mean"`
		} `json:"metric"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if decoded.Metric.Method != "aggregate" || decoded.Metric.Mean != 250 {
		t.Errorf("unexpected metric: %+v", decoded.Metric)
	}
}

func TestCalcCommands_BadLocale(t *testing.T) {
	if _, _, err := execute(t, "--locale", "??", "mtbf", "1"); err == nil {
		t.Error("expected error for bad locale")
	}
}

func TestScenarioValidate(t *testing.T) {
	out, _, err := execute(t, "scenario", "validate", "../scenario/testdata/valid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "All scenario files are valid") {
		t.Errorf("unexpected output %q", out)
	}

	_, stderr, err := execute(t, "scenario", "validate", "../scenario/testdata/invalid")
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(stderr, "bad-tokens.yaml: spec.mttr.samples[1]") {
		t.Errorf("expected grouped errors on stderr, got %q", stderr)
	}
}

func TestScenarioRun(t *testing.T) {
	out, _, err := execute(t, "--locale", "en-US", "scenario", "run", "--parallel", "1", "../scenario/testdata/valid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	aggIdx := strings.Index(out, "aggregate-only (aggregate.yml)")
	plantIdx := strings.Index(out, "plant-a (plant-a.yaml)")
	if aggIdx < 0 || plantIdx < 0 {
		t.Fatalf("expected both scenarios in output, got %q", out)
	}
	if aggIdx > plantIdx {
		t.Error("expected reports in file order")
	}
	if !strings.Contains(out, "Result = 250.000 hours") {
		t.Errorf("expected aggregate MTBF result, got %q", out)
	}
}

func TestScenarioRun_InvalidFilesFail(t *testing.T) {
	out, _, err := execute(t, "scenario", "run", "../scenario/testdata/invalid")
	if err == nil {
		t.Fatal("expected error for invalid scenarios")
	}
	// The one valid file is still evaluated
	if !strings.Contains(out, "dup-scenario") {
		t.Errorf("expected dup-a.yaml to be evaluated, got %q", out)
	}
}

func TestEvaluateAll_PreservesOrder(t *testing.T) {
	var scenarios []scenario.ScenarioWithFile
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		scenarios = append(scenarios, scenario.ScenarioWithFile{
			Scenario: &scenario.Scenario{
				Metadata: scenario.Metadata{ID: id},
				Spec:     scenario.Spec{MTBF: &scenario.TimeMetric{Samples: []calculator.Token{"1"}}},
			},
			File: id + ".yaml",
		})
	}

	reports, err := evaluateAll(context.Background(), scenarios, calculator.MustPrinter("en-US"), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, r := range reports {
		if r.ID != scenarios[i].Scenario.Metadata.ID {
			t.Errorf("expected report %d to be %s, got %s", i, scenarios[i].Scenario.Metadata.ID, r.ID)
		}
		if len(r.Results) != 1 {
			t.Errorf("expected 1 result for %s, got %d", r.ID, len(r.Results))
		}
	}
}
