package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samijaber1/aegis-reliability/internal/calculator"
	"github.com/samijaber1/aegis-reliability/internal/eval"
)

// gaugeOrCounter returns the value of the series matching name and labels
func gaugeOrCounter(t *testing.T, r *Recorder, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := r.Registry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestRecorder_RecordOutput(t *testing.T) {
	r := NewRecorder()
	p := calculator.MustPrinter("en-US")

	steady := calculator.EvaluateSteady(calculator.AvailabilitySnapshot{MTBF: "200", MTTR: "2"}, p)
	mtbf := calculator.EvaluateTimeMetric(eval.KindMTBF, calculator.TimeMetricSnapshot{Total: "1000", Count: "4"}, p)
	bad := calculator.EvaluateTimeMetric(eval.KindMTTR, calculator.TimeMetricSnapshot{}, p)

	r.RecordOutput("steady", steady)
	r.RecordOutput("mtbf", mtbf)
	r.RecordOutput("mttr", bad)
	r.RecordOutput("mttr", bad)

	if got := gaugeOrCounter(t, r, "aegis_calculations_total", map[string]string{"calculator": "mtbf", "method": "aggregate"}); got != 1 {
		t.Errorf("expected 1 aggregate mtbf calculation, got %v", got)
	}
	if got := gaugeOrCounter(t, r, "aegis_calculation_errors_total", map[string]string{"calculator": "mttr"}); got != 2 {
		t.Errorf("expected 2 mttr errors, got %v", got)
	}
	if got := gaugeOrCounter(t, r, "aegis_last_metric_hours", map[string]string{"metric": "mtbf"}); got != 250 {
		t.Errorf("expected last mtbf 250, got %v", got)
	}
	if got := gaugeOrCounter(t, r, "aegis_last_availability_ratio", map[string]string{"mode": "steady-state"}); got < 0.99 || got > 0.9902 {
		t.Errorf("expected steady-state availability ~0.9901, got %v", got)
	}
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	// Two recorders in one process must not collide
	a := NewRecorder()
	b := NewRecorder()

	a.RecordSnapshotSave(nil)
	b.RecordSnapshotSave(errors.New("disk full"))

	if got := gaugeOrCounter(t, a, "aegis_snapshot_saves_total", map[string]string{"outcome": "ok"}); got != 1 {
		t.Errorf("expected 1 ok save on a, got %v", got)
	}
	if got := gaugeOrCounter(t, b, "aegis_snapshot_saves_total", map[string]string{"outcome": "ok"}); got != 0 {
		t.Errorf("expected 0 ok saves on b, got %v", got)
	}
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.RecordOutputs(calculator.EvaluateAll(calculator.Snapshot{
		MTBF: calculator.TimeMetricSnapshot{Rows: []string{"10", "20"}},
	}, calculator.MustPrinter("en-US")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"aegis_calculations_total", "aegis_calculation_errors_total", `calculator="period"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %s", want)
		}
	}
}
