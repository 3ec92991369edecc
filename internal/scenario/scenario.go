// Package scenario loads and evaluates what-if reliability scenarios written
// as YAML files.
package scenario

import (
	"github.com/samijaber1/aegis-reliability/internal/calculator"
	"github.com/samijaber1/aegis-reliability/internal/eval"
)

// Result is one evaluated section of a scenario
type Result struct {
	Name   string            `json:"name"`
	Output calculator.Output `json:"output"`
}

// Report is the evaluation of a whole scenario file
type Report struct {
	ID      string   `json:"id"`
	File    string   `json:"file"`
	Results []Result `json:"results"`
}

// ToSnapshot converts the scenario into calculator state. Missing sections
// produce empty calculators.
func (s *Scenario) ToSnapshot() calculator.Snapshot {
	var snap calculator.Snapshot

	if m := s.Spec.MTBF; m != nil {
		snap.MTBF = m.snapshot()
	}
	if m := s.Spec.MTTR; m != nil {
		snap.MTTR = m.snapshot()
	}
	if a := s.Spec.Availability; a != nil {
		snap.Avail = calculator.AvailabilitySnapshot{
			MTBF:     a.MTBF,
			MTTR:     a.MTTR,
			Period:   a.Period,
			Down:     a.Down,
			Failures: a.Failures,
			Rows:     tokensToRows(a.Downtime),
		}
	}

	return snap
}

// Evaluate runs the calculators for each section present in the scenario.
// The availability section yields both a steady-state and a period result.
func (s *Scenario) Evaluate(p *calculator.Printer) []Result {
	snap := s.ToSnapshot()

	var results []Result
	if s.Spec.MTBF != nil {
		results = append(results, Result{
			Name:   "mtbf",
			Output: calculator.EvaluateTimeMetric(eval.KindMTBF, snap.MTBF, p),
		})
	}
	if s.Spec.MTTR != nil {
		results = append(results, Result{
			Name:   "mttr",
			Output: calculator.EvaluateTimeMetric(eval.KindMTTR, snap.MTTR, p),
		})
	}
	if s.Spec.Availability != nil {
		results = append(results,
			Result{Name: "steady", Output: calculator.EvaluateSteady(snap.Avail, p)},
			Result{Name: "period", Output: calculator.EvaluatePeriod(snap.Avail, p)},
		)
	}

	return results
}

func (m *TimeMetric) snapshot() calculator.TimeMetricSnapshot {
	return calculator.TimeMetricSnapshot{
		Total: m.Total,
		Count: m.Count,
		Rows:  tokensToRows(m.Samples),
	}
}

func tokensToRows(tokens []calculator.Token) []string {
	if tokens == nil {
		return nil
	}
	rows := make([]string, len(tokens))
	for i, t := range tokens {
		rows[i] = string(t)
	}
	return rows
}
