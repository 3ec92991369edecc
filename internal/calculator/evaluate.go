// Package calculator is the headless counterpart of the calculator page: it
// turns raw form tokens into display-ready results, and holds the session
// state that the HTTP API and CLI drive.
package calculator

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/samijaber1/aegis-reliability/internal/duration"
	"github.com/samijaber1/aegis-reliability/internal/eval"
	"github.com/samijaber1/aegis-reliability/internal/grid"
)

// Output is a rendered calculation. Exactly one of Err, Metric and
// Availability is set.
type Output struct {
	Text         string                   `json:"text"`
	Notes        string                   `json:"notes,omitempty"`
	Err          error                    `json:"-"`
	Metric       *eval.MetricResult       `json:"metric,omitempty"`
	Availability *eval.AvailabilityResult `json:"availability,omitempty"`
}

// MarshalJSON adds the error message, if any, as "error"
func (o Output) MarshalJSON() ([]byte, error) {
	type plain Output
	var msg string
	if o.Err != nil {
		msg = o.Err.Error()
	}
	return json.Marshal(struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(o), Error: msg})
}

// Method returns the strategy or mode label used for the output, or "error"
func (o Output) Method() string {
	switch {
	case o.Err != nil:
		return "error"
	case o.Metric != nil:
		return string(o.Metric.Method)
	case o.Availability != nil:
		return string(o.Availability.Mode)
	}
	return ""
}

// Value returns the headline number: the mean for MTBF/MTTR, the fraction for
// availability, NaN on error.
func (o Output) Value() float64 {
	switch {
	case o.Err != nil:
		return math.NaN()
	case o.Metric != nil:
		return o.Metric.Mean
	case o.Availability != nil:
		return o.Availability.Availability
	}
	return math.NaN()
}

// Outputs groups the four results shown by a session
type Outputs struct {
	MTBF   Output `json:"mtbf"`
	MTTR   Output `json:"mttr"`
	Steady Output `json:"steady"`
	Period Output `json:"period"`
}

// Label returns the display name of a time metric
func Label(kind eval.Kind) string {
	switch kind {
	case eval.KindMTTR:
		return "MTTR"
	default:
		return "MTBF"
	}
}

// AggregateLabel names the summed quantity used by the aggregate method
func AggregateLabel(kind eval.Kind) string {
	switch kind {
	case eval.KindMTTR:
		return "Total repair time"
	default:
		return "Total operating time"
	}
}

// EvaluateTimeMetric computes MTBF or MTTR from a calculator snapshot.
// Invalid grid rows block the calculation before anything else is looked at.
func EvaluateTimeMetric(kind eval.Kind, snap TimeMetricSnapshot, p *Printer) Output {
	g := grid.New(snap.Rows)
	if g.HasInvalid() {
		return errorOutput(eval.ErrInvalidRows)
	}

	res, err := eval.SelectStrategy(g.Values(), hoursOrNaN(snap.Total), countOrNaN(snap.Count))
	if err != nil {
		return errorOutput(err)
	}

	out := Output{
		Text:   fmt.Sprintf("Result = %s hours", p.Number(res.Mean, 3)),
		Metric: &res,
	}

	switch res.Method {
	case eval.MethodSample:
		out.Notes = fmt.Sprintf("Method: sample. Samples: %d. Median: %s h; Std dev: %s h.",
			res.N, p.Number(res.Median, 3), p.Number(res.StdDev, 3))
	case eval.MethodAggregate:
		out.Notes = fmt.Sprintf("Method: aggregate. %s: %s h, Count: %d.",
			AggregateLabel(kind), p.Number(res.Total, 3), res.Count)
	}

	return out
}

// EvaluateSteady computes the steady-state availability estimate
func EvaluateSteady(snap AvailabilitySnapshot, p *Printer) Output {
	res, err := eval.SteadyState(hoursOrNaN(snap.MTBF), hoursOrNaN(snap.MTTR))
	if err != nil {
		return errorOutput(err)
	}

	return Output{
		Text: fmt.Sprintf("Availability (estimated) ≈ %s", p.Percent(res.Availability, 2)),
		Notes: fmt.Sprintf("With MTBF = %s h and MTTR = %s h → Availability ≈ %s.",
			p.Number(res.MTBF, 3), p.Number(res.MTTR, 3), p.Number(res.Availability, 4)),
		Availability: &res,
	}
}

// EvaluatePeriod computes availability over a fixed period. The MTTR field of
// the steady-state form doubles as the estimate for the failure-count branch.
func EvaluatePeriod(snap AvailabilitySnapshot, p *Printer) Output {
	g := grid.New(snap.Rows)
	if g.HasInvalid() {
		return errorOutput(eval.ErrInvalidRows)
	}

	res, err := eval.PeriodAvailability(eval.PeriodInput{
		Total:           hoursOrNaN(snap.Period),
		DowntimeSamples: g.Values(),
		DowntimeTotal:   optional(hoursOrNaN(snap.Down)),
		FailureCount:    optional(countOrNaN(snap.Failures)),
		MTTREstimate:    optional(hoursOrNaN(snap.MTTR)),
	})
	if err != nil {
		return errorOutput(err)
	}

	out := Output{Availability: &res}
	switch res.Mode {
	case eval.ModeMeasured, eval.ModeConsolidated:
		prefix := "Measured"
		if res.Mode == eval.ModeConsolidated {
			prefix = "Consolidated"
		}
		out.Text = fmt.Sprintf("Availability (period) = %s", p.Percent(res.Availability, 2))
		out.Notes = fmt.Sprintf("%s. Period: %s h; Downtime: %s h; Uptime: %s h.",
			prefix, p.Number(res.Period, 3), p.Number(res.Downtime, 3), p.Number(res.Uptime, 3))
	case eval.ModeEstimated:
		out.Text = fmt.Sprintf("Availability (period, estimated) ≈ %s", p.Percent(res.Availability, 2))
		out.Notes = fmt.Sprintf("Estimated. Period: %s h; Failures: %d; Downtime ≈ %s h; Uptime ≈ %s h.",
			p.Number(res.Period, 3), res.Failures, p.Number(res.Downtime, 3), p.Number(res.Uptime, 3))
	}

	return out
}

// EvaluateAll renders every result of a snapshot
func EvaluateAll(snap Snapshot, p *Printer) Outputs {
	return Outputs{
		MTBF:   EvaluateTimeMetric(eval.KindMTBF, snap.MTBF, p),
		MTTR:   EvaluateTimeMetric(eval.KindMTTR, snap.MTTR, p),
		Steady: EvaluateSteady(snap.Avail, p),
		Period: EvaluatePeriod(snap.Avail, p),
	}
}

func errorOutput(err error) Output {
	return Output{Text: err.Error(), Err: err}
}

func hoursOrNaN(t Token) float64 {
	if v, ok := duration.ParseHours(string(t)); ok {
		return v
	}
	return math.NaN()
}

// optional maps an unparsed (NaN) value to nil
func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return eval.Float(v)
}

func countOrNaN(t Token) float64 {
	if v, ok := duration.ParseCount(string(t)); ok {
		return v
	}
	return math.NaN()
}
