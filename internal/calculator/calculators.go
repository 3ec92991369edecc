package calculator

import (
	"github.com/samijaber1/aegis-reliability/internal/eval"
	"github.com/samijaber1/aegis-reliability/internal/grid"
)

// Seed rows shown on first use
var (
	DefaultMTBFRows     = []string{"210", "3:00:00", "2:45:30", "190", "215"}
	DefaultMTTRRows     = []string{"2.5", "3", "2:12:00", "3:06:00", "3.4"}
	DefaultDowntimeRows = []string{"02:30:00", "01:15:00", "00:45:00", "0.5", "01:00:00"}
)

// TimeMetricCalc holds the form state of the MTBF or MTTR calculator: a grid
// of individual durations plus the aggregate total and count fields.
type TimeMetricCalc struct {
	kind  eval.Kind
	grid  *grid.Grid
	total Token
	count Token
}

// NewTimeMetricCalc creates a calculator with seed rows
func NewTimeMetricCalc(kind eval.Kind, seedRows []string) *TimeMetricCalc {
	return &TimeMetricCalc{kind: kind, grid: grid.New(seedRows)}
}

func (c *TimeMetricCalc) Kind() eval.Kind  { return c.kind }
func (c *TimeMetricCalc) Grid() *grid.Grid { return c.grid }
func (c *TimeMetricCalc) SetTotal(v Token) { c.total = v }
func (c *TimeMetricCalc) SetCount(v Token) { c.count = v }

// State returns the current raw values
func (c *TimeMetricCalc) State() TimeMetricSnapshot {
	return TimeMetricSnapshot{
		Total: c.total,
		Count: c.count,
		Rows:  c.grid.Raw(),
	}
}

// SetState restores raw values. Rows are only replaced when the snapshot
// carries at least one, so an old snapshot never wipes the seed rows.
func (c *TimeMetricCalc) SetState(s TimeMetricSnapshot) {
	c.total = s.Total
	c.count = s.Count
	if len(s.Rows) > 0 {
		c.grid.Replace(s.Rows)
	}
}

// Calc computes the metric from the current state
func (c *TimeMetricCalc) Calc(p *Printer) Output {
	return EvaluateTimeMetric(c.kind, c.State(), p)
}

// AvailabilityCalc holds the steady-state and period form state. Both forms
// share the MTTR field.
type AvailabilityCalc struct {
	mtbf     Token
	mttr     Token
	period   Token
	down     Token
	failures Token
	grid     *grid.Grid
}

// NewAvailabilityCalc creates a calculator with seed downtime rows
func NewAvailabilityCalc(seedRows []string) *AvailabilityCalc {
	return &AvailabilityCalc{grid: grid.New(seedRows)}
}

func (c *AvailabilityCalc) Grid() *grid.Grid    { return c.grid }
func (c *AvailabilityCalc) SetMTBF(v Token)     { c.mtbf = v }
func (c *AvailabilityCalc) SetMTTR(v Token)     { c.mttr = v }
func (c *AvailabilityCalc) SetPeriod(v Token)   { c.period = v }
func (c *AvailabilityCalc) SetDown(v Token)     { c.down = v }
func (c *AvailabilityCalc) SetFailures(v Token) { c.failures = v }

// State returns the current raw values
func (c *AvailabilityCalc) State() AvailabilitySnapshot {
	return AvailabilitySnapshot{
		MTBF:     c.mtbf,
		MTTR:     c.mttr,
		Period:   c.period,
		Down:     c.down,
		Failures: c.failures,
		Rows:     c.grid.Raw(),
	}
}

// SetState restores raw values. A nil row list keeps the current rows; an
// empty one clears them.
func (c *AvailabilityCalc) SetState(s AvailabilitySnapshot) {
	c.mtbf = s.MTBF
	c.mttr = s.MTTR
	c.period = s.Period
	c.down = s.Down
	c.failures = s.Failures
	if s.Rows != nil {
		c.grid.Replace(s.Rows)
	}
}

// CalcSteady computes the steady-state estimate
func (c *AvailabilityCalc) CalcSteady(p *Printer) Output {
	return EvaluateSteady(c.State(), p)
}

// CalcPeriod computes availability over the configured period
func (c *AvailabilityCalc) CalcPeriod(p *Printer) Output {
	return EvaluatePeriod(c.State(), p)
}
