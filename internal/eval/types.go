package eval

import "errors"

// Kind identifies which time metric a calculation produces. MTBF and MTTR
// share one strategy and differ only in labels.
type Kind string

const (
	KindMTBF Kind = "mtbf"
	KindMTTR Kind = "mttr"
)

// Method is the strategy that produced a MetricResult
type Method string

const (
	MethodSample    Method = "sample"
	MethodAggregate Method = "aggregate"
)

// MetricResult is the outcome of SelectStrategy. Median, StdDev and N are
// only set for MethodSample; Total and Count only for MethodAggregate.
type MetricResult struct {
	Method Method  `json:"method"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median,omitempty"`
	StdDev float64 `json:"stdev,omitempty"`
	N      int     `json:"n,omitempty"`
	Total  float64 `json:"total,omitempty"`
	Count  int     `json:"count,omitempty"`
}

// Mode identifies how an availability figure was obtained
type Mode string

const (
	ModeSteadyState  Mode = "steady-state"
	ModeMeasured     Mode = "measured"
	ModeConsolidated Mode = "consolidated"
	ModeEstimated    Mode = "estimated"
)

// AvailabilityResult carries an availability fraction in [0,1] together with
// the inputs used to compute it.
type AvailabilityResult struct {
	Mode         Mode    `json:"mode"`
	Availability float64 `json:"availability"`

	// Steady-state inputs
	MTBF float64 `json:"mtbf,omitempty"`
	MTTR float64 `json:"mttr,omitempty"`

	// Period inputs
	Period       float64 `json:"period,omitempty"`
	Downtime     float64 `json:"downtime,omitempty"`
	Uptime       float64 `json:"uptime,omitempty"`
	Failures     int     `json:"failures,omitempty"`
	MTTREstimate float64 `json:"mttrEstimate,omitempty"`
}

// PeriodInput holds the candidate data for a period-based availability
// calculation. A nil optional field was not provided.
type PeriodInput struct {
	Total           float64
	DowntimeSamples []float64
	DowntimeTotal   *float64
	FailureCount    *float64
	MTTREstimate    *float64
}

// Float returns a pointer to v, for the optional fields of PeriodInput
func Float(v float64) *float64 {
	return &v
}

var (
	ErrInvalidSamples         = errors.New("sample data invalid for calculation")
	ErrInvalidAggregate       = errors.New("must supply a valid total and count (count ≥ 1), or populate the sample grid")
	ErrInvalidSteadyState     = errors.New("MTBF must be > 0 and MTTR ≥ 0")
	ErrInvalidPeriod          = errors.New("must supply a valid period (> 0)")
	ErrMissingMTTREstimate    = errors.New("must supply an MTTR estimate or period time data")
	ErrInsufficientPeriodData = errors.New("must supply period time data, total downtime, or failure count + MTTR estimate")
	ErrInvalidRows            = errors.New("invalid values in the grid; fix them before calculating")
)
