package observability

import (
	"math"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samijaber1/aegis-reliability/internal/calculator"
)

// Recorder exposes calculator metrics on its own registry, so several
// recorders can coexist in one process.
type Recorder struct {
	registry         *prometheus.Registry
	calculations     *prometheus.CounterVec
	errors           *prometheus.CounterVec
	lastAvailability *prometheus.GaugeVec
	lastMetricHours  *prometheus.GaugeVec
	snapshotSaves    *prometheus.CounterVec
}

// NewRecorder constructs a recorder and registers its collectors
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_calculations_total",
			Help: "Number of calculations by calculator and method",
		}, []string{"calculator", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_calculation_errors_total",
			Help: "Number of calculations that ended in an error",
		}, []string{"calculator"}),
		lastAvailability: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "aegis_last_availability_ratio",
			Help: "Most recent availability result by mode",
		}, []string{"mode"}),
		lastMetricHours: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "aegis_last_metric_hours",
			Help: "Most recent MTBF or MTTR result in hours",
		}, []string{"metric"}),
		snapshotSaves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_snapshot_saves_total",
			Help: "Snapshot saves by outcome",
		}, []string{"outcome"}),
	}
}

// RecordOutput counts one rendered calculation and updates the last-value
// gauges.
func (r *Recorder) RecordOutput(name string, out calculator.Output) {
	method := out.Method()
	r.calculations.WithLabelValues(name, method).Inc()

	if out.Err != nil {
		r.errors.WithLabelValues(name).Inc()
		return
	}

	v := out.Value()
	if math.IsNaN(v) {
		return
	}

	switch {
	case out.Availability != nil:
		r.lastAvailability.WithLabelValues(method).Set(v)
	case out.Metric != nil:
		r.lastMetricHours.WithLabelValues(name).Set(v)
	}
}

// RecordOutputs records the four results of a session recalculation
func (r *Recorder) RecordOutputs(outs calculator.Outputs) {
	r.RecordOutput("mtbf", outs.MTBF)
	r.RecordOutput("mttr", outs.MTTR)
	r.RecordOutput("steady", outs.Steady)
	r.RecordOutput("period", outs.Period)
}

// RecordSnapshotSave counts an autosave attempt
func (r *Recorder) RecordSnapshotSave(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.snapshotSaves.WithLabelValues(outcome).Inc()
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
