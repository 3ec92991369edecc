package api

import (
	"github.com/samijaber1/aegis-reliability/internal/calculator"
	"github.com/samijaber1/aegis-reliability/internal/storage"
)

// TimeMetricRequest is the body of POST /v1/mtbf and /v1/mttr
type TimeMetricRequest struct {
	Rows  []string         `json:"rows"`
	Total calculator.Token `json:"total"`
	Count calculator.Token `json:"count"`
}

// SteadyRequest is the body of POST /v1/availability/steady
type SteadyRequest struct {
	MTBF calculator.Token `json:"mtbf"`
	MTTR calculator.Token `json:"mttr"`
}

// PeriodRequest is the body of POST /v1/availability/period. MTTR is the
// estimate used together with failures.
type PeriodRequest struct {
	Period   calculator.Token `json:"period"`
	Down     calculator.Token `json:"down"`
	Failures calculator.Token `json:"failures"`
	MTTR     calculator.Token `json:"mttr"`
	Rows     []string         `json:"rows"`
}

// SessionPatch updates part of the session. Any combination of a field, a
// row list and the active tab may be sent at once; an invalid part rejects
// the whole patch.
type SessionPatch struct {
	Calculator calculator.Calculator `json:"calculator,omitempty"`
	Field      string                `json:"field,omitempty"`
	Value      *calculator.Token     `json:"value,omitempty"`
	Rows       []string              `json:"rows,omitempty"`
	ActiveTab  calculator.Tab        `json:"activeTab,omitempty"`
}

// SessionResponse carries the session state and its latest results
type SessionResponse struct {
	Snapshot calculator.Snapshot `json:"snapshot"`
	Outputs  calculator.Outputs  `json:"outputs"`
	Pending  bool                `json:"pending"`
}

// AuditResponse represents a page of calculation records
type AuditResponse struct {
	Records []storage.CalculationRecord `json:"records"`
	Total   int                         `json:"total"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents readiness check response
type ReadyResponse struct {
	Ready   bool     `json:"ready"`
	Reasons []string `json:"reasons,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
