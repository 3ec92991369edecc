package storage

import (
	"encoding/json"
	"time"

	"github.com/samijaber1/aegis-reliability/internal/calculator"
)

// DefaultSnapshotKey is the key the calculator page saves its state under
const DefaultSnapshotKey = "calc-mtbf-mttr-avail-v4"

// DefaultQueryLimit caps QueryCalculations when the filter sets no limit
const DefaultQueryLimit = 100

// Store persists session snapshots and an audit trail of calculations
type Store interface {
	// SaveSnapshot stores the snapshot under key, replacing any previous one
	SaveSnapshot(key string, snap *calculator.Snapshot) error

	// LoadSnapshot returns the snapshot stored under key, or nil if none
	LoadSnapshot(key string) (*calculator.Snapshot, error)

	// RecordCalculation appends a calculation to the audit trail
	RecordCalculation(rec *CalculationRecord) error

	// QueryCalculations retrieves calculation records, newest first
	QueryCalculations(filter CalculationFilter) ([]CalculationRecord, error)

	// Close releases the underlying resources
	Close() error
}

// CalculationFilter defines filtering options for calculation queries
type CalculationFilter struct {
	Calculator string // mtbf, mttr, steady, period
	Method     string // sample, aggregate, steady-state, measured, consolidated, estimated, error
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Offset     int
}

// CalculationRecord is a single audited calculation
type CalculationRecord struct {
	ID         int64           `json:"id"`
	Calculator string          `json:"calculator"`
	Method     string          `json:"method"`
	Value      *float64        `json:"value,omitempty"`
	Error      string          `json:"error,omitempty"`
	Text       string          `json:"text"`
	Inputs     json.RawMessage `json:"inputs,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// NewCalculationRecord builds an audit record from a rendered output and the
// raw inputs that produced it.
func NewCalculationRecord(name string, out calculator.Output, inputs interface{}, ts time.Time) (*CalculationRecord, error) {
	rec := &CalculationRecord{
		Calculator: name,
		Method:     out.Method(),
		Text:       out.Text,
		Timestamp:  ts,
	}

	if out.Err != nil {
		rec.Error = out.Err.Error()
	} else {
		v := out.Value()
		rec.Value = &v
	}

	if inputs != nil {
		raw, err := json.Marshal(inputs)
		if err != nil {
			return nil, err
		}
		rec.Inputs = raw
	}

	return rec, nil
}
