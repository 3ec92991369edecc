package scenario

import (
	"github.com/samijaber1/aegis-reliability/internal/calculator"
)

// Scenario is a what-if calculation stored as a YAML file
type Scenario struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   Metadata `yaml:"metadata"`
	Spec       Spec     `yaml:"spec"`
}

// Metadata identifies a scenario
type Metadata struct {
	ID          string `yaml:"id"`
	Asset       string `yaml:"asset,omitempty"`
	Owner       string `yaml:"owner,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Spec holds the raw inputs of each calculator. Omitted sections are not
// evaluated.
type Spec struct {
	MTBF         *TimeMetric   `yaml:"mtbf,omitempty"`
	MTTR         *TimeMetric   `yaml:"mttr,omitempty"`
	Availability *Availability `yaml:"availability,omitempty"`
}

// TimeMetric is the input of the MTBF or MTTR calculator
type TimeMetric struct {
	Samples []calculator.Token `yaml:"samples,omitempty"`
	Total   calculator.Token   `yaml:"total,omitempty"`
	Count   calculator.Token   `yaml:"count,omitempty"`
}

// Availability is the input of the availability calculator
type Availability struct {
	MTBF     calculator.Token   `yaml:"mtbf,omitempty"`
	MTTR     calculator.Token   `yaml:"mttr,omitempty"`
	Period   calculator.Token   `yaml:"period,omitempty"`
	Down     calculator.Token   `yaml:"down,omitempty"`
	Failures calculator.Token   `yaml:"failures,omitempty"`
	Downtime []calculator.Token `yaml:"downtime,omitempty"`
}

// ScenarioWithFile pairs a scenario with its source file path
type ScenarioWithFile struct {
	Scenario *Scenario
	File     string

	// raw file contents, kept for schema validation
	data []byte
}

// ValidationError represents a validation error for a specific file
type ValidationError struct {
	File    string
	Path    string
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	if e.Path != "" {
		return e.File + ": " + e.Path + ": " + e.Message
	}
	return e.File + ": " + e.Message
}
