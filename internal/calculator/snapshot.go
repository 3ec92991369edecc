package calculator

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Token is the raw text of a form field. Snapshots keep tokens rather than
// parsed values so that a half-typed entry is restored exactly as it was.
// Numbers in JSON or YAML are accepted and kept as their literal text.
type Token string

// UnmarshalJSON accepts a JSON string, number or null
func (t *Token) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Token(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("token must be a string or number: %w", err)
	}
	*t = Token(n.String())
	return nil
}

// UnmarshalYAML accepts any scalar
func (t *Token) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: token must be a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*t = ""
		return nil
	}
	*t = Token(node.Value)
	return nil
}

// String returns the raw text
func (t Token) String() string {
	return string(t)
}

// TimeMetricSnapshot is the persisted state of an MTBF or MTTR calculator
type TimeMetricSnapshot struct {
	Total Token    `json:"total" yaml:"total"`
	Count Token    `json:"count" yaml:"count"`
	Rows  []string `json:"rows" yaml:"rows"`
}

// AvailabilitySnapshot is the persisted state of the availability calculator
type AvailabilitySnapshot struct {
	MTBF     Token    `json:"mtbf" yaml:"mtbf"`
	MTTR     Token    `json:"mttr" yaml:"mttr"`
	Period   Token    `json:"period" yaml:"period"`
	Down     Token    `json:"down" yaml:"down"`
	Failures Token    `json:"failures" yaml:"failures"`
	Rows     []string `json:"rows" yaml:"rows"`
}

// Snapshot is everything needed to restore a session
type Snapshot struct {
	MTBF      TimeMetricSnapshot   `json:"mtbf" yaml:"mtbf"`
	MTTR      TimeMetricSnapshot   `json:"mttr" yaml:"mttr"`
	Avail     AvailabilitySnapshot `json:"avail" yaml:"avail"`
	ActiveTab Tab                  `json:"activeTab" yaml:"activeTab"`
}

// Tab is the section a session was last showing
type Tab string

const (
	TabIntro        Tab = "intro"
	TabMTBF         Tab = "mtbf"
	TabMTTR         Tab = "mttr"
	TabAvailability Tab = "availability"
)

// Valid reports whether t is a known tab
func (t Tab) Valid() bool {
	switch t {
	case TabIntro, TabMTBF, TabMTTR, TabAvailability:
		return true
	}
	return false
}
