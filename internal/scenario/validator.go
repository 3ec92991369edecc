package scenario

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/samijaber1/aegis-reliability/internal/calculator"
	"github.com/samijaber1/aegis-reliability/internal/duration"
)

//go:embed scenario_v1.schema.json
var schemaJSON []byte

const schemaURL = "https://aegis.dev/schemas/scenario_v1.json"

// Validator handles scenario validation
type Validator struct {
	schema  *jsonschema.Schema
	printer *message.Printer
}

// NewValidator compiles the embedded scenario schema
func NewValidator() (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema: %w", err)
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Validator{
		schema:  schema,
		printer: message.NewPrinter(language.English),
	}, nil
}

// ValidateDirectory loads and validates all scenario files in a directory
func (v *Validator) ValidateDirectory(dirPath string) []ValidationError {
	_, errs := v.LoadDirectory(dirPath)
	return errs
}

// LoadDirectory loads every scenario under dirPath and returns those that
// passed validation together with all errors found.
func (v *Validator) LoadDirectory(dirPath string) ([]ScenarioWithFile, []ValidationError) {
	withFiles, loadErrors := LoadFromDirectory(dirPath)

	var allErrors []ValidationError
	allErrors = append(allErrors, loadErrors...)

	if len(withFiles) == 0 {
		return nil, allErrors
	}

	bad := make(map[string]bool)
	for _, wf := range withFiles {
		errs := v.validateSchema(wf.File, wf.data)
		if len(errs) == 0 {
			errs = validateTokens(wf.File, wf.Scenario)
		}
		if len(errs) > 0 {
			bad[wf.File] = true
			allErrors = append(allErrors, errs...)
		}
	}

	for _, err := range validateDuplicateIDs(withFiles) {
		bad[err.File] = true
		allErrors = append(allErrors, err)
	}

	var valid []ScenarioWithFile
	for _, wf := range withFiles {
		if !bad[wf.File] {
			valid = append(valid, wf)
		}
	}

	return valid, allErrors
}

// ValidateFile validates a single file on its own
func (v *Validator) ValidateFile(filePath string) (*Scenario, []ValidationError) {
	sc, data, err := parseYAMLFile(filePath)
	if err != nil {
		return nil, []ValidationError{{
			File:    filePath,
			Message: fmt.Sprintf("failed to parse YAML: %v", err),
		}}
	}

	if errs := v.validateSchema(filePath, data); len(errs) > 0 {
		return nil, errs
	}
	if errs := validateTokens(filePath, sc); len(errs) > 0 {
		return nil, errs
	}

	return sc, nil
}

// validateSchema validates raw YAML against the JSON schema
func (v *Validator) validateSchema(file string, data []byte) []ValidationError {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []ValidationError{{
			File:    file,
			Message: fmt.Sprintf("failed to parse YAML: %v", err),
		}}
	}

	// Round-trip through JSON so the validator sees plain JSON types
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return []ValidationError{{
			File:    file,
			Message: fmt.Sprintf("failed to convert to JSON: %v", err),
		}}
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonBytes))
	if err != nil {
		return []ValidationError{{
			File:    file,
			Message: fmt.Sprintf("failed to convert to JSON: %v", err),
		}}
	}

	if err := v.schema.Validate(inst); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return v.extractSchemaErrors(file, validationErr)
		}
		return []ValidationError{{File: file, Message: err.Error()}}
	}

	return nil
}

// extractSchemaErrors flattens a schema error tree into its leaf causes
func (v *Validator) extractSchemaErrors(file string, err *jsonschema.ValidationError) []ValidationError {
	if len(err.Causes) == 0 {
		path := strings.Join(err.InstanceLocation, ".")
		if path == "" {
			path = "(root)"
		}
		return []ValidationError{{
			File:    file,
			Path:    path,
			Message: err.ErrorKind.LocalizedString(v.printer),
		}}
	}

	var errs []ValidationError
	for _, cause := range err.Causes {
		errs = append(errs, v.extractSchemaErrors(file, cause)...)
	}
	return errs
}

// validateDuplicateIDs reports every file whose metadata.id was already seen
func validateDuplicateIDs(withFiles []ScenarioWithFile) []ValidationError {
	var errs []ValidationError

	idSeen := make(map[string]string)
	for _, wf := range withFiles {
		id := wf.Scenario.Metadata.ID
		if id == "" {
			continue
		}
		if prevFile, exists := idSeen[id]; exists {
			errs = append(errs, ValidationError{
				File:    wf.File,
				Path:    "metadata.id",
				Message: fmt.Sprintf("duplicate ID %q (also in %s)", id, filepath.Base(prevFile)),
			})
		} else {
			idSeen[id] = wf.File
		}
	}

	return errs
}

// validateTokens checks that every non-empty token parses. Calculation
// errors such as a zero count are left to the engine.
func validateTokens(file string, sc *Scenario) []ValidationError {
	var errs []ValidationError

	check := func(path string, tok calculator.Token, parse func(string) (float64, bool)) {
		if strings.TrimSpace(string(tok)) == "" {
			return
		}
		if _, ok := parse(string(tok)); !ok {
			errs = append(errs, ValidationError{
				File:    file,
				Path:    path,
				Message: fmt.Sprintf("invalid value %q", string(tok)),
			})
		}
	}

	checkMetric := func(name string, m *TimeMetric) {
		if m == nil {
			return
		}
		for i, s := range m.Samples {
			check(fmt.Sprintf("spec.%s.samples[%d]", name, i), s, duration.ParseHours)
		}
		check("spec."+name+".total", m.Total, duration.ParseHours)
		check("spec."+name+".count", m.Count, duration.ParseCount)
	}

	checkMetric("mtbf", sc.Spec.MTBF)
	checkMetric("mttr", sc.Spec.MTTR)

	if a := sc.Spec.Availability; a != nil {
		check("spec.availability.mtbf", a.MTBF, duration.ParseHours)
		check("spec.availability.mttr", a.MTTR, duration.ParseHours)
		check("spec.availability.period", a.Period, duration.ParseHours)
		check("spec.availability.down", a.Down, duration.ParseHours)
		check("spec.availability.failures", a.Failures, duration.ParseCount)
		for i, d := range a.Downtime {
			check(fmt.Sprintf("spec.availability.downtime[%d]", i), d, duration.ParseHours)
		}
	}

	return errs
}
