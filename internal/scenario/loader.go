package scenario

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadFromDirectory discovers and loads all scenario files under a directory.
// Files are returned in lexical path order.
func LoadFromDirectory(dirPath string) ([]ScenarioWithFile, []ValidationError) {
	var scenarios []ScenarioWithFile
	var errors []ValidationError

	files, err := discoverYAMLFiles(dirPath)
	if err != nil {
		errors = append(errors, ValidationError{
			File:    dirPath,
			Message: fmt.Sprintf("failed to read directory: %v", err),
		})
		return nil, errors
	}

	for _, file := range files {
		sc, data, err := parseYAMLFile(file)
		if err != nil {
			errors = append(errors, ValidationError{
				File:    file,
				Message: fmt.Sprintf("failed to parse YAML: %v", err),
			})
			continue
		}
		scenarios = append(scenarios, ScenarioWithFile{
			Scenario: sc,
			File:     file,
			data:     data,
		})
	}

	return scenarios, errors
}

// LoadFile parses a single scenario file
func LoadFile(filePath string) (*Scenario, error) {
	sc, _, err := parseYAMLFile(filePath)
	return sc, err
}

func parseYAMLFile(filePath string) (*Scenario, []byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, nil, err
	}

	return &sc, data, nil
}

// discoverYAMLFiles finds all *.yaml and *.yml files below dirPath
func discoverYAMLFiles(dirPath string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	return files, err
}
