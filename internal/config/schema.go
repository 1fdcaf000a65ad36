package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	ktoml "github.com/knadh/koanf/parsers/toml"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

// GetSchemaJSON returns the JSON Schema for Reef configuration.
func GetSchemaJSON() string {
	return schemaJSON
}

// ValidationError describes one schema violation.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationResult aggregates schema violations for one file.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidateWithSchema validates a config file against the JSON Schema.
// Syntax errors are reported as validation failures, not as errors.
func ValidateWithSchema(path string, content []byte) (*ValidationResult, error) {
	result := &ValidationResult{Valid: true}

	var data interface{}
	switch {
	case strings.HasSuffix(path, ".yml"), strings.HasSuffix(path, ".yaml"):
		if err := yaml.Unmarshal(content, &data); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   "syntax",
				Message: fmt.Sprintf("invalid YAML syntax: %v", err),
			})
			return result, nil
		}
	case strings.HasSuffix(path, ".toml"):
		parsed, err := ktoml.Parser().Unmarshal(content)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   "syntax",
				Message: fmt.Sprintf("invalid TOML syntax: %v", err),
			})
			return result, nil
		}
		data = parsed
	case strings.HasSuffix(path, ".json"):
		if err := json.Unmarshal(content, &data); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   "syntax",
				Message: fmt.Sprintf("invalid JSON syntax: %v", err),
			})
			return result, nil
		}
	default:
		return nil, fmt.Errorf("unsupported file format")
	}

	schemaLoader := gojsonschema.NewStringLoader(GetSchemaJSON())
	documentLoader := gojsonschema.NewGoLoader(data)

	validation, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	if !validation.Valid() {
		result.Valid = false
		for _, verr := range validation.Errors() {
			result.Errors = append(result.Errors, ValidationError{
				Field:   verr.Field(),
				Message: verr.Description(),
			})
		}
	}

	return result, nil
}
