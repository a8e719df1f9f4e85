package services

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/analysis.schema.json
var analysisSchemaJSON string

//go:embed schemas/job_matches.schema.json
var jobMatchesSchemaJSON string

// SchemaChecker reports drift between provider output and the documented
// response shapes. Findings are advisory; callers only log them.
type SchemaChecker struct {
	analysis *gojsonschema.Schema
	jobs     *gojsonschema.Schema
}

func NewSchemaChecker() (*SchemaChecker, error) {
	analysis, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(analysisSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis schema: %w", err)
	}

	jobs, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(jobMatchesSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to load job matches schema: %w", err)
	}

	return &SchemaChecker{analysis: analysis, jobs: jobs}, nil
}

// CheckAnalysis validates a parsed analysis payload.
func (s *SchemaChecker) CheckAnalysis(value any) []string {
	return check(s.analysis, value)
}

// CheckJobMatches validates a parsed job matches payload.
func (s *SchemaChecker) CheckJobMatches(value any) []string {
	return check(s.jobs, value)
}

func check(schema *gojsonschema.Schema, value any) []string {
	if schema == nil {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return []string{fmt.Sprintf("(root): %v", err)}
	}
	if result.Valid() {
		return nil
	}

	warnings := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		warnings = append(warnings, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return warnings
}
