package sarif

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Embedded SARIF 2.1.0 schema the documents are validated against, compiled
// once per process.
//
//go:embed sarif-schema-2.1.0.json
var schemaBytes []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
	})
	if schemaErr != nil {
		return nil, fmt.Errorf("failed to compile embedded SARIF schema: %w", schemaErr)
	}
	return schema, nil
}

// validateAgainstSchema checks raw SARIF bytes against the embedded schema
// and reports every violation in a single error.
func validateAgainstSchema(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to validate document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, violation := range result.Errors() {
		violations = append(violations, violation.String())
	}
	return fmt.Errorf("schema violation: %s", strings.Join(violations, "; "))
}
