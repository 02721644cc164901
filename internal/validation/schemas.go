package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// courseBatchSchema guards catalog imports coming from external tooling,
// where struct binding tags alone cannot express the payload shape.
const courseBatchSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["courses"],
	"properties": {
		"courses": {
			"type": "array",
			"minItems": 1,
			"maxItems": 100,
			"items": {
				"type": "object",
				"required": ["title", "category"],
				"properties": {
					"title": {"type": "string", "minLength": 1, "maxLength": 255},
					"description": {"type": "string"},
					"category": {"type": "string", "minLength": 1, "maxLength": 100}
				},
				"additionalProperties": false
			}
		}
	},
	"additionalProperties": false
}`

type SchemaValidator struct {
	courseBatch *gojsonschema.Schema
}

func NewSchemaValidator() (*SchemaValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(courseBatchSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile course batch schema: %w", err)
	}
	return &SchemaValidator{courseBatch: schema}, nil
}

// ValidateCourseBatch checks a raw import payload and returns the individual
// violations when it does not conform.
func (sv *SchemaValidator) ValidateCourseBatch(payload []byte) ([]string, error) {
	result, err := sv.courseBatch.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return violations, nil
}
