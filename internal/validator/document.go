package validator

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const (
	structureSchemaURL  = "schema://talentflow/structure.json"
	assessmentSchemaURL = "schema://talentflow/assessment.json"
)

// DocumentValidator checks raw wire documents against the published JSON
// Schema before they are decoded, so malformed imports are rejected with a
// path to the offending value instead of a decoder error.
type DocumentValidator struct {
	once       sync.Once
	structure  *jsonschema.Schema
	assessment *jsonschema.Schema
	compileErr error
}

func NewDocumentValidator() *DocumentValidator {
	return &DocumentValidator{}
}

// ValidateStructure validates a `{title, sections}` document.
func (d *DocumentValidator) ValidateStructure(raw []byte) error {
	return d.validate(raw, func() *jsonschema.Schema { return d.structure })
}

// ValidateAssessment validates a `{jobId, structure}` document.
func (d *DocumentValidator) ValidateAssessment(raw []byte) error {
	return d.validate(raw, func() *jsonschema.Schema { return d.assessment })
}

func (d *DocumentValidator) validate(raw []byte, pick func() *jsonschema.Schema) error {
	d.once.Do(d.compile)
	if d.compileErr != nil {
		return d.compileErr
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := pick().Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func (d *DocumentValidator) compile() {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(structureSchemaURL, structureSchema()); err != nil {
		d.compileErr = fmt.Errorf("add structure schema: %w", err)
		return
	}
	if err := c.AddResource(assessmentSchemaURL, assessmentSchema()); err != nil {
		d.compileErr = fmt.Errorf("add assessment schema: %w", err)
		return
	}

	var err error
	if d.structure, err = c.Compile(structureSchemaURL); err != nil {
		d.compileErr = fmt.Errorf("compile structure schema: %w", err)
		return
	}
	if d.assessment, err = c.Compile(assessmentSchemaURL); err != nil {
		d.compileErr = fmt.Errorf("compile assessment schema: %w", err)
	}
}

func assessmentSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"jobId", "structure"},
		"properties": map[string]any{
			"jobId": map[string]any{
				"type":    "integer",
				"minimum": 1,
			},
			"structure": map[string]any{"$ref": structureSchemaURL},
			"version":   map[string]any{"type": "integer"},
			"createdAt": map[string]any{"type": "string"},
			"updatedAt": map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	}
}

func structureSchema() map[string]any {
	scalar := []any{"string", "number", "boolean"}

	option := map[string]any{
		"type":     "object",
		"required": []any{"id"},
		"properties": map[string]any{
			"id":    map[string]any{"type": "string", "minLength": 1},
			"value": map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	}

	question := map[string]any{
		"type":     "object",
		"required": []any{"id", "type"},
		"properties": map[string]any{
			"id": map[string]any{"type": "string", "minLength": 1},
			"type": map[string]any{
				"type": "string",
				"enum": []any{"short-text", "long-text", "single-choice", "multi-choice", "numeric", "file-upload"},
			},
			"label":    map[string]any{"type": "string"},
			"required": map[string]any{"type": "boolean"},
			"options": map[string]any{
				"type":  "array",
				"items": option,
			},
			"range": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"min": map[string]any{"type": []any{"number", "null"}},
					"max": map[string]any{"type": []any{"number", "null"}},
				},
				"additionalProperties": false,
			},
			"condition": map[string]any{
				"type":     "object",
				"required": []any{"sourceQuestionId", "operator"},
				"properties": map[string]any{
					"sourceQuestionId": map[string]any{"type": "string", "minLength": 1},
					"operator": map[string]any{
						"type": "string",
						"enum": []any{"eq", "neq", "===", "!==", "==", "!="},
					},
					"value": map[string]any{"type": scalar},
				},
				"additionalProperties": false,
			},
		},
		"additionalProperties": false,
	}

	section := map[string]any{
		"type":     "object",
		"required": []any{"id", "questions"},
		"properties": map[string]any{
			"id":        map[string]any{"type": "string", "minLength": 1},
			"title":     map[string]any{"type": "string"},
			"questions": map[string]any{"type": "array", "items": question},
		},
		"additionalProperties": false,
	}

	return map[string]any{
		"type":     "object",
		"required": []any{"title", "sections"},
		"properties": map[string]any{
			"title":    map[string]any{"type": "string"},
			"sections": map[string]any{"type": "array", "items": section},
		},
		"additionalProperties": false,
	}
}
