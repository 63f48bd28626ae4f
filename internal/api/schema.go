package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// practiceSchema is the contract for GET /practice/{id} responses. minItems
// on options rejects a question with an empty choice set up front.
const practiceSchema = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "question", "options", "correct_answer"],
        "properties": {
          "id": {"type": "integer"},
          "question": {"type": "string", "minLength": 1},
          "options": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "string"}
          },
          "correct_answer": {"type": "string"}
        }
      }
    }
  }
}`

var compilePracticeSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	var parsed any
	if err := json.Unmarshal([]byte(practiceSchema), &parsed); err != nil {
		return nil, fmt.Errorf("parse practice schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	const schemaURL = "schema://practice.json"
	if err := c.AddResource(schemaURL, parsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return compiled, nil
})

// validatePracticePayload checks a raw practice response against the schema.
func validatePracticePayload(raw []byte) error {
	compiled, err := compilePracticeSchema()
	if err != nil {
		return err
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("invalid practice payload: %w", err)
	}
	return nil
}
