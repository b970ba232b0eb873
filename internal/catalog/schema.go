package catalog

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const activitySchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "phase", "title", "duration"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "phase": {"type": "string", "enum": ["starter", "main", "plenary", "Starter", "Main", "Plenary"]},
    "title": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "duration": {"type": ["string", "integer"]},
    "subject": {"type": "string"},
    "year_group": {"type": "string"},
    "theme": {"type": "string"},
    "keywords": {"type": "array", "items": {"type": "string"}},
    "details": {
      "type": "object",
      "properties": {
        "steps": {"type": "array", "items": {"type": "string"}},
        "tips": {"type": "array", "items": {"type": "string"}},
        "answers": {"type": "array", "items": {"type": "string"}}
      }
    }
  }
}`

var activitySchema = mustSchema(activitySchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile activity schema: %v", err))
	}
	return s
}

// validateRecord checks a decoded activity record against the schema.
func validateRecord(doc any) error {
	result, err := activitySchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate activity: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid activity: %s", strings.Join(msgs, "; "))
}
