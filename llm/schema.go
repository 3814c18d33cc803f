package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ResponseSchema declares the JSON shape a completion must produce. Clients
// ask the provider for JSON output where the API supports it and validate
// the response content before returning it.
type ResponseSchema struct {
	Name   string
	Schema string // JSON Schema document
}

// Validate checks content against the schema. Returns nil for conforming
// content, otherwise a *SchemaValidationError carrying field-level details.
func (s *ResponseSchema) Validate(content string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(s.Schema),
		gojsonschema.NewStringLoader(content),
	)
	if err != nil {
		return &SchemaValidationError{Schema: s.Name, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	sve := &SchemaValidationError{
		Schema: s.Name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		sve.Errors = append(sve.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return sve
}

// Decode unmarshals model output into target, stripping any Markdown code
// fences the model wrapped around the JSON.
func Decode(content string, target any) error {
	if err := json.Unmarshal([]byte(cleanJSONBlock(content)), target); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}
	return nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
