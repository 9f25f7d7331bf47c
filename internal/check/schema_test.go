package check

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeSchema_FieldShorthand(t *testing.T) {
	normalized := NormalizeSchema(map[string]any{
		"fields": []any{
			map[string]any{"name": "series", "type": "string", "required": true},
			"subtitle",
		},
	})

	if normalized == nil {
		t.Fatalf("expected normalized schema")
	}
	if normalized["type"] != "object" {
		t.Fatalf("expected object schema, got %#v", normalized["type"])
	}

	properties, ok := normalized["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected properties map, got %#v", normalized["properties"])
	}
	if _, ok := properties["series"]; !ok {
		t.Fatalf("expected series property, got %#v", properties)
	}
	if _, ok := properties["subtitle"]; !ok {
		t.Fatalf("expected subtitle property, got %#v", properties)
	}

	required, ok := normalized["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "series" {
		t.Fatalf("expected series to be required, got %#v", normalized["required"])
	}

	// Front matter allows keys beyond the schema unless the site says
	// otherwise.
	if normalized["additionalProperties"] != true {
		t.Fatalf("expected additional properties to default open, got %#v", normalized["additionalProperties"])
	}
}

func TestNormalizeSchema_PassthroughJSONSchema(t *testing.T) {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"title": map[string]any{"type": "string"}},
	}

	normalized := NormalizeSchema(schema)
	if normalized == nil {
		t.Fatalf("expected schema to pass through")
	}

	// The clone protects the caller's definition from later mutation.
	normalized["type"] = "array"
	if schema["type"] != "object" {
		t.Fatalf("expected original schema to be untouched")
	}
}

func TestValidateSchema_Invalid(t *testing.T) {
	err := ValidateSchema(map[string]any{"type": "nope"})
	if err == nil {
		t.Fatalf("expected compile error for bogus type")
	}
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestValidatePayload(t *testing.T) {
	schema := map[string]any{
		"fields": []any{
			map[string]any{"name": "series", "type": "string", "required": true},
		},
	}

	if err := ValidatePayload(schema, map[string]any{"series": "patterns"}); err != nil {
		t.Fatalf("expected payload to validate, got %v", err)
	}

	err := ValidatePayload(schema, map[string]any{})
	if err == nil {
		t.Fatalf("expected missing required property to fail")
	}
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}

	var payloadErr *PayloadValidationError
	if !errors.As(err, &payloadErr) || len(payloadErr.Issues) == 0 {
		t.Fatalf("expected issues on the typed error, got %v", err)
	}
}

func TestValidatePayload_NormalizesDecodedValues(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"date":  map[string]any{"type": "string"},
			"count": map[string]any{"type": "integer"},
		},
	}

	payload := map[string]any{
		"date":  time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC),
		"count": int64(3),
	}

	if err := ValidatePayload(schema, payload); err != nil {
		t.Fatalf("expected decoder values to normalize, got %v", err)
	}
}
