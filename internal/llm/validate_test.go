package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testHintSchema() *Schema {
	return &Schema{
		Name:        "test-hint",
		Description: "An estimation hint",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"hint":   map[string]any{"type": "string", "minLength": 1},
				"focus":  map[string]any{"type": "string"},
				"points": map[string]any{"type": "integer", "enum": []any{1, 2, 3, 5, 8, 13}},
			},
			"required": []any{"hint", "focus"},
		},
	}
}

func TestValidateResponse_ValidJSON(t *testing.T) {
	raw := json.RawMessage(`{"hint":"Compare with the login story.","focus":"relative size","points":3}`)
	if err := validateResponse(testHintSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_ValidWithoutOptional(t *testing.T) {
	raw := json.RawMessage(`{"hint":"Look for hidden work.","focus":"risk"}`)
	if err := validateResponse(testHintSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing required", `{"hint":"Split it."}`},
		{"wrong type", `{"hint":"Split it.","focus":7}`},
		{"not a fibonacci value", `{"hint":"Split it.","focus":"size","points":4}`},
		{"empty hint", `{"hint":"","focus":"size"}`},
		{"malformed JSON", `{not json}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testHintSchema(), json.RawMessage(tt.raw))
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
			}
		})
	}
}

func TestValidateResponse_EmptyResponse(t *testing.T) {
	if err := validateResponse(testHintSchema(), json.RawMessage(``)); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NestedObjects(t *testing.T) {
	schema := &Schema{
		Name:        "test-feedback",
		Description: "Nested test",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"story": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{"type": "string"},
					},
					"required": []any{"title"},
				},
				"estimates": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "integer"},
				},
			},
			"required": []any{"story", "estimates"},
		},
	}

	valid := json.RawMessage(`{"story":{"title":"Login button"},"estimates":[2,3,5]}`)
	if err := validateResponse(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	invalid := json.RawMessage(`{"story":{"title":"Login button"},"estimates":["two"]}`)
	if err := validateResponse(schema, invalid); err == nil {
		t.Fatal("expected error for wrong array item type")
	}
}

func TestValidateResponse_CachesBySchemaName(t *testing.T) {
	s := testHintSchema()
	s.Name = "test-hint-cache"
	raw := json.RawMessage(`{"hint":"Split it.","focus":"size"}`)
	for range 3 {
		if err := validateResponse(s, raw); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, ok := compiledSchemas.Load(s.Name); !ok {
		t.Fatal("expected compiled schema to be cached")
	}
}
