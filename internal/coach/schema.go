package coach

import "github.com/pienaaranker/storypoints-sub000/internal/llm"

// HintSchema defines the JSON schema for hint generation.
var HintSchema = &llm.Schema{
	Name:        "estimation-hint",
	Description: "A short hint for a story point estimation exercise",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "One or two sentences that nudge without giving the answer",
			},
			"focus": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "The estimation concept the hint is about (2-4 words)",
			},
		},
		"required":             []any{"hint", "focus"},
		"additionalProperties": false,
	},
}

// FeedbackSchema defines the JSON schema for detailed feedback.
var FeedbackSchema = &llm.Schema{
	Name:        "estimation-feedback",
	Description: "An explanation of an estimation attempt with follow-up tips",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "2-4 sentences on what drove the reference estimates",
			},
			"tips": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"maxItems":    3,
				"description": "Up to 3 concrete tips (5-12 words each)",
			},
		},
		"required":             []any{"explanation", "tips"},
		"additionalProperties": false,
	},
}
