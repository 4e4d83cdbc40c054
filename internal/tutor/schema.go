package tutor

import "github.com/qirim/qirim/internal/llm"

// ExplanationSchema is the JSON shape of a review of missed questions.
var ExplanationSchema = &llm.Schema{
	Name:        "missed-question-review",
	Description: "Short explanations of why each chosen answer was wrong, plus a memory tip",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text, copied verbatim",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "1-2 sentences on why the correct answer is right and the chosen one is not",
						},
						"tip": map[string]any{
							"type":        "string",
							"description": "A short mnemonic or usage example in Crimean Tatar with translation",
						},
					},
					"required":             []any{"question", "explanation", "tip"},
					"additionalProperties": false,
				},
			},
			"encouragement": map[string]any{
				"type":        "string",
				"description": "One friendly sentence, may open with a Crimean Tatar word",
			},
		},
		"required":             []any{"items", "encouragement"},
		"additionalProperties": false,
	},
}
