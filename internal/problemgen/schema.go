package problemgen

import "github.com/kuisku/kuisku/internal/llm"

// QuizBatchSchema is the JSON schema for a batch of generated quiz items.
// The root is an object because OpenAI structured output rejects array roots.
var QuizBatchSchema = &llm.Schema{
	Name:        "quiz-batch",
	Description: "A batch of multiple-choice math quiz questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"quiz": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "Teks soal yang jelas, singkat, dan langsung",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Tepat 4 pilihan jawaban yang berbeda",
						},
						"correct_answer": map[string]any{
							"type":        "string",
							"description": "Jawaban benar, sama persis dengan salah satu pilihan",
						},
					},
					"required":             []any{"question", "options", "correct_answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"quiz"},
		"additionalProperties": false,
	},
}
