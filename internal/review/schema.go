package review

import "github.com/abhisek/skillpilot/internal/llm"

// WeekReviewSchema defines the JSON schema for grading a program week.
var WeekReviewSchema = &llm.Schema{
	Name:        "week-review",
	Description: "Rubric-based review of a learner's weekly deliverable",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     100,
				"description": "Overall rubric score from 0 to 100",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "2-4 sentence summary addressed to the learner",
			},
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "1-3 concrete strengths",
			},
			"improvements": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "1-3 concrete gaps against the rubric",
			},
			"nextActions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "1-3 next steps for the coming week",
			},
			"pass": map[string]any{
				"type":        "boolean",
				"description": "Whether the deliverable meets the week's outcome",
			},
		},
		"required":             []any{"score", "feedback", "strengths", "improvements", "nextActions", "pass"},
		"additionalProperties": false,
	},
}
