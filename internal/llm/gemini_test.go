package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "gemini-2.0-pro", resolveModel("gemini-pro", geminiModels))
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-2.5-flash", geminiModels))
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score":    map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"feedback": map[string]any{"type": "string", "description": "two sentences"},
			"level":    map[string]any{"type": "string", "enum": []any{"low", "high"}},
			"actions": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": 3,
			},
			"odd": map[string]any{"type": "null"},
		},
		"required": []string{"score", "feedback"},
	}

	s := buildGeminiSchema(def)

	require.Equal(t, genai.TypeObject, s.Type)
	require.Len(t, s.Properties, 5)
	assert.Equal(t, []string{"score", "feedback"}, s.Required)

	score := s.Properties["score"]
	assert.Equal(t, genai.TypeInteger, score.Type)
	require.NotNil(t, score.Minimum)
	require.NotNil(t, score.Maximum)
	assert.Equal(t, 0.0, *score.Minimum)
	assert.Equal(t, 100.0, *score.Maximum)

	assert.Equal(t, "two sentences", s.Properties["feedback"].Description)
	assert.Equal(t, []string{"low", "high"}, s.Properties["level"].Enum)

	actions := s.Properties["actions"]
	assert.Equal(t, genai.TypeArray, actions.Type)
	assert.Equal(t, genai.TypeString, actions.Items.Type)
	require.NotNil(t, actions.MaxItems)
	assert.Equal(t, int64(3), *actions.MaxItems)

	assert.Equal(t, genai.TypeString, s.Properties["odd"].Type)
}

func TestGeminiProviderRequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(t.Context(), GeminiConfig{Model: "gemini-flash"})
	require.Error(t, err)
}
