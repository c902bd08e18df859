package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"gpt-4o-mini", &ModelCost{0.15, 0.6}},
		{"gpt-4o-2024-08-06", &ModelCost{2.5, 10}},
		{"claude-sonnet-4-5-20250929", &ModelCost{3, 15}},
		{"anthropic/claude-haiku-4-5", &ModelCost{1, 5}},
		{"google/gemini-2.0-flash-exp", &ModelCost{0.1, 0.4}},
		{"Gemini-2.5-Pro", &ModelCost{1.25, 10}},
		{"mock", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupCost(tt.model))
		})
	}
}

func TestModelCost(t *testing.T) {
	c := LookupCost("claude-haiku-4-5")
	require.NotNil(t, c)
	assert.InDelta(t, 0.0035, c.Cost(1000, 500), 1e-9)
	assert.Zero(t, c.Cost(0, 0))
}

func TestDefaultModelsArePriced(t *testing.T) {
	cfg := DefaultConfig()
	for _, id := range []string{
		resolveModel(cfg.Anthropic.Model, anthropicModels),
		resolveModel(cfg.OpenAI.Model, openaiModels),
		resolveModel(cfg.Gemini.Model, geminiModels),
		cfg.OpenRouter.Model,
	} {
		assert.NotNil(t, LookupCost(id), id)
	}
}
