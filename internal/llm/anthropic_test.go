package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anthropicStub serves one canned Messages API reply and captures the
// decoded request body.
func anthropicStub(t *testing.T, status int, body map[string]any) (*AnthropicProvider, *map[string]any) {
	t.Helper()
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: "claude-haiku-4-5"}, &got
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func anthropicError(kind string) map[string]any {
	return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": kind}}
}

func TestAnthropicGenerate(t *testing.T) {
	p, got := anthropicStub(t, http.StatusOK, anthropicMessage(`{"name":"ok","score":82}`, "end_turn"))

	resp, err := p.Generate(t.Context(), Request{
		System:    "You review analytics pilot submissions.",
		Messages:  []Message{{Role: RoleUser, Content: "Review this week 0 submission."}},
		Schema:    testSchema(),
		MaxTokens: 256,
		User:      "learner-7",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ok","score":82}`, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 50, OutputTokens: 30, TotalTokens: 80}, resp.Usage)
	assert.Equal(t, stopEnd, resp.StopReason)

	require.NotNil(t, *got)
	assert.Equal(t, map[string]any{"user_id": "learner-7"}, (*got)["metadata"])
	assert.Equal(t, "claude-haiku-4-5", (*got)["model"])
}

func TestAnthropicTruncatedOutput(t *testing.T) {
	p, _ := anthropicStub(t, http.StatusOK, anthropicMessage(`{"name":"ok","sco`, "max_tokens"))

	_, err := p.Generate(t.Context(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "review"}},
		Schema:    testSchema(),
		MaxTokens: 16,
	})
	var maxTok *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &maxTok)
}

func TestAnthropicErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   string
		check  func(t *testing.T, err error)
	}{
		{"rate limit", http.StatusTooManyRequests, "rate_limit_error", func(t *testing.T, err error) {
			var target *ErrRateLimit
			assert.ErrorAs(t, err, &target)
		}},
		{"server error", http.StatusInternalServerError, "api_error", func(t *testing.T, err error) {
			var target *ErrProviderUnavailable
			assert.ErrorAs(t, err, &target)
		}},
		{"bad key", http.StatusUnauthorized, "authentication_error", func(t *testing.T, err error) {
			var target *ErrRejected
			require.ErrorAs(t, err, &target)
			assert.Equal(t, http.StatusUnauthorized, target.StatusCode)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := anthropicStub(t, tt.status, anthropicError(tt.kind))
			_, err := p.Generate(t.Context(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "test"}},
				MaxTokens: 100,
			})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestAnthropicIdentity(t *testing.T) {
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "claude-sonnet"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.Name())
	assert.Equal(t, "claude-sonnet-4-5", p.ModelID())

	_, err = NewAnthropicProvider(AnthropicConfig{Model: "claude-haiku"})
	assert.Error(t, err)
}

func TestAnthropicModelMapping(t *testing.T) {
	assert.Equal(t, "claude-haiku-4-5", resolveModel("claude-haiku", anthropicModels))
	assert.Equal(t, "claude-sonnet-4-5-20250929", resolveModel("claude-sonnet-4-5-20250929", anthropicModels))
}
