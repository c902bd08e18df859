package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillpilot/internal/store"
)

// recordingRepo captures appended LLM events.
type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProviderRecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"score":90}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 4},
	})
	p := WithLogging(mock, repo)

	ctx := WithPurpose(t.Context(), "week-review")
	_, err := p.Generate(ctx, Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
		User:     "learner-7",
	})
	require.NoError(t, err)

	require.Len(t, repo.events, 1)
	e := repo.events[0]
	assert.True(t, e.Success)
	assert.Equal(t, "mock", e.Provider)
	assert.Equal(t, "learner-7", e.UserID)
	assert.Equal(t, "week-review", e.Purpose)
	assert.Equal(t, 12, e.InputTokens)
	assert.Equal(t, 4, e.OutputTokens)
	assert.Equal(t, `{"score":90}`, e.ResponseBody)
	assert.Contains(t, e.RequestBody, "[system]\nsys")
	assert.Contains(t, e.RequestBody, "[user]\nhi")
}

func TestLoggingProviderRecordsFailure(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}})
	p := WithLogging(mock, repo)

	_, err := p.Generate(t.Context(), Request{})
	require.Error(t, err)

	require.Len(t, repo.events, 1)
	assert.False(t, repo.events[0].Success)
	assert.Contains(t, repo.events[0].ErrorMessage, "slow down")
	assert.Equal(t, "unknown", repo.events[0].Purpose)
}

func TestLoggingProviderIgnoresRepoErrors(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), repo)

	_, err := p.Generate(t.Context(), Request{})
	assert.NoError(t, err, "repo errors must not fail the request")
}

func TestSerializeRequestIncludesSchema(t *testing.T) {
	out := serializeRequest(Request{Schema: testSchema()})
	assert.Contains(t, out, "[schema: test-object]")
	assert.Contains(t, out, `"required":["name","score"]`)
}

func TestNewProviderMock(t *testing.T) {
	p, err := NewProvider(t.Context(), Config{Provider: "mock"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}

func TestNewProviderWrapsVendor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "openrouter"
	cfg.OpenRouter.APIKey = "sk-or-test"

	p, err := NewProvider(t.Context(), cfg, &recordingRepo{})
	require.NoError(t, err)
	assert.IsType(t, &timeoutProvider{}, p)
	assert.Equal(t, "openrouter", p.Name())
	assert.Equal(t, cfg.OpenRouter.Model, p.ModelID())

	cfg.Timeout = 0
	p, err = NewProvider(t.Context(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &RetryProvider{}, p)
}

func TestTimeoutProviderBoundsCall(t *testing.T) {
	inner := providerFunc(func(ctx context.Context, _ Request) (*Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	p := &timeoutProvider{Provider: inner, timeout: time.Millisecond}

	_, err := p.Generate(t.Context(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(t.Context(), Config{Provider: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}

type providerFunc func(context.Context, Request) (*Response, error)

func (f providerFunc) Generate(ctx context.Context, req Request) (*Response, error) { return f(ctx, req) }
func (f providerFunc) Name() string                                                { return "func" }
func (f providerFunc) ModelID() string                                             { return "func" }
