package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProviderReplaysInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)
	ctx := context.Background()

	first, err := mock.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "first"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(first.Content))
	assert.Equal(t, 10, first.Usage.InputTokens)
	assert.Equal(t, "end", first.StopReason)

	second, err := mock.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(second.Content))

	require.Equal(t, 2, mock.CallCount())
	assert.Equal(t, "sys", mock.Calls[0].System)

	_, err = mock.Generate(ctx, Request{})
	var unavailable *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable, "empty queue")
}

func TestMockProviderReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})
	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)
}

func TestMockProviderEnforcesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"name":"x"}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: testSchema()})
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestMockProviderIdentity(t *testing.T) {
	mock := NewMockProvider()
	assert.Equal(t, "mock", mock.Name())
	assert.Equal(t, "mock", mock.ModelID())
}

func TestPurposeContext(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
	assert.Equal(t, "week-review", PurposeFrom(WithPurpose(context.Background(), "week-review")))
}

func TestStatusError(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{http.StatusInternalServerError, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{http.StatusRequestTimeout, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{0, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{http.StatusUnauthorized, func(err error) bool { var e *ErrRejected; return errors.As(err, &e) && e.StatusCode == 401 }},
		{http.StatusBadRequest, func(err error) bool { var e *ErrRejected; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		err := statusError(tt.status, cause)
		assert.True(t, tt.check(err), "status %d mapped to %T", tt.status, err)
		assert.ErrorIs(t, err, cause)
	}
}

func TestCheckOutputTruncation(t *testing.T) {
	partial := json.RawMessage(`{"name":"x","sco`)

	err := checkOutput(Request{Schema: testSchema()}, partial, stopMaxTokens)
	var maxTok *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &maxTok)
	assert.Equal(t, partial, maxTok.Content)

	err = checkOutput(Request{Schema: testSchema()}, partial, stopEnd)
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)

	assert.NoError(t, checkOutput(Request{}, partial, stopMaxTokens), "no schema, no check")
}
