package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

// recordingRetry returns a retry provider whose sleeps are recorded
// instead of taken.
func recordingRetry(mock *MockProvider) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	p := WithRetry(mock, retryConfig()).(*RetryProvider)
	p.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return p, &waits
}

var okResponse = MockResponse{Content: json.RawMessage(`{"ok":true}`)}

func TestRetryAttempts(t *testing.T) {
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	invalid := MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}}

	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", []MockResponse{okResponse}, false, 1},
		{"transient then success", []MockResponse{down, okResponse}, false, 2},
		{"all attempts fail", []MockResponse{down, down, down, okResponse}, true, 3},
		{"invalid response retried once", []MockResponse{invalid, invalid, okResponse}, true, 2},
		{"invalid then success", []MockResponse{invalid, okResponse}, false, 2},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, okResponse}, true, 1},
		{"rejected not retried", []MockResponse{{Err: &ErrRejected{StatusCode: 401, Err: errors.New("bad key")}}, okResponse}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p, _ := recordingRetry(mock)

			resp, err := p.Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetryKeepsErrorType(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{}`)}})
	p, _ := recordingRetry(mock)

	_, err := p.Generate(context.Background(), Request{})
	var maxTok *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &maxTok)
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		okResponse,
	)
	p, _ := recordingRetry(mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetryRespectsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 7 * time.Second, Err: errors.New("429")}},
		okResponse,
	)
	p, waits := recordingRetry(mock)

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{7 * time.Second}, *waits)
}

func TestRetryBackoffBounds(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig()).(*RetryProvider)
	for attempt := range 6 {
		wait := p.backoff(attempt, errors.New("x"))
		assert.LessOrEqual(t, wait, 12*time.Millisecond, "attempt %d", attempt)
		assert.GreaterOrEqual(t, wait, 800*time.Microsecond, "attempt %d", attempt)
	}
}

func TestRetryDelegatesIdentity(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig())
	assert.Equal(t, "mock", p.ModelID())
	assert.Equal(t, "mock", p.Name())
}
