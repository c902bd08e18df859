package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRejected indicates the provider refused the request itself (bad
// credentials, unknown model, malformed parameters). Retrying cannot help.
type ErrRejected struct {
	StatusCode int
	Err        error
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("LLM request rejected (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *ErrRejected) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// statusError maps a vendor HTTP status to a typed error. A zero status
// means the call never got a response.
func statusError(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case status == http.StatusRequestTimeout, status >= 500, status == 0:
		return &ErrProviderUnavailable{Err: err}
	default:
		return &ErrRejected{StatusCode: status, Err: err}
	}
}

// checkOutput validates content against the request schema. Output that
// stopped at the token limit and fails validation is reported as truncated.
func checkOutput(req Request, content json.RawMessage, stop string) error {
	if req.Schema == nil {
		return nil
	}
	err := ValidateResponse(req.Schema, content)
	if err != nil && stop == stopMaxTokens {
		return &ErrMaxTokensExceeded{Content: content}
	}
	return err
}

// retryPolicy says whether err is worth another attempt. once marks errors
// that get a single retry only.
func retryPolicy(err error) (retry, once bool) {
	var (
		maxTok   *ErrMaxTokensExceeded
		rejected *ErrRejected
		invalid  *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false, false
	case errors.As(err, &maxTok), errors.As(err, &rejected):
		return false, false
	case errors.As(err, &invalid):
		return true, true
	default:
		return true, false
	}
}
