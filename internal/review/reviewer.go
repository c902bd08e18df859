// Package review grades program week submissions with an LLM.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/skillpilot/internal/llm"
	"github.com/abhisek/skillpilot/internal/program"
)

// Purpose labels review calls in the LLM event log.
const Purpose = "week-review"

// LLMReviewer implements program.Reviewer over an llm.Provider.
type LLMReviewer struct {
	provider llm.Provider
	cfg      Config
	now      func() time.Time
}

var _ program.Reviewer = (*LLMReviewer)(nil)

// NewLLMReviewer creates a reviewer.
func NewLLMReviewer(provider llm.Provider, cfg Config) *LLMReviewer {
	return &LLMReviewer{provider: provider, cfg: cfg, now: time.Now}
}

type reviewOutput struct {
	Score        int      `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	NextActions  []string `json:"nextActions"`
	Pass         bool     `json:"pass"`
}

// Review grades one submission. Provider errors are returned as-is so callers
// can match the typed llm errors.
func (r *LLMReviewer) Review(ctx context.Context, sub program.Submission, week program.WeekContext) (*program.Review, error) {
	ctx = llm.WithPurpose(ctx, Purpose)
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(sub, week)},
		},
		Schema:      WeekReviewSchema,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
		User:        program.LearnerFrom(ctx),
	}

	resp, err := r.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("week review: %w", err)
	}

	// Gateways may skip native schema enforcement.
	if err := llm.ValidateResponse(WeekReviewSchema, resp.Content); err != nil {
		return nil, err
	}

	var out reviewOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: resp.Content, Err: fmt.Errorf("parse review: %w", err)}
	}

	return &program.Review{
		Score:        out.Score,
		Feedback:     out.Feedback,
		Strengths:    out.Strengths,
		Improvements: out.Improvements,
		NextActions:  out.NextActions,
		Pass:         out.Pass,
		ReviewedAt:   r.now().UTC(),
	}, nil
}
