package review

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillpilot/internal/llm"
	"github.com/abhisek/skillpilot/internal/program"
)

func weekZero() program.WeekContext {
	return program.WeekContext{
		ProgramID:    "ops-9w",
		ProgramTitle: "Ops Analytics Pilot",
		WeekNo:       0,
		Title:        "Baseline the decision",
		Outcome:      "A documented baseline for one recurring decision",
		Deliverables: []string{"Decision brief", "Baseline metric"},
		Rubric: program.Rubric{
			OverallPassScore: 75,
			Criteria: []program.Criterion{
				{Name: "Clarity", Description: "Decision and owner are explicit", Weight: 40},
				{Name: "Evidence", Description: "Baseline is computed from real data"},
			},
		},
	}
}

func fixedReviewer(p llm.Provider) *LLMReviewer {
	r := NewLLMReviewer(p, DefaultConfig())
	r.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	return r
}

func TestReviewParsesVerdict(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{
			"score": 82,
			"feedback": "Solid baseline with a clear owner.",
			"strengths": ["explicit decision owner"],
			"improvements": ["show the data window"],
			"nextActions": ["pull 12 weeks of history"],
			"pass": true
		}`),
	})

	got, err := fixedReviewer(mock).Review(context.Background(),
		program.Submission{Text: "Weekly replenishment for 40 SKUs, owned by the DC lead.", Attachments: []string{"baseline.csv"}},
		weekZero())
	require.NoError(t, err)

	assert.Equal(t, 82, got.Score)
	assert.True(t, got.Pass)
	assert.Equal(t, []string{"explicit decision owner"}, got.Strengths)
	assert.Equal(t, []string{"pull 12 weeks of history"}, got.NextActions)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), got.ReviewedAt)
}

func TestReviewRequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"score":50,"feedback":"f","strengths":[],"improvements":[],"nextActions":[],"pass":false}`),
	})

	ctx := program.WithLearner(context.Background(), "learner-7")
	_, err := fixedReviewer(mock).Review(ctx,
		program.Submission{Text: "my brief", Attachments: []string{"deck.pdf"}}, weekZero())
	require.NoError(t, err)
	require.Equal(t, 1, mock.CallCount())

	req := mock.Calls[0]
	assert.Equal(t, "learner-7", req.User)
	require.NotNil(t, req.Schema)
	assert.Equal(t, "week-review", req.Schema.Name)
	require.Len(t, req.Messages, 1)

	msg := req.Messages[0].Content
	for _, want := range []string{
		"Week 0: Baseline the decision",
		"pass score 75",
		"Clarity (weight 40)",
		"- Evidence: Baseline is computed",
		"my brief",
		"deck.pdf",
	} {
		assert.True(t, strings.Contains(msg, want), "prompt missing %q", want)
	}
}

func TestReviewDefaultRubricLine(t *testing.T) {
	week := weekZero()
	week.Rubric = program.Rubric{}

	msg := buildUserMessage(program.Submission{Text: "x"}, week)
	assert.Contains(t, msg, "pass score 70")
	assert.Contains(t, msg, "Overall quality against the expected outcome")
}

func TestReviewRejectsOutOfRangeScore(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"score":140,"feedback":"f","strengths":[],"improvements":[],"nextActions":[],"pass":true}`),
	})

	_, err := fixedReviewer(mock).Review(context.Background(), program.Submission{Text: "x"}, weekZero())
	var invalid *llm.ErrInvalidResponse
	assert.True(t, errors.As(err, &invalid), "expected ErrInvalidResponse, got %v", err)
}

func TestReviewRejectsMissingFields(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"score":80}`)})

	_, err := fixedReviewer(mock).Review(context.Background(), program.Submission{Text: "x"}, weekZero())
	var invalid *llm.ErrInvalidResponse
	assert.True(t, errors.As(err, &invalid))
}

func TestReviewWrapsProviderErrors(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}})

	_, err := fixedReviewer(mock).Review(context.Background(), program.Submission{Text: "x"}, weekZero())
	require.Error(t, err)

	var rl *llm.ErrRateLimit
	assert.True(t, errors.As(err, &rl))
}

// Reviewer failures surface through the machine as a recoverable ReviewError.
func TestReviewerInMachineKeepsWeekSubmitted(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue: provider unavailable
	m := program.NewMachine(fixedReviewer(mock), nil)

	prog := &program.Program{
		ID:    "ops-9w",
		Title: "Ops Analytics Pilot",
		Weeks: []program.Week{{WeekNo: 0, Title: "Baseline"}, {WeekNo: 1, Title: "Model"}},
	}
	p := program.NewProgress(prog, time.Now())

	next, err := m.SubmitForReview(context.Background(), p, prog, 0, "draft", nil)
	var reviewErr *program.ReviewError
	require.True(t, errors.As(err, &reviewErr))

	var unavailable *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavailable))
	require.NotNil(t, next)
	assert.Equal(t, program.WeekSubmitted, next.Status(0))
}
