package program

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// WeekContext is what the reviewer needs to grade one week.
type WeekContext struct {
	ProgramID    string
	ProgramTitle string
	WeekNo       int
	Title        string
	Outcome      string
	Deliverables []string
	Rubric       Rubric
}

// NewWeekContext builds the review context for week w of prog.
func NewWeekContext(prog *Program, w Week) WeekContext {
	return WeekContext{
		ProgramID:    prog.ID,
		ProgramTitle: prog.Title,
		WeekNo:       w.WeekNo,
		Title:        w.Title,
		Outcome:      w.Outcome,
		Deliverables: w.Deliverables,
		Rubric:       w.Rubric,
	}
}

type learnerKey struct{}

// WithLearner tags ctx with the id of the learner whose week is reviewed.
func WithLearner(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, learnerKey{}, userID)
}

// LearnerFrom returns the id set by WithLearner, or "".
func LearnerFrom(ctx context.Context) string {
	v, _ := ctx.Value(learnerKey{}).(string)
	return v
}

// Reviewer grades a week submission.
type Reviewer interface {
	Review(ctx context.Context, submission Submission, week WeekContext) (*Review, error)
}

// Machine drives submissions through an external reviewer.
type Machine struct {
	reviewer Reviewer
	logger   *slog.Logger
	now      func() time.Time
}

// NewMachine creates a Machine. A nil logger discards log output.
func NewMachine(reviewer Reviewer, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{reviewer: reviewer, logger: logger, now: time.Now}
}

// SubmitForReview records the submission and requests a review.
//
// On a reviewer failure the returned progress holds the week at submitted
// along with a *ReviewError, so callers can persist it and resume later.
// Validation errors return a nil progress.
func (m *Machine) SubmitForReview(ctx context.Context, p *Progress, prog *Program, weekNo int, text string, attachments []string) (*Progress, error) {
	if p.ProgramID != prog.ID {
		return nil, fmt.Errorf("%w: %q vs %q", ErrProgramMismatch, p.ProgramID, prog.ID)
	}
	if _, ok := prog.Week(weekNo); !ok {
		return nil, fmt.Errorf("week %d: %w", weekNo, ErrUnknownWeek)
	}
	submitted, err := Submit(p, weekNo, text, attachments, m.now())
	if err != nil {
		return nil, err
	}
	m.logger.Info("week submitted", "user", LearnerFrom(ctx), "program", prog.ID, "week", weekNo)
	return m.review(ctx, submitted, prog, weekNo)
}

// ResumeReview re-requests the review of a week still in submitted state,
// using its stored submission.
func (m *Machine) ResumeReview(ctx context.Context, p *Progress, prog *Program, weekNo int) (*Progress, error) {
	if p.ProgramID != prog.ID {
		return nil, fmt.Errorf("%w: %q vs %q", ErrProgramMismatch, p.ProgramID, prog.ID)
	}
	if _, ok := prog.Week(weekNo); !ok {
		return nil, fmt.Errorf("week %d: %w", weekNo, ErrUnknownWeek)
	}
	ws := p.Weeks[weekNo]
	if ws.Status != WeekSubmitted || ws.Submission == nil {
		return nil, fmt.Errorf("week %d: %w", weekNo, ErrNotSubmitted)
	}
	return m.review(ctx, p.Clone(), prog, weekNo)
}

func (m *Machine) review(ctx context.Context, p *Progress, prog *Program, weekNo int) (*Progress, error) {
	week, _ := prog.Week(weekNo)
	sub := *p.Weeks[weekNo].Submission

	r, err := m.reviewer.Review(ctx, sub, NewWeekContext(prog, week))
	if err == nil && r == nil {
		err = errors.New("reviewer returned no verdict")
	}
	if err == nil {
		err = r.Validate()
	}
	if err != nil {
		m.logger.Warn("week review failed", "user", LearnerFrom(ctx), "program", prog.ID, "week", weekNo, "error", err)
		return p, &ReviewError{WeekNo: weekNo, Err: err}
	}

	out, err := ApplyReview(p, prog, weekNo, *r, m.now())
	if err != nil {
		return p, &ReviewError{WeekNo: weekNo, Err: err}
	}
	m.logger.Info("week reviewed",
		"user", LearnerFrom(ctx),
		"program", prog.ID,
		"week", weekNo,
		"score", r.Score,
		"pass", r.Pass,
		"status", out.Weeks[weekNo].Status,
		"current_week", out.CurrentWeek,
	)
	return out, nil
}
