package program

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// NewProgress initializes progress for a program: week 0 unlocked, every
// other week locked.
func NewProgress(prog *Program, now time.Time) *Progress {
	p := &Progress{
		ProgramID: prog.ID,
		StartedAt: now,
		UpdatedAt: now,
		Weeks:     make(map[int]WeekState, len(prog.Weeks)),
	}
	for _, w := range prog.Weeks {
		st := WeekLocked
		if w.WeekNo == 0 {
			st = WeekUnlocked
		}
		p.Weeks[w.WeekNo] = WeekState{Status: st}
	}
	return p
}

// Submit records a submission for a week and moves it to submitted. The
// previous submission is overwritten. The input progress is not modified.
func Submit(p *Progress, weekNo int, text string, attachments []string, now time.Time) (*Progress, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptySubmission
	}
	ws, ok := p.Weeks[weekNo]
	if !ok {
		return nil, fmt.Errorf("week %d: %w", weekNo, ErrUnknownWeek)
	}
	if ws.Status == WeekLocked {
		return nil, fmt.Errorf("week %d: %w", weekNo, ErrWeekLocked)
	}

	out := p.Clone()
	ws = out.Weeks[weekNo]
	ws.Status = WeekSubmitted
	ws.Submission = &Submission{
		Text:        text,
		SubmittedAt: now,
		Attachments: append([]string{}, attachments...),
	}
	out.Weeks[weekNo] = ws
	out.UpdatedAt = now
	return out, nil
}

// Passes reports whether a review passes a week: the reviewer's pass flag
// and the score threshold must both hold.
func Passes(r *Review, w Week) bool {
	return r.Pass && r.Score >= w.Rubric.PassScore()
}

// ApplyReview records a review verdict for a submitted week. A passing
// verdict forces the next week (if any) to unlocked and advances
// CurrentWeek. The input progress is not modified.
func ApplyReview(p *Progress, prog *Program, weekNo int, r Review, now time.Time) (*Progress, error) {
	if p.ProgramID != prog.ID {
		return nil, fmt.Errorf("%w: %q vs %q", ErrProgramMismatch, p.ProgramID, prog.ID)
	}
	week, ok := prog.Week(weekNo)
	if !ok {
		return nil, fmt.Errorf("week %d: %w", weekNo, ErrUnknownWeek)
	}
	if p.Status(weekNo) != WeekSubmitted {
		return nil, fmt.Errorf("week %d: %w", weekNo, ErrNotSubmitted)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.ReviewedAt.IsZero() {
		r.ReviewedAt = now
	}
	r.Strengths = slices.Clone(r.Strengths)
	r.Improvements = slices.Clone(r.Improvements)
	r.NextActions = slices.Clone(r.NextActions)

	out := p.Clone()
	ws := out.Weeks[weekNo]
	ws.Review = &r
	if Passes(&r, week) {
		ws.Status = WeekPassed
		next := weekNo + 1
		if nws, ok := out.Weeks[next]; ok {
			nws.Status = WeekUnlocked
			out.Weeks[next] = nws
			out.CurrentWeek = max(out.CurrentWeek, next)
		}
	} else {
		ws.Status = WeekNeedsWork
	}
	out.Weeks[weekNo] = ws
	out.UpdatedAt = now
	return out, nil
}
