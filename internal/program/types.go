package program

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/skillpilot/internal/skillgraph"
)

// DefaultPassScore applies when a rubric leaves the pass score unset.
const DefaultPassScore = 70

// Criterion is one line of a week's grading rubric.
type Criterion struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Weight      int    `yaml:"weight" json:"weight"`
}

// Rubric describes how a week's submission is graded.
type Rubric struct {
	OverallPassScore int         `yaml:"overallPassScore" json:"overallPassScore"`
	Criteria         []Criterion `yaml:"criteria" json:"criteria,omitempty"`
}

// PassScore returns the effective pass score.
func (r Rubric) PassScore() int {
	if r.OverallPassScore <= 0 {
		return DefaultPassScore
	}
	return r.OverallPassScore
}

// Week is one step of a program definition.
type Week struct {
	WeekNo       int      `yaml:"weekNo" json:"weekNo"`
	Title        string   `yaml:"title" json:"title"`
	Outcome      string   `yaml:"outcome" json:"outcome"`
	Deliverables []string `yaml:"deliverables" json:"deliverables"`
	Rubric       Rubric   `yaml:"rubric" json:"rubric"`
}

// Program is a static multi-week journey definition.
type Program struct {
	ID     string            `yaml:"id" json:"id"`
	Title  string            `yaml:"title" json:"title"`
	Domain skillgraph.Domain `yaml:"domain" json:"domain"`
	Weeks  []Week            `yaml:"weeks" json:"weeks"`
}

// Week returns the definition of week n.
func (p *Program) Week(n int) (Week, bool) {
	if n < 0 || n >= len(p.Weeks) {
		return Week{}, false
	}
	return p.Weeks[n], true
}

// Validate checks that week numbers are contiguous from 0 and rubrics are
// within range.
func (p *Program) Validate() error {
	var errs []string
	if p.ID == "" {
		errs = append(errs, "program with empty ID")
	}
	if len(p.Weeks) == 0 {
		errs = append(errs, "program has no weeks")
	}
	for i, w := range p.Weeks {
		if w.WeekNo != i {
			errs = append(errs, fmt.Sprintf("week at position %d has weekNo %d", i, w.WeekNo))
		}
		if s := w.Rubric.OverallPassScore; s < 0 || s > 100 {
			errs = append(errs, fmt.Sprintf("week %d pass score %d out of range [0,100]", w.WeekNo, s))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("program %q validation failed:\n  %s", p.ID, strings.Join(errs, "\n  "))
	}
	return nil
}

// WeekStatus is the per-learner state of one program week.
type WeekStatus string

const (
	WeekLocked    WeekStatus = "locked"
	WeekUnlocked  WeekStatus = "unlocked"
	WeekSubmitted WeekStatus = "submitted"
	WeekPassed    WeekStatus = "passed"
	WeekNeedsWork WeekStatus = "needs_work"
)

// Submission is the learner's latest artifact for a week.
type Submission struct {
	Text        string    `json:"text"`
	SubmittedAt time.Time `json:"submittedAt"`
	Attachments []string  `json:"attachments"`
}

// Review is a reviewer verdict. Score and Pass are independent signals.
type Review struct {
	Score        int       `json:"score"`
	Feedback     string    `json:"feedback"`
	Strengths    []string  `json:"strengths"`
	Improvements []string  `json:"improvements"`
	NextActions  []string  `json:"nextActions"`
	Pass         bool      `json:"pass"`
	ReviewedAt   time.Time `json:"reviewedAt"`
}

// Validate rejects reviews whose score is outside [0,100].
func (r *Review) Validate() error {
	if r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("review score %d out of range [0,100]", r.Score)
	}
	return nil
}

// WeekState is the status plus latest submission and review for one week.
type WeekState struct {
	Status     WeekStatus  `json:"status"`
	Submission *Submission `json:"submission,omitempty"`
	Review     *Review     `json:"review,omitempty"`
}

// Progress is a learner's state in one program.
type Progress struct {
	ProgramID   string            `json:"programId"`
	CurrentWeek int               `json:"currentWeek"`
	StartedAt   time.Time         `json:"startedAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Weeks       map[int]WeekState `json:"weeks"`
}

// Clone returns a deep copy of p.
func (p *Progress) Clone() *Progress {
	if p == nil {
		return nil
	}
	c := *p
	c.Weeks = make(map[int]WeekState, len(p.Weeks))
	for n, ws := range p.Weeks {
		if ws.Submission != nil {
			s := *ws.Submission
			s.Attachments = append([]string(nil), s.Attachments...)
			ws.Submission = &s
		}
		if ws.Review != nil {
			r := *ws.Review
			r.Strengths = append([]string(nil), r.Strengths...)
			r.Improvements = append([]string(nil), r.Improvements...)
			r.NextActions = append([]string(nil), r.NextActions...)
			ws.Review = &r
		}
		c.Weeks[n] = ws
	}
	return &c
}

// Status returns the status of week n, or WeekLocked for unknown weeks.
func (p *Progress) Status(n int) WeekStatus {
	if ws, ok := p.Weeks[n]; ok {
		return ws.Status
	}
	return WeekLocked
}
