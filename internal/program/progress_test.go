package program

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func twoWeekProgram() *Program {
	return &Program{
		ID:    "p2",
		Title: "Two Weeks",
		Weeks: []Week{
			{WeekNo: 0, Title: "Baseline", Rubric: Rubric{OverallPassScore: 70}},
			{WeekNo: 1, Title: "Pilot", Rubric: Rubric{OverallPassScore: 70}},
		},
	}
}

func submitted(t *testing.T, prog *Program, week int) *Progress {
	t.Helper()
	p := NewProgress(prog, t0)
	if week > 0 {
		for n := 1; n <= week; n++ {
			ws := p.Weeks[n]
			ws.Status = WeekUnlocked
			p.Weeks[n] = ws
		}
	}
	p, err := Submit(p, week, "my analysis", nil, t0)
	require.NoError(t, err)
	return p
}

func TestNewProgress(t *testing.T) {
	p := NewProgress(twoWeekProgram(), t0)
	assert.Equal(t, "p2", p.ProgramID)
	assert.Equal(t, 0, p.CurrentWeek)
	assert.Equal(t, WeekUnlocked, p.Status(0))
	assert.Equal(t, WeekLocked, p.Status(1))
	assert.Equal(t, t0, p.StartedAt)
}

func TestSubmit_Validation(t *testing.T) {
	p := NewProgress(twoWeekProgram(), t0)

	_, err := Submit(p, 0, "   \n", nil, t0)
	assert.ErrorIs(t, err, ErrEmptySubmission)

	_, err = Submit(p, 1, "text", nil, t0)
	assert.ErrorIs(t, err, ErrWeekLocked)

	_, err = Submit(p, 7, "text", nil, t0)
	assert.ErrorIs(t, err, ErrUnknownWeek)

	assert.Equal(t, WeekUnlocked, p.Status(0))
	assert.Nil(t, p.Weeks[0].Submission)
}

func TestSubmit_DoesNotMutateInput(t *testing.T) {
	p := NewProgress(twoWeekProgram(), t0)
	out, err := Submit(p, 0, "draft", []string{"sheet.csv"}, t0.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, WeekUnlocked, p.Status(0))
	assert.Equal(t, WeekSubmitted, out.Status(0))
	assert.Equal(t, "draft", out.Weeks[0].Submission.Text)
	assert.Equal(t, []string{"sheet.csv"}, out.Weeks[0].Submission.Attachments)
	assert.Equal(t, t0.Add(time.Hour), out.UpdatedAt)
}

func TestApplyReview_PassUnlocksNextWeek(t *testing.T) {
	prog := twoWeekProgram()
	p := submitted(t, prog, 0)

	out, err := ApplyReview(p, prog, 0, Review{Score: 80, Pass: true}, t0)
	require.NoError(t, err)
	assert.Equal(t, WeekPassed, out.Status(0))
	assert.Equal(t, WeekUnlocked, out.Status(1))
	assert.Equal(t, 1, out.CurrentWeek)
	assert.Equal(t, t0, out.Weeks[0].Review.ReviewedAt)
}

func TestApplyReview_PassFlagRequired(t *testing.T) {
	prog := twoWeekProgram()
	p := submitted(t, prog, 0)

	out, err := ApplyReview(p, prog, 0, Review{Score: 80, Pass: false}, t0)
	require.NoError(t, err)
	assert.Equal(t, WeekNeedsWork, out.Status(0))
	assert.Equal(t, WeekLocked, out.Status(1))
	assert.Equal(t, 0, out.CurrentWeek)
}

func TestApplyReview_ScoreThresholdRequired(t *testing.T) {
	prog := twoWeekProgram()
	p := submitted(t, prog, 0)

	out, err := ApplyReview(p, prog, 0, Review{Score: 69, Pass: true}, t0)
	require.NoError(t, err)
	assert.Equal(t, WeekNeedsWork, out.Status(0))
	assert.Equal(t, WeekLocked, out.Status(1))

	p = submitted(t, prog, 0)
	out, err = ApplyReview(p, prog, 0, Review{Score: 70, Pass: true}, t0)
	require.NoError(t, err)
	assert.Equal(t, WeekPassed, out.Status(0))
}

func TestApplyReview_DefaultPassScore(t *testing.T) {
	prog := twoWeekProgram()
	prog.Weeks[0].Rubric.OverallPassScore = 0
	p := submitted(t, prog, 0)

	out, err := ApplyReview(p, prog, 0, Review{Score: 65, Pass: true}, t0)
	require.NoError(t, err)
	assert.Equal(t, WeekNeedsWork, out.Status(0))
}

func TestApplyReview_LastWeekPass(t *testing.T) {
	prog := twoWeekProgram()
	p := submitted(t, prog, 1)
	p.CurrentWeek = 1

	out, err := ApplyReview(p, prog, 1, Review{Score: 90, Pass: true}, t0)
	require.NoError(t, err)
	assert.Equal(t, WeekPassed, out.Status(1))
	assert.Equal(t, 1, out.CurrentWeek)
	assert.Len(t, out.Weeks, 2)
}

func TestApplyReview_Rejections(t *testing.T) {
	prog := twoWeekProgram()
	fresh := NewProgress(prog, t0)

	_, err := ApplyReview(fresh, prog, 0, Review{Score: 90, Pass: true}, t0)
	assert.ErrorIs(t, err, ErrNotSubmitted)

	_, err = ApplyReview(fresh, prog, 5, Review{Score: 90, Pass: true}, t0)
	assert.ErrorIs(t, err, ErrUnknownWeek)

	p := submitted(t, prog, 0)
	_, err = ApplyReview(p, prog, 0, Review{Score: 101, Pass: true}, t0)
	assert.Error(t, err)
	assert.Equal(t, WeekSubmitted, p.Status(0))

	other := &Program{ID: "other", Weeks: prog.Weeks}
	_, err = ApplyReview(p, other, 0, Review{Score: 90, Pass: true}, t0)
	assert.ErrorIs(t, err, ErrProgramMismatch)
}

func TestResubmitNeedsWorkKeepsLatestOnly(t *testing.T) {
	prog := twoWeekProgram()
	p := submitted(t, prog, 0)
	p, err := ApplyReview(p, prog, 0, Review{Score: 50, Feedback: "thin", Pass: false}, t0)
	require.NoError(t, err)

	p, err = Submit(p, 0, "revised analysis", nil, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, WeekSubmitted, p.Status(0))
	assert.Equal(t, "revised analysis", p.Weeks[0].Submission.Text)
	require.NotNil(t, p.Weeks[0].Review)
	assert.Equal(t, "thin", p.Weeks[0].Review.Feedback)

	p, err = ApplyReview(p, prog, 0, Review{Score: 88, Feedback: "solid", Pass: true}, t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, WeekPassed, p.Status(0))
	assert.Equal(t, "solid", p.Weeks[0].Review.Feedback)
	assert.Equal(t, WeekUnlocked, p.Status(1))
}

func TestResubmitPassedWeek(t *testing.T) {
	prog := twoWeekProgram()
	p := submitted(t, prog, 0)
	p, err := ApplyReview(p, prog, 0, Review{Score: 90, Pass: true}, t0)
	require.NoError(t, err)

	p, err = Submit(p, 0, "another take", nil, t0)
	require.NoError(t, err)
	p, err = ApplyReview(p, prog, 0, Review{Score: 40, Pass: false}, t0)
	require.NoError(t, err)

	assert.Equal(t, WeekNeedsWork, p.Status(0))
	assert.Equal(t, 1, p.CurrentWeek, "current week never decreases")
	assert.Equal(t, WeekUnlocked, p.Status(1))
}

func TestProgramMonotonicity(t *testing.T) {
	prog := &Program{ID: "p4"}
	for n := range 4 {
		prog.Weeks = append(prog.Weeks, Week{WeekNo: n})
	}
	p := NewProgress(prog, t0)

	verdicts := []struct {
		week  int
		score int
		pass  bool
	}{
		{0, 90, true}, {1, 30, false}, {0, 10, false}, {1, 75, true},
		{2, 95, true}, {0, 99, true}, {3, 50, true}, {3, 71, true},
	}
	last := p.CurrentWeek
	for i, v := range verdicts {
		next, err := Submit(p, v.week, "work", nil, t0)
		require.NoError(t, err, "step %d", i)
		next, err = ApplyReview(next, prog, v.week, Review{Score: v.score, Pass: v.pass}, t0)
		require.NoError(t, err, "step %d", i)

		assert.GreaterOrEqual(t, next.CurrentWeek, last, "step %d", i)
		assert.NotEqual(t, WeekLocked, next.Status(0), "step %d", i)
		last = next.CurrentWeek
		p = next
	}
	assert.Equal(t, 3, p.CurrentWeek)
	assert.Equal(t, WeekPassed, p.Status(3))
}

func TestProgramValidate(t *testing.T) {
	assert.NoError(t, twoWeekProgram().Validate())

	gap := &Program{ID: "gap", Weeks: []Week{{WeekNo: 0}, {WeekNo: 2}}}
	err := gap.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weekNo 2")

	bad := &Program{ID: "bad", Weeks: []Week{{WeekNo: 0, Rubric: Rubric{OverallPassScore: 120}}}}
	assert.Error(t, bad.Validate())

	assert.Error(t, (&Program{ID: "empty"}).Validate())
}

func TestProgressClone(t *testing.T) {
	prog := twoWeekProgram()
	p := submitted(t, prog, 0)
	p, err := ApplyReview(p, prog, 0, Review{Score: 90, Pass: true, Strengths: []string{"clear"}}, t0)
	require.NoError(t, err)

	c := p.Clone()
	c.Weeks[0].Review.Strengths[0] = "changed"
	c.Weeks[0].Submission.Text = "changed"
	assert.Equal(t, "clear", p.Weeks[0].Review.Strengths[0])
	assert.Equal(t, "my analysis", p.Weeks[0].Submission.Text)
}
