package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillpilot/internal/program"
	"github.com/abhisek/skillpilot/internal/ui/theme"
)

// Journey renders a program's weeks with their progress state.
func Journey(prog *program.Program, p *program.Progress) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(prog.Title))
	b.WriteByte('\n')
	if p == nil {
		b.WriteString(theme.Hint.Render("Program not started."))
		return b.String()
	}
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Current week: %d", p.CurrentWeek)))
	b.WriteByte('\n')

	for _, w := range prog.Weeks {
		st := p.Status(w.WeekNo)
		style := theme.WeekStatusStyle(st)
		fmt.Fprintf(&b, "\n %s %s %s\n",
			style.Render(theme.WeekIcon(st)),
			theme.Body.Render(fmt.Sprintf("Week %d: %s", w.WeekNo, w.Title)),
			style.Render("["+string(st)+"]"))
		if ws, ok := p.Weeks[w.WeekNo]; ok && ws.Review != nil {
			b.WriteString(ReviewSummary(ws.Review, w))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// ReviewSummary renders a review verdict indented under its week.
func ReviewSummary(r *program.Review, w program.Week) string {
	var b strings.Builder
	verdict := theme.Bad.Render("needs work")
	if program.Passes(r, w) {
		verdict = theme.Good.Render("pass")
	}
	fmt.Fprintf(&b, "     score %d (pass %d)  %s\n", r.Score, w.Rubric.PassScore(), verdict)
	if r.Feedback != "" {
		fmt.Fprintf(&b, "     %s\n", theme.Hint.Render(r.Feedback))
	}
	for _, s := range r.NextActions {
		fmt.Fprintf(&b, "     %s %s\n", theme.Muted.Render("→"), s)
	}
	return b.String()
}
