package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"

	"github.com/abhisek/skillpilot/internal/persona"
	"github.com/abhisek/skillpilot/internal/skillgraph"
)

var toolChoices = []string{"excel", "sheets", "sql", "python", "tableau", "power_bi", "looker"}

// signalChoices returns every decision and KPI value the persona scorer
// recognises, across both domains.
func signalChoices() (decisions, kpis []string) {
	for _, d := range []skillgraph.Domain{skillgraph.DomainOps, skillgraph.DomainMarketing} {
		for _, s := range persona.Candidates(d) {
			decisions = append(decisions, s.Decisions...)
			kpis = append(kpis, s.KPIs...)
		}
	}
	slices.Sort(decisions)
	slices.Sort(kpis)
	return slices.Compact(decisions), slices.Compact(kpis)
}

// intakeAnswers holds the numeric answers while the form edits them as text.
type intakeAnswers struct {
	hours      string
	diagnostic string
}

func (a intakeAnswers) apply(in *persona.Intake) {
	if n, err := strconv.Atoi(strings.TrimSpace(a.hours)); err == nil {
		in.HoursPerWeek = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(a.diagnostic)); err == nil {
		in.DiagnosticScore = n
	}
}

func intRange(lo, hi int) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("enter a whole number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

// intakeFields builds one question per intake field that is still empty.
func intakeFields(in *persona.Intake, a *intakeAnswers) []huh.Field {
	decisions, kpis := signalChoices()
	var fields []huh.Field
	text := func(v *string, title, placeholder string) {
		if *v == "" {
			fields = append(fields, huh.NewInput().Title(title).Placeholder(placeholder).Value(v))
		}
	}
	multi := func(v *[]string, title string, choices []string) {
		if len(*v) == 0 {
			fields = append(fields, huh.NewMultiSelect[string]().
				Title(title).
				Options(huh.NewOptions(choices...)...).
				Value(v))
		}
	}

	text(&in.Role, "What is your role?", "e.g. demand planner")
	text(&in.Industry, "Which industry do you work in?", "e.g. retail")
	multi(&in.Tools, "Which tools do you use day to day?", toolChoices)
	text(&in.Goal, "What do you want to get out of this?", "e.g. ship a forecast my team trusts")
	if in.HoursPerWeek == 0 {
		fields = append(fields, huh.NewInput().
			Title("Hours available per week").
			Value(&a.hours).
			Validate(intRange(0, 168)))
	}
	multi(&in.Decisions, "Which decisions do you own?", decisions)
	multi(&in.KPIs, "Which KPIs are you measured on?", kpis)
	if in.DiagnosticScore == 0 {
		fields = append(fields, huh.NewInput().
			Title("Diagnostic score (0-100)").
			Placeholder("leave empty if you have not taken it").
			Value(&a.diagnostic).
			Validate(intRange(0, 100)))
	}
	return fields
}

// promptIntake asks for every intake field the flags left empty.
func promptIntake(ctx context.Context, in persona.Intake) (persona.Intake, error) {
	if !isInteractive() {
		return in, errors.New("--interactive needs a terminal")
	}
	var a intakeAnswers
	fields := intakeFields(&in, &a)
	if len(fields) == 0 {
		return in, nil
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).RunWithContext(ctx); err != nil {
		return in, fmt.Errorf("intake prompt: %w", err)
	}
	a.apply(&in)
	return in, nil
}

func isInteractive() bool {
	return term.IsTerminal(os.Stdin.Fd())
}
