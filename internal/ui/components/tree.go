package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpilot/internal/skillgraph"
	"github.com/abhisek/skillpilot/internal/ui/theme"
)

// SkillTree renders nodes grouped by category, in input order.
// Hidden nodes are skipped unless showHidden is set.
func SkillTree(title string, nodes []skillgraph.Node, showHidden bool) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(title))
	b.WriteByte('\n')

	var (
		categories []string
		byCategory = make(map[string][]skillgraph.Node)
	)
	for _, n := range nodes {
		if n.Status == skillgraph.StatusHidden && !showHidden {
			continue
		}
		cat := n.Category
		if cat == "" {
			cat = "General"
		}
		if _, ok := byCategory[cat]; !ok {
			categories = append(categories, cat)
		}
		byCategory[cat] = append(byCategory[cat], n)
	}

	if len(categories) == 0 {
		b.WriteString(theme.Hint.Render("No visible skills."))
		return b.String()
	}

	for _, cat := range categories {
		b.WriteString(theme.Section.Render(cat))
		b.WriteByte('\n')
		for _, n := range byCategory[cat] {
			b.WriteString(nodeLine(n))
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func nodeLine(n skillgraph.Node) string {
	label := theme.StatusStyle(n.Status).Render(n.Label)
	meta := string(n.Difficulty)
	if n.Remedial {
		meta += ", remedial"
	}
	if n.Domain != "" && n.Domain != skillgraph.DomainShared {
		meta += ", " + string(n.Domain)
	}
	line := fmt.Sprintf("  %s %s %s", n.Status.Icon(), label, theme.Muted.Render("("+meta+")"))
	if n.Status == skillgraph.StatusLocked && len(n.Dependencies) > 0 {
		line += "\n" + lipgloss.NewStyle().PaddingLeft(5).Render(
			theme.Hint.Render("needs "+strings.Join(n.Dependencies, ", ")))
	}
	return line
}

// StatusCounts renders a one-line summary of status counts.
func StatusCounts(nodes []skillgraph.Node) string {
	counts := make(map[skillgraph.Status]int)
	for _, n := range nodes {
		counts[n.Status]++
	}
	order := []skillgraph.Status{
		skillgraph.StatusCompleted,
		skillgraph.StatusInProgress,
		skillgraph.StatusUnlocked,
		skillgraph.StatusLocked,
		skillgraph.StatusHidden,
	}
	var parts []string
	for _, s := range order {
		if counts[s] == 0 {
			continue
		}
		parts = append(parts, theme.StatusStyle(s).Render(fmt.Sprintf("%d %s", counts[s], strings.ToLower(string(s)))))
	}
	return strings.Join(parts, theme.Muted.Render(" · "))
}
