package review

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillpilot/internal/program"
)

const systemPrompt = `You are a senior analytics lead reviewing a weekly deliverable from a professional in a 9-week applied AI program. Grade strictly against the rubric, be specific, and write for a busy manager.`

func buildUserMessage(sub program.Submission, week program.WeekContext) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Program: %s (%s)\n", week.ProgramTitle, week.ProgramID))
	b.WriteString(fmt.Sprintf("Week %d: %s\n", week.WeekNo, week.Title))
	if week.Outcome != "" {
		b.WriteString(fmt.Sprintf("Expected outcome: %s\n", week.Outcome))
	}

	if len(week.Deliverables) > 0 {
		b.WriteString("\nDeliverables:\n")
		for _, d := range week.Deliverables {
			b.WriteString(fmt.Sprintf("- %s\n", d))
		}
	}

	b.WriteString(fmt.Sprintf("\nRubric (pass score %d):\n", week.Rubric.PassScore()))
	if len(week.Rubric.Criteria) == 0 {
		b.WriteString("- Overall quality against the expected outcome\n")
	}
	for _, c := range week.Rubric.Criteria {
		if c.Weight > 0 {
			b.WriteString(fmt.Sprintf("- %s (weight %d): %s\n", c.Name, c.Weight, c.Description))
		} else {
			b.WriteString(fmt.Sprintf("- %s: %s\n", c.Name, c.Description))
		}
	}

	b.WriteString("\nSubmission:\n")
	b.WriteString(sub.Text)
	b.WriteString("\n")

	if len(sub.Attachments) > 0 {
		b.WriteString("\nAttachments:\n")
		for _, a := range sub.Attachments {
			b.WriteString(fmt.Sprintf("- %s\n", a))
		}
	}

	b.WriteString(`
Instructions:
1. Score the submission from 0 to 100 against the rubric.
2. Set pass to true only if the deliverable meets the expected outcome.
3. Name concrete strengths and gaps. Quote the submission where useful.
4. Suggest next actions the learner can finish within one week.`)

	return b.String()
}
