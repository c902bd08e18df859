package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpilot/internal/learner"
	"github.com/abhisek/skillpilot/internal/persona"
	"github.com/abhisek/skillpilot/internal/skillgraph"
	"github.com/abhisek/skillpilot/internal/ui/components"
	"github.com/abhisek/skillpilot/internal/ui/wait"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview a domain/persona variant without saving anything",
	Long: `Build a throwaway profile for a domain and persona and show its skill
tree and program journey.

This is an admin tool: no profile is saved and no progress events are
recorded. With --week and --text the week is submitted for a real LLM
review so rubric changes can be checked end to end.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("domain", "ops", "Domain: ops or marketing")
	previewCmd.Flags().String("persona", "", "Persona within the domain (required)")
	previewCmd.Flags().Int("week", -1, "Week to submit for review")
	previewCmd.Flags().StringP("text", "t", "", "Submission text for --week")
	previewCmd.Flags().StringP("file", "f", "", "Read submission text from a file (- for stdin)")
	previewCmd.Flags().Bool("all", false, "Include hidden nodes")
	_ = previewCmd.MarkFlagRequired("persona")
}

func runPreview(cmd *cobra.Command, args []string) error {
	domain, _ := cmd.Flags().GetString("domain")
	personaVal, _ := cmd.Flags().GetString("persona")
	weekNo, _ := cmd.Flags().GetInt("week")
	all, _ := cmd.Flags().GetBool("all")
	d, pr := skillgraph.Domain(domain), persona.Persona(personaVal)

	mode := reviewerNone
	if weekNo >= 0 {
		mode = reviewerRequired
	}
	e, err := openEnv(cmd, mode, true)
	if err != nil {
		return err
	}
	defer e.Close()

	var (
		p         *learner.Profile
		reviewErr error
	)
	if weekNo >= 0 {
		text, err := submissionText(cmd)
		if err != nil {
			return err
		}
		p, reviewErr = wait.For(cmd.Context(), os.Stderr, "Reviewing preview submission...", func(ctx context.Context) (*learner.Profile, error) {
			return e.svc.PreviewSubmit(ctx, d, pr, weekNo, text, nil)
		})
		if p == nil {
			return reviewErr
		}
	} else if p, err = e.svc.Preview(d, pr); err != nil {
		return err
	}

	nodes, err := e.svc.Nodes(p)
	if err != nil {
		return err
	}
	tree, _ := e.svc.Catalog().SkillTree(p.SkillTreeID)

	printProfile(p)
	fmt.Println()
	fmt.Println(components.SkillTree(tree.Title(), nodes, all))
	fmt.Println()
	if err := printJourney(e.svc, p); err != nil {
		return err
	}
	return reviewErr
}
