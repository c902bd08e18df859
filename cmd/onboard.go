package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpilot/internal/learner"
	"github.com/abhisek/skillpilot/internal/persona"
	"github.com/abhisek/skillpilot/internal/skillgraph"
	"github.com/abhisek/skillpilot/internal/ui/components"
	"github.com/abhisek/skillpilot/internal/ui/theme"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Classify a learner from intake answers and create their profile",
	Long: `Classify a learner from intake answers and create their profile.

With --update, an existing profile is reclassified instead. Mastery,
verified skills, artifacts and program progress carry over.

With --interactive, any intake answer not given as a flag is asked for
in a form.`,
	RunE: runOnboard,
}

func init() {
	f := onboardCmd.Flags()
	f.String("user", "", "User ID (generated when empty)")
	f.String("role", "", "Current role or job title")
	f.String("industry", "", "Industry")
	f.StringSlice("tools", nil, "Tools used day to day (e.g. excel,sql,python)")
	f.String("goal", "", "Learning goal")
	f.Int("hours", 0, "Hours available per week")
	f.StringSlice("decisions", nil, "Decisions the learner makes")
	f.StringSlice("kpis", nil, "KPIs the learner owns")
	f.Int("diagnostic", 0, "Diagnostic score (0-100)")
	f.Bool("admin", false, "Mark the profile as an admin")
	f.Bool("update", false, "Reclassify an existing profile")
	f.BoolP("interactive", "i", false, "Prompt for intake answers missing from flags")
}

func intakeFromFlags(cmd *cobra.Command) persona.Intake {
	f := cmd.Flags()
	var in persona.Intake
	in.Role, _ = f.GetString("role")
	in.Industry, _ = f.GetString("industry")
	in.Tools, _ = f.GetStringSlice("tools")
	in.Goal, _ = f.GetString("goal")
	in.HoursPerWeek, _ = f.GetInt("hours")
	in.Decisions, _ = f.GetStringSlice("decisions")
	in.KPIs, _ = f.GetStringSlice("kpis")
	in.DiagnosticScore, _ = f.GetInt("diagnostic")
	return in
}

func runOnboard(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, reviewerNone, false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	userID, _ := cmd.Flags().GetString("user")
	update, _ := cmd.Flags().GetBool("update")
	in := intakeFromFlags(cmd)
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		if in, err = promptIntake(ctx, in); err != nil {
			return err
		}
	}

	var p *learner.Profile
	if update {
		if userID == "" {
			return errors.New("--update needs --user")
		}
		existing, err := e.svc.Load(ctx, userID)
		if err != nil {
			return err
		}
		p, err = e.svc.Reclassify(ctx, existing, in, true)
		if err != nil {
			return fmt.Errorf("reclassify: %w", err)
		}
	} else {
		admin, _ := cmd.Flags().GetBool("admin")
		p, err = e.svc.Onboard(ctx, userID, in, admin, true)
		if err != nil {
			return fmt.Errorf("onboard: %w", err)
		}
	}

	printProfile(p)
	nodes, err := e.svc.Nodes(p)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(components.StatusCounts(nodes))
	return nil
}

// printProfile writes the classification summary of a profile.
func printProfile(p *learner.Profile) {
	row := func(label, value string) {
		fmt.Println(theme.Label.Render(label) + theme.Body.Render(value))
	}
	fmt.Println(theme.Title.Render("Learner " + p.UserID))
	row("Track", string(p.Track))
	row("Domain", skillgraph.DomainDisplayName(p.Domain))
	row("Persona", fmt.Sprintf("%s (%d)", p.PrimaryPersona.DisplayName(), p.PrimaryScore))
	row("Secondary", fmt.Sprintf("%s (%d)", p.SecondaryPersona.DisplayName(), p.SecondaryScore))
	row("Skill tree", p.SkillTreeID)
	row("Program", p.ProgramID)
	row("First use case", p.StartingUseCaseID)
	row("Verified skills", fmt.Sprintf("%d", len(p.VerifiedSkills)))
	row("Artifacts", fmt.Sprintf("%d", len(p.Artifacts)))
	fmt.Println(components.MasteryBar(p.MasteryScore, 48))
}
