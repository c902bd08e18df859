package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpilot/internal/learner"
	"github.com/abhisek/skillpilot/internal/ui/components"
	"github.com/abhisek/skillpilot/internal/ui/theme"
)

var completeCmd = &cobra.Command{
	Use:   "complete <user-id> <use-case-id>",
	Short: "Mark a use case completed and unlock dependent skills",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		delta, _ := cmd.Flags().GetInt("delta")

		e, err := openEnv(cmd, reviewerNone, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		p, err := e.svc.Load(ctx, args[0])
		if err != nil {
			return err
		}
		c, err := e.svc.CompleteUseCase(ctx, p, args[1], delta, true)
		if err != nil {
			return fmt.Errorf("complete %s: %w", args[1], err)
		}

		fmt.Println(theme.Good.Render("Completed " + c.Artifact.Title))
		fmt.Printf("Artifact %s (%s)\n", c.Artifact.ID, c.Artifact.Type)
		fmt.Printf("Mastery %d → %d\n", c.MasteryBefore, c.Profile.MasteryScore)
		fmt.Println(components.MasteryBar(c.Profile.MasteryScore, 48))
		if len(c.NewlyVerified) > 0 {
			fmt.Println("Verified " + strings.Join(c.NewlyVerified, ", "))
		}
		if len(c.NewlyUnlocked) == 0 {
			fmt.Println(theme.Hint.Render("No new skills unlocked."))
			return nil
		}
		fmt.Println(theme.Section.Render("Newly unlocked"))
		for _, id := range c.NewlyUnlocked {
			fmt.Println("  🔓 " + id)
		}
		return nil
	},
}

func init() {
	completeCmd.Flags().Int("delta", learner.DefaultCompletionDelta, "Mastery change for this completion")
}
