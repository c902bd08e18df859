package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpilot/internal/ui/components"
)

var treeCmd = &cobra.Command{
	Use:   "tree <user-id>",
	Short: "Show a learner's skill tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		mastery, _ := cmd.Flags().GetInt("mastery")

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
		if cmd.Flags().Changed("mastery") {
			if p, err = e.svc.SetMastery(ctx, p, mastery, true); err != nil {
				return fmt.Errorf("set mastery: %w", err)
			}
		}

		nodes, err := e.svc.Nodes(p)
		if err != nil {
			return err
		}
		tree, _ := e.svc.Catalog().SkillTree(p.SkillTreeID)
		fmt.Println(components.SkillTree(tree.Title(), nodes, all))
		fmt.Println()
		fmt.Println(components.MasteryBar(p.MasteryScore, 48))
		fmt.Println(components.StatusCounts(nodes))
		return nil
	},
}

func init() {
	treeCmd.Flags().Bool("all", false, "Include hidden nodes")
	treeCmd.Flags().Int("mastery", 0, "Set the mastery score (0-100) and recompute before showing")
}
