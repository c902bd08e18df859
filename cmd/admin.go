package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpilot/internal/ui/components"
	"github.com/abhisek/skillpilot/internal/ui/theme"
)

var adminCmd = &cobra.Command{
	Use:   "admin <user-id>",
	Short: "Turn the admin override on or off for a learner",
	Long: `Turn the admin override on or off for a learner.

An admin sees every node of their skill tree unlocked. Turning the
override off rebuilds the gated view from verified skills and mastery.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		off, _ := cmd.Flags().GetBool("off")

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
		if p, err = e.svc.SetAdmin(ctx, p, !off, true); err != nil {
			return fmt.Errorf("set admin: %w", err)
		}

		state := "off"
		if p.IsAdmin {
			state = "on"
		}
		fmt.Println(theme.Good.Render("Admin override " + state + " for " + p.UserID))
		nodes, err := e.svc.Nodes(p)
		if err != nil {
			return err
		}
		fmt.Println(components.StatusCounts(nodes))
		return nil
	},
}

func init() {
	adminCmd.Flags().Bool("off", false, "Remove the override instead of granting it")
}
