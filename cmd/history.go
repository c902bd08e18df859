package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpilot/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history <user-id>",
	Short: "Show a learner's progress events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd, reviewerNone, false)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.EventRepo().QueryProgressEvents(cmd.Context(), store.QueryOpts{
			UserID: args[0],
			Limit:  limit,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No progress recorded yet.")
			return nil
		}

		fmt.Printf("%-19s  %-20s  %-18s  %4s  %-9s  %s\n",
			"Timestamp", "Event", "Ref", "Week", "Mastery", "Detail")
		fmt.Println(strings.Repeat("─", 100))
		for _, ev := range events {
			week := "-"
			if ev.WeekNo != nil {
				week = fmt.Sprintf("%d", *ev.WeekNo)
			}
			mastery := fmt.Sprintf("%d", ev.MasteryAfter)
			if ev.MasteryBefore != ev.MasteryAfter {
				mastery = fmt.Sprintf("%d→%d", ev.MasteryBefore, ev.MasteryAfter)
			}
			fmt.Printf("%-19s  %-20s  %-18s  %4s  %-9s  %s\n",
				ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
				ev.Kind,
				truncate(ev.RefID, 18),
				week,
				mastery,
				truncate(ev.Detail, 40),
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 50, "Number of events to show")
	learnersCmd.Flags().IntP("limit", "n", 50, "Number of learners to show")
}

var learnersCmd = &cobra.Command{
	Use:   "learners",
	Short: "List saved learner profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd, reviewerNone, false)
		if err != nil {
			return err
		}
		defer e.Close()

		recs, err := e.store.ProfileRepo().List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list profiles: %w", err)
		}
		if len(recs) == 0 {
			fmt.Println("No learners yet. Run `skillpilot onboard` to add one.")
			return nil
		}

		fmt.Printf("%-36s  %-10s  %7s  %s\n", "User", "Domain", "Mastery", "Updated")
		fmt.Println(strings.Repeat("─", 80))
		for _, r := range recs {
			fmt.Printf("%-36s  %-10s  %7d  %s\n",
				truncate(r.UserID, 36), r.Domain, r.MasteryScore,
				r.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}
