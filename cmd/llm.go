package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpilot/internal/llm"
	"github.com/abhisek/skillpilot/internal/store"
	"github.com/abhisek/skillpilot/internal/ui/theme"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Audit the model calls made for week reviews",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		user, _ := cmd.Flags().GetString("user")
		failed, _ := cmd.Flags().GetBool("failed")

		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			calls, err := events.QueryLLMEvents(ctx, store.QueryOpts{Limit: limit, UserID: user})
			if err != nil {
				return fmt.Errorf("query model calls: %w", err)
			}
			writeCalls(cmd.OutOrStdout(), filterCalls(calls, purpose, failed))
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and raw verdict of one model call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid call id %q", args[0])
		}
		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			e, err := events.GetLLMEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("get model call: %w", err)
			}
			if e == nil {
				return fmt.Errorf("model call %d not found", id)
			}
			writeCall(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			byPurpose, err := events.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			byModel, err := events.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			writeUsage(cmd.OutOrStdout(), byPurpose, byModel)
			return nil
		})
	},
}

// withEvents opens the learner database for the duration of fn.
func withEvents(cmd *cobra.Command, fn func(context.Context, store.EventRepo) error) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	return fn(cmd.Context(), s.EventRepo())
}

func filterCalls(calls []store.LLMRequestEventRecord, purpose string, failedOnly bool) []store.LLMRequestEventRecord {
	var out []store.LLMRequestEventRecord
	for _, e := range calls {
		if purpose != "" && e.Purpose != purpose {
			continue
		}
		if failedOnly && e.Success {
			continue
		}
		out = append(out, e)
	}
	return out
}

func writeCalls(w io.Writer, calls []store.LLMRequestEventRecord) {
	if len(calls) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("No model calls recorded."))
		return
	}
	row := "%-5v  %-19v  %-12v  %-12v  %-28v  %6v  %6v  %7v  %v\n"
	fmt.Fprintf(w, row, "ID", "Time", "Purpose", "Learner", "Model", "In", "Out", "Ms", "Result")
	fmt.Fprintln(w, strings.Repeat("─", 116))
	for _, e := range calls {
		result := theme.Good.Render("ok")
		if !e.Success {
			result = theme.Bad.Render("failed: " + truncate(e.ErrorMessage, 40))
		}
		learner := e.UserID
		if learner == "" {
			learner = "-"
		}
		fmt.Fprintf(w, row, e.ID, e.Timestamp.Local().Format(timeLayout), truncate(e.Purpose, 12),
			truncate(learner, 12), truncate(e.Model, 28), e.InputTokens, e.OutputTokens, e.LatencyMs, result)
	}
}

func writeCall(w io.Writer, e *store.LLMRequestEventRecord) {
	field := func(label string, v any) {
		fmt.Fprintln(w, theme.Label.Render(label)+fmt.Sprint(v))
	}
	field("ID", e.ID)
	field("Time", e.Timestamp.Local().Format(timeLayout))
	field("Model", e.Provider+"/"+e.Model)
	field("Purpose", e.Purpose)
	if e.UserID != "" {
		field("Learner", e.UserID)
	}
	field("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens))
	field("Latency", fmt.Sprintf("%dms", e.LatencyMs))
	if e.Success {
		field("Result", theme.Good.Render("ok"))
	} else {
		field("Result", theme.Bad.Render(e.ErrorMessage))
	}

	for _, part := range []struct{ title, body string }{
		{"Prompt", e.RequestBody},
		{"Verdict", e.ResponseBody},
	} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, theme.Section.Render(part.title))
		if part.body == "" {
			fmt.Fprintln(w, theme.Hint.Render("(not captured)"))
			continue
		}
		fmt.Fprintln(w, part.body)
	}
}

func writeUsage(w io.Writer, byPurpose []store.LLMUsageStats, byModel []store.LLMModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("No model usage recorded yet."))
		return
	}
	rule := strings.Repeat("─", 72)

	fmt.Fprintln(w, theme.Title.Render("Usage by purpose"))
	fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Avg ms")
	fmt.Fprintln(w, rule)
	var calls, in, out int
	for _, st := range byPurpose {
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %8d\n",
			truncate(st.Purpose, 16), st.Calls, st.InputTokens, st.OutputTokens, st.AvgLatencyMs)
		calls += st.Calls
		in += st.InputTokens
		out += st.OutputTokens
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-16s  %6d  %10d  %10d\n", "Total", calls, in, out)

	if len(byModel) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Title.Render("Estimated cost (USD)"))
	fmt.Fprintf(w, "%-32s  %6s  %10s\n", "Model", "Calls", "Cost")
	fmt.Fprintln(w, rule)
	var total float64
	var unpriced []string
	for _, mu := range byModel {
		cost := "?"
		if price := llm.LookupCost(mu.Model); price != nil {
			c := price.Cost(mu.InputTokens, mu.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, mu.Model)
		}
		fmt.Fprintf(w, "%-32s  %6d  %10s\n", truncate(mu.Model, 32), mu.Calls, cost)
	}
	fmt.Fprintln(w, rule)
	label := "Total"
	if len(unpriced) > 0 {
		label = "Total (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s\n", label, "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintln(w, theme.Hint.Render("No pricing for "+strings.Join(unpriced, ", ")))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only calls with this purpose (e.g. week-review)")
	llmListCmd.Flags().StringP("user", "u", "", "Only calls made for this learner")
	llmListCmd.Flags().Bool("failed", false, "Only failed calls, e.g. reviews waiting to be resumed")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
