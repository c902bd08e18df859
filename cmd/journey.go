package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpilot/internal/learner"
	"github.com/abhisek/skillpilot/internal/program"
	"github.com/abhisek/skillpilot/internal/ui/components"
	"github.com/abhisek/skillpilot/internal/ui/theme"
	"github.com/abhisek/skillpilot/internal/ui/wait"
)

var journeyCmd = &cobra.Command{
	Use:   "journey",
	Short: "Drive a learner's weekly program journey",
}

var journeyStartCmd = &cobra.Command{
	Use:   "start <user-id>",
	Short: "Start the learner's assigned program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		p, err = e.svc.StartProgram(ctx, p, true)
		if err != nil {
			return fmt.Errorf("start program: %w", err)
		}
		return printJourney(e.svc, p)
	},
}

var journeyStatusCmd = &cobra.Command{
	Use:   "status <user-id>",
	Short: "Show week statuses and review feedback",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, reviewerNone, false)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.svc.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJourney(e.svc, p)
	},
}

var journeySubmitCmd = &cobra.Command{
	Use:   "submit <user-id> <week>",
	Short: "Submit a week's deliverable for LLM review",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		weekNo, err := parseWeek(args[1])
		if err != nil {
			return err
		}
		text, err := submissionText(cmd)
		if err != nil {
			return err
		}
		attachments, _ := cmd.Flags().GetStringSlice("attach")

		e, err := openEnv(cmd, reviewerRequired, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		p, err := e.svc.Load(ctx, args[0])
		if err != nil {
			return err
		}
		label := fmt.Sprintf("Reviewing week %d submission...", weekNo)
		out, err := wait.For(ctx, os.Stderr, label, func(ctx context.Context) (*learner.Profile, error) {
			return e.svc.SubmitWeek(ctx, p, weekNo, text, attachments, true)
		})
		return finishJourney(e.svc, out, err)
	},
}

var journeyResumeCmd = &cobra.Command{
	Use:   "resume <user-id> <week>",
	Short: "Retry the review of a week left at submitted",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		weekNo, err := parseWeek(args[1])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, reviewerRequired, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		p, err := e.svc.Load(ctx, args[0])
		if err != nil {
			return err
		}
		label := fmt.Sprintf("Retrying week %d review...", weekNo)
		out, err := wait.For(ctx, os.Stderr, label, func(ctx context.Context) (*learner.Profile, error) {
			return e.svc.ResumeReview(ctx, p, weekNo, true)
		})
		return finishJourney(e.svc, out, err)
	},
}

func init() {
	journeySubmitCmd.Flags().StringP("text", "t", "", "Submission text")
	journeySubmitCmd.Flags().StringP("file", "f", "", "Read submission text from a file (- for stdin)")
	journeySubmitCmd.Flags().StringSlice("attach", nil, "Attachment links")

	journeyCmd.AddCommand(journeyStartCmd)
	journeyCmd.AddCommand(journeyStatusCmd)
	journeyCmd.AddCommand(journeySubmitCmd)
	journeyCmd.AddCommand(journeyResumeCmd)
}

func parseWeek(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid week %q", s)
	}
	return n, nil
}

func submissionText(cmd *cobra.Command) (string, error) {
	text, _ := cmd.Flags().GetString("text")
	file, _ := cmd.Flags().GetString("file")
	switch {
	case text != "" && file != "":
		return "", errors.New("use --text or --file, not both")
	case file == "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read submission: %w", err)
		}
		return string(b), nil
	}
	return text, nil
}

func printJourney(svc *learner.Service, p *learner.Profile) error {
	id := p.ProgramID
	if p.ProgramProgress != nil {
		id = p.ProgramProgress.ProgramID
	}
	prog, ok := svc.Catalog().Program(id)
	if !ok {
		return fmt.Errorf("%w: %q", learner.ErrNoProgram, id)
	}
	fmt.Println(components.Journey(prog, p.ProgramProgress))
	return nil
}

// finishJourney prints the journey after a submit or resume. A review
// failure still prints the saved state before returning the error.
func finishJourney(svc *learner.Service, p *learner.Profile, err error) error {
	var reviewErr *program.ReviewError
	if err != nil && !errors.As(err, &reviewErr) {
		return err
	}
	if perr := printJourney(svc, p); perr != nil {
		return perr
	}
	if reviewErr != nil {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, theme.Warn.Render(fmt.Sprintf(
			"Week %d is saved as submitted; run `skillpilot journey resume` to retry.", reviewErr.WeekNo)))
		return err
	}
	return nil
}
