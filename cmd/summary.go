package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pienaaranker/storypoints-sub000/internal/screens/checkpoints"
	"github.com/pienaaranker/storypoints-sub000/internal/ui/components"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the learner's progress summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer e.close()

			s := e.profile.Summary()
			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(out, s)
			}

			cfg := e.profile.Engine().Config()
			fmt.Fprintf(out, "Learner:   %s\n", e.profile.Name())
			fmt.Fprintf(out, "Tier:      %s\n", s.CurrentTier.Label())
			fmt.Fprintf(out, "Progress:  %s %d%%  (%d of %d checkpoints)\n",
				components.TextBar(float64(s.ProgressPercentage)/100, 24),
				s.ProgressPercentage, s.CompletedCount, s.TotalCheckpoints)
			if s.HasNext() {
				fmt.Fprintf(out, "Next:      %s\n", cfg.Name(s.NextCheckpoint))
			} else {
				fmt.Fprintln(out, "Next:      all checkpoints mastered")
			}
			st := s.AdaptiveSettings
			fmt.Fprintf(out, "Support:   hints %s, retries %s, detailed feedback %s\n",
				onOff(st.ShowHints), onOff(st.AllowRetries), onOff(st.DetailedFeedback))
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	return cmd
}

func newAssessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Show per-checkpoint skill assessment",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer e.close()

			a := e.profile.Assessment()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), a)
			}
			return printStyled(cmd.OutOrStdout(), checkpoints.Table(a, tableWidth))
		},
	}
	cmd.Flags().Bool("json", false, "Print the assessment as JSON")
	return cmd
}
