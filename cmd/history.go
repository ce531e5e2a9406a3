package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the learner's recent attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			e, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer e.close()

			events, err := e.profile.RecentAttempts(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("query attempts: %w", err)
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No attempts recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(events))
			for _, ev := range events {
				mark := ""
				if ev.NewlyMastered {
					mark = "✓"
				}
				rows = append(rows, []string{
					strconv.FormatInt(ev.Sequence, 10),
					ev.Timestamp.Local().Format("2006-01-02 15:04"),
					ev.ExerciseID,
					ev.Checkpoint,
					percent(ev.Accuracy),
					strconv.FormatBool(ev.Success),
					mark,
				})
			}
			return printStyled(cmd.OutOrStdout(), renderTable(
				[]string{"Seq", "Time", "Exercise", "Checkpoint", "Accuracy", "Success", "Mastered"}, rows))
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
	return cmd
}
