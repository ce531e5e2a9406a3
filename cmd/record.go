package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pienaaranker/storypoints-sub000/internal/curriculum"
	"github.com/pienaaranker/storypoints-sub000/internal/learner"
	"github.com/pienaaranker/storypoints-sub000/internal/progression"
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record the result of one attempt",
		Long: `Record an attempt against a checkpoint, or against every checkpoint an
exercise trains.

Accuracy is a fraction from 0 to 1. Success defaults to whether accuracy
reaches the configured success threshold.`,
		Example: `  storypoints record --checkpoint basic_sizing --accuracy 0.9
  storypoints record --exercise reference-story --accuracy 0.75`,
		RunE: runRecord,
	}
	cmd.Flags().String("checkpoint", "", "Checkpoint id (e.g. basic_sizing)")
	cmd.Flags().String("exercise", "", "Exercise id; records against all of its checkpoints")
	cmd.Flags().Float64("accuracy", 0, "Accuracy of the attempt, 0 to 1")
	cmd.Flags().Bool("success", false, "Mark the attempt as a success (default: accuracy >= threshold)")
	_ = cmd.MarkFlagRequired("accuracy")
	cmd.MarkFlagsOneRequired("checkpoint", "exercise")
	cmd.MarkFlagsMutuallyExclusive("checkpoint", "exercise")
	return cmd
}

func runRecord(cmd *cobra.Command, args []string) error {
	checkpoint, _ := cmd.Flags().GetString("checkpoint")
	exerciseID, _ := cmd.Flags().GetString("exercise")
	accuracy, _ := cmd.Flags().GetFloat64("accuracy")

	e, err := openEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer e.close()

	ctx := cmd.Context()
	before := progression.CurrentTier(e.profile.State())

	var outcomes []progression.Outcome
	if exerciseID != "" {
		ex, ok := e.catalog.Exercise(exerciseID)
		if !ok {
			return fmt.Errorf("unknown exercise %q", exerciseID)
		}
		outcomes, err = e.profile.RecordExercise(ctx, ex, accuracy)
	} else {
		success := e.profile.Succeeded(accuracy)
		if cmd.Flags().Changed("success") {
			success, _ = cmd.Flags().GetBool("success")
		}
		var out progression.Outcome
		out, err = e.profile.Record(ctx, "", progression.Attempt{
			Checkpoint: curriculum.Checkpoint(checkpoint),
			Success:    success,
			Accuracy:   accuracy,
		})
		outcomes = []progression.Outcome{out}
	}
	if errors.Is(err, progression.ErrInvalidAttempt) {
		return err
	}
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}

	printOutcomes(cmd.OutOrStdout(), e.profile, outcomes)
	if after := progression.CurrentTier(e.profile.State()); after != before {
		fmt.Fprintf(cmd.OutOrStdout(), "Reached the %s tier.\n", after.Label())
	}
	return nil
}

func printOutcomes(w io.Writer, p *learner.Profile, outcomes []progression.Outcome) {
	cfg := p.Engine().Config()
	for _, out := range outcomes {
		fmt.Fprintf(w, "%s: %d attempts, %s average accuracy\n",
			cfg.Name(out.Checkpoint), out.Score.Attempts, percent(out.Score.AverageAccuracy))
		if out.NewlyMastered {
			fmt.Fprintf(w, "Mastered %s!\n", cfg.Name(out.Checkpoint))
		}
	}
}
