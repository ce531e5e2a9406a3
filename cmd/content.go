package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pienaaranker/storypoints-sub000/internal/content"
	"github.com/pienaaranker/storypoints-sub000/internal/curriculum"
	"github.com/pienaaranker/storypoints-sub000/internal/progression"
)

func newContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "List catalog content visible at a tier",
	}
	cmd.PersistentFlags().String("tier", "", "Tier to filter for (default: the learner's current tier)")
	cmd.PersistentFlags().Bool("all", false, "List everything regardless of tier")

	cmd.AddCommand(&cobra.Command{
		Use:   "stories",
		Short: "List stories",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer e.close()

			stories := e.catalog.Stories
			if all, _ := cmd.Flags().GetBool("all"); !all {
				tier, err := contentTier(cmd, e.profile.State())
				if err != nil {
					return err
				}
				stories = content.FilterForLevel(stories, tier)
			}

			rows := make([][]string, 0, len(stories))
			for _, s := range stories {
				rows = append(rows, []string{
					s.ID, s.Title, strconv.Itoa(s.Points), content.Classify(s).Label(),
				})
			}
			return printStyled(cmd.OutOrStdout(),
				renderTable([]string{"ID", "Title", "Points", "Level"}, rows))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "exercises",
		Short: "List exercises",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer e.close()

			exercises := e.catalog.Exercises
			if all, _ := cmd.Flags().GetBool("all"); !all {
				tier, err := contentTier(cmd, e.profile.State())
				if err != nil {
					return err
				}
				exercises = content.FilterExercisesForLevel(exercises, tier)
			}

			rows := make([][]string, 0, len(exercises))
			for _, ex := range exercises {
				rows = append(rows, []string{
					ex.ID, ex.Title, string(ex.Type), content.ClassifyExercise(ex).Label(),
					strconv.Itoa(len(ex.Stories)),
				})
			}
			return printStyled(cmd.OutOrStdout(),
				renderTable([]string{"ID", "Title", "Type", "Level", "Stories"}, rows))
		},
	})
	return cmd
}

func contentTier(cmd *cobra.Command, state progression.State) (curriculum.Tier, error) {
	v, _ := cmd.Flags().GetString("tier")
	if v == "" {
		return progression.CurrentTier(state), nil
	}
	tier, err := curriculum.ParseTier(v)
	if err != nil {
		return curriculum.TierFoundation, fmt.Errorf("--tier: %w", err)
	}
	return tier, nil
}
