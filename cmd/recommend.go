package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pienaaranker/storypoints-sub000/internal/coach"
	"github.com/pienaaranker/storypoints-sub000/internal/content"
)

func newRecommendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Show the next recommended exercise",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, envOptions{coach: true})
			if err != nil {
				return err
			}
			defer e.close()

			out := cmd.OutOrStdout()
			ex, ok := e.profile.Recommend(e.catalog.Exercises)
			if !ok {
				fmt.Fprintln(out, "No exercises available.")
				return nil
			}

			cfg := e.profile.Engine().Config()
			names := make([]string, 0, len(ex.Targets()))
			for _, cp := range ex.Targets() {
				names = append(names, cfg.Name(cp))
			}

			fmt.Fprintf(out, "%s (%s)\n", ex.Title, ex.ID)
			fmt.Fprintf(out, "Level:  %s\n", content.ClassifyExercise(ex).Label())
			fmt.Fprintf(out, "Trains: %s\n", strings.Join(names, ", "))
			if ex.Instructions != "" {
				fmt.Fprintf(out, "\n%s\n", ex.Instructions)
			}

			stories := e.catalog.StoriesFor(ex)
			if len(stories) > 0 {
				fmt.Fprintln(out)
				for _, s := range stories {
					fmt.Fprintf(out, "  - %s\n", s.Title)
				}
			}

			state := e.profile.State()
			if !state.AdaptiveSettings.ShowHints || !e.coach.Enabled() {
				return nil
			}
			hint, err := e.coach.Hint(cmd.Context(), state.AdaptiveSettings,
				coach.NewHintInput(state, cfg, ex, stories))
			if err != nil {
				e.logger.Warn("coach hint failed", zap.Error(err))
				return nil
			}
			if hint != nil {
				fmt.Fprintf(out, "\nHint: %s\n", hint.Text)
			}
			return nil
		},
	}
}
