package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pienaaranker/storypoints-sub000/internal/app"
)

func newPracticeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "practice",
		Short: "Start an interactive practice session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPractice(cmd)
		},
	}
}

// runPractice opens the environment and launches the TUI.
func runPractice(cmd *cobra.Command) error {
	e, err := openEnv(cmd, envOptions{tui: true, coach: true})
	if err != nil {
		return err
	}
	defer e.close()

	return app.Run(cmd.Context(), app.Options{
		Profile: e.profile,
		Catalog: e.catalog,
		Coach:   e.coach,
	})
}
