package cmd

import (
	"github.com/spf13/cobra"
)

// Execute runs the storypoints command tree.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "storypoints",
		Short: "Adaptive story point estimation trainer",
		Long: `storypoints teaches agile story point estimation through graded exercises.

Progress is tracked per checkpoint. Support such as hints, retries and
detailed feedback is withdrawn as checkpoints are mastered.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPractice(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to config file (overrides STORYPOINTS_CONFIG env var)")
	flags.String("db", "", "Path to SQLite database file (overrides STORYPOINTS_DB env var)")
	flags.String("learner", "", "Learner profile name (overrides STORYPOINTS_LEARNER env var)")
	flags.String("catalog", "", "Path to a content catalog JSON file")
	flags.BoolP("verbose", "v", false, "Log at debug level to stderr")

	root.AddCommand(
		newPracticeCmd(),
		newSummaryCmd(),
		newAssessCmd(),
		newRecordCmd(),
		newRecommendCmd(),
		newContentCmd(),
		newCheckpointsCmd(),
		newHistoryCmd(),
		newResetCmd(),
		newVersionCmd(),
	)
	return root
}
