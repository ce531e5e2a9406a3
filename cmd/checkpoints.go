package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newCheckpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkpoints",
		Short: "List checkpoints and their mastery criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer e.close()

			criteria := e.profile.Engine().Config().All()
			rows := make([][]string, 0, len(criteria))
			for _, c := range criteria {
				rows = append(rows, []string{
					string(c.Checkpoint), c.Name, percent(c.RequiredAccuracy), strconv.Itoa(c.MinAttempts),
				})
			}
			return printStyled(cmd.OutOrStdout(),
				renderTable([]string{"ID", "Name", "Accuracy", "Min attempts"}, rows))
		},
	}
}
