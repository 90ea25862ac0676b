package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// planCmd prints the synthesized deployment command line to stdout so a CI
// step can run it with its own shell.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the deployment command for this build",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := synthesize(cmd.Context())
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), p.String())
		return nil
	},
}
