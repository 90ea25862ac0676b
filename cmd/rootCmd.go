package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sfdeploy",
	Short: "Deploy a Service Fabric application package from a CI build",
	Long: "Builds the sfctl command line that connects to a Service Fabric cluster and creates, upgrades or " +
		"cleanly redeploys the application whose manifest sits in the build workspace.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}
