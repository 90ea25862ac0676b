package cmd

import (
	"fmt"
	"os"

	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/logger"
)

// Execute runs the root command. Any error is printed to stderr and fails the
// build with exit status 1.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		exitFunc(1)
	}
}
