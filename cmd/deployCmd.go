package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/executor"
	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/logger"
)

// deployCmd synthesizes the plan and runs it, locally in the workspace or on
// the --target build host. Plan output streams to stdout and stderr. An
// interrupt stops the run and fails the build.
var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Synthesize the deployment command and run it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, req, err := synthesize(ctx)
		var report *yamlReport
		if cfgOutPath != "" {
			report = newYAMLReport(req, cfgTarget)
		}
		if err != nil {
			if report != nil {
				report.setResult(executor.Result{}, err)
				writeReport(report)
			}
			return err
		}

		host := cfgTarget
		if host == "" {
			host = "localhost"
		}
		logger.Info("running deployment",
			zap.String("app", req.ApplicationID),
			zap.String("version", p.Version),
			zap.String("mode", p.ModeLabel()),
			zap.String("host", host))

		x := newExecutorFunc(req.WorkspaceRoot)
		res, runErr := x.Run(ctx, p.String(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if report != nil {
			report.setPlan(p)
			report.setResult(res, runErr)
			if runErr != nil {
				writeReport(report)
			} else if err := writeReportFile(cfgOutPath, report); err != nil {
				return fmt.Errorf("failed to write YAML report: %w", err)
			}
		}
		if runErr != nil {
			return runErr
		}
		logger.Info("deployment finished", zap.Duration("duration", res.Duration))
		return nil
	},
}

// writeReport writes the report of a failed run; the run's error takes
// precedence over a failure here.
func writeReport(r *yamlReport) {
	if err := writeReportFile(cfgOutPath, r); err != nil {
		logger.Error("failed to write YAML report", zap.String("path", cfgOutPath), zap.Error(err))
	}
}
