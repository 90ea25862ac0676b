package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/deploy"
	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/logger"
)

// verifyCmd checks the request and the application manifest without
// contacting the cluster.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Validate the deployment request and application manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := deploy.ParseStrategy(cfgStrategy); err != nil {
			return err
		}
		req := buildRequest()
		if err := req.Validate(); err != nil {
			return fmt.Errorf("invalid request: %w", err)
		}
		mf, err := deploy.ReadManifest(req.WorkspaceRoot, req.ManifestPath)
		if err != nil {
			return fmt.Errorf("invalid manifest: %w", err)
		}
		if mf.TypeName != req.ApplicationType {
			// sfctl create would fail against the registered type name.
			logger.Warn("manifest type name differs from --app-type",
				zap.String("manifest_type", mf.TypeName),
				zap.String("app_type", req.ApplicationType),
				zap.String("manifest", mf.Path))
		}
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "Manifest OK: %s %s\n", mf.TypeName, mf.TypeVersion)
		_, _ = fmt.Fprintf(out, "Package directory: %s\n", deploy.PackageDir(req.ManifestPath))
		_, _ = fmt.Fprintf(out, "Endpoint: %s\n", deploy.Endpoint(req))
		return nil
	},
}
