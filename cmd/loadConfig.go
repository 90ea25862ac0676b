package cmd

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/logger"
)

// loadConfig resolves every setting of cmd into the cfg* globals. A flag given
// on the command line wins over SFDEPLOY_<FLAG> in the environment, which wins
// over the request file, which wins over the flag default. It also installs
// the process logger.
func loadConfig(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	// CI servers export these under their own names.
	_ = v.BindEnv("build-home", envPrefix+"_BUILD_HOME", "JENKINS_HOME")
	_ = v.BindEnv("project", envPrefix+"_PROJECT", "JOB_NAME")

	cfgLogLevel = v.GetString("log-level")
	cfgLogFormat = v.GetString("log-format")
	if err := logger.Init(logger.Config{Level: cfgLogLevel, Format: cfgLogFormat, Output: cmd.ErrOrStderr()}); err != nil {
		return err
	}

	var fileParams map[string]string
	cfgRequestFile = v.GetString("request")
	if cfgRequestFile != "" {
		rf, err := loadRequestFile(cfgRequestFile)
		if err != nil {
			return err
		}
		if err := v.MergeConfigMap(rf.settings()); err != nil {
			return fmt.Errorf("merge request file %s: %w", cfgRequestFile, err)
		}
		fileParams = rf.Parameters
	}

	cfgAppID = v.GetString("app-id")
	cfgAppType = v.GetString("app-type")
	cfgEndpoint = v.GetString("endpoint")
	cfgManifest = v.GetString("manifest")
	cfgWorkspace = v.GetString("workspace")
	cfgBuildHome = v.GetString("build-home")
	cfgProject = v.GetString("project")
	cfgClientKey = v.GetString("client-key")
	cfgClientCert = v.GetString("client-cert")
	cfgCAChain = v.GetString("ca-chain")
	cfgTool = v.GetString("tool")
	cfgStrategy = v.GetString("strategy")
	cfgProbeTimeout = v.GetDuration("probe-timeout")

	params, err := parseParams(flagParams)
	if err != nil {
		return err
	}
	cfgParams = lo.Assign(fileParams, params)

	// deploy only
	if cmd.Flags().Lookup("target") != nil {
		cfgTarget = v.GetString("target")
		cfgUser = v.GetString("ssh-user")
		cfgPassword = v.GetString("ssh-password")
		cfgKeyPath = v.GetString("ssh-key")
		cfgPassphrase = v.GetString("ssh-passphrase")
		cfgKnownHosts = v.GetString("known-hosts")
		cfgStrictHost = v.GetBool("strict-host-key")
		cfgConnTimeout = v.GetDuration("conn-timeout")
		cfgShell = v.GetString("shell")
		cfgOutPath = v.GetString("out")
	}
	return nil
}
