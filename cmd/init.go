package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/deploy"
)

// init registers the flags of every subcommand. Values are not read here:
// loadConfig layers them with the environment and the request file before
// each run.
func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgRequestFile, "request", "r", "", "YAML request file (keys: application_id, application_type, cluster_endpoint, ...)")
	pf.StringVarP(&cfgAppID, "app-id", "a", "", "Application name, e.g. fabric:/MyApp")
	pf.StringVar(&cfgAppType, "app-type", "", "Application type name as registered in the cluster")
	pf.StringVarP(&cfgEndpoint, "endpoint", "e", "", "Cluster management host name or IP (gateway port 19080 is implied)")
	pf.StringVarP(&cfgManifest, "manifest", "m", "", "ApplicationManifest.xml path relative to the workspace")
	pf.StringVarP(&cfgWorkspace, "workspace", "w", "", "Build workspace root (default <build-home>/workspace/<project>)")
	pf.StringVar(&cfgBuildHome, "build-home", "", "CI home directory (or set SFDEPLOY_BUILD_HOME / JENKINS_HOME)")
	pf.StringVar(&cfgProject, "project", "", "CI project name (or set SFDEPLOY_PROJECT / JOB_NAME)")
	pf.StringVar(&cfgClientKey, "client-key", "", "Client private key for a secure cluster")
	pf.StringVar(&cfgClientCert, "client-cert", "", "Client certificate for a secure cluster")
	pf.StringVar(&cfgCAChain, "ca-chain", "", "CA bundle for a secure cluster (optional)")
	pf.StringArrayVarP(&flagParams, "param", "p", nil, "Application parameter override key=value passed to upgrade (repeatable)")
	pf.StringVar(&cfgTool, "tool", deploy.DefaultTool, "Cluster CLI binary")
	pf.StringVar(&cfgStrategy, "strategy", deploy.StrategyRuntime.String(), "How the deployment mode is chosen: runtime or probe")
	pf.DurationVar(&cfgProbeTimeout, "probe-timeout", deploy.DefaultProbeTimeout, "Registry probe timeout (probe strategy)")
	pf.StringVar(&cfgLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&cfgLogFormat, "log-format", "console", "Log format: console or json")

	df := deployCmd.Flags()
	df.StringVarP(&cfgTarget, "target", "t", "", "Run on this build host over SSH (host or host:port) instead of locally")
	df.StringVarP(&cfgUser, "ssh-user", "u", os.Getenv("USER"), "SSH username")
	df.StringVar(&cfgPassword, "ssh-password", "", "SSH password (or set SFDEPLOY_SSH_PASSWORD)")
	df.StringVar(&cfgKeyPath, "ssh-key", "", "Path to SSH private key (PEM, OpenSSH)")
	df.StringVar(&cfgPassphrase, "ssh-passphrase", "", "Private key passphrase (or set SFDEPLOY_SSH_PASSPHRASE)")
	df.StringVar(&cfgKnownHosts, "known-hosts", filepath.Join(os.Getenv("HOME"), ".ssh", "known_hosts"), "Path to known_hosts file")
	df.BoolVar(&cfgStrictHost, "strict-host-key", true, "Require host key verification (disable to accept any host key)")
	df.DurationVar(&cfgConnTimeout, "conn-timeout", 15*time.Second, "SSH connection timeout")
	df.StringVar(&cfgShell, "shell", "", "Local shell that runs the plan (default sh)")
	df.StringVarP(&cfgOutPath, "out", "o", "", "Write a YAML deployment report to this path")

	// Add subcommands
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(verifyCmd)
}
