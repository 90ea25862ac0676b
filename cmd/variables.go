package cmd

import (
	"time"

	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/deploy"
)

// Version is the CLI version string injected at build time via -ldflags.
var Version = "0.1.0"

// envPrefix namespaces the environment variables read by viper.
const envPrefix = "SFDEPLOY"

var (
	// Global configuration resolved by loadConfig from flags, environment
	// variables and the request file, in that order of precedence.
	cfgRequestFile  string
	cfgAppID        string
	cfgAppType      string
	cfgEndpoint     string
	cfgManifest     string
	cfgWorkspace    string
	cfgBuildHome    string
	cfgProject      string
	cfgClientKey    string
	cfgClientCert   string
	cfgCAChain      string
	cfgParams       map[string]string
	cfgTool         string
	cfgStrategy     string
	cfgProbeTimeout time.Duration

	// deploy only
	cfgTarget      string
	cfgUser        string
	cfgPassword    string
	cfgKeyPath     string
	cfgPassphrase  string
	cfgKnownHosts  string
	cfgStrictHost  bool
	cfgConnTimeout time.Duration
	cfgShell       string
	cfgOutPath     string

	cfgLogLevel  string
	cfgLogFormat string
)

// flagParams holds the raw --param key=value pairs. They are merged over the
// request file's parameters by loadConfig.
var flagParams []string

// Allow tests to stub the registry probe and plan execution
var (
	newProberFunc = func(timeout time.Duration) deploy.Prober {
		return &deploy.HTTPProber{Timeout: timeout}
	}
	newExecutorFunc = newExecutor
)
