package cmd

import (
	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/executor"
)

// newExecutor runs plans locally unless --target names a build host.
func newExecutor(dir string) executor.Executor {
	if cfgTarget == "" {
		return &executor.Local{Dir: dir, Shell: cfgShell}
	}
	return &executor.SSH{
		Config: executor.SSHConfig{
			Target:        cfgTarget,
			User:          cfgUser,
			Password:      cfgPassword,
			KeyPath:       cfgKeyPath,
			Passphrase:    cfgPassphrase,
			KnownHosts:    cfgKnownHosts,
			StrictHostKey: cfgStrictHost,
			DialTimeout:   cfgConnTimeout,
		},
		Dir: dir,
	}
}
