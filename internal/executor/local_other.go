//go:build !unix

package executor

import "os/exec"

// setProcessGroup keeps the default behavior: cancellation kills the shell.
func setProcessGroup(cmd *exec.Cmd) {}
