//go:build !windows

package extractor

import (
	"os/exec"
	"syscall"
)

// configureProcessTree starts the tool in its own process group so a timeout
// kills every descendant, not only the direct child.
func configureProcessTree(command *exec.Cmd) {
	command.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	command.Cancel = func() error {
		if command.Process == nil {
			return nil
		}
		return syscall.Kill(-command.Process.Pid, syscall.SIGKILL)
	}
}
