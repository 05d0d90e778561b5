//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// setProcessGroup places the child in its own process group and kills the whole
// group on cancellation, so grandchildren spawned by the command die with it.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
