//go:build windows

package process

import "os/exec"

func setProcessGroup(_ *exec.Cmd) {}
