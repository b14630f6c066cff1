//go:build windows

package runner

import (
	"os/exec"
	"strconv"
)

// killTree makes cancellation terminate the child and every process it
// started, so MSBuild nodes and compiler instances do not outlive it.
func killTree(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		kill := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid))
		if err := kill.Run(); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
}
