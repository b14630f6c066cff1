//go:build !unix && !windows

package runner

import "os/exec"

func killTree(cmd *exec.Cmd) {}
