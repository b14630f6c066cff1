// Package runnertest provides a scripted runner.Executor for tests.
package runnertest

import (
	"context"
	"errors"

	"github.com/sofmeright/hlbuild/src/runner"
)

// Handler produces the Result for one command.
type Handler func(cmd runner.Command) runner.Result

// Fake records every command and answers through Handler.
// A nil Handler succeeds every command with empty output.
type Fake struct {
	Handler Handler
	Calls   []runner.Command
}

var _ runner.Executor = (*Fake)(nil)

// Run implements runner.Executor.
func (f *Fake) Run(_ context.Context, cmd runner.Command, _ bool) runner.Result {
	f.Calls = append(f.Calls, cmd)
	if f.Handler == nil {
		return OK(cmd, "")
	}
	res := f.Handler(cmd)
	res.Command = cmd
	return res
}

// Names returns the executable of every recorded call, in order.
func (f *Fake) Names() []string {
	names := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		names = append(names, c.Name)
	}
	return names
}

// Called reports whether any recorded command used name.
func (f *Fake) Called(name string) bool {
	for _, c := range f.Calls {
		if c.Name == name {
			return true
		}
	}
	return false
}

// OK is a successful result with stdout.
func OK(cmd runner.Command, stdout string) runner.Result {
	return runner.Result{Command: cmd, Stdout: stdout}
}

// Exit is a result with the given exit code and stderr.
func Exit(cmd runner.Command, code int, stderr string) runner.Result {
	return runner.Result{Command: cmd, ExitCode: code, Stderr: stderr}
}

// Missing is the result for an executable that could not be started.
func Missing(cmd runner.Command) runner.Result {
	err := errors.New("exec: \"" + cmd.Name + "\": executable file not found in $PATH")
	return runner.Result{
		Command:   cmd,
		ExitCode:  runner.ExitLaunchFailed,
		Stderr:    err.Error(),
		LaunchErr: err,
	}
}
