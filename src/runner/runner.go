// Package runner executes external commands and reports their outcome as a
// value. A non-zero exit is a normal Result, never an error.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// waitDelay bounds how long Run waits for output pipes after the child
// has been killed.
const waitDelay = 2 * time.Second

// Executor runs a command. capture buffers stdout/stderr into the Result;
// otherwise output streams live to the executor's writers.
type Executor interface {
	Run(ctx context.Context, cmd Command, capture bool) Result
}

// Runner is the os/exec backed Executor.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Log    *zap.Logger
}

var _ Executor = (*Runner)(nil)

// New creates a Runner streaming to the process's standard streams.
func New(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    log,
	}
}

// Run executes cmd and blocks until it exits.
func (r *Runner) Run(ctx context.Context, c Command, capture bool) Result {
	start := time.Now()
	res := Result{Command: c}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = waitDelay
	killTree(cmd)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	if capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
	}

	r.Log.Debug("exec",
		zap.String("cmd", c.String()),
		zap.String("dir", c.Dir),
		zap.Bool("capture", capture),
	)

	err := cmd.Run()
	res.Duration = time.Since(start)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case cmd.ProcessState != nil:
		// Started and reaped, but Wait gave up on the output pipes.
		res.ExitCode = cmd.ProcessState.ExitCode()
		r.Log.Warn("output pipes left open", zap.String("cmd", c.Name), zap.Error(err))
	default:
		res.ExitCode = ExitLaunchFailed
		res.LaunchErr = err
		if res.Stderr != "" {
			res.Stderr += "\n"
		}
		res.Stderr += err.Error()
	}

	r.Log.Debug("exit",
		zap.String("cmd", c.Name),
		zap.Int("code", res.ExitCode),
		zap.Duration("elapsed", res.Duration),
		zap.Error(res.LaunchErr),
	)
	return res
}
