package runner

import (
	"fmt"
	"strings"
	"time"
)

// ExitLaunchFailed is the exit code reported when a command never started.
const ExitLaunchFailed = -1

// Command is a single argv-style invocation. No shell is involved.
type Command struct {
	Name string
	Args []string
	Dir  string   // working directory; empty means the current directory
	Env  []string // extra KEY=VALUE pairs appended to the parent environment
}

// String renders the command for display.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result captures the outcome of one command invocation.
type Result struct {
	Command   Command
	ExitCode  int
	Stdout    string
	Stderr    string
	Duration  time.Duration
	LaunchErr error // non-nil only when the command could not be started
}

// Launched reports whether the child process actually ran.
func (r Result) Launched() bool { return r.LaunchErr == nil }

// Success reports whether the command ran and exited with status 0.
func (r Result) Success() bool { return r.Launched() && r.ExitCode == 0 }

// FirstLine returns the first non-empty line of stdout, falling back to stderr.
func (r Result) FirstLine() string {
	for _, s := range []string{r.Stdout, r.Stderr} {
		for _, line := range strings.Split(s, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				return line
			}
		}
	}
	return ""
}

// Diagnostic describes a failed result for operator output. It prefers
// stderr and keeps at most maxLines trailing lines.
func (r Result) Diagnostic(maxLines int) string {
	if !r.Launched() {
		return fmt.Sprintf("could not start %q: %v", r.Command.Name, r.LaunchErr)
	}
	head := fmt.Sprintf("%q exited with status %d", r.Command.String(), r.ExitCode)
	body := tail(r.Stderr, maxLines)
	if body == "" {
		body = tail(r.Stdout, maxLines)
	}
	if body == "" {
		return head
	}
	return head + "\n" + body
}

func tail(s string, maxLines int) string {
	s = strings.TrimRight(s, "\r\n ")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, "\n")
}
