// Package prereq verifies that the build tool and a compiler are installed
// before any build starts. It only probes; it never installs anything.
package prereq

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sofmeright/hlbuild/src/config"
	"github.com/sofmeright/hlbuild/src/output"
	"github.com/sofmeright/hlbuild/src/platform"
	"github.com/sofmeright/hlbuild/src/runner"
	"go.uber.org/zap"
)

// ToolStatus describes one probed tool.
type ToolStatus struct {
	Name    string
	Found   bool
	Version string // first line of the tool's version output
	Detail  string // failure reason when !Found
}

// Report is the result of a prerequisite check.
type Report struct {
	OK        bool
	BuildTool ToolStatus
	Compiler  ToolStatus
}

// Checker probes for the configured toolchain.
type Checker struct {
	Exec     runner.Executor
	Platform platform.ID
	Config   *config.Config
	Console  *output.Console
	Log      *zap.Logger
}

var versionRe = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// Check runs the build tool gate and then the compiler probes, printing a
// status line for each.
func (c *Checker) Check(ctx context.Context) Report {
	c.Console.Info("Checking prerequisites...")

	var rep Report
	rep.BuildTool = c.checkBuildTool(ctx)
	if !rep.BuildTool.Found {
		return rep
	}

	rep.Compiler = c.checkCompiler(ctx)
	rep.OK = rep.Compiler.Found
	return rep
}

func (c *Checker) checkBuildTool(ctx context.Context) ToolStatus {
	tool := c.Config.Toolchain.BuildTool
	st := ToolStatus{Name: toolLabel(tool)}

	res := c.Exec.Run(ctx, runner.Command{Name: tool, Args: []string{"--version"}}, true)
	if !res.Success() {
		st.Detail = res.Diagnostic(3)
		c.log().Debug("build tool probe failed", zap.String("tool", tool), zap.String("detail", st.Detail))
		c.Console.Error("%s not found. Please install %s %s or higher.", st.Name, st.Name, c.Config.Toolchain.MinVersion)
		for _, hint := range buildToolHints(c.Platform, tool) {
			c.Console.Gray("  %s", hint)
		}
		return st
	}
	st.Version = res.FirstLine()

	if minimum := c.Config.Toolchain.MinVersion; minimum != "" {
		have, err := parseToolVersion(st.Version)
		if err != nil {
			c.Console.Warning("Could not determine %s version from %q", st.Name, st.Version)
		} else if ok, cerr := meetsMinimum(have, minimum); cerr == nil && !ok {
			st.Detail = fmt.Sprintf("version %s is older than required %s", have, minimum)
			c.Console.Error("%s %s is too old. Please install %s %s or higher.", st.Name, have, st.Name, minimum)
			return st
		}
	}

	st.Found = true
	c.Console.Success("%s found: %s", st.Name, st.Version)
	return st
}

func (c *Checker) checkCompiler(ctx context.Context) ToolStatus {
	var failures []string
	for _, probe := range c.Config.CompilerProbes(c.Platform) {
		res := c.Exec.Run(ctx, runner.Command{Name: probe.Command, Args: probe.Args}, true)
		c.log().Debug("compiler probe",
			zap.String("probe", probe.Label()),
			zap.Int("exit", res.ExitCode))
		if !res.Success() {
			failures = append(failures, res.Diagnostic(1))
			continue
		}
		st := ToolStatus{Name: probe.Label(), Found: true, Version: res.FirstLine()}
		if c.Platform.IsWindows() && len(probe.Args) == 0 {
			c.Console.Success("%s compiler found", st.Name)
		} else {
			c.Console.Success("%s found: %s", st.Name, st.Version)
		}
		return st
	}

	st := ToolStatus{Name: "compiler", Detail: strings.Join(failures, "; ")}
	if c.Platform.IsWindows() {
		c.Console.Error("No suitable compiler found. Please install Visual Studio Build Tools or MinGW.")
		return st
	}
	c.Console.Error("No suitable compiler found (%s).", strings.Join(probeNames(c.Config.CompilerProbes(c.Platform)), " or "))
	for _, hint := range compilerHints(c.Platform) {
		c.Console.Gray("  %s", hint)
	}
	return st
}

// parseToolVersion extracts a version from output such as
// "cmake version 3.28.1".
func parseToolVersion(line string) (*semver.Version, error) {
	m := versionRe.FindString(line)
	if m == "" {
		return nil, fmt.Errorf("no version in %q", line)
	}
	return semver.NewVersion(m)
}

func meetsMinimum(have *semver.Version, minimum string) (bool, error) {
	constraint, err := semver.NewConstraint(">= " + minimum)
	if err != nil {
		return false, err
	}
	return constraint.Check(have), nil
}

func toolLabel(tool string) string {
	base := strings.TrimSuffix(filepath.Base(tool), filepath.Ext(tool))
	if strings.EqualFold(base, "cmake") {
		return "CMake"
	}
	return base
}

func probeNames(probes []config.Probe) []string {
	names := make([]string, 0, len(probes))
	for _, p := range probes {
		names = append(names, p.Command)
	}
	return names
}

func (c *Checker) log() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
