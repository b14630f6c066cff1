package build

import (
	"fmt"

	"github.com/sofmeright/hlbuild/src/runner"
)

// Step is a single external command of a build.
type Step struct {
	Name    string // "configure" or "compile"
	Command runner.Command
}

// Request describes a build directory to configure and compile.
type Request struct {
	Name      string   // display name
	BuildType string   // CMAKE_BUILD_TYPE and --config value
	Dir       string   // build directory
	Defines   []string // extra cache entries, e.g. "BUILD_TESTS=ON"
}

// Plan returns the configure and compile steps for req.
func (b *Builder) Plan(req Request, sourceDir string) []Step {
	return []Step{b.configureStep(req, sourceDir), b.compileStep(req)}
}

func (b *Builder) configureStep(req Request, sourceDir string) Step {
	args := []string{"-DCMAKE_BUILD_TYPE=" + req.BuildType}
	for _, d := range req.Defines {
		args = append(args, "-D"+d)
	}
	args = append(args, sourceDir)
	return Step{
		Name:    "configure",
		Command: runner.Command{Name: b.Config.Toolchain.BuildTool, Args: args, Dir: req.Dir},
	}
}

// compileStep drives the multi-config generator on Windows and the native
// make tool elsewhere.
func (b *Builder) compileStep(req Request) Step {
	cmd := runner.Command{Dir: req.Dir}
	if b.Platform.IsWindows() {
		cmd.Name = b.Config.Toolchain.BuildTool
		cmd.Args = []string{"--build", ".", "--config", req.BuildType}
	} else {
		cmd.Name = b.Config.Toolchain.NativeBuild
		cmd.Args = []string{fmt.Sprintf("-j%d", b.jobs())}
	}
	return Step{Name: "compile", Command: cmd}
}
