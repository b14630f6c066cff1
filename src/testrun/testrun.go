// Package testrun builds the project with tests enabled and runs the test
// suites, either one executable at a time or through the native test
// aggregator.
package testrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sofmeright/hlbuild/src/build"
	"github.com/sofmeright/hlbuild/src/config"
	"github.com/sofmeright/hlbuild/src/gitver"
	"github.com/sofmeright/hlbuild/src/output"
	"github.com/sofmeright/hlbuild/src/platform"
	"github.com/sofmeright/hlbuild/src/report"
	"github.com/sofmeright/hlbuild/src/runner"
	"go.uber.org/zap"
)

// ErrBuildFailed is returned when the test build could not be prepared.
var ErrBuildFailed = errors.New("test build failed")

// Options configures one test run.
type Options struct {
	BuildDir  string
	BuildType string // Debug or Release
	Clean     bool
	Mode      Mode
	SkipBuild bool
}

// Runner executes test runs.
type Runner struct {
	Exec     runner.Executor
	Builder  *build.Builder
	Platform platform.ID
	Config   *config.Config
	Console  *output.Console
	GitLab   bool
	Git      *gitver.Info
	Log      *zap.Logger
}

// Run builds (unless opts.SkipBuild) and runs the suites opts.Mode asks
// for. A missing suite fails but does not stop the others.
func (r *Runner) Run(ctx context.Context, opts Options) (report.Summary[SuiteResult], error) {
	sum := report.Start[SuiteResult](report.KindTest, r.Platform)
	sum.Git = r.Git
	if opts.Mode == "" {
		opts.Mode = ModeBoth
	}

	if !opts.SkipBuild {
		if err := r.build(ctx, opts); err != nil {
			sum.Finish()
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			return sum, err
		}
	}

	if opts.Mode == ModeNative {
		sum.Add(r.runNative(ctx, opts))
	} else {
		for _, s := range r.suites(opts.Mode) {
			if err := ctx.Err(); err != nil {
				sum.Finish()
				return sum, err
			}
			sum.Add(r.runSuite(ctx, opts, s))
		}
	}
	sum.Finish()
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	r.render(sum)
	return sum, nil
}

func (r *Runner) build(ctx context.Context, opts Options) error {
	r.Console.Info("Building project in %s mode...", opts.BuildType)
	id := "hlbuild_test_build"
	w := r.Console.Writer()
	output.SectionStartCollapsed(w, r.GitLab, id, "Build tests")
	defer output.SectionEnd(w, r.GitLab, id)

	err := r.Builder.Prepare(ctx, build.Request{
		Name:      "tests",
		BuildType: opts.BuildType,
		Dir:       opts.BuildDir,
		Defines:   []string{r.Config.Tests.Flag + "=ON"},
	}, opts.Clean)
	if err != nil {
		r.Console.Error("Build failed!")
		var stepErr *build.StepError
		if errors.As(err, &stepErr) {
			r.Console.Block("  ", stepErr.Result.Diagnostic(40))
		} else {
			r.Console.Block("  ", err.Error())
		}
		return fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	r.Console.Success("Build completed successfully!")
	return nil
}

type suite struct {
	kind  string
	name  string
	title string
}

func (r *Runner) suites(mode Mode) []suite {
	unit := suite{KindUnit, r.Config.Tests.Unit, "RUNNING UNIT TESTS"}
	integration := suite{KindIntegration, r.Config.Tests.Integration, "RUNNING INTEGRATION TESTS"}
	switch mode {
	case ModeUnit:
		return []suite{unit}
	case ModeIntegration:
		return []suite{integration}
	default:
		return []suite{unit, integration}
	}
}

func (r *Runner) runSuite(ctx context.Context, opts Options, s suite) SuiteResult {
	r.banner(s.title)
	res := SuiteResult{Name: s.name, Kind: s.kind}

	path, ok := r.suitePath(opts, s.name)
	res.Path = path
	r.log().Debug("suite", zap.String("name", s.name), zap.String("path", path), zap.Bool("found", ok))
	if !ok {
		res.Diagnostic = fmt.Sprintf("%s test executable not found at %s", titleCase(s.kind), path)
		r.Console.Error("%s", res.Diagnostic)
		return res
	}

	res.Found = true

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	out := r.Exec.Run(ctx, runner.Command{Name: abs, Dir: r.Config.ProjectRoot()}, true)
	res.Executed = out.Launched()
	res.Passed = out.Success()
	res.Output = out.Stdout + out.Stderr
	res.Duration = out.Duration
	r.echo(out.Stdout, out.Stderr)

	if !res.Passed {
		res.Diagnostic = out.Diagnostic(5)
		r.Console.Error("%s", firstLine(res.Diagnostic))
	}
	return res
}

func (r *Runner) runNative(ctx context.Context, opts Options) SuiteResult {
	r.banner("RUNNING TESTS WITH CTEST")

	args := []string{"--verbose"}
	if r.Platform.IsWindows() {
		args = append(args, "-C", opts.BuildType)
	}
	cmd := runner.Command{Name: r.Config.Toolchain.TestAggregator, Args: args, Dir: opts.BuildDir}
	out := r.Exec.Run(ctx, cmd, true)

	r.echo(out.Stdout, out.Stderr)
	res := SuiteResult{
		Name:     r.Config.Toolchain.TestAggregator,
		Kind:     KindNative,
		Found:    true,
		Executed: out.Launched(),
		Passed:   out.Success(),
		Path:     opts.BuildDir,
		Output:   out.Stdout + out.Stderr,
		Duration: out.Duration,
	}
	if !res.Passed {
		res.Diagnostic = out.Diagnostic(5)
	}
	return res
}

// suitePath resolves the executable for name. On Windows multi-config
// generators put it under tests/<BuildType>/ with an .exe suffix.
func (r *Runner) suitePath(opts Options, name string) (string, bool) {
	dir := filepath.Join(opts.BuildDir, r.Config.Tests.Dir)
	candidates := []string{filepath.Join(dir, name)}
	if r.Platform.IsWindows() {
		exe := name + r.Platform.ExeSuffix()
		candidates = []string{
			filepath.Join(dir, exe),
			filepath.Join(dir, opts.BuildType, exe),
			filepath.Join(dir, name),
		}
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.Mode().IsRegular() {
			return c, true
		}
	}
	return candidates[0], false
}

func (r *Runner) banner(title string) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(r.Console.Writer())
	r.Console.Info("%s", rule)
	r.Console.Info("%s", title)
	r.Console.Info("%s", rule)
}

func (r *Runner) echo(stdout, stderr string) {
	w := r.Console.Writer()
	if stdout != "" {
		io.WriteString(w, stdout)
		if !strings.HasSuffix(stdout, "\n") {
			fmt.Fprintln(w)
		}
	}
	if stderr != "" {
		r.Console.Gray("STDERR: %s", strings.TrimRight(stderr, "\n"))
	}
}

func (r *Runner) render(sum report.Summary[SuiteResult]) {
	w := r.Console.Writer()
	sec := output.NewSection(w, "Test Summary", sum.Elapsed, r.Console.Color())
	for _, s := range sum.Entries {
		sec.Status(s.Name, output.StatusOf(s.Passed), s.detail())
	}
	sec.Close()

	fmt.Fprintln(w)
	if sum.Success {
		r.Console.Success("ALL TESTS PASSED!")
	} else {
		r.Console.Error("SOME TESTS FAILED!")
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func (r *Runner) log() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}
