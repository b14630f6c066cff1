package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sofmeright/hlbuild/src/config"
	"github.com/sofmeright/hlbuild/src/output"
	"github.com/sofmeright/hlbuild/src/platform"
	"github.com/sofmeright/hlbuild/src/runner"
	"github.com/sofmeright/hlbuild/src/runner/runnertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireExecBits(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permission bits are not representable on windows")
	}
}

func isCompile(cmd runner.Command) bool {
	return cmd.Name == "make" || (len(cmd.Args) > 0 && cmd.Args[0] == "--build")
}

// compiler succeeds every command and, on compile, drops the expected
// artifact into <dir>/bin the way the project's CMake does.
func compiler(cfg *config.Config, p platform.ID) runnertest.Handler {
	return func(cmd runner.Command) runner.Result {
		if isCompile(cmd) {
			lower := strings.TrimPrefix(filepath.Base(cmd.Dir), "build_")
			bin := filepath.Join(cmd.Dir, "bin")
			if err := os.MkdirAll(bin, 0o755); err != nil {
				return runnertest.Exit(cmd, 2, err.Error())
			}
			name := ArtifactPrefix(cfg, p) + lower + p.ExeSuffix()
			if err := os.WriteFile(filepath.Join(bin, name), bytes.Repeat([]byte{0x7f}, 3072), 0o755); err != nil {
				return runnertest.Exit(cmd, 2, err.Error())
			}
		}
		return runnertest.OK(cmd, "")
	}
}

type fixture struct {
	cfg     *config.Config
	fake    *runnertest.Fake
	out     *bytes.Buffer
	builder *Builder
}

func newFixture(t *testing.T, p platform.ID) *fixture {
	t.Helper()
	testChdir(t, t.TempDir())
	cfg := config.Defaults()
	f := &fixture{cfg: cfg, out: &bytes.Buffer{}}
	f.fake = &runnertest.Fake{Handler: compiler(cfg, p)}
	f.builder = &Builder{
		Exec:     f.fake,
		Platform: p,
		Config:   cfg,
		Jobs:     4,
		Console:  output.NewConsole(f.out, false),
	}
	return f
}

func (f *fixture) configuration(t *testing.T, name string) Configuration {
	t.Helper()
	c, err := NewConfiguration(f.cfg, f.builder.Platform, name)
	require.NoError(t, err)
	return c
}

func TestNewConfiguration(t *testing.T) {
	cfg := config.Defaults()

	c, err := NewConfiguration(cfg, platform.Linux, "release")
	require.NoError(t, err)
	assert.Equal(t, Configuration{
		Name:      "Release",
		BuildType: "Release",
		Dir:       "build_release",
		Artifact:  "cj_lightsimstatus_code_chal_linux_release",
	}, c)

	c, err = NewConfiguration(cfg, platform.Windows, "Debug_All")
	require.NoError(t, err)
	assert.Equal(t, "build_debug_all", c.Dir)
	assert.Equal(t, "cj_lightsimstatus_code_chal_win11_debug_all.exe", c.Artifact)

	_, err = NewConfiguration(cfg, platform.Linux, "Profile")
	assert.ErrorIs(t, err, config.ErrUnknownConfiguration)
}

func TestConfigurationsDefaultOrder(t *testing.T) {
	cfg := config.Defaults()
	cs, err := Configurations(cfg, platform.MacOS, nil)
	require.NoError(t, err)

	var names []string
	for _, c := range cs {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Debug_Simple", "Debug_Verbose", "Debug_All", "Release"}, names)

	_, err = Configurations(cfg, platform.MacOS, []string{"Release", "release"})
	assert.Error(t, err)
}

func TestPlanPosix(t *testing.T) {
	b := &Builder{Platform: platform.Linux, Config: config.Defaults(), Jobs: 6}
	steps := b.Plan(Request{BuildType: "Debug", Dir: "build", Defines: []string{"BUILD_TESTS=ON"}}, "/src")
	require.Len(t, steps, 2)

	assert.Equal(t, runner.Command{
		Name: "cmake",
		Args: []string{"-DCMAKE_BUILD_TYPE=Debug", "-DBUILD_TESTS=ON", "/src"},
		Dir:  "build",
	}, steps[0].Command)
	assert.Equal(t, runner.Command{Name: "make", Args: []string{"-j6"}, Dir: "build"}, steps[1].Command)
}

func TestPlanWindows(t *testing.T) {
	b := &Builder{Platform: platform.Windows, Config: config.Defaults()}
	steps := b.Plan(Request{BuildType: "Release", Dir: "build_release"}, `C:\src`)
	assert.Equal(t, "compile", steps[1].Name)
	assert.Equal(t, runner.Command{
		Name: "cmake",
		Args: []string{"--build", ".", "--config", "Release"},
		Dir:  "build_release",
	}, steps[1].Command)
}

func TestDefaultJobs(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultJobs(), 1)
	assert.Equal(t, DefaultJobs(), (&Builder{}).jobs())
}

func TestBuildSuccess(t *testing.T) {
	requireExecBits(t)
	f := newFixture(t, platform.Linux)
	c := f.configuration(t, "Release")

	out := f.builder.Build(context.Background(), c, false)
	require.True(t, out.Success, out.Diagnostic)
	assert.Equal(t, StageVerified, out.Stage)
	assert.Equal(t, StageVerified, out.Reached)
	assert.Equal(t, FailureNone, out.Failure)
	assert.Equal(t, filepath.Join("build_release", "bin", c.Artifact), out.ArtifactPath)
	assert.EqualValues(t, 3072, out.ArtifactSize)

	assert.Equal(t, []string{"cmake", "make"}, f.fake.Names())
	for _, call := range f.fake.Calls {
		assert.Equal(t, "build_release", call.Dir)
	}
	assert.Contains(t, f.out.String(), "✓ Build successful: "+c.Artifact)
	assert.Contains(t, f.out.String(), "Size: 3 KB")
}

func TestBuildWindows(t *testing.T) {
	f := newFixture(t, platform.Windows)
	out := f.builder.Build(context.Background(), f.configuration(t, "Debug_Simple"), false)
	require.True(t, out.Success, out.Diagnostic)
	assert.True(t, strings.HasSuffix(out.ArtifactPath, "_win11_debug_simple.exe"))
	assert.Equal(t, []string{"cmake", "cmake"}, f.fake.Names())
}

func TestBuildConfigureFailureSkipsCompile(t *testing.T) {
	f := newFixture(t, platform.Linux)
	f.fake.Handler = func(cmd runner.Command) runner.Result {
		return runnertest.Exit(cmd, 1, "CMake Error: The source directory does not appear to contain CMakeLists.txt")
	}

	out := f.builder.Build(context.Background(), f.configuration(t, "Debug_Verbose"), false)
	assert.False(t, out.Success)
	assert.Equal(t, StageFailed, out.Stage)
	assert.Equal(t, StagePending, out.Reached)
	assert.Equal(t, FailureStep, out.Failure)
	assert.Equal(t, "configure", out.FailedStep)
	assert.Contains(t, out.Diagnostic, "does not appear to contain CMakeLists.txt")
	assert.Empty(t, out.ArtifactPath)
	assert.False(t, f.fake.Called("make"), "compile must not run after a failed configure")
	assert.Contains(t, f.out.String(), "✗ Build failed for Debug_Verbose")
}

func TestBuildCompileLaunchFailure(t *testing.T) {
	f := newFixture(t, platform.Linux)
	f.fake.Handler = func(cmd runner.Command) runner.Result {
		if cmd.Name == "make" {
			return runnertest.Missing(cmd)
		}
		return runnertest.OK(cmd, "")
	}

	out := f.builder.Build(context.Background(), f.configuration(t, "Release"), false)
	assert.False(t, out.Success)
	assert.Equal(t, FailureLaunch, out.Failure)
	assert.Equal(t, StageConfigured, out.Reached)
	assert.Equal(t, "compile", out.FailedStep)
	assert.Contains(t, out.Diagnostic, `could not start "make"`)
}

func TestBuildArtifactNotFound(t *testing.T) {
	f := newFixture(t, platform.Linux)
	f.fake.Handler = nil

	out := f.builder.Build(context.Background(), f.configuration(t, "Debug_All"), false)
	assert.False(t, out.Success)
	assert.Equal(t, FailureArtifactNotFound, out.Failure)
	assert.Equal(t, StageCompiled, out.Reached)
	assert.Equal(t, "locate", out.FailedStep)
	assert.Contains(t, out.Diagnostic, "executable not found after build")
	assert.NotContains(t, f.out.String(), "Build failed for")
	assert.Contains(t, f.out.String(), "⚠ Executable not found after build")
}

func TestBuildTwiceKeepsArtifact(t *testing.T) {
	requireExecBits(t)
	f := newFixture(t, platform.Linux)
	c := f.configuration(t, "Release")

	first := f.builder.Build(context.Background(), c, false)
	require.True(t, first.Success)

	handler := f.fake.Handler
	f.fake.Handler = func(cmd runner.Command) runner.Result {
		_, err := os.Stat(first.ArtifactPath)
		if err != nil {
			return runnertest.Exit(cmd, 1, "first artifact removed before second verification")
		}
		return handler(cmd)
	}

	second := f.builder.Build(context.Background(), c, false)
	require.True(t, second.Success, second.Diagnostic)
	assert.Equal(t, first.ArtifactPath, second.ArtifactPath)
}

func TestBuildCleanRemovesStaleFiles(t *testing.T) {
	requireExecBits(t)
	f := newFixture(t, platform.Linux)
	c := f.configuration(t, "Release")

	require.NoError(t, os.MkdirAll(c.Dir, 0o755))
	stale := filepath.Join(c.Dir, "CMakeCache.txt")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))

	out := f.builder.Build(context.Background(), c, true)
	require.True(t, out.Success)
	assert.NoFileExists(t, stale)
	assert.Equal(t, StageVerified, out.Reached)
	assert.Contains(t, f.out.String(), "Cleaning build_release...")
}

func TestBuildCleanFailureIsWarning(t *testing.T) {
	requireExecBits(t)
	f := newFixture(t, platform.Linux)
	c := f.configuration(t, "Release")
	require.NoError(t, os.MkdirAll(c.Dir, 0o755))

	f.builder.removeAll = func(dir string) error {
		return &os.PathError{Op: "unlinkat", Path: dir, Err: os.ErrPermission}
	}

	out := f.builder.Build(context.Background(), c, true)
	require.True(t, out.Success, out.Diagnostic)
	assert.Equal(t, StageVerified, out.Reached)
	assert.Contains(t, f.out.String(), "⚠ Could not clean build_release")
	assert.True(t, f.fake.Called("cmake"), "configure runs over the uncleaned tree")
	assert.True(t, f.fake.Called("make"))
	assert.DirExists(t, c.Dir)
}

func TestPrepareDefinesAndDir(t *testing.T) {
	f := newFixture(t, platform.Linux)
	err := f.builder.Prepare(context.Background(), Request{
		Name: "tests", BuildType: "Debug", Dir: "build", Defines: []string{"BUILD_TESTS=ON"},
	}, false)
	require.NoError(t, err)
	assert.DirExists(t, "build")

	configure := f.fake.Calls[0]
	assert.Contains(t, configure.Args, "-DBUILD_TESTS=ON")
	assert.True(t, filepath.IsAbs(configure.Args[len(configure.Args)-1]), "source dir is absolute")
}

func TestPrepareStepError(t *testing.T) {
	f := newFixture(t, platform.Linux)
	f.fake.Handler = func(cmd runner.Command) runner.Result {
		if cmd.Name == "make" {
			return runnertest.Exit(cmd, 2, "undefined reference to `main'")
		}
		return runnertest.OK(cmd, "")
	}

	err := f.builder.Prepare(context.Background(), Request{Name: "tests", BuildType: "Debug", Dir: "build"}, false)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "compile", stepErr.Step)
	assert.Equal(t, FailureStep, stepErr.Kind())
	assert.Contains(t, err.Error(), "undefined reference")
}
