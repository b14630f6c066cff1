package prereq

import (
	"bytes"
	"context"
	"testing"

	"github.com/sofmeright/hlbuild/src/config"
	"github.com/sofmeright/hlbuild/src/output"
	"github.com/sofmeright/hlbuild/src/platform"
	"github.com/sofmeright/hlbuild/src/runner"
	"github.com/sofmeright/hlbuild/src/runner/runnertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// installed answers like a machine where only the named tools exist.
func installed(versions map[string]string) runnertest.Handler {
	return func(cmd runner.Command) runner.Result {
		v, ok := versions[cmd.Name]
		if !ok {
			return runnertest.Missing(cmd)
		}
		return runnertest.OK(cmd, v+"\n")
	}
}

func newChecker(p platform.ID, h runnertest.Handler) (*Checker, *runnertest.Fake, *bytes.Buffer) {
	var buf bytes.Buffer
	fake := &runnertest.Fake{Handler: h}
	return &Checker{
		Exec:     fake,
		Platform: p,
		Config:   config.Defaults(),
		Console:  output.NewConsole(&buf, false),
	}, fake, &buf
}

func TestCheckLinuxGCC(t *testing.T) {
	c, fake, out := newChecker(platform.Linux, installed(map[string]string{
		"cmake": "cmake version 3.28.1",
		"gcc":   "gcc (Ubuntu 13.2.0) 13.2.0",
	}))

	rep := c.Check(context.Background())
	require.True(t, rep.OK)
	assert.Equal(t, "CMake", rep.BuildTool.Name)
	assert.Equal(t, "GCC", rep.Compiler.Name)
	assert.Equal(t, []string{"cmake", "gcc"}, fake.Names())
	assert.Contains(t, out.String(), "✓ CMake found: cmake version 3.28.1")
	assert.Contains(t, out.String(), "✓ GCC found: gcc (Ubuntu 13.2.0) 13.2.0")
}

func TestCheckFallsBackToClang(t *testing.T) {
	c, fake, _ := newChecker(platform.MacOS, installed(map[string]string{
		"cmake":   "cmake version 3.30.0",
		"clang++": "Apple clang version 15.0.0",
	}))

	rep := c.Check(context.Background())
	require.True(t, rep.OK)
	assert.Equal(t, "CLANG++", rep.Compiler.Name)
	assert.Equal(t, []string{"cmake", "gcc", "clang++"}, fake.Names())
}

func TestCheckBuildToolMissingIsHardGate(t *testing.T) {
	c, fake, out := newChecker(platform.Linux, installed(map[string]string{
		"gcc": "gcc 13",
	}))

	rep := c.Check(context.Background())
	assert.False(t, rep.OK)
	assert.False(t, rep.BuildTool.Found)
	assert.Equal(t, []string{"cmake"}, fake.Names(), "compilers are not probed without the build tool")
	assert.Contains(t, out.String(), "✗ CMake not found. Please install CMake 3.16 or higher.")
}

func TestCheckBuildToolNonZeroExit(t *testing.T) {
	c, _, _ := newChecker(platform.Linux, func(cmd runner.Command) runner.Result {
		return runnertest.Exit(cmd, 1, "broken install")
	})
	rep := c.Check(context.Background())
	assert.False(t, rep.OK)
	assert.Contains(t, rep.BuildTool.Detail, "broken install")
}

func TestCheckBuildToolTooOld(t *testing.T) {
	c, fake, out := newChecker(platform.Linux, installed(map[string]string{
		"cmake": "cmake version 3.10.2",
		"gcc":   "gcc 7",
	}))

	rep := c.Check(context.Background())
	assert.False(t, rep.OK)
	assert.Equal(t, []string{"cmake"}, fake.Names())
	assert.Contains(t, out.String(), "CMake 3.10.2 is too old")
}

func TestCheckNoCompilerLinuxHints(t *testing.T) {
	c, _, out := newChecker(platform.Linux, installed(map[string]string{
		"cmake": "cmake version 3.28.1",
	}))

	rep := c.Check(context.Background())
	assert.False(t, rep.OK)
	assert.True(t, rep.BuildTool.Found)
	assert.False(t, rep.Compiler.Found)
	assert.Contains(t, out.String(), "No suitable compiler found (gcc or clang++).")
	assert.Contains(t, out.String(), "sudo apt install build-essential")
}

func TestCheckUnknownPlatformUsesPosixProbes(t *testing.T) {
	c, fake, out := newChecker(platform.Unknown, installed(map[string]string{
		"cmake": "cmake version 3.28.1",
	}))

	rep := c.Check(context.Background())
	assert.False(t, rep.OK)
	assert.Equal(t, []string{"cmake", "gcc", "clang++"}, fake.Names())
	assert.Contains(t, out.String(), "system package manager")
}

func TestCheckWindowsMSVCThenGCC(t *testing.T) {
	c, fake, out := newChecker(platform.Windows, installed(map[string]string{
		"cmake": "cmake version 3.29.0",
		"gcc":   "gcc.exe (MinGW-W64) 13.1.0",
	}))

	rep := c.Check(context.Background())
	require.True(t, rep.OK)
	assert.Equal(t, []string{"cmake", "cl", "gcc"}, fake.Names())
	assert.Contains(t, out.String(), "✓ GCC found: gcc.exe (MinGW-W64) 13.1.0")

	c, _, out = newChecker(platform.Windows, installed(map[string]string{
		"cmake": "cmake version 3.29.0",
		"cl":    "Microsoft (R) C/C++ Optimizing Compiler Version 19.38",
	}))
	rep = c.Check(context.Background())
	require.True(t, rep.OK)
	assert.Contains(t, out.String(), "✓ MSVC compiler found")
}

func TestCheckWindowsNoCompiler(t *testing.T) {
	c, _, out := newChecker(platform.Windows, installed(map[string]string{
		"cmake": "cmake version 3.29.0",
	}))
	rep := c.Check(context.Background())
	assert.False(t, rep.OK)
	assert.Contains(t, out.String(), "Visual Studio Build Tools or MinGW")
}

func TestParseToolVersion(t *testing.T) {
	v, err := parseToolVersion("cmake version 3.28.1")
	require.NoError(t, err)
	assert.Equal(t, "3.28.1", v.String())

	v, err = parseToolVersion("cmake3 version 3.16")
	require.NoError(t, err)
	ok, err := meetsMinimum(v, "3.16")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = parseToolVersion("no digits here")
	assert.Error(t, err)
}
