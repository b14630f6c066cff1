package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sofmeright/hlbuild/src/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, KnownConfigurations, cfg.Configurations)
	assert.Equal(t, "cmake", cfg.Toolchain.BuildTool)
	assert.Equal(t, "", cfg.Path())
	assert.Equal(t, ".", cfg.ProjectRoot())

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, ".hlbuild.yml", `
product: lights
source_dir: src
configurations: [release, Debug_All]
artifact:
  platform_tags:
    macos: mac
tests:
  unit: UnitSuite
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "lights", cfg.Product)
	assert.Equal(t, "UnitSuite", cfg.Tests.Unit)
	assert.Equal(t, "IntegrationTests", cfg.Tests.Integration, "unset fields keep defaults")
	assert.Equal(t, "mac", cfg.ArtifactTag(platform.MacOS))
	assert.Equal(t, "linux", cfg.ArtifactTag(platform.Linux))
	assert.Equal(t, filepath.Dir(path), cfg.ProjectRoot())

	src, err := cfg.SourcePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "src"), src)

	_, err = Validate(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Release", "Debug_All"}, cfg.Configurations)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, ".hlbuild.toml", `
product = "lights"

[toolchain]
build_tool = "cmake3"
min_version = "3.20"

[[toolchain.compilers.posix]]
name = "CLANG"
command = "clang"
args = ["--version"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cmake3", cfg.Toolchain.BuildTool)
	assert.Equal(t, "3.20", cfg.Toolchain.MinVersion)
	var commands []string
	for _, p := range cfg.CompilerProbes(platform.Linux) {
		commands = append(commands, p.Command)
	}
	assert.Contains(t, commands, "clang")
	assert.Len(t, cfg.CompilerProbes(platform.Windows), 2)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadDefaultWhenAbsent(t *testing.T) {
	testChdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults().Product, cfg.Product)
}

func TestLoadParseError(t *testing.T) {
	path := writeFile(t, "bad.yml", "product: [unterminated")
	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing")
}

func TestValidateErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Configurations = []string{"Release", "Profile", "release"}
	cfg.Toolchain.MinVersion = "three"
	cfg.Artifact.PlatformTags = map[string]string{"beos": "be"}

	warnings, err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown build configuration "Profile"`)
	assert.Contains(t, err.Error(), `duplicate "Release"`)
	assert.Contains(t, err.Error(), "min_version")
	assert.Len(t, warnings, 1)
}

func TestCanonicalConfiguration(t *testing.T) {
	got, err := CanonicalConfiguration("debug_verbose")
	require.NoError(t, err)
	assert.Equal(t, "Debug_Verbose", got)

	_, err = CanonicalConfiguration("Profile")
	assert.ErrorIs(t, err, ErrUnknownConfiguration)
}

func TestEnv(t *testing.T) {
	t.Setenv("FORCE_COLOR", "1")
	t.Setenv("CI", "true")
	t.Setenv("GITLAB_CI", "true")
	t.Setenv("HLBUILD_PROJECT", "custom.yml")

	e, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "1", e.ForceColor)
	assert.True(t, e.IsCI())
	assert.True(t, e.IsGitLabCI())
	assert.Equal(t, "custom.yml", e.Project)
}
