// Package config loads the project file (.hlbuild.yml or .hlbuild.toml)
// and the environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sofmeright/hlbuild/src/platform"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile     = ".hlbuild.yml"
	defaultTOMLConfigFile = ".hlbuild.toml"
)

// KnownConfigurations is the closed set of build configurations in
// canonical build order.
var KnownConfigurations = []string{"Debug_Simple", "Debug_Verbose", "Debug_All", "Release"}

// ErrUnknownConfiguration is returned for a configuration name outside
// KnownConfigurations.
var ErrUnknownConfiguration = errors.New("unknown build configuration")

// Config is the top-level project configuration.
type Config struct {
	// Product is the artifact base name the project's CMake emits.
	Product string `yaml:"product" toml:"product"`

	// SourceDir is the CMake source directory, relative to the project file.
	SourceDir string `yaml:"source_dir" toml:"source_dir"`

	Toolchain ToolchainConfig `yaml:"toolchain" toml:"toolchain"`

	// Configurations restricts or reorders the default build set.
	Configurations []string `yaml:"configurations" toml:"configurations"`

	Artifact ArtifactConfig `yaml:"artifact" toml:"artifact"`
	Tests    TestsConfig    `yaml:"tests" toml:"tests"`

	// path is where the config was read from; empty for defaults.
	path string
}

// ToolchainConfig names the external tools the orchestrator drives.
type ToolchainConfig struct {
	BuildTool      string         `yaml:"build_tool" toml:"build_tool"`
	NativeBuild    string         `yaml:"native_build" toml:"native_build"`
	TestAggregator string         `yaml:"test_aggregator" toml:"test_aggregator"`
	MinVersion     string         `yaml:"min_version" toml:"min_version"`
	Compilers      CompilerProbes `yaml:"compilers" toml:"compilers"`
}

// CompilerProbes lists compiler invocations tried in order, per platform family.
type CompilerProbes struct {
	Windows []Probe `yaml:"windows" toml:"windows"`
	Posix   []Probe `yaml:"posix" toml:"posix"`
}

// Probe is one compiler presence check.
type Probe struct {
	Name    string   `yaml:"name" toml:"name"`
	Command string   `yaml:"command" toml:"command"`
	Args    []string `yaml:"args,omitempty" toml:"args,omitempty"`
}

// Label returns the display name of the probe.
func (p Probe) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return strings.ToUpper(p.Command)
}

// ArtifactConfig controls artifact naming and discovery.
type ArtifactConfig struct {
	// PlatformTags overrides the platform token in artifact names, keyed by
	// platform id (windows, linux, macos, unknown).
	PlatformTags map[string]string `yaml:"platform_tags" toml:"platform_tags"`

	// MaxDepth bounds the build directory scan.
	MaxDepth int `yaml:"max_depth" toml:"max_depth"`
}

// TestsConfig describes where test executables live.
type TestsConfig struct {
	Dir         string `yaml:"dir" toml:"dir"`
	Unit        string `yaml:"unit" toml:"unit"`
	Integration string `yaml:"integration" toml:"integration"`
	Flag        string `yaml:"flag" toml:"flag"`
}

// Load reads configuration from path. An empty path tries .hlbuild.yml
// then .hlbuild.toml and falls back to defaults when neither exists.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, candidate := range []string{defaultConfigFile, defaultTOMLConfigFile} {
			cfg, err := loadFile(candidate)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return cfg, err
		}
		return Defaults(), nil
	}
	return loadFile(path)
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Defaults returns the configuration used when no project file exists.
func Defaults() *Config {
	return &Config{
		Product:   "cj_lightsimstatus_code_chal",
		SourceDir: ".",
		Toolchain: ToolchainConfig{
			BuildTool:      "cmake",
			NativeBuild:    "make",
			TestAggregator: "ctest",
			MinVersion:     "3.16",
			Compilers: CompilerProbes{
				Windows: []Probe{
					{Name: "MSVC", Command: "cl"},
					{Name: "GCC", Command: "gcc", Args: []string{"--version"}},
				},
				Posix: []Probe{
					{Name: "GCC", Command: "gcc", Args: []string{"--version"}},
					{Name: "CLANG++", Command: "clang++", Args: []string{"--version"}},
				},
			},
		},
		Configurations: append([]string(nil), KnownConfigurations...),
		Artifact: ArtifactConfig{
			MaxDepth: 8,
		},
		Tests: TestsConfig{
			Dir:         "tests",
			Unit:        "HomeLightsTests",
			Integration: "IntegrationTests",
			Flag:        "BUILD_TESTS",
		},
	}
}

// Path returns the file the configuration was loaded from, or "".
func (c *Config) Path() string { return c.path }

// ProjectRoot returns the directory relative paths are resolved against.
func (c *Config) ProjectRoot() string {
	if c.path == "" {
		return "."
	}
	return filepath.Dir(c.path)
}

// SourcePath returns the absolute CMake source directory.
func (c *Config) SourcePath() (string, error) {
	dir := c.SourceDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(c.ProjectRoot(), dir)
	}
	return filepath.Abs(dir)
}

// ArtifactTag returns the platform token used in artifact names.
func (c *Config) ArtifactTag(p platform.ID) string {
	if tag, ok := c.Artifact.PlatformTags[p.String()]; ok && tag != "" {
		return tag
	}
	return p.DefaultArtifactTag()
}

// CompilerProbes returns the ordered probes for p.
func (c *Config) CompilerProbes(p platform.ID) []Probe {
	if p.IsWindows() {
		return c.Toolchain.Compilers.Windows
	}
	return c.Toolchain.Compilers.Posix
}

// CanonicalConfiguration resolves name (case-insensitively) against
// KnownConfigurations.
func CanonicalConfiguration(name string) (string, error) {
	for _, known := range KnownConfigurations {
		if strings.EqualFold(known, name) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w %q (choose from %s)", ErrUnknownConfiguration, name, strings.Join(KnownConfigurations, ", "))
}
