package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sofmeright/hlbuild/src/platform"
)

// Validate checks a loaded Config. It returns warnings for soft issues and
// an error listing every hard problem.
func Validate(cfg *Config) (warnings []string, err error) {
	var errs []string

	if strings.TrimSpace(cfg.Product) == "" {
		errs = append(errs, "product: must not be empty")
	}

	if cfg.Toolchain.BuildTool == "" {
		errs = append(errs, "toolchain.build_tool: must not be empty")
	}
	if cfg.Toolchain.MinVersion != "" {
		if _, verr := semver.NewVersion(cfg.Toolchain.MinVersion); verr != nil {
			errs = append(errs, fmt.Sprintf("toolchain.min_version: %q is not a valid version", cfg.Toolchain.MinVersion))
		}
	}
	for i, p := range cfg.Toolchain.Compilers.Windows {
		if p.Command == "" {
			errs = append(errs, fmt.Sprintf("toolchain.compilers.windows[%d]: command is required", i))
		}
	}
	for i, p := range cfg.Toolchain.Compilers.Posix {
		if p.Command == "" {
			errs = append(errs, fmt.Sprintf("toolchain.compilers.posix[%d]: command is required", i))
		}
	}
	if len(cfg.Toolchain.Compilers.Windows) == 0 && len(cfg.Toolchain.Compilers.Posix) == 0 {
		warnings = append(warnings, "toolchain.compilers: no compiler probes configured")
	}

	if len(cfg.Configurations) == 0 {
		errs = append(errs, "configurations: at least one configuration is required")
	}
	seen := make(map[string]bool, len(cfg.Configurations))
	for i, name := range cfg.Configurations {
		canonical, cerr := CanonicalConfiguration(name)
		if cerr != nil {
			errs = append(errs, fmt.Sprintf("configurations[%d]: %v", i, cerr))
			continue
		}
		if seen[canonical] {
			errs = append(errs, fmt.Sprintf("configurations[%d]: duplicate %q", i, canonical))
		}
		seen[canonical] = true
		cfg.Configurations[i] = canonical
	}

	for key := range cfg.Artifact.PlatformTags {
		if !platform.ID(key).Valid() {
			warnings = append(warnings, fmt.Sprintf("artifact.platform_tags: unknown platform %q is ignored", key))
		}
	}
	if cfg.Artifact.MaxDepth <= 0 {
		errs = append(errs, "artifact.max_depth: must be positive")
	}

	if cfg.Tests.Dir == "" {
		errs = append(errs, "tests.dir: must not be empty")
	}
	if cfg.Tests.Unit == "" || cfg.Tests.Integration == "" {
		errs = append(errs, "tests: unit and integration suite names are required")
	}

	if len(errs) > 0 {
		return warnings, errors.New("invalid config:\n  " + strings.Join(errs, "\n  "))
	}
	return warnings, nil
}
