// Package build drives CMake configurations through configure, compile
// and artifact verification, one configuration at a time.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sofmeright/hlbuild/src/config"
	"github.com/sofmeright/hlbuild/src/output"
	"github.com/sofmeright/hlbuild/src/platform"
	"github.com/sofmeright/hlbuild/src/runner"
	"go.uber.org/zap"
)

const diagnosticLines = 20

// Builder builds single configurations.
type Builder struct {
	Exec     runner.Executor
	Platform platform.ID
	Config   *config.Config
	Jobs     int // parallel compile jobs; 0 means DefaultJobs
	Console  *output.Console
	Log      *zap.Logger

	removeAll func(string) error
}

// StepError reports a configure or compile step that did not succeed.
type StepError struct {
	Step   string
	Result runner.Result
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Result.Diagnostic(diagnosticLines))
}

// Kind classifies the failure as a launch failure or a failed step.
func (e *StepError) Kind() FailureKind {
	if !e.Result.Launched() {
		return FailureLaunch
	}
	return FailureStep
}

// Build runs one configuration to completion and returns its outcome.
// It never returns without an outcome, whatever fails.
func (b *Builder) Build(ctx context.Context, c Configuration, clean bool) Outcome {
	start := time.Now()
	out := Outcome{Configuration: c, Stage: StagePending, Reached: StagePending}

	b.Console.Info("Building %s configuration...", c.Name)
	b.Console.Gray("Build directory: %s", c.Dir)
	b.Console.Gray("Output: %s", c.Artifact)

	advance := func(s Stage) { out.Reached = s }
	err := b.prepare(ctx, Request{Name: c.Name, BuildType: c.BuildType, Dir: c.Dir}, clean, advance)
	if err != nil {
		out = b.fail(out, err)
		out.Duration = time.Since(start)
		return out
	}

	path, size, err := FindArtifact(ArtifactQuery{
		Dir:         c.Dir,
		Prefix:      ArtifactPrefix(b.Config, b.Platform),
		Suffix:      b.Platform.ExeSuffix(),
		Expected:    c.Artifact,
		MaxDepth:    b.Config.Artifact.MaxDepth,
		RequireExec: !b.Platform.IsWindows(),
	})
	if err != nil {
		b.Console.Warning("Executable not found after build")
		b.log().Debug("artifact scan", zap.String("dir", c.Dir), zap.Error(err))
		out.Stage = StageFailed
		out.FailedStep = "locate"
		out.Failure = FailureArtifactNotFound
		out.Diagnostic = err.Error()
		out.Duration = time.Since(start)
		return out
	}
	out.ArtifactPath = path
	advance(StageArtifactLocated)

	out.ArtifactSize = size
	advance(StageVerified)
	out.Stage = StageVerified
	out.Success = true
	out.Duration = time.Since(start)
	b.Console.Success("Build successful: %s", filepath.Base(path))
	b.Console.Gray("  Size: %s", output.FormatSize(size))
	if filepath.Base(path) != c.Artifact {
		b.Console.Warning("Expected %s, found %s", c.Artifact, filepath.Base(path))
	}
	return out
}

// Prepare cleans (when asked), configures and compiles req.Dir. It is the
// shared front half of a configuration build and of a test build.
func (b *Builder) Prepare(ctx context.Context, req Request, clean bool) error {
	return b.prepare(ctx, req, clean, func(Stage) {})
}

func (b *Builder) prepare(ctx context.Context, req Request, clean bool, advance func(Stage)) error {
	if clean && b.clean(req.Dir) {
		advance(StageCleaned)
	}
	if err := os.MkdirAll(req.Dir, 0o755); err != nil {
		return fmt.Errorf("creating build directory: %w", err)
	}

	source, err := b.Config.SourcePath()
	if err != nil {
		return fmt.Errorf("resolving source directory: %w", err)
	}

	for _, step := range b.Plan(req, source) {
		switch step.Name {
		case "configure":
			b.Console.Gray("Configuring...")
		case "compile":
			b.Console.Gray("Building...")
		}
		res := b.Exec.Run(ctx, step.Command, true)
		b.log().Debug("step",
			zap.String("config", req.Name),
			zap.String("step", step.Name),
			zap.Int("exit", res.ExitCode),
			zap.Duration("elapsed", res.Duration))
		if !res.Success() {
			return &StepError{Step: step.Name, Result: res}
		}
		switch step.Name {
		case "configure":
			advance(StageConfigured)
		case "compile":
			advance(StageCompiled)
		}
	}
	return nil
}

// clean removes dir and reports whether it did. A failed removal is
// reported and the build goes on over the existing tree.
func (b *Builder) clean(dir string) bool {
	if _, err := os.Stat(dir); err != nil {
		return false
	}
	b.Console.Gray("Cleaning %s...", dir)
	remove := b.removeAll
	if remove == nil {
		remove = os.RemoveAll
	}
	if err := remove(dir); err != nil {
		b.Console.Warning("Could not clean %s: %v", dir, err)
		return false
	}
	return true
}

func (b *Builder) fail(out Outcome, err error) Outcome {
	out.Stage = StageFailed
	out.Diagnostic = err.Error()

	var stepErr *StepError
	if errors.As(err, &stepErr) {
		out.FailedStep = stepErr.Step
		out.Failure = stepErr.Kind()
		out.Diagnostic = stepErr.Result.Diagnostic(diagnosticLines)
	} else {
		out.FailedStep = "prepare"
		out.Failure = FailureStep
	}

	b.Console.Error("Build failed for %s", out.Configuration.Name)
	b.Console.Block("  ", out.Diagnostic)
	return out
}

func (b *Builder) log() *zap.Logger {
	if b.Log == nil {
		return zap.NewNop()
	}
	return b.Log
}
