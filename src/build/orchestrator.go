package build

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sofmeright/hlbuild/src/gitver"
	"github.com/sofmeright/hlbuild/src/output"
	"github.com/sofmeright/hlbuild/src/report"
)

// Orchestrator builds a list of configurations in order and summarizes.
type Orchestrator struct {
	Builder *Builder
	Console *output.Console

	// GitLab wraps each configuration in a collapsible CI log section.
	GitLab bool
	Git    *gitver.Info
}

// Run builds configs sequentially. A failing configuration does not stop
// the ones after it. The only error is ctx's, returned with the outcomes
// gathered so far.
func (o *Orchestrator) Run(ctx context.Context, configs []Configuration, clean bool) (report.Summary[Outcome], error) {
	sum := report.Start[Outcome](report.KindBuild, o.Builder.Platform)
	sum.Git = o.Git
	w := o.Console.Writer()

	for i, c := range configs {
		if err := ctx.Err(); err != nil {
			sum.Finish()
			return sum, err
		}

		fmt.Fprintf(w, "\n[%d/%d] %s\n", i+1, len(configs), c.Name)
		id := "hlbuild_" + strings.ToLower(c.Name)
		output.SectionStartCollapsed(w, o.GitLab, id, "Build "+c.Name)
		sum.Add(o.Builder.Build(ctx, c, clean))
		output.SectionEnd(w, o.GitLab, id)

		if err := ctx.Err(); err != nil {
			sum.Finish()
			return sum, err
		}
	}
	sum.Finish()

	o.render(sum)
	return sum, nil
}

func (o *Orchestrator) render(sum report.Summary[Outcome]) {
	w := o.Console.Writer()
	color := o.Console.Color()

	sec := output.NewSection(w, "Build Summary", sum.Elapsed, color)
	for _, out := range sum.Entries {
		sec.Status(out.Configuration.Name, output.StatusOf(out.Success), outcomeDetail(out))
	}
	sec.Close()

	fmt.Fprintln(w)
	o.Console.Info("Built %d of %d configurations successfully", sum.Succeeded, sum.Attempted)

	if run, ok := runHint(sum.Entries); ok {
		fmt.Fprintln(w)
		o.Console.Info("To run an executable:")
		o.Console.Gray("  cd %s", run.Configuration.Dir)
		o.Console.Gray("  %s", invocation(o.Builder.Platform.IsWindows(), filepath.Base(run.ArtifactPath)))
	}
}

func outcomeDetail(out Outcome) string {
	switch out.Failure {
	case FailureNone:
		return fmt.Sprintf("%s (%s)", filepath.Base(out.ArtifactPath), output.FormatSize(out.ArtifactSize))
	case FailureArtifactNotFound:
		return "executable not found"
	case FailureLaunch:
		return "could not start " + out.FailedStep
	default:
		return out.FailedStep + " failed"
	}
}

// runHint picks the successful outcome to show run instructions for,
// preferring Release.
func runHint(outcomes []Outcome) (Outcome, bool) {
	var pick Outcome
	found := false
	for _, out := range outcomes {
		if !out.Success {
			continue
		}
		if out.Configuration.Name == "Release" {
			return out, true
		}
		if !found {
			pick, found = out, true
		}
	}
	return pick, found
}

func invocation(windows bool, name string) string {
	if windows {
		return `.\` + name
	}
	return "./" + name
}
