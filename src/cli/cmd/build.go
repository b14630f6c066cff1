package cmd

import (
	"fmt"

	"github.com/sofmeright/hlbuild/src/build"
	"github.com/sofmeright/hlbuild/src/config"
	"github.com/sofmeright/hlbuild/src/output"
	"github.com/sofmeright/hlbuild/src/prereq"
	"github.com/sofmeright/hlbuild/src/report"
	"github.com/spf13/cobra"
)

var (
	buildClean   bool
	buildConfig  string
	buildJobs    int
	buildOutputs report.Outputs
)

var buildDefaultJobs = build.DefaultJobs

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build all configurations, or one with --config",
	Long: fmt.Sprintf(`Build each configuration in its own build_<name> directory.

Configurations are built one after another in the order %v.
A failing configuration does not stop the others; the exit code is 0 only
when every requested configuration produced its executable.`, config.KnownConfigurations),
	Example: `  hlbuild build                    # build all configurations
  hlbuild build --config Release   # build only Release
  hlbuild build --clean            # clean and build all`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&buildClean, "clean", false, "remove each build directory before building")
	buildCmd.Flags().StringVar(&buildConfig, "config", "", "build a single configuration (Debug_Simple, Debug_Verbose, Debug_All, Release)")
	buildCmd.Flags().IntVarP(&buildJobs, "jobs", "j", 0, "parallel compile jobs (default: logical CPU count)")
	addReportFlags(buildCmd, &buildOutputs)

	rootCmd.AddCommand(buildCmd)
}

func addReportFlags(cmd *cobra.Command, o *report.Outputs) {
	cmd.Flags().StringVar(&o.JSON, "report", "", "write a JSON run summary to this file")
	cmd.Flags().StringVar(&o.JUnitDir, "junit", "", "write JUnit XML into this directory")
	cmd.Flags().StringVar(&o.Badge, "badge", "", "write an SVG status badge to this file")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var names []string
	if buildConfig != "" {
		names = []string{buildConfig}
	}
	configs, err := build.Configurations(cfg, host, names)
	if err != nil {
		return err
	}

	exec := newExecutor(logger)
	git := gitInfo()

	console.Header(fmt.Sprintf("%s - Cross-Platform Build", cfg.Product))
	output.ContextBlock(console.Writer(), runContext(git, output.KV{Key: "Jobs", Value: jobsLabel(buildJobs)}))
	fmt.Fprintln(console.Writer())

	checker := &prereq.Checker{Exec: exec, Platform: host, Config: cfg, Console: console, Log: logger}
	if !checker.Check(ctx).OK {
		if err := ctx.Err(); err != nil {
			console.Error("Build interrupted by user")
			return err
		}
		console.Error("Prerequisites check failed. Please install required tools.")
		return errFailed
	}

	orch := &build.Orchestrator{
		Builder: &build.Builder{
			Exec:     exec,
			Platform: host,
			Config:   cfg,
			Jobs:     buildJobs,
			Console:  console,
			Log:      logger,
		},
		Console: console,
		GitLab:  env.IsGitLabCI(),
		Git:     git,
	}
	sum, err := orch.Run(ctx, configs, buildClean)
	if err != nil {
		console.Error("Build interrupted by user")
		return err
	}

	if err := report.Emit(buildOutputs, console, sum); err != nil {
		return err
	}
	if !sum.Success {
		return errFailed
	}
	return nil
}
