package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sofmeright/hlbuild/src/build"
	"github.com/sofmeright/hlbuild/src/output"
	"github.com/sofmeright/hlbuild/src/prereq"
	"github.com/sofmeright/hlbuild/src/report"
	"github.com/sofmeright/hlbuild/src/testrun"
	"github.com/spf13/cobra"
)

var buildTypes = []string{"Debug", "Release"}

var (
	testBuildType       string
	testBuildDir        string
	testClean           bool
	testUnitOnly        bool
	testIntegrationOnly bool
	testNative          bool
	testNoBuild         bool
	testOutputs         report.Outputs
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Build with tests enabled and run the test suites",
	Long: `Configure and compile the project with BUILD_TESTS=ON, then run the unit
and integration test executables. With --ctest the native test aggregator
runs instead. A missing test executable counts as a failure.`,
	Args: cobra.NoArgs,
	RunE: runTest,
}

func init() {
	f := testCmd.Flags()
	f.StringVar(&testBuildType, "build-type", "Debug", "build type (Debug or Release)")
	f.StringVar(&testBuildDir, "build-dir", "build", "build directory")
	f.BoolVar(&testClean, "clean", false, "remove the build directory before building")
	f.BoolVar(&testUnitOnly, "unit-only", false, "run only the unit tests")
	f.BoolVar(&testIntegrationOnly, "integration-only", false, "run only the integration tests")
	f.BoolVar(&testNative, "ctest", false, "run all tests through ctest")
	f.BoolVar(&testNoBuild, "no-build", false, "skip configure and compile, test existing binaries")
	addReportFlags(testCmd, &testOutputs)
	testCmd.MarkFlagsMutuallyExclusive("unit-only", "integration-only", "ctest")

	rootCmd.AddCommand(testCmd)
}

func testMode() testrun.Mode {
	switch {
	case testNative:
		return testrun.ModeNative
	case testUnitOnly:
		return testrun.ModeUnit
	case testIntegrationOnly:
		return testrun.ModeIntegration
	default:
		return testrun.ModeBoth
	}
}

func canonicalBuildType(s string) (string, error) {
	for _, bt := range buildTypes {
		if strings.EqualFold(bt, s) {
			return bt, nil
		}
	}
	return "", fmt.Errorf("invalid build type %q (choose from %s)", s, strings.Join(buildTypes, ", "))
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	buildType, err := canonicalBuildType(testBuildType)
	if err != nil {
		return err
	}
	dir := testBuildDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cfg.ProjectRoot(), dir)
	}

	exec := newExecutor(logger)
	git := gitInfo()

	console.Header(fmt.Sprintf("%s - Tests", cfg.Product))
	output.ContextBlock(console.Writer(), runContext(git,
		output.KV{Key: "Build dir", Value: dir},
		output.KV{Key: "Mode", Value: string(testMode())},
	))
	fmt.Fprintln(console.Writer())

	if !testNoBuild {
		checker := &prereq.Checker{Exec: exec, Platform: host, Config: cfg, Console: console, Log: logger}
		if !checker.Check(ctx).OK {
			if err := ctx.Err(); err != nil {
				console.Error("Tests interrupted by user")
				return err
			}
			console.Error("Prerequisites check failed. Please install required tools.")
			return errFailed
		}
	}

	tr := &testrun.Runner{
		Exec: exec,
		Builder: &build.Builder{
			Exec:     exec,
			Platform: host,
			Config:   cfg,
			Console:  console,
			Log:      logger,
		},
		Platform: host,
		Config:   cfg,
		Console:  console,
		GitLab:   env.IsGitLabCI(),
		Git:      git,
		Log:      logger,
	}
	sum, err := tr.Run(ctx, testrun.Options{
		BuildDir:  dir,
		BuildType: buildType,
		Clean:     testClean,
		Mode:      testMode(),
		SkipBuild: testNoBuild,
	})
	switch {
	case errors.Is(err, testrun.ErrBuildFailed):
		console.Error("Build failed, exiting...")
		return errFailed
	case err != nil:
		console.Error("Tests interrupted by user")
		return err
	}

	if err := report.Emit(testOutputs, console, sum); err != nil {
		return err
	}
	if !sum.Success {
		return errFailed
	}
	return nil
}
