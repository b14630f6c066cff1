package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sofmeright/hlbuild/src/config"
	"github.com/sofmeright/hlbuild/src/gitver"
	"github.com/sofmeright/hlbuild/src/logging"
	"github.com/sofmeright/hlbuild/src/output"
	"github.com/sofmeright/hlbuild/src/platform"
	"github.com/sofmeright/hlbuild/src/runner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailed      = 1
	ExitInterrupted = 130
)

// errFailed marks a run that finished unsuccessfully and has already been
// reported on the console.
var errFailed = errors.New("run failed")

var (
	projectFile string
	verbose     bool

	cfg     *config.Config
	env     config.Env
	host    platform.ID
	console *output.Console
	logger  *zap.Logger
)

// Seams replaced by tests.
var (
	stdout         io.Writer = os.Stdout
	stderr         io.Writer = os.Stderr
	detectPlatform           = platform.Detect
	newExecutor              = func(log *zap.Logger) runner.Executor { return runner.New(log) }
)

var rootCmd = &cobra.Command{
	Use:   "hlbuild",
	Short: "Cross-platform CMake build and test orchestrator",
	Long: `hlbuild drives the project's CMake build on Windows, Linux and macOS.

It checks the toolchain, builds each configuration in its own build
directory, verifies the produced executable and runs the test suites.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return setup()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectFile, "project", "", "project file (default: .hlbuild.yml or .hlbuild.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every command and its timing to stderr")
}

func setup() error {
	var err error
	env, err = config.LoadEnv()
	if err != nil {
		return err
	}
	logger = logging.New(logging.Config{Verbose: verbose, Output: stderr})
	host = detectPlatform()

	path := projectFile
	if path == "" {
		path = env.Project
	}
	cfg, err = config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	warnings, err := config.Validate(cfg)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cfg.Path(), err)
	}

	console = output.NewConsole(stdout, output.UseColor(host, env))
	for _, w := range warnings {
		console.Warning("%s", w)
	}
	logger.Debug("setup",
		zap.String("platform", host.String()),
		zap.String("project", cfg.Path()),
		zap.Bool("color", console.Color()))
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if logger != nil {
		_ = logger.Sync()
	}
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, errFailed):
		return ExitFailed
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return ExitFailed
	}
}

// gitInfo reads the checkout state. It is informational only.
func gitInfo() *gitver.Info {
	info, err := gitver.Detect(cfg.ProjectRoot())
	if err != nil {
		logger.Debug("git info unavailable", zap.Error(err))
		return nil
	}
	return info
}

// runContext is the key/value block printed before a run.
func runContext(git *gitver.Info, extra ...output.KV) []output.KV {
	project := cfg.Path()
	if project == "" {
		project = "(defaults)"
	}
	kv := []output.KV{
		{Key: "Platform", Value: host.String()},
		{Key: "Product", Value: cfg.Product},
		{Key: "Project", Value: project},
		{Key: "Git", Value: git.Describe()},
	}
	return append(kv, extra...)
}

func jobsLabel(n int) string {
	if n > 0 {
		return strconv.Itoa(n)
	}
	return strconv.Itoa(buildDefaultJobs()) + " (auto)"
}
