package cmd

import (
	"github.com/sofmeright/hlbuild/src/output"
	"github.com/sofmeright/hlbuild/src/prereq"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the build tool and a compiler are installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output.ContextBlock(console.Writer(), runContext(gitInfo()))
		console.Println()

		checker := &prereq.Checker{Exec: newExecutor(logger), Platform: host, Config: cfg, Console: console, Log: logger}
		if !checker.Check(cmd.Context()).OK {
			return errFailed
		}
		console.Success("All prerequisites found")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
