package cmd

import (
	"fmt"

	"github.com/sofmeright/hlbuild/src/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(stdout, version.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
