// Package main provides the entry point for the spantree CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/spantree/cmd/spantree/commands"
	"github.com/Sumatoshi-tech/spantree/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "spantree",
		Short: "Spantree - timespan index inspection tool",
		Long: `Spantree loads timespan corpora and answers point-in-time questions
about them.

Commands:
  report         Summarize a corpus per owner group
  verticalities  Walk the corpus moment by moment
  plot           Render an overlap density chart as HTML
  validate       Check a JSON corpus against the schema`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to config file")

	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewVerticalitiesCommand())
	rootCmd.AddCommand(commands.NewPlotCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "spantree %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
