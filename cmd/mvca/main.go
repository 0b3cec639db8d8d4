package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mvca",
		Short: "Majority voting collective accuracy in elite/mass networks",
		Long: `mvca generates two-type elite/mass communities, lets every member vote
by majority over its neighborhood, and estimates how often the community
as a whole reaches the correct outcome.

Generated communities are stored so they can be voted on, inspected and
exported again. 'mvca simulate' runs a batch of randomly parameterized
communities and writes one CSV row per community.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	rootCmd.PersistentFlags().String("config", "", "Config file (default <root>/mvca.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newGenerateCmd(),
		newVoteCmd(),
		newInspectCmd(),
		newExportCmd(),
		newListCmd(),
		newDeleteCmd(),
		newSimulateCmd(),
		newReplayCmd(),
		newMCPServerCmd(),
	)

	return rootCmd
}
