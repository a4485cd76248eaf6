package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reactive",
		Short: "Tooling for the reactive dependency-tracking engine",
		Long: `Reactive is a minimal synchronous dependency-tracking engine for Go:
signals, derived cells, and effects that re-run when a cell they read
is written.

This tool exercises the engine from the command line:

  • demo   - walk through signals, derived cells, and effects
  • bench  - measure propagation throughput over configurable graphs
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		demoCmd(),
		benchCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("\033[36m→\033[0m %s\n", fmt.Sprintf(format, args...))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("reactive %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
