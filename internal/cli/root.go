// Package cli implements the weld command-line interface using Cobra.
// Each subcommand maps to one task kind (transcode, script, probe).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weld",
	Short: "weld — Supervised external tool execution",
	Long: `weld runs the external tools a recording pipeline depends on — the
media transcoder and the script runner — as supervised child processes
with timeouts, bounded output capture and guaranteed cleanup.

Configuration lives in $WELD_HOME/config.toml (default ~/.weld).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
