package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"precis/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "precis",
	Short:        "Arbitrary-precision integer kernel toolbox",
	Long:         `precis evaluates bignum kernel operations, checks the kernel's laws over random operands and times its multiplication paths`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.Short()

	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.String("config", "", "path to precis.toml (default: nearest one above the working directory)")

	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "", "trace format (auto|text|ndjson)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept in the trace ring buffer")
	flags.Duration("trace-heartbeat", 0, "heartbeat interval during check (0 disables)")

	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a runtime trace to this file")
}

// main executes the root command. A failing command exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
