package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "carbon",
	Short: "Carbon interpreter and compiler",
	Long: `carbon is a compiler and bytecode virtual machine for the Carbon
scripting language: a recursive-descent parser, a multi-pass semantic
analyzer, an address-based bytecode compiler, and a stack-per-call VM.`,
	Version: Version,
}

// Execute runs the root command, dispatching to whichever subcommand was
// invoked on the command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
