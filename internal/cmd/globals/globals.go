// Package globals provides shared flag structures and utilities for CLI commands.
package globals

import "github.com/spf13/cobra"

// Flags holds global common flags across all commands.
type Flags struct {
	Output     string
	Quiet      bool
	Verbose    bool
	NoColor    bool
	ConfigFile string
	LogLevel   string
}

// AddFlags adds common flags to the root command.
func AddFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.PersistentFlags().StringVarP(&flags.Output, "format", "o", "",
		"Output format: table, json, yaml, markdown (default table on a terminal, json otherwise)")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false,
		"Minimal output")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false,
		"Verbose output")
	cmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false,
		"Disable colored output")
	cmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "",
		"Config file with thresholds and named connections (default is $HOME/.dbtools.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "",
		"Log level: trace, debug, info, warn, error (overrides -v/-q)")

	return flags
}

// Parse extracts global flags from the command hierarchy.
// Subcommands use it when they were not handed the flags struct directly.
func Parse(cmd *cobra.Command) (*Flags, error) {
	root := cmd
	for root.Parent() != nil {
		root = root.Parent()
	}

	output, _ := root.PersistentFlags().GetString("format")
	quiet, _ := root.PersistentFlags().GetBool("quiet")
	verbose, _ := root.PersistentFlags().GetBool("verbose")
	noColor, _ := root.PersistentFlags().GetBool("no-color")
	configFile, _ := root.PersistentFlags().GetString("config")
	logLevel, _ := root.PersistentFlags().GetString("log-level")

	return &Flags{
		Output:     output,
		Quiet:      quiet,
		Verbose:    verbose,
		NoColor:    noColor,
		ConfigFile: configFile,
		LogLevel:   logLevel,
	}, nil
}
