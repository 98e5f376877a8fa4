package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fvarrui/dbtools/cmd/dbtools/cmd/check"
	"github.com/fvarrui/dbtools/cmd/dbtools/cmd/completion"
	"github.com/fvarrui/dbtools/cmd/dbtools/cmd/match"
	"github.com/fvarrui/dbtools/cmd/dbtools/cmd/query"
	"github.com/fvarrui/dbtools/cmd/dbtools/cmd/schema"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(match.NewCommand(a))
	rootCmd.AddCommand(schema.NewCommand(a))
	rootCmd.AddCommand(check.NewCommand(a))
	rootCmd.AddCommand(query.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(a.newVersionCommand())
	rootCmd.AddCommand(completion.NewCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		GroupID: "management",
		Short:   "Show version information",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("dbtools %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
				cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
