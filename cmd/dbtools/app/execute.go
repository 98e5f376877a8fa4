package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/fvarrui/dbtools/internal/cmd/globals"
)

// Execute runs the dbtools CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "dbtools",
		Short:   "Schema reconciliation toolkit",
		Version: a.version,
		Long: `dbtools compares relational database schemas.

It maps the tables and columns of a legacy schema onto a new one by name
and type similarity, dumps live SQLite and PostgreSQL databases to schema
files, checks a schema for undeclared or broken relationships, and runs
ad-hoc SQL queries.

Named connections, thresholds and logging can be set in $HOME/.dbtools.yaml
or with DBTOOLS_* environment variables.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	globals.AddFlags(rootCmd)

	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	rootCmd.SetVersionTemplate("dbtools {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	flags, err := globals.Parse(cmd)
	if err != nil {
		return err
	}

	// An explicit config file replaces the one found at startup.
	if flags.ConfigFile != "" {
		cfg, err := LoadConfig(flags.ConfigFile)
		if err != nil {
			return err
		}
		a.config = cfg
	}

	a.config.UpdateFromFlags(flags.Verbose, flags.Quiet, flags.NoColor, flags.Output, flags.LogLevel)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config, a.stderr)
	a.logger = &logger

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
