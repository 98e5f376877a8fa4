// Package schema implements the schema command and its subcommands, which
// read table structures from live databases.
package schema

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fvarrui/dbtools/cmd/application"
	"github.com/fvarrui/dbtools/internal/cmd/cmdutil"
	"github.com/fvarrui/dbtools/internal/cmd/globals"
	"github.com/fvarrui/dbtools/internal/introspect"
	"github.com/fvarrui/dbtools/pkg/logging"
)

// NewCommand creates the schema command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schema",
		GroupID: "core",
		Short:   "Inspect and dump database schemas",
		Long: `Schema reads table structures from a live database.

The database is selected with --url, a named connection with --db, or the
"default" connection of the config file. A {PASSWORD} placeholder in the
connection URL is filled from --password or prompted for.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newDumpCommand(app))
	cmd.AddCommand(newListCommand(app, false))
	cmd.AddCommand(newListCommand(app, true))
	cmd.AddCommand(newShowCommand(app))

	return cmd
}

// open connects to the selected database and closes it once fn returns.
func open(cmd *cobra.Command, app application.Application, flags *globals.ConnectionFlags, op string, fn func(ctx context.Context, in *introspect.Introspector) error) error {
	ctx := logging.WithOperation(logging.WithLogger(cmd.Context(), app.Logger()), op)

	in, err := cmdutil.Connect(ctx, app, flags)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil {
			logging.FromContext(ctx).Warn().Err(cerr).Msg("Failed to close database connection")
		}
	}()

	return fn(ctx, in)
}
