// Package query implements the query command, which runs ad-hoc SQL against
// a database and prints the rows.
package query

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fvarrui/dbtools/cmd/application"
	"github.com/fvarrui/dbtools/internal/cmd/cmdutil"
	"github.com/fvarrui/dbtools/internal/cmd/emoji"
	"github.com/fvarrui/dbtools/internal/cmd/globals"
	"github.com/fvarrui/dbtools/pkg/errors"
	"github.com/fvarrui/dbtools/pkg/logging"
)

// NewCommand creates the query command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	var conn *globals.ConnectionFlags

	cmd := &cobra.Command{
		Use:     "query",
		GroupID: "core",
		Short:   "Run a SQL query and print the rows",
		Long: `Query runs one SQL statement against a database and prints the rows it
returns as a table, or in the format chosen with -o.

The statement is given with --sql or read from a file with --file. The
database is selected with --url, a named connection with --db, or the
"default" connection of the config file.`,
		Example: `  dbtools query --db legacy --sql "SELECT * FROM customers"
  dbtools query --url sqlite:///shop.db --file report.sql -o json
  dbtools query --sql "SELECT count(*) FROM orders" --out counts.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithOperation(logging.WithLogger(cmd.Context(), app.Logger()), "query")
			logger := logging.FromContext(ctx)

			sql, err := statement(cmd)
			if err != nil {
				return err
			}

			in, err := cmdutil.Connect(ctx, app, conn)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := in.Close(); cerr != nil {
					logger.Warn().Err(cerr).Msg("Failed to close database connection")
				}
			}()

			rows, err := in.Query(ctx, sql)
			if err != nil {
				return err
			}
			logger.Info().
				Str("driver", in.Driver()).
				Int("rows", rows.Len()).
				Msg("Query executed")

			if err := cmdutil.Emit(cmd, app, cmdutil.MustGetString(cmd, "out"), rows); err != nil {
				return err
			}
			cmd.PrintErrf("%s %d rows\n", emoji.Success, rows.Len())
			return nil
		},
	}

	conn = globals.AddConnectionFlags(cmd)
	cmd.Flags().String("sql", "", "SQL statement to run")
	cmd.Flags().String("file", "", "Read the SQL statement from this file")
	cmd.Flags().String("out", "", "Write the rows to this file instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("sql", "file")
	cmd.MarkFlagsOneRequired("sql", "file")

	return cmd
}

// statement returns the SQL given with --sql or read from --file.
func statement(cmd *cobra.Command) (string, error) {
	path := cmdutil.MustGetString(cmd, "file")
	if path == "" {
		return cmdutil.MustGetString(cmd, "sql"), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewNotFoundError("sql file", path)
		}
		return "", errors.WrapIO("read", path, err)
	}
	return string(data), nil
}
