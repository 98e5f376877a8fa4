package schema

import (
	"github.com/spf13/cobra"

	"github.com/fvarrui/dbtools"
	"github.com/fvarrui/dbtools/cmd/application"
	"github.com/fvarrui/dbtools/internal/cmd/cmdutil"
	"github.com/fvarrui/dbtools/internal/cmd/globals"
	"github.com/fvarrui/dbtools/pkg/logging"
	"github.com/fvarrui/dbtools/pkg/schema"
)

func newDumpCommand(app application.Application) *cobra.Command {
	var conn *globals.ConnectionFlags
	var filters *globals.FilterFlags

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the tables of a database to a schema file",
		Long: `Dump introspects every table of the database, with its columns, keys and
comments, and writes the result as a schema file that match and check can
read later. The file format follows the extension of --out.`,
		Example: `  dbtools schema dump --url sqlite:///shop.db --out shop.yaml
  dbtools schema dump --db legacy --prefix crm_ --out legacy.json
  dbtools schema dump --driver postgres --url "host=db user=app dbname=crm" -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithOperation(logging.WithLogger(cmd.Context(), app.Logger()), "dump")

			driver, dsn, err := cmdutil.Connection(app, conn)
			if err != nil {
				return err
			}

			opts := []dbtools.Option{dbtools.WithPrefix(conn.Prefix)}
			if len(filters.Include) > 0 {
				opts = append(opts, dbtools.WithInclude(filters.Include...))
			}
			if len(filters.Exclude) > 0 {
				opts = append(opts, dbtools.WithExclude(filters.Exclude...))
			}
			client, err := app.Client(opts...)
			if err != nil {
				return err
			}

			s, err := client.IntrospectDSN(ctx, driver, dsn)
			if err != nil {
				return err
			}

			out := cmdutil.MustGetString(cmd, "out")
			if out == "" {
				return cmdutil.Emit(cmd, app, "", s)
			}
			if err := schema.Save(out, s); err != nil {
				return err
			}
			logging.FromContext(ctx).Info().
				Str("path", out).
				Int("tables", len(s.Tables)).
				Int("columns", s.ColumnCount()).
				Msg("Schema written")
			return nil
		},
	}

	conn = globals.AddConnectionFlags(cmd)
	filters = globals.AddFilterFlags(cmd)
	cmd.Flags().String("out", "", "Schema file to write (.json, .yaml or .yml)")

	return cmd
}
