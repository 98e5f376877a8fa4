// Package check implements the check command, which reports undeclared,
// dangling and circular relationships inside one schema.
package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fvarrui/dbtools"
	"github.com/fvarrui/dbtools/cmd/application"
	"github.com/fvarrui/dbtools/internal/cmd/cmdutil"
	"github.com/fvarrui/dbtools/internal/cmd/emoji"
	"github.com/fvarrui/dbtools/internal/cmd/globals"
	"github.com/fvarrui/dbtools/pkg/check"
	"github.com/fvarrui/dbtools/pkg/errors"
	"github.com/fvarrui/dbtools/pkg/logging"
	"github.com/fvarrui/dbtools/pkg/schema"
)

// ErrProblemsFound is returned with --strict when the check finds anything.
var ErrProblemsFound = errors.New("relationship problems found")

// NewCommand creates the check command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	var conn *globals.ConnectionFlags
	var filters *globals.FilterFlags

	cmd := &cobra.Command{
		Use:     "check [SCHEMA]",
		GroupID: "core",
		Short:   "Find missing, dangling and circular foreign keys",
		Long: `Check inspects the relationships of one schema.

It lists columns named like the primary key of another table that have no
foreign key declared, foreign keys pointing at unknown tables or columns,
and cycles among the declared foreign keys.

SCHEMA is a schema file, a connection URL or a named connection written as
@name. Without it the database is selected with the connection flags.`,
		Example: `  dbtools check legacy.yaml
  dbtools check @legacy -o markdown
  dbtools check --url sqlite:///school.db --strict`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithOperation(logging.WithLogger(cmd.Context(), app.Logger()), "check")

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

			var s *schema.Schema
			if len(args) == 1 {
				ref, err := cmdutil.ResolveRef(app, args[0], conn.Password)
				if err != nil {
					return err
				}
				s, err = client.Source(ctx, ref)
				if err != nil {
					return err
				}
			} else {
				driver, dsn, err := cmdutil.Connection(app, conn)
				if err != nil {
					return err
				}
				s, err = client.IntrospectDSN(ctx, driver, dsn)
				if err != nil {
					return err
				}
			}

			report := client.Check(s)
			logging.FromContext(ctx).Info().
				Str("schema", report.Schema).
				Int("tables", report.Tables).
				Int("missing", len(report.Missing)).
				Int("dangling", len(report.Dangling)).
				Int("cycles", len(report.Cycles)).
				Msg("Schema checked")

			if err := cmdutil.Emit(cmd, app, cmdutil.MustGetString(cmd, "out"), report); err != nil {
				return err
			}
			cmd.PrintErrln(Status(report))
			if !report.OK() && cmdutil.MustGetBool(cmd, "strict") {
				return ErrProblemsFound
			}
			return nil
		},
	}

	conn = globals.AddConnectionFlags(cmd)
	filters = globals.AddFilterFlags(cmd)
	cmd.Flags().String("out", "", "Write the report to this file instead of stdout")
	cmd.Flags().Bool("strict", false, "Exit with an error when any problem is found")

	return cmd
}

// Status is the one line summary printed after the report.
func Status(r check.Report) string {
	if r.OK() {
		return fmt.Sprintf("%s %s: %d tables, %d foreign keys, no problems found",
			emoji.Success, r.Schema, r.Tables, len(r.Relations))
	}
	return fmt.Sprintf("%s %s: %d missing, %d dangling, %d cycles",
		emoji.Status(false), r.Schema, len(r.Missing), len(r.Dangling), len(r.Cycles))
}
