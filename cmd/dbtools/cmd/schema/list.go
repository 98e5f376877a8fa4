package schema

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fvarrui/dbtools/cmd/application"
	"github.com/fvarrui/dbtools/internal/cmd/cmdutil"
	"github.com/fvarrui/dbtools/internal/cmd/globals"
	"github.com/fvarrui/dbtools/internal/introspect"
)

// newListCommand creates the tables command, or the views command when
// views is set.
func newListCommand(app application.Application, views bool) *cobra.Command {
	var conn *globals.ConnectionFlags

	use, short := "tables [FILTER]", "List the tables of a database"
	if views {
		use, short = "views [FILTER]", "List the views of a database"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + ". Only names containing FILTER are listed.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			return open(cmd, app, conn, cmd.Name(), func(ctx context.Context, in *introspect.Introspector) error {
				list := in.ListTables
				if views {
					list = in.ListViews
				}
				names, err := list(ctx, filter)
				if err != nil {
					return err
				}
				return cmdutil.Emit(cmd, app, "", names)
			})
		},
	}

	conn = globals.AddConnectionFlags(cmd)
	return cmd
}
