package schema

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fvarrui/dbtools/cmd/application"
	"github.com/fvarrui/dbtools/internal/cmd/cmdutil"
	"github.com/fvarrui/dbtools/internal/cmd/globals"
	"github.com/fvarrui/dbtools/internal/introspect"
)

func newShowCommand(app application.Application) *cobra.Command {
	var conn *globals.ConnectionFlags

	cmd := &cobra.Command{
		Use:     "show TABLE",
		Short:   "Describe the columns and keys of one table or view",
		Example: `  dbtools schema show orders --url sqlite:///shop.db`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return open(cmd, app, conn, "show", func(ctx context.Context, in *introspect.Introspector) error {
				t, err := in.Table(ctx, args[0])
				if err != nil {
					return err
				}
				return cmdutil.Emit(cmd, app, "", &t)
			})
		},
	}

	conn = globals.AddConnectionFlags(cmd)
	return cmd
}
