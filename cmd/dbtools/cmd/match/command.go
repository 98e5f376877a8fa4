// Package match implements the match command, which maps the tables and
// columns of one schema onto another.
package match

import (
	"github.com/spf13/cobra"

	"github.com/fvarrui/dbtools"
	"github.com/fvarrui/dbtools/cmd/application"
	"github.com/fvarrui/dbtools/internal/cmd/cmdutil"
	"github.com/fvarrui/dbtools/internal/cmd/globals"
	"github.com/fvarrui/dbtools/pkg/logging"
)

// NewCommand creates the match command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	var filters *globals.FilterFlags

	cmd := &cobra.Command{
		Use:     "match SOURCE DESTINATION",
		GroupID: "core",
		Short:   "Map the tables and columns of one schema onto another",
		Long: `Match pairs every table of SOURCE with at most one table of DESTINATION,
and every column of a matched table with at most one column of its partner.

Pairs are scored by textual similarity of names and types and committed
best first. Only pairs scoring strictly above the threshold are kept, and
everything left over is reported as unmatched.

SOURCE and DESTINATION are schema files (JSON or YAML), connection URLs
(sqlite:///path.db, postgres://user@host/db) or named connections from the
config file written as @name.`,
		Example: `  dbtools match legacy.yaml current.yaml
  dbtools match legacy.yaml postgres://app@db.local/crm --threshold 0.6
  dbtools match @legacy @default --exclude 'tmp_*' -o markdown --out mapping.md
  dbtools match a.json b.json --table-threshold 1 --column-threshold 0.5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args[0], args[1], filters)
		},
	}

	filters = globals.AddFilterFlags(cmd)
	cmd.Flags().Float64("threshold", 0, "Minimum similarity for tables and columns, in [0, 1] (default from config, 0.7)")
	cmd.Flags().Float64("table-threshold", 0, "Minimum similarity for table pairs")
	cmd.Flags().Float64("column-threshold", 0, "Minimum similarity for column pairs")
	cmd.Flags().String("prefix", "", "Only include tables whose name starts with this prefix")
	cmd.Flags().StringP("password", "p", "", "Password for {PASSWORD} in named connections")
	cmd.Flags().String("out", "", "Write the report to this file instead of stdout")
	cmd.Flags().Bool("no-cache", false, "Disable the similarity cache")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, srcArg, dstArg string, filters *globals.FilterFlags) error {
	ctx := logging.WithOperation(logging.WithLogger(cmd.Context(), app.Logger()), "match")
	password := cmdutil.MustGetString(cmd, "password")

	src, err := cmdutil.ResolveRef(app, srcArg, password)
	if err != nil {
		return err
	}
	dst, err := cmdutil.ResolveRef(app, dstArg, password)
	if err != nil {
		return err
	}

	client, err := app.Client(options(cmd, filters)...)
	if err != nil {
		return err
	}

	report, err := client.Map(ctx, src, dst)
	if err != nil {
		return err
	}

	sum := report.Summarize()
	logging.FromContext(ctx).Info().
		Int("matched_tables", sum.MatchedTables).
		Int("source_tables", sum.SourceTables).
		Int("destination_tables", sum.DestinationTables).
		Int("matched_columns", sum.MatchedColumns).
		Float64("coverage", sum.Coverage).
		Msg("Schemas matched")

	return cmdutil.Emit(cmd, app, cmdutil.MustGetString(cmd, "out"), report)
}

// options turns the flags that were set into client options. Flags left
// alone keep the configured values.
func options(cmd *cobra.Command, filters *globals.FilterFlags) []dbtools.Option {
	var opts []dbtools.Option
	if cmd.Flags().Changed("threshold") {
		opts = append(opts, dbtools.WithThreshold(cmdutil.MustGetFloat64(cmd, "threshold")))
	}
	if cmd.Flags().Changed("table-threshold") {
		opts = append(opts, dbtools.WithTableThreshold(cmdutil.MustGetFloat64(cmd, "table-threshold")))
	}
	if cmd.Flags().Changed("column-threshold") {
		opts = append(opts, dbtools.WithColumnThreshold(cmdutil.MustGetFloat64(cmd, "column-threshold")))
	}
	if prefix := cmdutil.MustGetString(cmd, "prefix"); prefix != "" {
		opts = append(opts, dbtools.WithPrefix(prefix))
	}
	if len(filters.Include) > 0 {
		opts = append(opts, dbtools.WithInclude(filters.Include...))
	}
	if len(filters.Exclude) > 0 {
		opts = append(opts, dbtools.WithExclude(filters.Exclude...))
	}
	if cmdutil.MustGetBool(cmd, "no-cache") {
		opts = append(opts, dbtools.WithCache(false))
	}
	return opts
}
