// Package application provides the application interface for dbtools commands.
//
// Commands accept an Application rather than the concrete App from
// cmd/dbtools/app, so they can be tested with Mock.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := app.Client()
//	            if err != nil {
//	                return err
//	            }
//	            report, err := client.Map(cmd.Context(), args[0], args[1])
//	            // ... print report
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/fvarrui/dbtools"
)

// Application provides what commands need from the running program.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns a dbtools client built from the configuration. Extra
	// options are applied after the configured ones and win over them.
	Client(opts ...dbtools.Option) (dbtools.Client, error)

	// ConnectionURL resolves the database a command should use: an
	// explicit URL, a named connection from the config file or the
	// DBTOOLS_CONNECTION_URL environment variable. Placeholders are
	// substituted and a missing password is prompted for.
	ConnectionURL(explicitURL, name, password string) (string, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, markdown).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
