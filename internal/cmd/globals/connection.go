package globals

import "github.com/spf13/cobra"

// ConnectionFlags select the database a command talks to.
type ConnectionFlags struct {
	URL      string
	Driver   string
	Name     string
	Password string
	Prefix   string
}

// AddConnectionFlags adds database selection flags to a command.
func AddConnectionFlags(cmd *cobra.Command) *ConnectionFlags {
	flags := &ConnectionFlags{}

	cmd.Flags().StringVar(&flags.URL, "url", "",
		"Connection URL, e.g. postgres://user@host/db or sqlite:///path/to.db")
	cmd.Flags().StringVar(&flags.URL, "dsn", "", "")
	_ = cmd.Flags().MarkHidden("dsn")
	cmd.Flags().StringVar(&flags.Driver, "driver", "",
		"Database driver when --url is a bare DSN: sqlite3, postgres")
	cmd.Flags().StringVar(&flags.Name, "db", "",
		"Named connection from the config file (default \"default\")")
	cmd.Flags().StringVarP(&flags.Password, "password", "p", "",
		"Password for the {PASSWORD} placeholder (prompted when omitted)")
	cmd.Flags().StringVar(&flags.Prefix, "prefix", "",
		"Only include tables whose name starts with this prefix")

	return flags
}

// FilterFlags hold include and exclude table patterns.
type FilterFlags struct {
	Include []string
	Exclude []string
}

// AddFilterFlags adds table filtering flags to a command.
func AddFilterFlags(cmd *cobra.Command) *FilterFlags {
	flags := &FilterFlags{}

	cmd.Flags().StringSliceVar(&flags.Include, "include", nil,
		"Table patterns to include (glob or regular expression)")
	cmd.Flags().StringSliceVar(&flags.Exclude, "exclude", nil,
		"Table patterns to exclude")

	return flags
}
