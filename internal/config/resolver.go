package config

import (
	"os"
	"sort"
	"strings"

	"github.com/fvarrui/dbtools/pkg/constants"
	"github.com/fvarrui/dbtools/pkg/errors"
)

// DefaultConnection is used when no connection name is given.
const DefaultConnection = "default"

// PromptFunc asks the user for a secret.
type PromptFunc func(label string) (string, error)

// Resolver turns command line input into a usable connection URL.
type Resolver struct {
	// Connections are the named connections from the config file.
	Connections map[string]Connection
	// Password replaces {PASSWORD} without prompting when set.
	Password string
	// Prompt is asked for {PASSWORD} when Password is empty.
	Prompt PromptFunc
	// Getenv looks up environment variables. Defaults to os.Getenv.
	Getenv func(string) string
}

// Resolve returns a connection URL. An explicit URL wins, then the
// DBTOOLS_CONNECTION_URL variable, then the named connection (or the
// "default" one). Placeholders are filled from Password or the prompt for
// {PASSWORD} and from DBTOOLS_<NAME> or <NAME> variables for the rest.
func (r *Resolver) Resolve(explicitURL, name string) (string, error) {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	raw := explicitURL
	if raw == "" && name == "" {
		raw = getenv(constants.ConnectionURLEnv)
	}
	if raw == "" {
		if name == "" {
			name = DefaultConnection
		}
		c, ok := r.Connections[name]
		if !ok {
			return "", errors.NewNotFoundError("connection", name+" (known: "+strings.Join(r.names(), ", ")+")")
		}
		var err error
		if raw, err = c.ConnectionURL(); err != nil {
			return "", err
		}
	}

	for _, p := range Placeholders(raw) {
		var value string
		switch {
		case p == PasswordPlaceholder && r.Password != "":
			value = r.Password
		case p == PasswordPlaceholder && r.Prompt != nil:
			v, err := r.Prompt("Password: ")
			if err != nil {
				return "", errors.NewConfigError("password", "cannot read password", err)
			}
			value = v
		default:
			value = getenv(constants.EnvPrefix + "_" + strings.ToUpper(p))
			if value == "" {
				value = getenv(strings.ToUpper(p))
			}
			if value == "" {
				return "", errors.NewConfigError("connections", "no value for placeholder {"+p+"}", nil)
			}
		}
		raw = ReplacePlaceholder(raw, p, value)
	}
	return raw, nil
}

func (r *Resolver) names() []string {
	names := make([]string, 0, len(r.Connections))
	for n := range r.Connections {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
