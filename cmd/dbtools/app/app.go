// Package app provides the application context and dependency management
// for the dbtools CLI. It centralizes configuration, logging and the
// construction of clients handed to commands.
package app

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/fvarrui/dbtools"
	"github.com/fvarrui/dbtools/cmd/application"
	"github.com/fvarrui/dbtools/internal/config"
	"github.com/fvarrui/dbtools/pkg/errors"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// App represents the dbtools application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// I/O, replaceable for tests
	stdout io.Writer
	stderr io.Writer
	prompt config.PromptFunc
	getenv func(string) string
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		getenv:  os.Getenv,
	}
	app.prompt = config.TerminalPrompt(os.Stdin, os.Stderr)

	cfg, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = cfg

	logger := NewLogger(cfg, app.stderr)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the output format requested with -o or the config.
func (a *App) OutputFormat() string { return a.config.Format }

// Client builds a dbtools client from the configured thresholds and
// workers. Options passed by the command are applied last.
func (a *App) Client(opts ...dbtools.Option) (dbtools.Client, error) {
	base := []dbtools.Option{
		dbtools.WithTableThreshold(a.config.TableThreshold),
		dbtools.WithColumnThreshold(a.config.ColumnThreshold),
		dbtools.WithLogger(a.logger),
	}
	if a.config.Workers > 0 {
		base = append(base, dbtools.WithWorkers(a.config.Workers))
	}

	c, err := dbtools.New(append(base, opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	return c, nil
}

// ConnectionURL resolves a connection from the flags, the named
// connections of the config file and the environment.
func (a *App) ConnectionURL(explicitURL, name, password string) (string, error) {
	r := &config.Resolver{
		Connections: a.config.Connections,
		Password:    password,
		Prompt:      a.prompt,
		Getenv:      a.getenv,
	}
	return r.Resolve(explicitURL, name)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithOutput redirects command output and warnings.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) error {
		a.stdout = stdout
		a.stderr = stderr
		return nil
	}
}

// WithPrompt replaces the terminal password prompt.
func WithPrompt(prompt config.PromptFunc) Option {
	return func(a *App) error {
		a.prompt = prompt
		return nil
	}
}

// WithGetenv replaces the environment lookup used for placeholders.
func WithGetenv(getenv func(string) string) Option {
	return func(a *App) error {
		a.getenv = getenv
		return nil
	}
}
