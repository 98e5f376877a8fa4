package application

import (
	"github.com/rs/zerolog"

	"github.com/fvarrui/dbtools"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    OutputFormatFunc: func() string { return "json" },
//	}
//	cmd := match.NewCommand(mock)
type Mock struct {
	ClientFunc        func(opts ...dbtools.Option) (dbtools.Client, error)
	ConnectionURLFunc func(explicitURL, name, password string) (string, error)
	LoggerFunc        func() *zerolog.Logger
	OutputFormatFunc  func() string
	VersionFunc       func() string
	CommitFunc        func() string
	DateFunc          func() string
	BuiltByFunc       func() string
}

// Client returns a client using the mock function or a default client.
func (m *Mock) Client(opts ...dbtools.Option) (dbtools.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(opts...)
	}
	opts = append([]dbtools.Option{dbtools.WithLogger(m.Logger())}, opts...)
	return dbtools.New(opts...)
}

// ConnectionURL returns the mock function result or the explicit URL.
func (m *Mock) ConnectionURL(explicitURL, name, password string) (string, error) {
	if m.ConnectionURLFunc != nil {
		return m.ConnectionURLFunc(explicitURL, name, password)
	}
	return explicitURL, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
