package app

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/fvarrui/dbtools/pkg/logging"
)

// NewLogger creates a configured logger based on the application configuration.
// Log level precedence (highest to lowest):
//  1. --log-level flag or DBTOOLS_LOG_LEVEL
//  2. -v/--verbose flag (shortcut for debug)
//  3. -q/--quiet flag (shortcut for warn)
//  4. Default (info)
//
// Warnings about the flags themselves go to warn.
func NewLogger(config *Config, warn io.Writer) zerolog.Logger {
	level := determineLogLevel(config, warn)

	logConfig := &logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor,
		AddCaller: level == "debug" || level == "trace",
	}

	logger := logging.NewLoggerFromConfig(logConfig)
	logging.SetDefault(logger)
	return logger
}

// determineLogLevel determines the log level using clear precedence rules.
func determineLogLevel(config *Config, warn io.Writer) string {
	if config.LogLevel != "" {
		validated := validateLogLevel(config.LogLevel)
		if validated != config.LogLevel {
			_, _ = fmt.Fprintf(warn, "Warning: invalid log level %q, using %q\n", config.LogLevel, validated)
		}
		return validated
	}

	if config.Verbose && config.Quiet {
		_, _ = fmt.Fprintf(warn, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}
	if config.Verbose {
		return "debug"
	}
	if config.Quiet {
		return "warn"
	}
	return "info"
}

// validateLogLevel returns level when it is known and "info" otherwise.
func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	default:
		return "info"
	}
}
