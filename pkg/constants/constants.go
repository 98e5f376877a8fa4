// Package constants provides shared constants used throughout the dbtools codebase.
// This includes matching defaults, timeouts, limits and file permissions that
// should be consistent across the application.
package constants

import "time"

// Matching defaults
const (
	// DefaultThreshold is the similarity ratio a candidate pair must exceed
	// to be considered a match, at both table and column level.
	DefaultThreshold = 0.7

	// RatioPrecision is the number of decimals kept when serializing ratios.
	RatioPrecision = 2
)

// Timeout constants define various timeout durations used in the application
const (
	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// ConnectTimeout bounds opening and pinging a database
	ConnectTimeout = 15 * time.Second

	// IntrospectTimeout bounds a full schema introspection run
	IntrospectTimeout = 5 * time.Minute

	// ShutdownTimeout is the grace period given to cleanup on exit
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for files that may embed credentials (rw-------)
	SecureFilePermissions = 0600
)

// Limit constants define various limits and capacities
const (
	// MaxConcurrentTables is the number of tables introspected in parallel
	MaxConcurrentTables = 8

	// MaxOpenConnections caps the database/sql pool used by introspection
	MaxOpenConnections = 8

	// MaxCommentWidth is the width comments are shortened to in table output
	MaxCommentWidth = 100
)

// Path constants
const (
	// ConfigName is the base name of the configuration file (without extension)
	ConfigName = ".dbtools"

	// EnvPrefix is the prefix of environment variables read by viper
	EnvPrefix = "DBTOOLS"

	// ConnectionURLEnv is the environment variable holding a fallback connection URL
	ConnectionURLEnv = "DBTOOLS_CONNECTION_URL"
)
