package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/fvarrui/dbtools/internal/config"
	"github.com/fvarrui/dbtools/pkg/constants"
	"github.com/fvarrui/dbtools/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Mapping
	TableThreshold  float64
	ColumnThreshold float64
	Workers         int

	// Named connections
	Connections map[string]config.Connection

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. DBTOOLS_* environment variables
//  3. .env and .env.local files
//  4. Config file (--config, or .dbtools.yaml in $HOME or the working directory)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.GetViper()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("threshold", constants.DefaultThreshold)
	v.SetDefault("workers", constants.MaxConcurrentTables)

	if configFile == "" {
		configFile = config.GetString(constants.EnvPrefix + "_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.ConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit file must exist, the search paths are optional
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("file", "cannot read "+configFile, err)
		}
	}

	connections, err := config.Connections(v)
	if err != nil {
		return nil, errors.NewConfigError("connections", err.Error(), err)
	}

	threshold := v.GetFloat64("threshold")
	cfg := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		TableThreshold:  threshold,
		ColumnThreshold: threshold,
		Workers:         v.GetInt("workers"),

		Connections: connections,

		LogLevel:  v.GetString("log_level"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", v.GetString("log_format")),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", v.GetString("log_output")),
	}
	if v.IsSet("table_threshold") {
		cfg.TableThreshold = v.GetFloat64("table_threshold")
	}
	if v.IsSet("column_threshold") {
		cfg.ColumnThreshold = v.GetFloat64("column_threshold")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "auto"
	}
	if cfg.LogOutput == "" {
		cfg.LogOutput = "stderr"
	}

	return cfg, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over the config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// godotenv never overrides variables that are already set, so .env wins
// over .env.local for keys present in both.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
