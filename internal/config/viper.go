// Package config resolves database connections from the dbtools
// configuration file and the environment.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	// Check OS env directly first
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	// If Viper doesn't have it but OS does, return OS value
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// Connections reads the connections section of v. A nil v reads the
// global Viper instance.
func Connections(v *viper.Viper) (map[string]Connection, error) {
	if v == nil {
		v = viper.GetViper()
	}
	raw := make(map[string]Connection)
	if err := v.UnmarshalKey("connections", &raw); err != nil {
		return nil, err
	}
	for name, c := range raw {
		c.Name = name
		raw[name] = c
	}
	return raw, nil
}
