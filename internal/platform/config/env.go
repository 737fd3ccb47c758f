// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every runabout environment variable.
const EnvPrefix = "RUNABOUT_"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Lookup returns the trimmed value of RUNABOUT_<name> and whether it is set.
func Lookup(name string) (string, bool) {
	value, ok := os.LookupEnv(EnvPrefix + strings.TrimPrefix(name, EnvPrefix))
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}
