// Package config loads gqlint configuration from defaults, an optional
// YAML file, GQLINT_ environment variables, and command-line flags, in
// rising precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/softmesh/graphql/parser"
)

// ServerConfig holds the diagnostics server settings.
type ServerConfig struct {
	Addr         string `koanf:"addr"`
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	ServiceName  string `koanf:"service_name"`
}

// Config holds all gqlint configuration options.
type Config struct {
	LogLevel string       `koanf:"log_level"`
	MaxDepth int          `koanf:"max_depth"`
	Server   ServerConfig `koanf:"server"`
}

// Default configuration values.
const (
	DefaultLogLevel    = "info"
	DefaultAddr        = ":8080"
	DefaultServiceName = "gqlint"
)

// Package-level koanf instance and config file tracking.
var (
	k              = koanf.New(".")
	configFileUsed string
	current        *Config
)

// flagKeys bridges flag names to config keys where the two differ.
var flagKeys = map[string]string{
	"log-level":     "log_level",
	"max-depth":     "max_depth",
	"addr":          "server.addr",
	"otlp-endpoint": "server.otlp_endpoint",
	"service-name":  "server.service_name",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > gqlint.yaml > gqlint.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat("gqlint.yaml"); err == nil {
		return "gqlint.yaml"
	}
	if _, err := os.Stat("gqlint.yml"); err == nil {
		return "gqlint.yml"
	}
	return ""
}

// Reset resets the koanf instance. Used for testing.
func Reset() {
	k = koanf.New(".")
	configFileUsed = ""
	current = nil
}

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// The result is stored for later Get calls.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"log_level":            DefaultLogLevel,
		"max_depth":            parser.DefaultMaxDepth,
		"server.addr":          DefaultAddr,
		"server.otlp_endpoint": "",
		"server.service_name":  DefaultServiceName,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load config file if one is present
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (GQLINT_ prefix)
	// Transform: GQLINT_LOG_LEVEL -> log_level, GQLINT_SERVER__ADDR -> server.addr
	if err := k.Load(env.Provider("GQLINT_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "GQLINT_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	current = &cfg
	return &cfg, nil
}

// Get returns the configuration from the last Load, or nil before any Load.
func Get() *Config {
	return current
}

// FileUsed returns the path to the config file being used, if any.
func FileUsed() string {
	return configFileUsed
}
