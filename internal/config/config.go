// Package config loading and validation.
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Command-line flag overrides (not handled here, see cmd/kestreld/main.go)
//  2. Environment variables (KESTREL_* prefix)
//  3. YAML config file (if specified with --config)
//  4. Hardcoded defaults
//
// All configuration is validated during Load() to ensure correctness early.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ResolveConfigPath determines the config file path from flag or environment.
func ResolveConfigPath(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if v := strings.TrimSpace(os.Getenv("KESTREL_CONFIG")); v != "" {
		return v
	}
	return ""
}

// Load loads configuration from a YAML file with environment variable
// overrides. This is the main entry point for loading configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("KESTREL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.New("config: failed to read config file: " + err.Error())
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
		},
		Resolver: ResolverConfig{
			RootServer:     v.GetString("resolver.root_server"),
			AttemptTimeout: v.GetString("resolver.attempt_timeout"),
			MaxHops:        v.GetInt("resolver.max_hops"),
			QueryTimeout:   v.GetString("resolver.query_timeout"),
		},
		Cache: CacheConfig{
			Capacity:     v.GetInt("cache.capacity"),
			SnapshotPath: v.GetString("cache.snapshot_path"),
		},
		Logging: LoggingConfig{
			Level:            strings.ToUpper(v.GetString("logging.level")),
			Structured:       v.GetBool("logging.structured"),
			StructuredFormat: v.GetString("logging.structured_format"),
			IncludePID:       v.GetBool("logging.include_pid"),
			ExtraFields:      v.GetStringMapString("logging.extra_fields"),
		},
		API: AdminAPIConfig{
			Enabled: v.GetBool("api.enabled"),
			Host:    v.GetString("api.host"),
			Port:    v.GetInt("api.port"),
			APIKey:  v.GetString("api.api_key"),
		},
	}

	if err := normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 53)

	v.SetDefault("resolver.root_server", "198.41.0.4:53") // a.root-servers.net
	v.SetDefault("resolver.attempt_timeout", "10s")
	v.SetDefault("resolver.max_hops", 16)
	v.SetDefault("resolver.query_timeout", "8s")

	v.SetDefault("cache.capacity", 10000)
	v.SetDefault("cache.snapshot_path", "cash.json")

	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.structured", false)
	v.SetDefault("logging.structured_format", "json")
	v.SetDefault("logging.include_pid", false)
	v.SetDefault("logging.extra_fields", map[string]string{})

	v.SetDefault("api.enabled", true)
	v.SetDefault("api.host", "127.0.0.1")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.api_key", "")
}

func normalize(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New("server.port must be 1..65535")
	}
	if cfg.Resolver.RootServer == "" {
		return errors.New("resolver.root_server must be set")
	}
	if cfg.Resolver.MaxHops <= 0 {
		cfg.Resolver.MaxHops = 16
	}
	if cfg.Cache.Capacity < 0 {
		cfg.Cache.Capacity = 0
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}
	if cfg.API.Host == "" {
		cfg.API.Host = "127.0.0.1"
	}
	if cfg.API.Enabled && (cfg.API.Port <= 0 || cfg.API.Port > 65535) {
		return errors.New("api.port must be 1..65535")
	}
	return nil
}
