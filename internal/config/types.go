// Package config provides configuration loading for Kestrel using Viper.
// Configuration is loaded from a YAML file with automatic environment
// variable binding.
//
// Environment variables use the KESTREL_ prefix and underscore-separated
// keys:
//   - KESTREL_SERVER_HOST -> server.host
//   - KESTREL_SERVER_PORT -> server.port
//   - KESTREL_RESOLVER_ROOT_SERVER -> resolver.root_server
package config

// ServerConfig contains the DNS frontend's bind settings.
type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// ResolverConfig controls the iterative referral walk.
type ResolverConfig struct {
	RootServer     string `yaml:"root_server"     mapstructure:"root_server"`
	AttemptTimeout string `yaml:"attempt_timeout" mapstructure:"attempt_timeout"` // e.g. "10s"
	MaxHops        int    `yaml:"max_hops"        mapstructure:"max_hops"`
	QueryTimeout   string `yaml:"query_timeout"   mapstructure:"query_timeout"` // bounds one full resolution, referrals included
}

// CacheConfig controls the bounded response cache and its snapshot file.
type CacheConfig struct {
	Capacity     int    `yaml:"capacity"      mapstructure:"capacity"`
	SnapshotPath string `yaml:"snapshot_path" mapstructure:"snapshot_path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level            string            `yaml:"level"             mapstructure:"level"`
	Structured       bool              `yaml:"structured"        mapstructure:"structured"`
	StructuredFormat string            `yaml:"structured_format" mapstructure:"structured_format"`
	IncludePID       bool              `yaml:"include_pid"       mapstructure:"include_pid"`
	ExtraFields      map[string]string `yaml:"extra_fields"      mapstructure:"extra_fields"`
}

// AdminAPIConfig contains the management/stats HTTP API's settings.
//
// Note: APIKey is intentionally treated as a secret and should not be
// returned by API endpoints.
type AdminAPIConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Host    string `yaml:"host"    mapstructure:"host"`
	Port    int    `yaml:"port"    mapstructure:"port"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
}

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"   mapstructure:"server"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Cache    CacheConfig    `yaml:"cache"    mapstructure:"cache"`
	Logging  LoggingConfig  `yaml:"logging"  mapstructure:"logging"`
	API      AdminAPIConfig `yaml:"api"      mapstructure:"api"`
}
