package store

import (
	"fmt"
	"strconv"

	"github.com/kestreldns/kestrel/internal/config"
)

// ExportToConfig builds a config.Config from the stored settings. main uses
// it when no YAML config file is named; the YAML path goes through
// config.Load instead, and the two sources are not combined.
func (s *Store) ExportToConfig() (*config.Config, error) {
	cfg := &config.Config{}

	cfg.Server.Host = s.GetWithDefault(KeyServerHost, defaults[KeyServerHost])
	port, err := strconv.Atoi(s.GetWithDefault(KeyServerPort, defaults[KeyServerPort]))
	if err != nil {
		return nil, fmt.Errorf("store: invalid %s: %w", KeyServerPort, err)
	}
	cfg.Server.Port = port

	cfg.Resolver.RootServer = s.GetWithDefault(KeyResolverRootServer, defaults[KeyResolverRootServer])
	cfg.Resolver.AttemptTimeout = s.GetWithDefault(KeyResolverAttemptTimeout, defaults[KeyResolverAttemptTimeout])
	cfg.Resolver.QueryTimeout = s.GetWithDefault(KeyResolverQueryTimeout, defaults[KeyResolverQueryTimeout])
	maxHops, err := strconv.Atoi(s.GetWithDefault(KeyResolverMaxHops, defaults[KeyResolverMaxHops]))
	if err != nil {
		return nil, fmt.Errorf("store: invalid %s: %w", KeyResolverMaxHops, err)
	}
	cfg.Resolver.MaxHops = maxHops

	capacity, err := strconv.Atoi(s.GetWithDefault(KeyCacheCapacity, defaults[KeyCacheCapacity]))
	if err != nil {
		return nil, fmt.Errorf("store: invalid %s: %w", KeyCacheCapacity, err)
	}
	cfg.Cache.Capacity = capacity
	cfg.Cache.SnapshotPath = s.GetWithDefault(KeyCacheSnapshotPath, defaults[KeyCacheSnapshotPath])

	cfg.Logging.Level = s.GetWithDefault(KeyLoggingLevel, defaults[KeyLoggingLevel])
	structured, _ := strconv.ParseBool(s.GetWithDefault(KeyLoggingStructured, defaults[KeyLoggingStructured]))
	cfg.Logging.Structured = structured
	cfg.Logging.StructuredFormat = s.GetWithDefault(KeyLoggingStructuredFormat, defaults[KeyLoggingStructuredFormat])
	cfg.Logging.ExtraFields = map[string]string{}

	apiEnabled, _ := strconv.ParseBool(s.GetWithDefault(KeyAPIEnabled, defaults[KeyAPIEnabled]))
	cfg.API.Enabled = apiEnabled
	cfg.API.Host = s.GetWithDefault(KeyAPIHost, defaults[KeyAPIHost])
	apiPort, err := strconv.Atoi(s.GetWithDefault(KeyAPIPort, defaults[KeyAPIPort]))
	if err != nil {
		return nil, fmt.Errorf("store: invalid %s: %w", KeyAPIPort, err)
	}
	cfg.API.Port = apiPort
	cfg.API.APIKey = s.GetWithDefault(KeyAPIKey, defaults[KeyAPIKey])

	return cfg, nil
}

// ApplyCLIOverrides mutates cfg in place the way the teacher's
// applyCLIOverrides function layered flags over exported config, without
// persisting the override back to the store. A zero value for a field
// means "not set on the command line" and is left untouched.
func ApplyCLIOverrides(cfg *config.Config, host string, port int, rootServer string, maxHops int, cacheCapacity int, cacheSnapshotPath string) {
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if rootServer != "" {
		cfg.Resolver.RootServer = rootServer
	}
	if maxHops != 0 {
		cfg.Resolver.MaxHops = maxHops
	}
	if cacheCapacity != 0 {
		cfg.Cache.Capacity = cacheCapacity
	}
	if cacheSnapshotPath != "" {
		cfg.Cache.SnapshotPath = cacheSnapshotPath
	}
}
