package store

// Setting keys persisted in the settings table.
const (
	KeyServerHost = "server.host"
	KeyServerPort = "server.port"

	KeyResolverRootServer     = "resolver.root_server"
	KeyResolverAttemptTimeout = "resolver.attempt_timeout"
	KeyResolverMaxHops        = "resolver.max_hops"
	KeyResolverQueryTimeout   = "resolver.query_timeout"

	KeyCacheCapacity     = "cache.capacity"
	KeyCacheSnapshotPath = "cache.snapshot_path"

	KeyLoggingLevel            = "logging.level"
	KeyLoggingStructured       = "logging.structured"
	KeyLoggingStructuredFormat = "logging.structured_format"

	KeyAPIEnabled = "api.enabled"
	KeyAPIHost    = "api.host"
	KeyAPIPort    = "api.port"
	KeyAPIKey     = "api.api_key"
)

// defaults holds the values InitDefaults writes on first run. Mirrors the
// defaults in config.setDefaults so a fresh database and a fresh YAML/env
// load agree until someone edits one of them.
var defaults = map[string]string{
	KeyServerHost: "0.0.0.0",
	KeyServerPort: "53",

	KeyResolverRootServer:     "198.41.0.4:53",
	KeyResolverAttemptTimeout: "10s",
	KeyResolverMaxHops:        "16",
	KeyResolverQueryTimeout:   "8s",

	KeyCacheCapacity:     "10000",
	KeyCacheSnapshotPath: "cash.json",

	KeyLoggingLevel:            "INFO",
	KeyLoggingStructured:       "false",
	KeyLoggingStructuredFormat: "json",

	KeyAPIEnabled: "true",
	KeyAPIHost:    "127.0.0.1",
	KeyAPIPort:    "8080",
	KeyAPIKey:     "",
}
