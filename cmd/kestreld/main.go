// Command kestreld runs the Kestrel recursive caching resolver: a UDP DNS
// frontend, a bounded response cache, and a read-only admin API, all driven
// by one shared configuration loaded from either a SQLite settings store or
// a YAML file, with CLI flag overrides layered on top.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kestreldns/kestrel/internal/adminapi"
	"github.com/kestreldns/kestrel/internal/cache"
	"github.com/kestreldns/kestrel/internal/config"
	"github.com/kestreldns/kestrel/internal/logging"
	"github.com/kestreldns/kestrel/internal/resolver"
	"github.com/kestreldns/kestrel/internal/server"
	"github.com/kestreldns/kestrel/internal/store"
)

const defaultDatabasePath = "kestrel.db"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	configPath        string
	dbPath            string
	host              string
	port              int
	rootServer        string
	maxHops           int
	cacheCapacity     int
	cacheSnapshotPath string
	jsonLogs          bool
	debug             bool
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.configPath, "config", "", "Path to YAML config file (bypasses the SQLite settings store if set)")
	flag.StringVar(&f.dbPath, "db", defaultDatabasePath, "Path to SQLite settings store")
	flag.StringVar(&f.host, "host", "", "Override DNS server bind host")
	flag.IntVar(&f.port, "port", 0, "Override DNS server bind port")
	flag.StringVar(&f.rootServer, "root-server", "", "Override root DNS server address")
	flag.IntVar(&f.maxHops, "max-hops", 0, "Override the max referral hop budget")
	flag.IntVar(&f.cacheCapacity, "cache-capacity", 0, "Override the cache entry capacity")
	flag.StringVar(&f.cacheSnapshotPath, "cache-snapshot", "", "Override the cache snapshot file path")
	flag.BoolVar(&f.jsonLogs, "json-logs", false, "Enable JSON structured logging")
	flag.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	flag.Parse()
	return f
}

func run() error {
	flags := parseFlags()

	cfg, closeStore, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	defer closeStore()

	store.ApplyCLIOverrides(cfg, flags.host, flags.port, flags.rootServer, flags.maxHops, flags.cacheCapacity, flags.cacheSnapshotPath)
	if flags.jsonLogs {
		cfg.Logging.Structured = true
		cfg.Logging.StructuredFormat = "json"
	}
	if flags.debug {
		cfg.Logging.Level = "DEBUG"
	}

	logger := logging.Configure(logging.Config{
		Level:            cfg.Logging.Level,
		Structured:       cfg.Logging.Structured,
		StructuredFormat: cfg.Logging.StructuredFormat,
		IncludePID:       cfg.Logging.IncludePID,
		ExtraFields:      cfg.Logging.ExtraFields,
	})
	logger.Info("kestrel starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"root_server", cfg.Resolver.RootServer,
		"max_hops", cfg.Resolver.MaxHops,
		"cache_capacity", cfg.Cache.Capacity,
	)

	attemptTimeout, err := time.ParseDuration(cfg.Resolver.AttemptTimeout)
	if err != nil {
		return fmt.Errorf("invalid resolver.attempt_timeout: %w", err)
	}
	queryTimeout, err := time.ParseDuration(cfg.Resolver.QueryTimeout)
	if err != nil {
		return fmt.Errorf("invalid resolver.query_timeout: %w", err)
	}

	stats := server.NewDNSStats()
	c := cache.New(cfg.Cache.Capacity)
	c.OnEvict = stats.RecordEviction
	if err := c.Load(cfg.Cache.SnapshotPath); err != nil {
		logger.Warn("cache snapshot load failed, starting empty", "err", err)
	}

	engine := resolver.NewEngine(cfg.Resolver.RootServer, attemptTimeout, cfg.Resolver.MaxHops)

	handler := &server.QueryHandler{
		Logger:   logger,
		Cache:    c,
		Resolver: engine,
		Stats:    stats,
		Timeout:  queryTimeout,
	}
	udpSrv := &server.UDPServer{Logger: logger, Handler: handler}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var apiSrv *adminapi.Server
	if cfg.API.Enabled {
		apiSrv = adminapi.New(cfg, logger, stats, c)
		logger.Info("admin api starting", "addr", apiSrv.Addr())
		go func() {
			if serveErr := apiSrv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				logger.Error("admin api error", "err", serveErr)
				cancel()
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	serveErr := udpSrv.Run(ctx, addr)

	if apiSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = apiSrv.Shutdown(shutdownCtx)
		shutdownCancel()
		logger.Info("admin api stopped")
	}

	if saveErr := c.Save(cfg.Cache.SnapshotPath); saveErr != nil {
		logger.Error("cache snapshot save failed", "err", saveErr)
	}

	if serveErr != nil {
		return fmt.Errorf("dns server exited with error: %w", serveErr)
	}
	return nil
}

// loadConfig resolves the settings source: a YAML file if --config (or
// KESTREL_CONFIG) names one, otherwise the SQLite settings store at --db.
// The returned close func must be called once, after the server stops, to
// release the store's database handle; it is a no-op for the YAML path.
func loadConfig(flags cliFlags) (*config.Config, func(), error) {
	if path := config.ResolveConfigPath(flags.configPath); path != "" {
		cfg, err := config.Load(path)
		return cfg, func() {}, err
	}

	st, err := store.Open(flags.dbPath)
	if err != nil {
		return nil, func() {}, err
	}
	cfg, err := st.ExportToConfig()
	if err != nil {
		st.Close()
		return nil, func() {}, err
	}
	return cfg, func() { st.Close() }, nil
}
