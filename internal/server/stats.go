package server

import (
	"sync/atomic"
)

// DNSStats collects DNS query statistics.
// All methods are safe for concurrent use.
type DNSStats struct {
	queriesTotal   atomic.Uint64
	cacheHits      atomic.Uint64
	cacheMisses    atomic.Uint64
	cacheEvictions atomic.Uint64
	dropped        atomic.Uint64
	latencyTotalNs atomic.Uint64
}

// NewDNSStats creates a new DNS statistics collector.
func NewDNSStats() *DNSStats {
	return &DNSStats{}
}

// RecordQuery records an inbound query.
func (s *DNSStats) RecordQuery() {
	s.queriesTotal.Add(1)
}

// RecordCacheHit records a query answered from the cache.
func (s *DNSStats) RecordCacheHit() {
	s.cacheHits.Add(1)
}

// RecordCacheMiss records a query that required a resolution.
func (s *DNSStats) RecordCacheMiss() {
	s.cacheMisses.Add(1)
}

// RecordEviction records a cache entry evicted to make room for another.
func (s *DNSStats) RecordEviction() {
	s.cacheEvictions.Add(1)
}

// RecordDropped records a query for which the client received no reply
// (codec failure, upstream timeout, or referral loop).
func (s *DNSStats) RecordDropped() {
	s.dropped.Add(1)
}

// RecordLatency records query latency in nanoseconds.
func (s *DNSStats) RecordLatency(ns int64) {
	if ns > 0 {
		s.latencyTotalNs.Add(uint64(ns))
	}
}

// DNSStatsSnapshot is a point-in-time snapshot of DNS server statistics.
type DNSStatsSnapshot struct {
	QueriesTotal   uint64
	CacheHits      uint64
	CacheMisses    uint64
	CacheEvictions uint64
	Dropped        uint64
	AvgLatencyMs   float64
}

// Snapshot returns the current statistics.
func (s *DNSStats) Snapshot() DNSStatsSnapshot {
	total := s.queriesTotal.Load()
	latencyNs := s.latencyTotalNs.Load()

	avgLatencyMs := 0.0
	if total > 0 {
		avgLatencyMs = float64(latencyNs) / float64(total) / 1e6
	}

	return DNSStatsSnapshot{
		QueriesTotal:   total,
		CacheHits:      s.cacheHits.Load(),
		CacheMisses:    s.cacheMisses.Load(),
		CacheEvictions: s.cacheEvictions.Load(),
		Dropped:        s.dropped.Load(),
		AvgLatencyMs:   avgLatencyMs,
	}
}
