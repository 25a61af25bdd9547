package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestreldns/kestrel/internal/cache"
	"github.com/kestreldns/kestrel/internal/dnswire"
	"github.com/kestreldns/kestrel/internal/resolver"
)

// stubExchanger answers every exchange with a fixed, pre-marshaled message,
// regardless of target or question - enough to drive the handler pipeline
// through a resolution without a real network.
type stubExchanger struct {
	response []byte
	err      error
}

func (s *stubExchanger) Exchange(ctx context.Context, addr string, query []byte) ([]byte, error) {
	return s.response, s.err
}

func (s *stubExchanger) Close() error { return nil }

func newStubEngine(resp []byte, err error) *resolver.Engine {
	return &resolver.Engine{
		RootAddr:       "198.41.0.4:53",
		AttemptTimeout: time.Second,
		MaxHops:        4,
		NewExchanger:   func() (resolver.Exchanger, error) { return &stubExchanger{response: resp, err: err}, nil },
	}
}

func buildAnswerMessage(t *testing.T, id uint16, name string, ttl uint32, ip string) []byte {
	t.Helper()
	m := dnswire.Message{
		Header: dnswire.Header{ID: id},
		Questions: []dnswire.Question{
			{Name: name, Type: uint16(dnswire.TypeA), Class: uint16(dnswire.ClassIN)},
		},
		Answers: []dnswire.Record{
			{Name: name, Type: uint16(dnswire.TypeA), Class: uint16(dnswire.ClassIN), TTL: ttl, Data: ip},
		},
	}
	b, err := m.Marshal()
	require.NoError(t, err)
	return b
}

func buildClientQuery(t *testing.T, name string) []byte {
	t.Helper()
	q, err := dnswire.NewQuery(name, uint16(dnswire.TypeA))
	require.NoError(t, err)
	b, err := q.Marshal()
	require.NoError(t, err)
	return b
}

// TestHandleCacheMissThenHit covers the miss-then-resolve-then-cache path
// followed by a second request that should be answered from the cache
// without touching the resolver at all.
func TestHandleCacheMissThenHit(t *testing.T) {
	upstreamResp := buildAnswerMessage(t, 0xBEEF, "example.com.", 3600, "93.184.216.34")
	h := &QueryHandler{
		Cache:    cache.New(10),
		Resolver: newStubEngine(upstreamResp, nil),
		Stats:    NewDNSStats(),
		Timeout:  time.Second,
	}

	clientQuery := buildClientQuery(t, "example.com.")

	resp1 := h.Handle(context.Background(), "127.0.0.1:9999", clientQuery)
	require.NotEmpty(t, resp1)
	msg1, err := dnswire.ParseMessage(resp1)
	require.NoError(t, err)
	assert.Equal(t, "93.184.216.34", msg1.Answers[0].Data)

	snap := h.Stats.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheMisses)
	assert.Equal(t, uint64(0), snap.CacheHits)

	resp2 := h.Handle(context.Background(), "127.0.0.1:9999", clientQuery)
	require.NotEmpty(t, resp2)
	msg2, err := dnswire.ParseMessage(resp2)
	require.NoError(t, err)
	assert.Equal(t, "93.184.216.34", msg2.Answers[0].Data)

	snap = h.Stats.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
}

// TestHandleTransactionIDIndependence confirms the client's own transaction
// ID is always echoed back, even though the upstream exchange used a
// different, freshly randomized one.
func TestHandleTransactionIDIndependence(t *testing.T) {
	upstreamResp := buildAnswerMessage(t, 0xBEEF, "example.com.", 60, "203.0.113.9")
	h := &QueryHandler{
		Cache:    cache.New(10),
		Resolver: newStubEngine(upstreamResp, nil),
		Stats:    NewDNSStats(),
		Timeout:  time.Second,
	}

	clientQuery := buildClientQuery(t, "example.com.")
	wantID := clientQuery[0:2]

	resp := h.Handle(context.Background(), "127.0.0.1:9999", clientQuery)
	require.NotEmpty(t, resp)
	assert.Equal(t, wantID, resp[0:2])
	assert.NotEqual(t, []byte{0xBE, 0xEF}, resp[0:2])
}

// TestHandleUpstreamFailureDropsReply covers the "no reply" policy: any
// resolver failure produces a nil response, never a synthesized error.
func TestHandleUpstreamFailureDropsReply(t *testing.T) {
	h := &QueryHandler{
		Cache:    cache.New(10),
		Resolver: newStubEngine(nil, resolver.ErrUpstreamTimeout),
		Stats:    NewDNSStats(),
		Timeout:  time.Second,
	}

	clientQuery := buildClientQuery(t, "example.com.")
	resp := h.Handle(context.Background(), "127.0.0.1:9999", clientQuery)
	assert.Nil(t, resp)

	snap := h.Stats.Snapshot()
	assert.Equal(t, uint64(1), snap.Dropped)
}

// TestHandleMalformedQueryDropsReply covers a client datagram too short to
// contain a header at all.
func TestHandleMalformedQueryDropsReply(t *testing.T) {
	h := &QueryHandler{
		Cache:    cache.New(10),
		Resolver: newStubEngine(nil, nil),
		Stats:    NewDNSStats(),
		Timeout:  time.Second,
	}

	resp := h.Handle(context.Background(), "127.0.0.1:9999", []byte{0x01, 0x02})
	assert.Nil(t, resp)
}
