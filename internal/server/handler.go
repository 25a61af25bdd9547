package server

import (
	"context"
	"encoding/binary"
	"log/slog"
	"time"

	"github.com/kestreldns/kestrel/internal/cache"
	"github.com/kestreldns/kestrel/internal/dnswire"
	"github.com/kestreldns/kestrel/internal/resolver"
)

// defaultTTL is used when a resolved response's first answer record cannot
// supply one (e.g. no answers, or a malformed TTL field).
const defaultTTL = 5 * time.Minute

// QueryHandler executes the pipeline described for one inbound datagram:
// check the cache by fingerprint, and on a miss drive a resolution and
// cache its result. One handler instance is shared across datagrams; each
// call to Handle is independent and safe to run concurrently with others.
type QueryHandler struct {
	Logger   *slog.Logger
	Cache    *cache.Cache
	Resolver *resolver.Engine
	Stats    *DNSStats
	Timeout  time.Duration // bounds the whole resolution path, including referrals
}

// Handle processes one raw client query and returns the bytes to send back,
// or nil if the client should receive no reply (a malformed query, an
// upstream timeout, or a referral chain that never terminated - per policy,
// none of these produce a synthesized error response).
func (h *QueryHandler) Handle(ctx context.Context, src string, rawQuery []byte) []byte {
	if h.Stats != nil {
		h.Stats.RecordQuery()
	}
	start := time.Now()
	defer func() {
		if h.Stats != nil {
			h.Stats.RecordLatency(time.Since(start).Nanoseconds())
		}
	}()

	if len(rawQuery) < dnswire.HeaderSize {
		h.drop(ctx, src, "malformed")
		return nil
	}
	clientID := binary.BigEndian.Uint16(rawQuery[0:2])

	fp, err := dnswire.Fingerprint(rawQuery)
	if err != nil {
		h.drop(ctx, src, "malformed")
		return nil
	}
	key := string(fp)

	if body, ok := h.Cache.Get(key); ok {
		if h.Stats != nil {
			h.Stats.RecordCacheHit()
		}
		h.logHandled(ctx, src, "hit", clientID)
		return dnswire.ComposeReply(clientID, body)
	}

	if h.Stats != nil {
		h.Stats.RecordCacheMiss()
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	resolveCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := h.Resolver.Resolve(resolveCtx, rawQuery)
	if err != nil {
		h.drop(ctx, src, "resolve-error", "err", err)
		return nil
	}

	ttl := firstAnswerTTL(resp)
	h.Cache.Put(key, dnswire.StripID(resp), ttl)
	h.logHandled(ctx, src, "resolved", clientID)
	return dnswire.ReplaceID(clientID, resp)
}

// firstAnswerTTL extracts the TTL of the first answer-section record from a
// raw response, falling back to defaultTTL if the response can't be parsed
// or has no answers.
func firstAnswerTTL(rawResponse []byte) time.Duration {
	msg, err := dnswire.ParseMessage(rawResponse)
	if err != nil || len(msg.Answers) == 0 {
		return defaultTTL
	}
	return time.Duration(msg.Answers[0].TTL) * time.Second
}

func (h *QueryHandler) drop(ctx context.Context, src, reason string, extra ...any) {
	if h.Stats != nil {
		h.Stats.RecordDropped()
	}
	if h.Logger == nil || !h.Logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	args := append([]any{"src", src, "reason", reason}, extra...)
	h.Logger.DebugContext(ctx, "dns query dropped", args...)
}

func (h *QueryHandler) logHandled(ctx context.Context, src, source string, id uint16) {
	if h.Logger == nil || !h.Logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	h.Logger.DebugContext(ctx, "dns query handled", "src", src, "source", source, "id", id)
}
