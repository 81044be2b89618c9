package signal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/agenthands/veritas/internal/cache"
	"github.com/agenthands/veritas/internal/core/model"
	"github.com/agenthands/veritas/internal/metrics"
)

// CachedOracle serves repeated (claim, evidence) judgments from a store.
// Cache failures fall through to the wrapped oracle; only successful
// judgments are stored.
type CachedOracle struct {
	Next  JudgmentOracle
	Store cache.Store
	TTL   time.Duration
}

func NewCachedOracle(next JudgmentOracle, store cache.Store, ttl time.Duration) *CachedOracle {
	return &CachedOracle{Next: next, Store: store, TTL: ttl}
}

func (c *CachedOracle) Judge(ctx context.Context, req JudgmentRequest) (model.SignalSet, error) {
	key := CacheKey(req)

	if raw, err := c.Store.Get(ctx, key); err == nil {
		var s model.SignalSet
		if jerr := json.Unmarshal([]byte(raw), &s); jerr == nil {
			metrics.OracleCalls.WithLabelValues("cache_hit").Inc()
			return s, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		slog.Warn("judgment cache read failed", "error", err)
	}

	s, err := c.Next.Judge(ctx, req)
	if err != nil {
		return s, err
	}

	if data, err := json.Marshal(s); err == nil {
		if err := c.Store.Set(ctx, key, string(data), c.TTL); err != nil {
			slog.Warn("judgment cache write failed", "error", err)
		}
	}
	return s, nil
}

// CacheKey identifies a judgment by the inputs the oracle sees.
func CacheKey(req JudgmentRequest) string {
	h := sha256.New()
	for _, part := range []string{
		strings.TrimSpace(req.ClaimText),
		req.Evidence.Text(),
		req.Evidence.Host(),
		req.Evidence.PublishedAt,
		req.Evidence.Retriever,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
