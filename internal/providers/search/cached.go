package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/halte-concierge/internal/cache"
)

const DefaultCacheTTL = 6 * time.Hour

// Cached serves repeated guest questions from a cache. Only found snippets
// are stored, so a miss or a failure is always retried against the engine on
// the next request.
type Cached struct {
	next  Provider
	cache cache.Cache
	ttl   time.Duration
	log   *logrus.Logger
}

func NewCached(next Provider, c cache.Cache, ttl time.Duration, log *logrus.Logger) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logrus.New()
	}
	return &Cached{next: next, cache: c, ttl: ttl, log: log}
}

func (c *Cached) Lookup(ctx context.Context, query string) (string, bool, error) {
	key := cacheKey(query)

	if v, hit, err := c.cache.GetString(ctx, key); err != nil {
		c.log.WithError(err).Warn("search cache read failed")
	} else if hit {
		c.log.WithField("cache", "hit").Debug("search lookup")
		return v, true, nil
	}

	snippet, found, err := c.next.Lookup(ctx, query)
	if err != nil || !found {
		return snippet, found, err
	}

	if err := c.cache.SetString(ctx, key, snippet, c.ttl); err != nil {
		c.log.WithError(err).Warn("search cache write failed")
	}
	return snippet, true, nil
}

// cacheKey folds case and spacing so "Horaires  Cité du vin" and
// "horaires cité du vin" share an entry.
func cacheKey(query string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha256.Sum256([]byte(norm))
	return "search:" + hex.EncodeToString(sum[:])
}

var _ Provider = (*Cached)(nil)
