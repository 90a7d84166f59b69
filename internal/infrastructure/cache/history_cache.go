package cache

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mythribanda/ClaimWatch/internal/domain/model"
	"github.com/mythribanda/ClaimWatch/internal/domain/port"
)

const historyKey = "claims:history"

// Compile-time interface check.
var _ port.ClaimRepository = (*HistoryCache)(nil)

// HistoryCache keeps the last full history read in memory for ttl. Any
// Insert through it drops the cached copy.
type HistoryCache struct {
	next  port.ClaimRepository
	cache *gocache.Cache
	// A read only fills the cache when no Insert overlapped it.
	inflight atomic.Int64
	gen      atomic.Uint64
}

// NewHistoryCache wraps next with a read cache.
func NewHistoryCache(next port.ClaimRepository, ttl time.Duration) *HistoryCache {
	return &HistoryCache{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Insert appends through to the wrapped store and invalidates the history.
func (c *HistoryCache) Insert(ctx context.Context, claim *model.PersistedClaim) error {
	c.inflight.Add(1)
	err := c.next.Insert(ctx, claim)
	c.gen.Add(1)
	c.cache.Delete(historyKey)
	c.inflight.Add(-1)
	return err
}

// FindAllByRecency serves the cached history when present.
func (c *HistoryCache) FindAllByRecency(ctx context.Context) ([]*model.PersistedClaim, error) {
	if v, found := c.cache.Get(historyKey); found {
		return clone(v.([]*model.PersistedClaim)), nil
	}

	quiet := c.inflight.Load() == 0
	start := c.gen.Load()
	claims, err := c.next.FindAllByRecency(ctx)
	if err != nil {
		return nil, err
	}
	if quiet && c.inflight.Load() == 0 && c.gen.Load() == start {
		c.cache.SetDefault(historyKey, clone(claims))
	}
	return claims, nil
}

func clone(in []*model.PersistedClaim) []*model.PersistedClaim {
	out := make([]*model.PersistedClaim, len(in))
	copy(out, in)
	return out
}
