package auth

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mlukyanov/userd/internal/common"
	"github.com/mlukyanov/userd/internal/server/models"
)

// expiringResolver is the seam CachedResolver decorates; StoreResolver
// implements it.
type expiringResolver interface {
	ResolveWithExpiry(ctx context.Context, tokenString string) (*models.User, time.Time, error)
}

type cacheEntry struct {
	user      *models.User
	expiresAt time.Time
}

// CachedResolver decorates token resolution with a bounded TTL cache keyed
// by the exact token string, so two tokens for the same account occupy two
// slots. Entries live for the cache TTL regardless of account updates: a
// stale resolution can outlive the source of truth for up to that long.
type CachedResolver struct {
	next  expiringResolver
	cache *expirable.LRU[string, cacheEntry]
}

// NewCachedResolver builds a decorator holding at most size entries, each
// for at most ttl.
func NewCachedResolver(next expiringResolver, size int, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		next:  next,
		cache: expirable.NewLRU[string, cacheEntry](size, nil, ttl),
	}
}

func (r *CachedResolver) Resolve(ctx context.Context, tokenString string) (*models.User, error) {
	if entry, ok := r.cache.Get(tokenString); ok {
		// A hit still honors the token's own expiry: a token that expired
		// inside the cache window must not resolve.
		if !time.Now().Before(entry.expiresAt) {
			r.cache.Remove(tokenString)
			return nil, common.ErrTokenExpired
		}
		user := *entry.user
		return &user, nil
	}

	user, expiresAt, err := r.next.ResolveWithExpiry(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	r.cache.Add(tokenString, cacheEntry{user: user, expiresAt: expiresAt})
	return user, nil
}
