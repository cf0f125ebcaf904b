package secret

import (
	"context"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/platform/cache"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

// CachedProvider memoizes resolved secrets for ttl. Resolution failures are
// not cached, so the next run asks again.
type CachedProvider struct {
	next  usecase.SecretProvider
	store *cache.Store[string]
}

// NewCachedProvider returns next unchanged when ttl is not positive.
func NewCachedProvider(next usecase.SecretProvider, ttl time.Duration) usecase.SecretProvider {
	if ttl <= 0 {
		return next
	}
	return &CachedProvider{
		next:  next,
		store: cache.NewStore[string](ttl),
	}
}

func (p *CachedProvider) Resolve(ctx context.Context, ref string) (string, error) {
	return p.store.GetOrLoad(ctx, "secret:"+ref, func(ctx context.Context) (string, error) {
		return p.next.Resolve(ctx, ref)
	})
}
