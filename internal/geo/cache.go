package geo

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/vinhngx/backend-foodee/internal/common"
)

// CachedProvider caches successful quotes in Redis keyed by normalized address.
type CachedProvider struct {
	Next Provider
	R    *redis.Client
	TTL  time.Duration
}

func quoteKey(address string) string {
	return "geo:quote:" + common.Sha256Hex(Normalize(address))
}

// QuoteDistance serves the quote from cache when possible, falling through to
// the underlying provider otherwise. Cache failures are ignored: the quote is
// recomputable and caching is best-effort.
func (p CachedProvider) QuoteDistance(ctx context.Context, address string) (Quote, error) {
	if p.R != nil {
		if raw, err := p.R.Get(ctx, quoteKey(address)).Bytes(); err == nil {
			var q Quote
			if err := json.Unmarshal(raw, &q); err == nil {
				return q, nil
			}
		}
	}
	q, err := p.Next.QuoteDistance(ctx, address)
	if err != nil {
		return Quote{}, err
	}
	if p.R != nil {
		if raw, err := json.Marshal(q); err == nil {
			_ = p.R.Set(ctx, quoteKey(address), raw, p.TTL).Err()
		}
	}
	return q, nil
}
