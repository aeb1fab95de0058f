package repository

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryRateLimitStore keeps a token-bucket limiter per key. It backs
// the API rate limit when Redis is unavailable or not configured.
type MemoryRateLimitStore struct {
	limiters sync.Map
	limit    rate.Limit
	burst    int
}

// NewMemoryRateLimitStore allows up to requests calls per window for
// each key.
func NewMemoryRateLimitStore(requests int, window time.Duration) *MemoryRateLimitStore {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryRateLimitStore{
		limit: rate.Every(window / time.Duration(requests)),
		burst: requests,
	}
}

func (r *MemoryRateLimitStore) Allow(ctx context.Context, key string) (bool, error) {
	val, ok := r.limiters.Load(key)
	if !ok {
		val, _ = r.limiters.LoadOrStore(key, rate.NewLimiter(r.limit, r.burst))
	}
	return val.(*rate.Limiter).Allow(), nil
}
