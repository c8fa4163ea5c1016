package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter gates how often a caller may hit a sensitive endpoint.
type RateLimiter interface {
	Allow(key string) bool
}

type bucket struct {
	limiter *rate.Limiter
	touched time.Time
}

// keyedLimiter keeps one token bucket per key (the key is usually a client
// IP plus an endpoint scope). Stale buckets are swept on each call rather
// than by a background goroutine.
type keyedLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	clock   func() time.Time
}

// NewIPRateLimiter allows `requests` events per `window` per key, plus the
// given burst. Buckets idle longer than ttl are dropped.
func NewIPRateLimiter(requests int, window time.Duration, burst int, ttl time.Duration) RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Second
	}
	if burst <= 0 {
		burst = 1
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &keyedLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   burst,
		ttl:     ttl,
		clock:   time.Now,
	}
}

func (k *keyedLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}
	now := k.clock()

	k.mu.Lock()
	b, ok := k.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.buckets[key] = b
	}
	b.touched = now
	for id, stale := range k.buckets {
		if now.Sub(stale.touched) > k.ttl {
			delete(k.buckets, id)
		}
	}
	k.mu.Unlock()

	return b.limiter.Allow()
}
