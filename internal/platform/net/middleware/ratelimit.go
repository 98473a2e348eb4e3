package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	perr "grantdir/internal/platform/errors"
	"grantdir/internal/platform/logger"
	phttp "grantdir/internal/platform/net/http"

	"golang.org/x/time/rate"
)

// RateLimitOptions configures the per client token bucket
type RateLimitOptions struct {
	// RPS is the steady refill rate; <= 0 disables limiting
	RPS float64
	// Burst is the bucket size, defaults to max(1, 2*RPS)
	Burst int
	// IdleTTL drops buckets for clients unseen this long, defaults to 10m
	IdleTTL time.Duration
	// Key picks the bucket for a request, defaults to the client address
	Key func(*http.Request) string
	// Now is the clock, defaults to time.Now
	Now func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// limiter holds one bucket per key
type limiter struct {
	opt   RateLimitOptions
	mu    sync.Mutex
	byKey map[string]*bucket
	sweep time.Time
}

func (l *limiter) allow(key string) bool {
	now := l.opt.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.sweep) >= l.opt.IdleTTL {
		for k, b := range l.byKey {
			if now.Sub(b.seen) >= l.opt.IdleTTL {
				delete(l.byKey, k)
			}
		}
		l.sweep = now
	}

	b, ok := l.byKey[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rate.Limit(l.opt.RPS), l.opt.Burst)}
		l.byKey[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// RateLimit rejects requests over the per client budget with a 429 envelope
func RateLimit(opt RateLimitOptions) func(http.Handler) http.Handler {
	if opt.RPS <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opt.Burst <= 0 {
		opt.Burst = max(1, int(2*opt.RPS))
	}
	if opt.IdleTTL <= 0 {
		opt.IdleTTL = 10 * time.Minute
	}
	if opt.Key == nil {
		opt.Key = clientIP
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	l := &limiter{opt: opt, byKey: map[string]*bucket{}, sweep: opt.Now()}
	retry := strconv.Itoa(max(1, int(1/opt.RPS)))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opt.Key(r)
			if l.allow(key) {
				next.ServeHTTP(w, r)
				return
			}
			logger.C(r.Context()).Debug().Str("key", key).Str("path", r.URL.Path).Msg("rate limited")
			w.Header().Set("Retry-After", retry)
			phttp.WriteError(w, r, perr.TooManyRequestsf("rate limit exceeded"))
		})
	}
}
