package httpx

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/haulmatch/taxadmin/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket: RequestsPerWindow refill over Window,
// with at most Burst requests admitted back to back.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Valid reports whether every field is positive.
func (c RateLimitConfig) Valid() bool {
	return c.RequestsPerWindow > 0 && c.Window > 0 && c.Burst > 0
}

func (c RateLimitConfig) perSecond() rate.Limit {
	return rate.Limit(float64(c.RequestsPerWindow) / c.Window.Seconds())
}

// RateLimits groups the buckets applied to each class of route.
type RateLimits struct {
	Login    RateLimitConfig // auth.login, per IP
	Query    RateLimitConfig // GET procedures, per IP
	Mutation RateLimitConfig // POST procedures, per user then IP
	Health   RateLimitConfig // livez and readyz, per IP
}

// DefaultRateLimits returns the production buckets.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Login:    RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5},
		Query:    RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000},
		Mutation: RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20},
		Health:   RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100},
	}
}

// KeyExtractor picks the bucket a request is charged to. An empty key
// bypasses limiting.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor uses the first X-Forwarded-For hop, then X-Real-IP, then
// the peer address.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// UserIDKeyExtractor keys on the session principal; anonymous requests yield "".
func UserIDKeyExtractor(r *http.Request) string {
	if p, ok := PrincipalFromContext(r.Context()); ok {
		return p.UserID
	}
	return ""
}

// CompositeKeyExtractor joins the non-empty keys of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(extractors))
		for _, extract := range extractors {
			if key := extract(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

const sweepInterval = 5 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// buckets holds one limiter per key and drops the ones idle long enough to
// have refilled completely.
type buckets struct {
	cfg RateLimitConfig
	now func() time.Time

	mu        sync.Mutex
	byKey     map[string]*bucket
	lastSweep time.Time
}

func newBuckets(cfg RateLimitConfig) *buckets {
	return &buckets{
		cfg:       cfg,
		now:       time.Now,
		byKey:     make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

func (b *buckets) get(key string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if now.Sub(b.lastSweep) >= sweepInterval {
		b.sweep(now)
	}

	e, ok := b.byKey[key]
	if !ok {
		e = &bucket{limiter: rate.NewLimiter(b.cfg.perSecond(), b.cfg.Burst)}
		b.byKey[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (b *buckets) sweep(now time.Time) {
	b.lastSweep = now
	idle := max(b.cfg.Window, sweepInterval)
	for key, e := range b.byKey {
		if now.Sub(e.lastSeen) >= idle {
			delete(b.byKey, key)
		}
	}
}

func (b *buckets) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byKey)
}

// LimitExceededFunc writes the response for a rejected request. Retry-After and
// X-RateLimit-* headers are already set when it is called.
type LimitExceededFunc func(w http.ResponseWriter, r *http.Request)

// RateLimitOption customises RateLimitMiddleware.
type RateLimitOption func(*rateLimitOptions)

type rateLimitOptions struct {
	onLimit LimitExceededFunc
}

// WithLimitExceeded replaces the default 429 JSON body.
func WithLimitExceeded(fn LimitExceededFunc) RateLimitOption {
	return func(o *rateLimitOptions) { o.onLimit = fn }
}

func defaultLimitExceeded(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many requests. Please try again later.")
}

// RateLimitMiddleware rejects requests once the bucket for their key is empty.
func RateLimitMiddleware(cfg RateLimitConfig, keyOf KeyExtractor, opts ...RateLimitOption) Middleware {
	o := rateLimitOptions{onLimit: defaultLimitExceeded}
	for _, opt := range opts {
		opt(&o)
	}
	return rateLimit(newBuckets(cfg), keyOf, o)
}

func rateLimit(b *buckets, keyOf KeyExtractor, o rateLimitOptions) Middleware {
	limit := strconv.Itoa(b.cfg.RequestsPerWindow)
	window := b.cfg.Window.String()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyOf(r)
			if key == "" {
				log.Warn("rate limit: no key for request, not limiting")
				next.ServeHTTP(w, r)
				return
			}

			limiter := b.get(key)
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			res := limiter.Reserve()
			retryAfter := max(int(res.Delay().Seconds()), 1)
			res.Cancel()

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Window", window)

			log.Warn("rate limit exceeded",
				"key", key,
				"endpoint", r.URL.Path,
				"retry_after", retryAfter,
			)
			o.onLimit(w, r)
		})
	}
}

// RateLimitByIP charges each client address.
func RateLimitByIP(cfg RateLimitConfig, opts ...RateLimitOption) Middleware {
	return RateLimitMiddleware(cfg, IPKeyExtractor, opts...)
}

// RateLimitByUser charges each signed-in user per address; anonymous callers
// share their address bucket.
func RateLimitByUser(cfg RateLimitConfig, opts ...RateLimitOption) Middleware {
	return RateLimitMiddleware(cfg, CompositeKeyExtractor(":",
		UserIDKeyExtractor,
		IPKeyExtractor,
	), opts...)
}
