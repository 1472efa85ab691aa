// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/angelamos/promptvault/internal/core"
)

// Policy is a named quota. The name scopes the counter keys so the global
// limit and the purge limit never share a bucket.
type Policy struct {
	Name  string
	Limit redis_rate.Limit
}

// SubjectFunc picks who a request is charged to.
type SubjectFunc func(*http.Request) string

type RateLimitConfig struct {
	Policy  Policy
	Subject SubjectFunc
	Bypass  func(*http.Request) bool
	Logger  *slog.Logger
}

type RateLimiter struct {
	redis  *redis_rate.Limiter
	local  *bucketStore
	cfg    RateLimitConfig
	logger *slog.Logger
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.Subject == nil {
		cfg.Subject = SubjectIP
	}
	if cfg.Policy.Name == "" {
		cfg.Policy.Name = "default"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RateLimiter{
		redis:  redis_rate.NewLimiter(rdb),
		local:  newBucketStore(10 * time.Minute),
		cfg:    cfg,
		logger: logger.With("component", "ratelimit", "policy", cfg.Policy.Name),
	}
}

// Key is the counter key a request is charged against.
func (rl *RateLimiter) Key(r *http.Request) string {
	return "ratelimit:" + rl.cfg.Policy.Name + ":" + rl.cfg.Subject(r)
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cfg.Bypass != nil && rl.cfg.Bypass(r) {
			next.ServeHTTP(w, r)
			return
		}

		res := rl.take(r.Context(), rl.Key(r))
		writeQuotaHeaders(w, rl.cfg.Policy, res)

		if res.Allowed == 0 {
			writeRateLimited(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) take(ctx context.Context, key string) *redis_rate.Result {
	res, err := rl.redis.Allow(ctx, key, rl.cfg.Policy.Limit)
	if err == nil {
		return res
	}

	rl.logger.Debug("redis limiter failed, using local buckets", "error", err)
	return rl.local.take(key, rl.cfg.Policy.Limit, time.Now())
}

// ClientIP prefers the proxy-appended X-Forwarded-For hop, then
// X-Real-IP, then the socket peer.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func SubjectIP(r *http.Request) string {
	return "ip:" + ClientIP(r)
}

// SubjectUser charges the authenticated user and falls back to the client
// address; mount it after Authenticator.
func SubjectUser(r *http.Request) string {
	if id := GetUserID(r.Context()); id != "" {
		return "user:" + id
	}
	return SubjectIP(r)
}

func writeQuotaHeaders(
	w http.ResponseWriter,
	p Policy,
	res *redis_rate.Result,
) {
	reset := int(res.ResetAfter.Seconds())
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(p.Limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset",
		strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf(`%d;w=%d;name="%s"`,
		p.Limit.Rate, int(p.Limit.Period.Seconds()), p.Name))
	h.Set("RateLimit", fmt.Sprintf(`%d;t=%d`, res.Remaining, reset))
}

func writeRateLimited(w http.ResponseWriter, res *redis_rate.Result) {
	wait := max(int(res.RetryAfter.Seconds()), 1)
	w.Header().Set("Retry-After", strconv.Itoa(wait))

	core.JSON(w, http.StatusTooManyRequests, core.ErrorResponse{
		Error: core.ErrorBody{
			Code:    "RATE_LIMITED",
			Message: fmt.Sprintf("too many requests, retry in %ds", wait),
		},
	})
}

// bucketStore is the in-process stand-in used while redis is unreachable.
// Idle buckets are swept lazily on access.
type bucketStore struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	idleTTL   time.Duration
	lastSweep time.Time
}

type bucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

func newBucketStore(idleTTL time.Duration) *bucketStore {
	return &bucketStore{
		buckets: make(map[string]*bucket),
		idleTTL: idleTTL,
	}
}

func (s *bucketStore) take(
	key string,
	limit redis_rate.Limit,
	now time.Time,
) *redis_rate.Result {
	every := limit.Period / time.Duration(max(limit.Rate, 1))

	s.mu.Lock()
	s.sweep(now)
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(every), limit.Burst)}
		s.buckets[key] = b
	}
	b.seen = now
	allowed := b.limiter.AllowN(now, 1)
	remaining := max(int(b.limiter.TokensAt(now)), 0)
	s.mu.Unlock()

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: -1,
		ResetAfter: every,
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = every
	}
	return res
}

func (s *bucketStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.idleTTL/2 {
		return
	}
	s.lastSweep = now

	for key, b := range s.buckets {
		if now.Sub(b.seen) > s.idleTTL {
			delete(s.buckets, key)
		}
	}
}

func Per(period time.Duration, n, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: n, Burst: burst, Period: period}
}

func PerMinute(n, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: n, Burst: burst, Period: time.Minute}
}

func PerHour(n, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: n, Burst: burst, Period: time.Hour}
}
