package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/metric"
)

// Budget names, used in keys, logs and the rate limit metric.
const (
	BudgetSubmit = "submit"
	BudgetDelete = "delete"
)

// gcraScript implements the generic cell rate algorithm.  KEYS[1] holds the
// theoretical arrival time (ms) of the next request.  ARGV: now ms, emission
// interval ms, burst.  Returns {allowed, remaining, retry_after_ms}.
var gcraScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local every = tonumber(ARGV[2])
local tolerance = every * tonumber(ARGV[3])
local tat = tonumber(redis.call('GET', KEYS[1]))
if not tat or tat < now then
	tat = now
end
local next_tat = tat + every
local allow_at = next_tat - tolerance
if now < allow_at then
	return {0, 0, allow_at - now}
end
redis.call('SET', KEYS[1], next_tat, 'PX', next_tat - now)
return {1, math.floor((tolerance - (next_tat - now)) / every), 0}
`)

// decision is the verdict for one request against one budget.
type decision struct {
	allowed    bool
	remaining  int64
	retryAfter time.Duration
}

// budgetStore spends one unit of a budget under key.
type budgetStore interface {
	take(ctx context.Context, key string, b config.Budget, now time.Time) (decision, error)
}

type redisBudgets struct{ rdb *redis.Client }

func (s redisBudgets) take(ctx context.Context, key string, b config.Budget, now time.Time) (decision, error) {
	res, err := gcraScript.Run(ctx, s.rdb, []string{key},
		now.UnixMilli(), b.Every.Milliseconds(), b.Burst).Int64Slice()
	if err != nil {
		return decision{}, err
	}
	return decisionFrom(res)
}

func decisionFrom(res []int64) (decision, error) {
	if len(res) != 3 {
		return decision{}, fmt.Errorf("ratelimit: unexpected reply %v", res)
	}
	return decision{
		allowed:    res[0] == 1,
		remaining:  res[1],
		retryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}

// Limiter throttles writes per client.  A nil Redis client or a disabled
// config yields pass-through middleware.  Redis failures are logged and the
// request is let through.
type Limiter struct {
	cfg    config.RateLimitConfig
	store  budgetStore
	logger *slog.Logger
	m      *metric.Metrics
	now    func() time.Time
}

// NewLimiter builds a Limiter backed by rdb.
func NewLimiter(cfg config.RateLimitConfig, rdb *redis.Client, logger *slog.Logger, m *metric.Metrics) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Limiter{cfg: cfg, logger: logger, m: m, now: time.Now}
	if cfg.Enabled && rdb != nil {
		l.store = redisBudgets{rdb: rdb}
	}
	return l
}

// Submissions limits create and edit form posts.
func (l *Limiter) Submissions() echo.MiddlewareFunc {
	return l.middleware(BudgetSubmit, l.cfg.Submissions())
}

// Deletions limits DELETE requests.
func (l *Limiter) Deletions() echo.MiddlewareFunc {
	return l.middleware(BudgetDelete, l.cfg.Deletions())
}

func (l *Limiter) middleware(name string, b config.Budget) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if l.store == nil {
			return next
		}
		return func(c echo.Context) error {
			key := rateKey(l.cfg, name, c)
			d, err := l.store.take(c.Request().Context(), key, b, l.now())
			if err != nil {
				l.logger.Warn("rate limit check failed", "budget", name, "key", key, "error", err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(b.Burst))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
			if d.allowed {
				return next(c)
			}

			secs := int(math.Ceil(d.retryAfter.Seconds()))
			h.Set("Retry-After", strconv.Itoa(secs))
			l.logger.Info("rate limited", "budget", name, "ip", c.RealIP(), "retry_after", d.retryAfter)
			l.m.ObserveRateLimited(name)
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		}
	}
}

// rateKey is prefix:budget:ip, with the route pattern appended for the
// ip_route strategy.
func rateKey(cfg config.RateLimitConfig, budget string, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	key := cfg.Prefix + ":" + budget + ":" + ip
	if cfg.KeyStrategy == "ip_route" {
		key += ":" + c.Path()
	}
	return key
}
