package middleware

import (
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/iliyamo/stagedoor/internal/config"
)

// tokenBucketScript refills and takes one token atomically.
//
//  KEYS[1]  bucket hash
//  ARGV     now_ms, capacity, refill_tokens, interval_ms, ttl_ms
//  returns  {allowed (0|1), tokens left, retry after ms}
var tokenBucketScript = redis.NewScript(`
local now, cap, refill, interval, ttl = tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4]), tonumber(ARGV[5])
local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
local last = tonumber(redis.call('HGET', KEYS[1], 'last_ms'))
if tokens == nil or last == nil then
  tokens, last = cap, now
end
local steps = math.floor(math.max(0, now - last) / interval)
if steps > 0 then
  tokens = math.min(cap, tokens + steps * refill)
  last = last + steps * interval
end
local allowed, wait = 0, 0
if tokens > 0 then
  allowed, tokens = 1, tokens - 1
else
  wait = math.max(0, interval - (now - last))
end
redis.call('HSET', KEYS[1], 'tokens', tokens, 'last_ms', last)
redis.call('PEXPIRE', KEYS[1], ttl)
return {allowed, tokens, wait}
`)

// unlimitedPaths are never counted.  Probes and scrapers poll them.
var unlimitedPaths = map[string]bool{"/healthz": true, "/metrics": true}

type tokenBucket struct {
    cfg    config.RateLimitConfig
    rdb    *redis.Client
    log    *zap.Logger
    secret string
    parts  []string
}

// NewTokenBucket limits requests with a token bucket per key kept in
// Redis, so every server instance draws from the same bucket.  The key
// is built from RATE_LIMIT_KEY_STRATEGY, an underscore separated list of
// ip, user and route.  user is the subject of a bearer token verified
// with jwtSecret.  Redis errors let the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, jwtSecret string, log *zap.Logger) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    tb := &tokenBucket{
        cfg:    cfg,
        rdb:    rdb,
        log:    log.With(zap.String("component", "ratelimit")),
        secret: jwtSecret,
        parts:  keyParts(cfg.KeyStrategy),
    }
    return tb.middleware
}

func keyParts(strategy string) []string {
    var parts []string
    for _, p := range strings.Split(strings.ToLower(strategy), "_") {
        switch p {
        case "ip", "user", "route":
            parts = append(parts, p)
        }
    }
    if len(parts) == 0 {
        return []string{"ip", "user", "route"}
    }
    return parts
}

func (tb *tokenBucket) key(c echo.Context) string {
    key := []string{tb.cfg.Prefix}
    for _, p := range tb.parts {
        switch p {
        case "ip":
            ip := c.RealIP()
            if ip == "" {
                ip = "unknown"
            }
            key = append(key, "ip", ip)
        case "user":
            key = append(key, "user", subject(c, tb.secret))
        case "route":
            key = append(key, "route", c.Request().Method+" "+c.Path())
        }
    }
    return strings.Join(key, ":")
}

func (tb *tokenBucket) middleware(next echo.HandlerFunc) echo.HandlerFunc {
    return func(c echo.Context) error {
        if unlimitedPaths[c.Path()] {
            return next(c)
        }
        key := tb.key(c)
        res, err := tokenBucketScript.Run(c.Request().Context(), tb.rdb, []string{key},
            time.Now().UnixMilli(),
            tb.cfg.Capacity,
            tb.cfg.RefillTokens,
            tb.cfg.RefillInterval.Milliseconds(),
            tb.cfg.TTL.Milliseconds(),
        ).Int64Slice()
        if err != nil || len(res) != 3 {
            tb.log.Warn("token bucket unavailable", zap.String("key", key), zap.Error(err))
            return next(c)
        }

        h := c.Response().Header()
        h.Set("X-RateLimit-Limit", strconv.Itoa(tb.cfg.Capacity))
        h.Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
        if res[0] == 1 {
            return next(c)
        }

        wait := time.Duration(res[2]) * time.Millisecond
        h.Set("Retry-After", strconv.Itoa(int((wait+time.Second-1)/time.Second)))
        tb.log.Debug("rate limited", zap.String("key", key), zap.Duration("retry_after", wait))
        return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
    }
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
