package middleware

import (
    "bytes"
    "context"
    "crypto/sha256"
    "encoding/hex"
    "encoding/json"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/iliyamo/stagedoor/internal/config"
)

// cachedResponse is what a cache entry holds.  Body is base64 in JSON.
type cachedResponse struct {
    Status int         `json:"status"`
    Header http.Header `json:"header"`
    Body   []byte      `json:"body"`
}

// recorder tees the response to the client and keeps a copy of the
// body until it grows past limit.
type recorder struct {
    http.ResponseWriter
    status   int
    body     bytes.Buffer
    limit    int
    overflow bool
}

func (r *recorder) WriteHeader(code int) {
    r.status = code
    r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
    if !r.overflow {
        if r.limit > 0 && r.body.Len()+len(b) > r.limit {
            r.overflow = true
            r.body.Reset()
        } else {
            r.body.Write(b)
        }
    }
    return r.ResponseWriter.Write(b)
}

// cacheKey hashes the route template, its parameters and, for the
// route_query strategy, the query string with keys sorted.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
    var b strings.Builder
    b.WriteString(c.Request().Method)
    b.WriteByte(' ')
    b.WriteString(c.Request().URL.Path)
    if strings.ToLower(cfg.KeyStrategy) != "route" {
        b.WriteByte('?')
        b.WriteString(c.QueryParams().Encode())
    }
    sum := sha256.Sum256([]byte(b.String()))
    return cfg.Prefix + ":" + hex.EncodeToString(sum[:16])
}

// NewRedisCache caches 200 responses of the configured methods for
// cfg.TTL.  Headers are stored with the body so a hit replays the
// original response.  Upcoming show counts on cached listings may lag
// the clock by up to cfg.TTL; detail pages are only cached when pinned
// to an as_of instant.  Bodies larger than cfg.MaxBodyBytes are served
// but not cached.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[c.Request().Method] {
                return next(c)
            }
            ctx := c.Request().Context()
            key := cacheKey(cfg, c)

            if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
                var hit cachedResponse
                if json.Unmarshal(raw, &hit) == nil {
                    h := c.Response().Header()
                    for k, vs := range hit.Header {
                        if k != echo.HeaderContentLength {
                            h[k] = vs
                        }
                    }
                    h.Set("X-Cache", "HIT")
                    return c.Blob(hit.Status, h.Get(echo.HeaderContentType), hit.Body)
                }
            }

            rec := &recorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if rec.status != http.StatusOK || rec.overflow {
                return nil
            }

            entry := cachedResponse{Status: rec.status, Header: c.Response().Header().Clone(), Body: rec.body.Bytes()}
            entry.Header.Del("X-Cache")
            if raw, err := json.Marshal(entry); err == nil {
                _ = rdb.Set(context.WithoutCancel(ctx), key, raw, ttl).Err()
            }
            return nil
        }
    }
}

// PurgeOnWrite drops every cached response under cfg.Prefix after a
// successful request whose method is not cached (POST, PUT, PATCH,
// DELETE).  Keys are hashed, so a purge cannot target one route; writes
// are rare enough that clearing the whole prefix is acceptable.
func PurgeOnWrite(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if err := next(c); err != nil {
                return err
            }
            if cfg.Methods[c.Request().Method] || c.Response().Status >= http.StatusBadRequest {
                return nil
            }
            n, err := purgePrefix(context.WithoutCancel(c.Request().Context()), rdb, cfg.Prefix)
            if err != nil {
                log.Warn("cache purge failed", zap.String("prefix", cfg.Prefix), zap.Error(err))
                return nil
            }
            log.Debug("cache purged", zap.String("prefix", cfg.Prefix), zap.Int("keys", n))
            return nil
        }
    }
}

func purgePrefix(ctx context.Context, rdb *redis.Client, prefix string) (int, error) {
    n := 0
    iter := rdb.Scan(ctx, 0, prefix+":*", 100).Iterator()
    for iter.Next(ctx) {
        if err := rdb.Unlink(ctx, iter.Val()).Err(); err != nil {
            return n, err
        }
        n++
    }
    return n, iter.Err()
}
