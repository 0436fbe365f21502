package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ResponseCache is a redis-backed cache for public catalog GETs. Only
// successful responses are stored; any redis failure falls through to the
// handler so the cache can never take the catalog down.
type ResponseCache struct {
	Redis  *redis.Client
	TTL    time.Duration
	Prefix string
	Log    *logrus.Logger
}

func NewResponseCache(client *redis.Client, ttl time.Duration, log *logrus.Logger) *ResponseCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ResponseCache{
		Redis:  client,
		TTL:    ttl,
		Prefix: "catalog",
		Log:    log,
	}
}

type bufferedResponseWriter struct {
	http.ResponseWriter
	status int
	buffer bytes.Buffer
}

func (w *bufferedResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *bufferedResponseWriter) Write(data []byte) (int, error) {
	w.buffer.Write(data)
	return w.ResponseWriter.Write(data)
}

func (c *ResponseCache) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if c.Redis == nil || ctx.Request().Method != http.MethodGet {
				return next(ctx)
			}

			requestCtx := ctx.Request().Context()
			key := c.key(ctx)

			if body, err := c.Redis.Get(requestCtx, key).Bytes(); err == nil {
				ctx.Response().Header().Set("X-Cache", "HIT")
				return ctx.JSONBlob(http.StatusOK, body)
			} else if err != redis.Nil {
				c.Log.WithError(err).Warn("response cache read failed")
			}

			writer := &bufferedResponseWriter{ResponseWriter: ctx.Response().Writer, status: http.StatusOK}
			ctx.Response().Writer = writer
			ctx.Response().Header().Set("X-Cache", "MISS")

			if err := next(ctx); err != nil {
				return err
			}

			if writer.status == http.StatusOK && writer.buffer.Len() > 0 {
				if err := c.Redis.Set(requestCtx, key, writer.buffer.Bytes(), c.TTL).Err(); err != nil {
					c.Log.WithError(err).Warn("response cache write failed")
				}
			}
			return nil
		}
	}
}

func (c *ResponseCache) key(ctx echo.Context) string {
	request := ctx.Request()
	sum := sha1.Sum([]byte(request.URL.Path + "?" + request.URL.RawQuery))
	return fmt.Sprintf("%s:%x", c.Prefix, sum)
}
