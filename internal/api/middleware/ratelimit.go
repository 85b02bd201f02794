package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookquest/bookquest-api/internal/api/metrics"
	"github.com/bookquest/bookquest-api/internal/core/domain"
)

var errTooManyRequests = domain.NewError(domain.ErrRateLimited, "too many requests, try again later")

// Limiter decides whether key may proceed in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Window() time.Duration
}

// RateLimit rejects callers over quota with 429. Keys combine the client IP
// and the route. A limiter failure rejects the request.
func RateLimit(limiter Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP() + ":" + c.Path()
			allowed, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Error().Err(err).Str("path", c.Path()).Msg("rate limiter unavailable")
			}
			if !allowed {
				metrics.RateLimitedTotal.WithLabelValues(c.Path()).Inc()
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
				return errTooManyRequests
			}
			return next(c)
		}
	}
}
