package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookquest/bookquest-api/internal/core/domain"
)

// errorResponse is the failure side of the response envelope.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs server-side failures without leaking details to the client.
//   - Renders {"success": false, "message": "<text>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)
		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Int("status", code).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Success: false, Message: msg})
	}
}

func resolveError(err error) (int, string) {
	// Echo's own errors (router 404/405, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil && he.Code >= http.StatusInternalServerError {
			return he.Code, http.StatusText(he.Code)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, "internal server error"
	}

	// Catalog refinements come before the generic kinds they wrap.
	switch {
	case errors.Is(err, domain.ErrCatalogTimeout):
		return http.StatusGatewayTimeout, de.Msg
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, de.Msg
	}

	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest, de.Msg
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, de.Msg
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, de.Msg
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, de.Msg
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, de.Msg
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusInternalServerError, de.Msg
	}
	return http.StatusInternalServerError, "internal server error"
}
