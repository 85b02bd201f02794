package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookquest/bookquest-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", domain.Validation("title is required"), http.StatusBadRequest, "title is required"},
		{"conflict", domain.ErrRequestClosed, http.StatusBadRequest, domain.ErrRequestClosed.Msg},
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusBadRequest, "user already exists"},
		{"unauthenticated", domain.ErrInvalidToken, http.StatusUnauthorized, "token is not valid"},
		{"forbidden", domain.ErrNotOwner, http.StatusForbidden, "access denied"},
		{"not found", domain.ErrQuoteNotFound, http.StatusNotFound, "quote not found"},
		{"wrapped not found", fmt.Errorf("lookup: %w", domain.ErrRequestNotFound), http.StatusNotFound, "request not found"},
		{"rate limited", domain.NewError(domain.ErrRateLimited, "slow down"), http.StatusTooManyRequests, "slow down"},
		{"catalog timeout", domain.ErrCatalogTimeout, http.StatusGatewayTimeout, domain.ErrCatalogTimeout.Msg},
		{"catalog unavailable", domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, domain.ErrCatalogUnavailable.Msg},
		{"catalog misconfigured", domain.ErrCatalogMisconfigured, http.StatusInternalServerError, domain.ErrCatalogMisconfigured.Msg},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"unexpected", errors.New("mongo: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Success || body.Message != tc.msg {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response must be left alone, got %d %q", rec.Code, rec.Body.String())
	}
}
