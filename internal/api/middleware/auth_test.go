package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bookquest/bookquest-api/internal/api/handler"
	"github.com/bookquest/bookquest-api/internal/core/domain"
)

type stubVerifier struct {
	id  *domain.Identity
	err error
	got string
}

func (s *stubVerifier) Verify(_ context.Context, token string) (*domain.Identity, error) {
	s.got = token
	return s.id, s.err
}

func newAuthContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	verifier := &stubVerifier{id: &domain.Identity{UserID: "user-1", Role: domain.RoleVendor}}
	c, rec := newAuthContext("Bearer abc.def.ghi")

	called := false
	h := Auth(verifier)(func(c echo.Context) error {
		called = true
		if c.Get(handler.CtxUserID) != "user-1" {
			t.Fatalf("user id not set")
		}
		if c.Get(handler.CtxRole) != domain.RoleVendor {
			t.Fatalf("role not set")
		}
		if c.Get(handler.CtxToken) != "abc.def.ghi" {
			t.Fatalf("token not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if verifier.got != "abc.def.ghi" {
		t.Fatalf("verifier got %q", verifier.got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_LowercaseScheme(t *testing.T) {
	verifier := &stubVerifier{id: &domain.Identity{UserID: "user-1", Role: domain.RoleReader}}
	c, _ := newAuthContext("bearer tok")

	if err := Auth(verifier)(func(echo.Context) error { return nil })(c); err != nil {
		t.Fatalf("expected lowercase scheme to pass, got %v", err)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		header string
		err    error
	}{
		{"missing header", "", nil},
		{"wrong scheme", "Token abc", nil},
		{"empty token", "Bearer   ", nil},
		{"verifier rejects", "Bearer bad", domain.ErrInvalidToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verifier := &stubVerifier{err: tc.err}
			c, _ := newAuthContext(tc.header)

			err := Auth(verifier)(func(echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})(c)

			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected unauthenticated error, got %v", err)
			}
			if c.Get(handler.CtxUserID) != nil {
				t.Fatalf("identity must not be set")
			}
		})
	}
}

func TestAuthMiddleware_PropagatesStoreFailure(t *testing.T) {
	storeDown := errors.New("revocation store unavailable")
	c, _ := newAuthContext("Bearer tok")

	err := Auth(&stubVerifier{err: storeDown})(func(echo.Context) error { return nil })(c)
	if !errors.Is(err, storeDown) {
		t.Fatalf("expected store failure, got %v", err)
	}
}
