package ports

import (
	"context"
	"time"

	"github.com/bookquest/bookquest-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Profile(ctx context.Context, id domain.Identity) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}

// TokenIssuer signs credentials for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenVerifier resolves a bearer token into the caller's identity.
// Any invalid, expired, revoked or orphaned token yields domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}

// TokenRevoker tracks revoked token ids until they would have expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
