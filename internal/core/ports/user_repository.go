package ports

import (
	"context"

	"github.com/bookquest/bookquest-api/internal/core/domain"
)

// UserRepository defines the interface for the identity store.
type UserRepository interface {
	// Create inserts user and returns it with its assigned ID.
	// Returns domain.ErrDuplicateEmail when the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail looks up a user by normalized email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
}
