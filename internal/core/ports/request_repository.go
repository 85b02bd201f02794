package ports

import (
	"context"

	"github.com/bookquest/bookquest-api/internal/core/domain"
)

// RequestRepository defines persistence operations for book requests.
// List methods return newest first.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.BookRequest) (*domain.BookRequest, error)
	FindByID(ctx context.Context, id string) (*domain.BookRequest, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.BookRequest, error)
	ListByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.BookRequest, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.BookRequest, error)
	// UpdateStatus moves a request from one status to another in a single
	// conditional write and returns the updated document. It returns
	// domain.ErrRequestNotFound when no request has the id and
	// domain.ErrRequestClosed when the request is no longer in status from.
	UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus) (*domain.BookRequest, error)
}
