package ports

import (
	"context"

	"github.com/bookquest/bookquest-api/internal/core/domain"
)

// QuoteRepository defines persistence operations for quotes.
// List methods return newest first, ties broken by id descending.
type QuoteRepository interface {
	Create(ctx context.Context, q *domain.Quote) (*domain.Quote, error)
	FindByID(ctx context.Context, id string) (*domain.Quote, error)
	ListByRequest(ctx context.Context, requestID string) ([]*domain.Quote, error)
	ListByRequests(ctx context.Context, requestIDs []string) ([]*domain.Quote, error)
	ListByVendor(ctx context.Context, vendorID string) ([]*domain.Quote, error)
	// UpdateStatus atomically moves a quote from status from to status to.
	// Returns domain.ErrQuoteNotFound when the id is unknown and
	// domain.ErrQuoteDecided when the quote is no longer in status from.
	UpdateStatus(ctx context.Context, id string, from, to domain.QuoteStatus) (*domain.Quote, error)
	// RejectPending rejects every pending quote on requestID except exceptID
	// and returns how many were changed.
	RejectPending(ctx context.Context, requestID, exceptID string) (int64, error)
}
