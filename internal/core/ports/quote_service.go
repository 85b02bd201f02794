package ports

import (
	"context"

	"github.com/bookquest/bookquest-api/internal/core/domain"
)

// SubmitQuoteInput is a vendor's offer on a request.
type SubmitQuoteInput struct {
	RequestID string
	Price     float64
	Notes     string
}

// QuoteView is a quote joined with whatever context the listing needs.
// Vendor and Request are nil when not joined or not resolvable.
type QuoteView struct {
	Quote   *domain.Quote
	Vendor  *domain.UserSummary
	Request *domain.RequestSummary
}

// QuoteService defines use-case operations on the quote ledger.
type QuoteService interface {
	Submit(ctx context.Context, caller domain.Identity, in SubmitQuoteInput) (*domain.Quote, error)
	ListByVendor(ctx context.Context, vendorID string) ([]QuoteView, error)
	ListForOwnerRequests(ctx context.Context, ownerID string) ([]QuoteView, error)
	Accept(ctx context.Context, quoteID string, caller domain.Identity) (*domain.Quote, error)
	Reject(ctx context.Context, quoteID string, caller domain.Identity) (*domain.Quote, error)
}
