package ports

import (
	"context"
	"time"

	"github.com/bookquest/bookquest-api/internal/core/domain"
)

// LineItemInput is one book as submitted by the client. Quantity has already
// been parsed leniently by the transport layer; the service clamps it.
type LineItemInput struct {
	Title     string
	Author    string
	ISBN      string
	Condition string
	Quantity  int
	Deadline  *time.Time
	Notes     string
}

// CreateRequestInput carries everything needed to open a new book request.
type CreateRequestInput struct {
	OwnerID string
	Books   []LineItemInput
}

// RequestView is a request joined with its owner's public details.
// Owner is nil when the owner record could not be resolved.
type RequestView struct {
	Request *domain.BookRequest
	Owner   *domain.UserSummary
}

// RequestDetail is the single-request view: the request plus its quotes.
type RequestDetail struct {
	Request RequestView
	Quotes  []QuoteView
}

// RequestService defines use-case operations on the request ledger.
type RequestService interface {
	Create(ctx context.Context, in CreateRequestInput) (*domain.BookRequest, error)
	ListOpen(ctx context.Context) ([]RequestView, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.BookRequest, error)
	GetWithQuotes(ctx context.Context, id string) (*RequestDetail, error)
	Cancel(ctx context.Context, id string, caller domain.Identity) (*domain.BookRequest, error)
	Fulfill(ctx context.Context, id string, caller domain.Identity) (*domain.BookRequest, error)
}
