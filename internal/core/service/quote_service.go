package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookquest/bookquest-api/internal/core/authz"
	"github.com/bookquest/bookquest-api/internal/core/domain"
	"github.com/bookquest/bookquest-api/internal/core/ports"
)

// QuoteOptions tunes quote lifecycle policy.
type QuoteOptions struct {
	// AcceptCascade makes an accept also fulfil the parent request and reject
	// its other pending quotes. Off by default: an accept changes only the
	// accepted quote.
	AcceptCascade bool
}

type QuoteService struct {
	quotes   ports.QuoteRepository
	requests ports.RequestRepository
	users    ports.UserRepository
	opts     QuoteOptions
	logger   zerolog.Logger
}

func NewQuoteService(
	quotes ports.QuoteRepository,
	requests ports.RequestRepository,
	users ports.UserRepository,
	opts QuoteOptions,
	logger zerolog.Logger,
) *QuoteService {
	return &QuoteService{quotes: quotes, requests: requests, users: users, opts: opts, logger: logger}
}

// Submit records a vendor's offer on an open request.
func (s *QuoteService) Submit(ctx context.Context, caller domain.Identity, in ports.SubmitQuoteInput) (*domain.Quote, error) {
	if err := authz.RequireRole(caller, domain.RoleVendor); err != nil {
		return nil, domain.ErrNotVendor
	}

	req, err := s.requests.FindByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.RequestOpen {
		return nil, domain.ErrRequestClosed
	}

	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) || in.Price < 0 {
		return nil, domain.Validation("price must be a number greater than or equal to 0")
	}

	now := time.Now().UTC()
	q := &domain.Quote{
		VendorID:  caller.UserID,
		RequestID: req.ID,
		Price:     in.Price,
		Status:    domain.QuotePending,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.quotes.Create(ctx, q)
	if err != nil {
		s.logger.Error().Err(err).Str("request_id", req.ID).Msg("failed to create quote")
		return nil, err
	}

	s.logger.Info().Str("quote_id", created.ID).Str("request_id", req.ID).Str("vendor_id", caller.UserID).Msg("quote submitted")
	return created, nil
}

// ListByVendor returns the vendor's quotes, each with its request summary.
func (s *QuoteService) ListByVendor(ctx context.Context, vendorID string) ([]ports.QuoteView, error) {
	quotes, err := s.quotes.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	requestIDs := make([]string, 0, len(quotes))
	for _, q := range quotes {
		requestIDs = append(requestIDs, q.RequestID)
	}
	summaries, err := s.requestSummaries(ctx, requestIDs)
	if err != nil {
		return nil, err
	}

	views := make([]ports.QuoteView, len(quotes))
	for i, q := range quotes {
		views[i] = ports.QuoteView{Quote: q, Request: summaries[q.RequestID]}
	}
	return views, nil
}

// ListForOwnerRequests is the reader-facing "quotes I've received" view.
func (s *QuoteService) ListForOwnerRequests(ctx context.Context, ownerID string) ([]ports.QuoteView, error) {
	reqs, err := s.requests.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return []ports.QuoteView{}, nil
	}

	byID := make(map[string]*domain.RequestSummary, len(reqs))
	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
		sum := r.Summary()
		byID[r.ID] = &sum
	}

	quotes, err := s.quotes.ListByRequests(ctx, ids)
	if err != nil {
		return nil, err
	}

	vendorIDs := make([]string, 0, len(quotes))
	for _, q := range quotes {
		vendorIDs = append(vendorIDs, q.VendorID)
	}
	vendors, err := lookupUsers(ctx, s.users, vendorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]ports.QuoteView, len(quotes))
	for i, q := range quotes {
		views[i] = ports.QuoteView{Quote: q, Vendor: vendors[q.VendorID], Request: byID[q.RequestID]}
	}
	return views, nil
}

func (s *QuoteService) Accept(ctx context.Context, quoteID string, caller domain.Identity) (*domain.Quote, error) {
	q, req, err := s.decide(ctx, quoteID, caller, domain.QuoteAccepted)
	if err != nil {
		return nil, err
	}
	if s.opts.AcceptCascade {
		s.cascade(ctx, q, req)
	}
	return q, nil
}

func (s *QuoteService) Reject(ctx context.Context, quoteID string, caller domain.Identity) (*domain.Quote, error) {
	q, _, err := s.decide(ctx, quoteID, caller, domain.QuoteRejected)
	return q, err
}

// decide loads the quote and its parent request, checks that caller owns the
// request, then flips the quote out of pending.
func (s *QuoteService) decide(ctx context.Context, quoteID string, caller domain.Identity, to domain.QuoteStatus) (*domain.Quote, *domain.BookRequest, error) {
	q, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		return nil, nil, err
	}

	req, err := s.requests.FindByID(ctx, q.RequestID)
	if err != nil {
		return nil, nil, err
	}
	if err := authz.RequireOwner(caller, req.OwnerID); err != nil {
		return nil, nil, err
	}
	if !q.Status.CanTransitionTo(to) {
		return nil, nil, domain.ErrQuoteDecided
	}

	updated, err := s.quotes.UpdateStatus(ctx, q.ID, domain.QuotePending, to)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("quote_id", updated.ID).Str("request_id", req.ID).Str("status", string(to)).Msg("quote decided")
	return updated, req, nil
}

// cascade fulfils the parent request and rejects sibling quotes. Each write is
// its own single-document update; failures are logged, the accept stands.
func (s *QuoteService) cascade(ctx context.Context, accepted *domain.Quote, req *domain.BookRequest) {
	if req.Status == domain.RequestOpen {
		if _, err := s.requests.UpdateStatus(ctx, req.ID, domain.RequestOpen, domain.RequestFulfilled); err != nil {
			s.logger.Warn().Err(err).Str("request_id", req.ID).Msg("cascade: failed to fulfil request")
		}
	}
	n, err := s.quotes.RejectPending(ctx, req.ID, accepted.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("request_id", req.ID).Msg("cascade: failed to reject sibling quotes")
		return
	}
	s.logger.Info().Str("request_id", req.ID).Int64("rejected", n).Msg("cascade applied")
}

func (s *QuoteService) requestSummaries(ctx context.Context, ids []string) (map[string]*domain.RequestSummary, error) {
	out := make(map[string]*domain.RequestSummary)
	unique := dedupe(ids)
	if len(unique) == 0 {
		return out, nil
	}
	reqs, err := s.requests.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	for _, r := range reqs {
		sum := r.Summary()
		out[r.ID] = &sum
	}
	return out, nil
}
