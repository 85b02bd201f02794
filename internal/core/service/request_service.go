package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookquest/bookquest-api/internal/core/authz"
	"github.com/bookquest/bookquest-api/internal/core/domain"
	"github.com/bookquest/bookquest-api/internal/core/ports"
)

type RequestService struct {
	requests ports.RequestRepository
	quotes   ports.QuoteRepository
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewRequestService(requests ports.RequestRepository, quotes ports.QuoteRepository, users ports.UserRepository, logger zerolog.Logger) *RequestService {
	return &RequestService{requests: requests, quotes: quotes, users: users, logger: logger}
}

// Create opens a new request owned by in.OwnerID.
func (s *RequestService) Create(ctx context.Context, in ports.CreateRequestInput) (*domain.BookRequest, error) {
	if len(in.Books) == 0 {
		return nil, domain.Validation("books array is required with at least one book")
	}

	books := make([]domain.LineItem, 0, len(in.Books))
	for i, b := range in.Books {
		item, err := toLineItem(b)
		if err != nil {
			return nil, fmt.Errorf("books[%d]: %w", i, err)
		}
		books = append(books, item)
	}

	now := time.Now().UTC()
	req := &domain.BookRequest{
		OwnerID:   in.OwnerID,
		Books:     books,
		Status:    domain.RequestOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.requests.Create(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create request")
		return nil, err
	}

	s.logger.Info().Str("request_id", created.ID).Str("owner_id", created.OwnerID).Int("books", len(books)).Msg("request created")
	return created, nil
}

func toLineItem(b ports.LineItemInput) (domain.LineItem, error) {
	title := strings.TrimSpace(b.Title)
	if title == "" {
		return domain.LineItem{}, domain.Validation("each book must have a title")
	}

	condition := domain.ConditionGood
	if c := strings.TrimSpace(b.Condition); c != "" {
		condition = domain.Condition(c)
		if !condition.Valid() {
			return domain.LineItem{}, domain.Validation("condition must be one of: new, like_new, good, fair")
		}
	}

	return domain.LineItem{
		Title:     title,
		Author:    strings.TrimSpace(b.Author),
		ISBN:      strings.TrimSpace(b.ISBN),
		Condition: condition,
		Quantity:  domain.NormalizeQuantity(b.Quantity),
		Deadline:  b.Deadline,
		Notes:     strings.TrimSpace(b.Notes),
	}, nil
}

// ListOpen is the vendor-facing feed: every open request, newest first.
func (s *RequestService) ListOpen(ctx context.Context) ([]ports.RequestView, error) {
	reqs, err := s.requests.ListByStatus(ctx, domain.RequestOpen)
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ownerIDs = append(ownerIDs, r.OwnerID)
	}
	owners, err := s.userSummaries(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	views := make([]ports.RequestView, len(reqs))
	for i, r := range reqs {
		views[i] = ports.RequestView{Request: r, Owner: owners[r.OwnerID]}
	}
	return views, nil
}

func (s *RequestService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.BookRequest, error) {
	return s.requests.ListByOwner(ctx, ownerID)
}

// GetWithQuotes returns a request, its owner and every quote targeting it.
func (s *RequestService) GetWithQuotes(ctx context.Context, id string) (*ports.RequestDetail, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quotes, err := s.quotes.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(quotes)+1)
	ids = append(ids, req.OwnerID)
	for _, q := range quotes {
		ids = append(ids, q.VendorID)
	}
	people, err := s.userSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]ports.QuoteView, len(quotes))
	for i, q := range quotes {
		views[i] = ports.QuoteView{Quote: q, Vendor: people[q.VendorID]}
	}

	return &ports.RequestDetail{
		Request: ports.RequestView{Request: req, Owner: people[req.OwnerID]},
		Quotes:  views,
	}, nil
}

// Cancel closes an open request at its owner's wish.
func (s *RequestService) Cancel(ctx context.Context, id string, caller domain.Identity) (*domain.BookRequest, error) {
	return s.transition(ctx, id, caller, domain.RequestCancelled)
}

// Fulfill marks an open request as satisfied.
func (s *RequestService) Fulfill(ctx context.Context, id string, caller domain.Identity) (*domain.BookRequest, error) {
	return s.transition(ctx, id, caller, domain.RequestFulfilled)
}

func (s *RequestService) transition(ctx context.Context, id string, caller domain.Identity, to domain.RequestStatus) (*domain.BookRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwner(caller, req.OwnerID); err != nil {
		return nil, err
	}
	if !req.Status.CanTransitionTo(to) {
		return nil, domain.NewError(domain.ErrConflict, fmt.Sprintf("request is %s and can no longer change", req.Status))
	}

	updated, err := s.requests.UpdateStatus(ctx, req.ID, domain.RequestOpen, to)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("request_id", updated.ID).Str("status", string(to)).Msg("request status changed")
	return updated, nil
}

// userSummaries resolves ids into public user details keyed by id. Unknown
// ids are simply absent from the map.
func (s *RequestService) userSummaries(ctx context.Context, ids []string) (map[string]*domain.UserSummary, error) {
	return lookupUsers(ctx, s.users, ids)
}

func lookupUsers(ctx context.Context, users ports.UserRepository, ids []string) (map[string]*domain.UserSummary, error) {
	out := make(map[string]*domain.UserSummary)
	unique := dedupe(ids)
	if len(unique) == 0 {
		return out, nil
	}
	found, err := users.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	for _, u := range found {
		sum := u.Summary()
		out[u.ID] = &sum
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
