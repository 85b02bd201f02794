package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bookquest/bookquest-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byID[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

// add stores a user directly, bypassing hashing.
func (r *stubUserRepo) add(id, name, role string) *domain.User {
	u := &domain.User{ID: id, Name: name, Email: id + "@example.com", Role: role}
	r.byID[id] = u
	return cloneUser(u)
}

type stubRequestRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.BookRequest
	nextID int
	clock  time.Time
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{
		byID:  make(map[string]*domain.BookRequest),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func cloneRequest(r *domain.BookRequest) *domain.BookRequest {
	clone := *r
	clone.Books = append([]domain.LineItem(nil), r.Books...)
	return &clone
}

func (r *stubRequestRepo) Create(_ context.Context, req *domain.BookRequest) (*domain.BookRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.clock = r.clock.Add(time.Second)
	copy := cloneRequest(req)
	copy.ID = fmt.Sprintf("req-%03d", r.nextID)
	copy.CreatedAt = r.clock
	r.byID[copy.ID] = cloneRequest(copy)
	return copy, nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id string) (*domain.BookRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return cloneRequest(req), nil
}

func (r *stubRequestRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.BookRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.BookRequest
	for _, id := range ids {
		if req, ok := r.byID[id]; ok {
			out = append(out, cloneRequest(req))
		}
	}
	return out, nil
}

func (r *stubRequestRepo) list(keep func(*domain.BookRequest) bool) []*domain.BookRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.BookRequest{}
	for _, req := range r.byID {
		if keep(req) {
			out = append(out, cloneRequest(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *stubRequestRepo) ListByStatus(_ context.Context, status domain.RequestStatus) ([]*domain.BookRequest, error) {
	return r.list(func(req *domain.BookRequest) bool { return req.Status == status }), nil
}

func (r *stubRequestRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.BookRequest, error) {
	return r.list(func(req *domain.BookRequest) bool { return req.OwnerID == ownerID }), nil
}

func (r *stubRequestRepo) UpdateStatus(_ context.Context, id string, from, to domain.RequestStatus) (*domain.BookRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if req.Status != from {
		return nil, domain.ErrRequestClosed
	}
	req.Status = to
	return cloneRequest(req), nil
}

type stubQuoteRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Quote
	nextID int
}

func newStubQuoteRepo() *stubQuoteRepo {
	return &stubQuoteRepo{byID: make(map[string]*domain.Quote)}
}

func cloneQuote(q *domain.Quote) *domain.Quote {
	clone := *q
	return &clone
}

func (r *stubQuoteRepo) Create(_ context.Context, q *domain.Quote) (*domain.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	copy := cloneQuote(q)
	copy.ID = fmt.Sprintf("quote-%03d", r.nextID)
	r.byID[copy.ID] = cloneQuote(copy)
	return copy, nil
}

func (r *stubQuoteRepo) FindByID(_ context.Context, id string) (*domain.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrQuoteNotFound
	}
	return cloneQuote(q), nil
}

func (r *stubQuoteRepo) list(keep func(*domain.Quote) bool) []*domain.Quote {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Quote{}
	for _, q := range r.byID {
		if keep(q) {
			out = append(out, cloneQuote(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *stubQuoteRepo) ListByRequest(_ context.Context, requestID string) ([]*domain.Quote, error) {
	return r.list(func(q *domain.Quote) bool { return q.RequestID == requestID }), nil
}

func (r *stubQuoteRepo) ListByRequests(_ context.Context, requestIDs []string) ([]*domain.Quote, error) {
	set := make(map[string]bool, len(requestIDs))
	for _, id := range requestIDs {
		set[id] = true
	}
	return r.list(func(q *domain.Quote) bool { return set[q.RequestID] }), nil
}

func (r *stubQuoteRepo) ListByVendor(_ context.Context, vendorID string) ([]*domain.Quote, error) {
	return r.list(func(q *domain.Quote) bool { return q.VendorID == vendorID }), nil
}

func (r *stubQuoteRepo) UpdateStatus(_ context.Context, id string, from, to domain.QuoteStatus) (*domain.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrQuoteNotFound
	}
	if q.Status != from {
		return nil, domain.ErrQuoteDecided
	}
	q.Status = to
	return cloneQuote(q), nil
}

func (r *stubQuoteRepo) RejectPending(_ context.Context, requestID, exceptID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, q := range r.byID {
		if q.RequestID == requestID && q.ID != exceptID && q.Status == domain.QuotePending {
			q.Status = domain.QuoteRejected
			n++
		}
	}
	return n, nil
}

type stubRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (r *stubRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[tokenID] = ttl
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[tokenID]
	return ok, nil
}
