package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bookquest/bookquest-api/internal/core/domain"
	"github.com/bookquest/bookquest-api/internal/core/ports"
)

type stubRequestService struct {
	createFn  func(ctx context.Context, in ports.CreateRequestInput) (*domain.BookRequest, error)
	listOpen  []ports.RequestView
	listMine  []*domain.BookRequest
	detail    *ports.RequestDetail
	detailErr error
	cancelFn  func(ctx context.Context, id string, caller domain.Identity) (*domain.BookRequest, error)
	fulfillFn func(ctx context.Context, id string, caller domain.Identity) (*domain.BookRequest, error)
	gotOwner  string
}

func (s *stubRequestService) Create(ctx context.Context, in ports.CreateRequestInput) (*domain.BookRequest, error) {
	return s.createFn(ctx, in)
}

func (s *stubRequestService) ListOpen(ctx context.Context) ([]ports.RequestView, error) {
	return s.listOpen, nil
}

func (s *stubRequestService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.BookRequest, error) {
	s.gotOwner = ownerID
	return s.listMine, nil
}

func (s *stubRequestService) GetWithQuotes(ctx context.Context, id string) (*ports.RequestDetail, error) {
	return s.detail, s.detailErr
}

func (s *stubRequestService) Cancel(ctx context.Context, id string, caller domain.Identity) (*domain.BookRequest, error) {
	return s.cancelFn(ctx, id, caller)
}

func (s *stubRequestService) Fulfill(ctx context.Context, id string, caller domain.Identity) (*domain.BookRequest, error) {
	return s.fulfillFn(ctx, id, caller)
}

func sampleRequest(id string, status domain.RequestStatus) *domain.BookRequest {
	return &domain.BookRequest{
		ID:      id,
		OwnerID: "reader-1",
		Books:   []domain.LineItem{{Title: "Dune", Condition: domain.ConditionGood, Quantity: 1}},
		Status:  status,
	}
}

func TestRequestHandler_Create(t *testing.T) {
	stub := &stubRequestService{
		createFn: func(ctx context.Context, in ports.CreateRequestInput) (*domain.BookRequest, error) {
			if in.OwnerID != "reader-1" || len(in.Books) != 1 {
				t.Fatalf("unexpected input: %+v", in)
			}
			b := in.Books[0]
			if b.Title != "Dune" || b.Quantity != 3 || b.ISBN != "978-0441013593" {
				t.Fatalf("unexpected line item: %+v", b)
			}
			if b.Deadline == nil || !b.Deadline.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected deadline: %v", b.Deadline)
			}
			return sampleRequest("req-1", domain.RequestOpen), nil
		},
	}

	body := `{"books":[{"title":"Dune","isbn":"978-0441013593","quantity":"3 copies","deadline":"2025-01-31"}]}`
	c, rec := newContext(http.MethodPost, "/requests", body, "reader-1", domain.RoleReader)

	if err := NewRequestHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if data := decodeBody(t, rec)["data"].(map[string]any); data["status"] != "open" {
		t.Fatalf("unexpected request: %v", data)
	}
}

func TestRequestHandler_Create_Validation(t *testing.T) {
	cases := map[string]string{
		"no books":      `{}`,
		"empty books":   `{"books":[]}`,
		"missing title": `{"books":[{"author":"Herbert"}]}`,
		"bad isbn":      `{"books":[{"title":"Dune","isbn":"12345"}]}`,
		"bad condition": `{"books":[{"title":"Dune","condition":"mint"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			stub := &stubRequestService{
				createFn: func(ctx context.Context, in ports.CreateRequestInput) (*domain.BookRequest, error) {
					t.Fatalf("service must not be called")
					return nil, nil
				},
			}
			c, _ := newContext(http.MethodPost, "/requests", body, "reader-1", domain.RoleReader)

			if err := NewRequestHandler(stub).Create(c); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRequestHandler_Create_BadDeadline(t *testing.T) {
	stub := &stubRequestService{}
	c, _ := newContext(http.MethodPost, "/requests", `{"books":[{"title":"Dune","deadline":"soon"}]}`, "reader-1", domain.RoleReader)

	if err := NewRequestHandler(stub).Create(c); err == nil {
		t.Fatal("expected bind error for an unparseable deadline")
	}
}

func TestRequestHandler_Lists(t *testing.T) {
	owner := &domain.UserSummary{ID: "reader-1", Name: "Rita"}
	stub := &stubRequestService{
		listOpen: []ports.RequestView{{Request: sampleRequest("req-2", domain.RequestOpen), Owner: owner}},
		listMine: []*domain.BookRequest{sampleRequest("req-2", domain.RequestOpen), sampleRequest("req-1", domain.RequestCancelled)},
	}
	h := NewRequestHandler(stub)

	c, rec := newContext(http.MethodGet, "/requests", "", "vendor-1", domain.RoleVendor)
	if err := h.ListOpen(c); err != nil {
		t.Fatalf("ListOpen error: %v", err)
	}
	open := decodeBody(t, rec)["data"].([]any)
	if len(open) != 1 || open[0].(map[string]any)["owner"].(map[string]any)["name"] != "Rita" {
		t.Fatalf("unexpected open list: %v", open)
	}

	c, rec = newContext(http.MethodGet, "/requests/my-requests", "", "reader-1", domain.RoleReader)
	if err := h.ListMine(c); err != nil {
		t.Fatalf("ListMine error: %v", err)
	}
	if mine := decodeBody(t, rec)["data"].([]any); len(mine) != 2 {
		t.Fatalf("expected 2 requests, got %v", mine)
	}
	if stub.gotOwner != "reader-1" {
		t.Fatalf("expected owner reader-1, got %q", stub.gotOwner)
	}
}

func TestRequestHandler_Get(t *testing.T) {
	stub := &stubRequestService{
		detail: &ports.RequestDetail{
			Request: ports.RequestView{Request: sampleRequest("req-1", domain.RequestOpen)},
			Quotes: []ports.QuoteView{{
				Quote:  &domain.Quote{ID: "quote-1", RequestID: "req-1", VendorID: "vendor-1", Price: 12.5, Status: domain.QuotePending},
				Vendor: &domain.UserSummary{ID: "vendor-1", Name: "Victor"},
			}},
		},
	}
	c, rec := newContext(http.MethodGet, "/requests/req-1", "", "reader-1", domain.RoleReader)
	c.SetParamNames("id")
	c.SetParamValues("req-1")

	if err := NewRequestHandler(stub).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	quotes := data["quotes"].([]any)
	if data["request"].(map[string]any)["id"] != "req-1" || len(quotes) != 1 {
		t.Fatalf("unexpected detail: %v", data)
	}
	if quotes[0].(map[string]any)["vendor"].(map[string]any)["name"] != "Victor" {
		t.Fatalf("expected joined vendor, got %v", quotes[0])
	}

	stub.detail, stub.detailErr = nil, domain.ErrRequestNotFound
	c, _ = newContext(http.MethodGet, "/requests/nope", "", "reader-1", domain.RoleReader)
	if err := NewRequestHandler(stub).Get(c); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRequestHandler_Get_Repeatable(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubRequestService{
		detail: &ports.RequestDetail{
			Request: ports.RequestView{Request: sampleRequest("req-1", domain.RequestOpen)},
			Quotes: []ports.QuoteView{
				{Quote: &domain.Quote{ID: "quote-b", RequestID: "req-1", VendorID: "vendor-2", Price: 9, Status: domain.QuotePending, CreatedAt: created}},
				{Quote: &domain.Quote{ID: "quote-a", RequestID: "req-1", VendorID: "vendor-1", Price: 12.5, Status: domain.QuotePending, CreatedAt: created}},
			},
		},
	}
	h := NewRequestHandler(stub)

	fetch := func() *httptest.ResponseRecorder {
		c, rec := newContext(http.MethodGet, "/requests/req-1", "", "reader-1", domain.RoleReader)
		c.SetParamNames("id")
		c.SetParamValues("req-1")
		if err := h.Get(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		return rec
	}

	first, second := fetch(), fetch()
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Fatalf("repeated reads differ:\n%s\n%s", first.Body, second.Body)
	}
	quotes := decodeBody(t, first)["data"].(map[string]any)["quotes"].([]any)
	if quotes[0].(map[string]any)["id"] != "quote-b" {
		t.Fatalf("expected stored order preserved, got %v", quotes)
	}
}

func TestRequestHandler_CancelAndFulfill(t *testing.T) {
	stub := &stubRequestService{
		cancelFn: func(ctx context.Context, id string, caller domain.Identity) (*domain.BookRequest, error) {
			if caller.UserID != "reader-1" {
				return nil, domain.ErrNotOwner
			}
			return sampleRequest(id, domain.RequestCancelled), nil
		},
		fulfillFn: func(ctx context.Context, id string, caller domain.Identity) (*domain.BookRequest, error) {
			return nil, domain.ErrRequestClosed
		},
	}
	h := NewRequestHandler(stub)

	c, rec := newContext(http.MethodPut, "/requests/req-1/cancel", "", "reader-1", domain.RoleReader)
	c.SetParamNames("id")
	c.SetParamValues("req-1")
	if err := h.Cancel(c); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if data := decodeBody(t, rec)["data"].(map[string]any); data["status"] != "cancelled" {
		t.Fatalf("unexpected status: %v", data["status"])
	}

	c, _ = newContext(http.MethodPut, "/requests/req-1/cancel", "", "reader-2", domain.RoleReader)
	if err := h.Cancel(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	c, _ = newContext(http.MethodPut, "/requests/req-1/fulfill", "", "reader-1", domain.RoleReader)
	if err := h.Fulfill(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
