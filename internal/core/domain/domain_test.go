package domain

import (
	"errors"
	"testing"
)

func TestRequestStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to RequestStatus
		want     bool
	}{
		{RequestOpen, RequestFulfilled, true},
		{RequestOpen, RequestCancelled, true},
		{RequestOpen, RequestOpen, false},
		{RequestCancelled, RequestOpen, false},
		{RequestFulfilled, RequestCancelled, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestQuoteStatus_CanTransitionTo(t *testing.T) {
	if !QuotePending.CanTransitionTo(QuoteAccepted) || !QuotePending.CanTransitionTo(QuoteRejected) {
		t.Fatal("pending quote must be decidable")
	}
	if QuoteAccepted.CanTransitionTo(QuoteRejected) || QuoteRejected.CanTransitionTo(QuoteAccepted) {
		t.Fatal("decided quote must be immutable")
	}
}

func TestNormalizeQuantity(t *testing.T) {
	for in, want := range map[int]int{-5: 1, 0: 1, 1: 1, 7: 7} {
		if got := NormalizeQuantity(in); got != want {
			t.Errorf("NormalizeQuantity(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestError_UnwrapsKind(t *testing.T) {
	if !errors.Is(ErrRequestClosed, ErrConflict) {
		t.Fatal("ErrRequestClosed must be a conflict")
	}
	if !errors.Is(ErrForbiddenRole, ErrValidation) {
		t.Fatal("ErrForbiddenRole must be a validation error")
	}
	if errors.Is(ErrQuoteNotFound, ErrForbidden) {
		t.Fatal("ErrQuoteNotFound must not match another kind")
	}
	if ErrCatalogMisconfigured.Error() == "" {
		t.Fatal("errors carry a message")
	}
}

func TestBookRequest_Summary(t *testing.T) {
	r := &BookRequest{
		ID:     "r1",
		Status: RequestOpen,
		Books:  []LineItem{{Title: "Dune", Author: "Herbert"}, {Title: "Emma"}},
	}
	s := r.Summary()
	if s.Title != "Dune" || s.Author != "Herbert" || s.ItemCount != 2 || s.Status != RequestOpen {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if empty := (&BookRequest{ID: "r2"}).Summary(); empty.Title != "" || empty.ItemCount != 0 {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("unexpected normalized email %q", got)
	}
}
