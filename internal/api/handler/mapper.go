package handler

import (
	"github.com/bookquest/bookquest-api/internal/core/domain"
	"github.com/bookquest/bookquest-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateRequestInput(req createRequestRequest, ownerID string) ports.CreateRequestInput {
	books := make([]ports.LineItemInput, len(req.Books))
	for i, b := range req.Books {
		books[i] = ports.LineItemInput{
			Title:     b.Title,
			Author:    b.Author,
			ISBN:      b.ISBN,
			Condition: b.Condition,
			Quantity:  int(b.Quantity),
			Deadline:  b.Deadline.Time,
			Notes:     b.Notes,
		}
	}
	return ports.CreateRequestInput{OwnerID: ownerID, Books: books}
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Profile:   u.Profile,
		CreatedAt: u.CreatedAt,
	}
}

func toRequestResponse(r *domain.BookRequest, owner *domain.UserSummary) requestResponse {
	return requestResponse{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Owner:     owner,
		Books:     r.Books,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toRequestResponses(reqs []*domain.BookRequest) []requestResponse {
	out := make([]requestResponse, len(reqs))
	for i, r := range reqs {
		out[i] = toRequestResponse(r, nil)
	}
	return out
}

func toRequestViewResponses(views []ports.RequestView) []requestResponse {
	out := make([]requestResponse, len(views))
	for i, v := range views {
		out[i] = toRequestResponse(v.Request, v.Owner)
	}
	return out
}

func toQuoteResponse(q *domain.Quote) quoteResponse {
	return quoteResponse{
		ID:        q.ID,
		RequestID: q.RequestID,
		VendorID:  q.VendorID,
		Price:     q.Price,
		Status:    q.Status,
		Notes:     q.Notes,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

func toQuoteViewResponses(views []ports.QuoteView) []quoteResponse {
	out := make([]quoteResponse, len(views))
	for i, v := range views {
		r := toQuoteResponse(v.Quote)
		r.Vendor = v.Vendor
		r.Request = v.Request
		out[i] = r
	}
	return out
}

func toRequestDetailResponse(d *ports.RequestDetail) requestDetailResponse {
	return requestDetailResponse{
		Request: toRequestResponse(d.Request.Request, d.Request.Owner),
		Quotes:  toQuoteViewResponses(d.Quotes),
	}
}
