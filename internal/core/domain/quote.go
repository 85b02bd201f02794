package domain

import "time"

// QuoteStatus represents the lifecycle state of a quote.
type QuoteStatus string

const (
	QuotePending  QuoteStatus = "pending"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
)

// quoteTransitions defines the allowed quote transitions. A decided quote is
// immutable.
var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuotePending: {QuoteAccepted, QuoteRejected},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s QuoteStatus) CanTransitionTo(next QuoteStatus) bool {
	for _, allowed := range quoteTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Quote is a vendor's priced offer against a specific request.
type Quote struct {
	ID        string      `json:"id"`
	VendorID  string      `json:"vendor_id"`
	RequestID string      `json:"request_id"`
	Price     float64     `json:"price"`
	Status    QuoteStatus `json:"status"`
	Notes     string      `json:"notes,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
