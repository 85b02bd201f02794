package domain

import "time"

// RequestStatus represents the lifecycle state of a book request.
type RequestStatus string

const (
	RequestOpen      RequestStatus = "open"
	RequestFulfilled RequestStatus = "fulfilled"
	RequestCancelled RequestStatus = "cancelled"
)

// requestTransitions defines the allowed request state machine transitions.
// Fulfilled and cancelled are terminal.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestOpen: {RequestFulfilled, RequestCancelled},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Condition is the acceptable physical condition of a requested book.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
)

// Valid reports whether c is one of the known conditions.
func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair:
		return true
	}
	return false
}

// LineItem is one requested book inside a BookRequest.
type LineItem struct {
	Title     string     `json:"title" bson:"title"`
	Author    string     `json:"author,omitempty" bson:"author,omitempty"`
	ISBN      string     `json:"isbn,omitempty" bson:"isbn,omitempty"`
	Condition Condition  `json:"condition" bson:"condition"`
	Quantity  int        `json:"quantity" bson:"quantity"`
	Deadline  *time.Time `json:"deadline,omitempty" bson:"deadline,omitempty"`
	Notes     string     `json:"notes,omitempty" bson:"notes,omitempty"`
}

// NormalizeQuantity clamps a parsed quantity to the minimum of one.
func NormalizeQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// BookRequest is a reader's solicitation for one or more books.
type BookRequest struct {
	ID        string        `json:"id"`
	OwnerID   string        `json:"owner_id"`
	Books     []LineItem    `json:"books"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// RequestSummary is the compact view of a request joined onto quotes.
type RequestSummary struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Author    string        `json:"author,omitempty"`
	ItemCount int           `json:"item_count"`
	Status    RequestStatus `json:"status"`
}

// Summary returns the compact view of r, titled after its first line item.
func (r *BookRequest) Summary() RequestSummary {
	s := RequestSummary{ID: r.ID, ItemCount: len(r.Books), Status: r.Status}
	if len(r.Books) > 0 {
		s.Title = r.Books[0].Title
		s.Author = r.Books[0].Author
	}
	return s
}
