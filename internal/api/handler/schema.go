package handler

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bookquest/bookquest-api/internal/core/domain"
)

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=reader vendor"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type lineItemRequest struct {
	Title     string       `json:"title"     validate:"required"`
	Author    string       `json:"author"`
	ISBN      string       `json:"isbn"      validate:"omitempty,isbn"`
	Condition string       `json:"condition" validate:"omitempty,oneof=new like_new good fair"`
	Quantity  lenientInt   `json:"quantity"  swaggertype:"integer"`
	Deadline  optionalDate `json:"deadline"  swaggertype:"string" format:"date"`
	Notes     string       `json:"notes"     validate:"max=2000"`
}

type createRequestRequest struct {
	Books []lineItemRequest `json:"books" validate:"required,min=1,dive"`
}

type submitQuoteRequest struct {
	Price *float64 `json:"price" validate:"required,gte=0"`
	Notes string   `json:"notes" validate:"max=2000"`
}

type bulkLookupRequest struct {
	ISBNs []string `json:"isbns"`
}

// lenientInt accepts what a form usually sends for a count: a number, a
// numeric string, or garbage. Fractions truncate, strings contribute their
// leading integer, anything else decodes as 0.
type lenientInt int

func (n *lenientInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = 0
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*n = lenientInt(leadingInt(s))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
			return nil
		}
		*n = lenientInt(math.Trunc(f))
	}
	return nil
}

// leadingInt parses an optionally signed run of digits at the start of s.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' && end-start < 9 {
		end++
	}
	if end == start {
		return 0
	}
	v, _ := strconv.Atoi(s[:end])
	return v
}

// optionalDate accepts null, "", an RFC 3339 timestamp or a YYYY-MM-DD date.
type optionalDate struct {
	Time *time.Time
}

func (d *optionalDate) UnmarshalJSON(data []byte) error {
	d.Time = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Validation("deadline must be a date")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			d.Time = &t
			return nil
		}
	}
	return domain.Validation("deadline must be a date (YYYY-MM-DD)")
}

// --- Response types ---

type userResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      string          `json:"role"`
	Profile   *domain.Profile `json:"profile,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type requestResponse struct {
	ID        string               `json:"id"`
	OwnerID   string               `json:"owner_id"`
	Owner     *domain.UserSummary  `json:"owner,omitempty"`
	Books     []domain.LineItem    `json:"books"`
	Status    domain.RequestStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type quoteResponse struct {
	ID        string                 `json:"id"`
	RequestID string                 `json:"request_id"`
	VendorID  string                 `json:"vendor_id"`
	Vendor    *domain.UserSummary    `json:"vendor,omitempty"`
	Request   *domain.RequestSummary `json:"request,omitempty"`
	Price     float64                `json:"price"`
	Status    domain.QuoteStatus     `json:"status"`
	Notes     string                 `json:"notes,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

type requestDetailResponse struct {
	Request requestResponse `json:"request"`
	Quotes  []quoteResponse `json:"quotes"`
}
