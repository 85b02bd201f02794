package catalog

import (
	"bytes"
	"encoding/json"

	"github.com/bookquest/bookquest-api/internal/core/ports"
)

// isbndbBook is the provider's book wire shape.
type isbndbBook struct {
	Title         string     `json:"title"`
	TitleLong     string     `json:"title_long"`
	ISBN          string     `json:"isbn"`
	ISBN10        string     `json:"isbn10"`
	ISBN13        string     `json:"isbn13"`
	Authors       []string   `json:"authors"`
	Publisher     string     `json:"publisher"`
	DatePublished flexString `json:"date_published"`
	Pages         int        `json:"pages"`
	Binding       string     `json:"binding"`
	Language      string     `json:"language"`
	Image         string     `json:"image"`
	Synopsis      string     `json:"synopsis"`
}

func (b isbndbBook) toSummary() ports.BookSummary {
	isbn := b.ISBN
	if isbn == "" {
		isbn = b.ISBN10
	}
	return ports.BookSummary{
		Title:         b.Title,
		TitleLong:     b.TitleLong,
		Authors:       b.Authors,
		ISBN:          isbn,
		ISBN13:        b.ISBN13,
		Publisher:     b.Publisher,
		PublishedDate: string(b.DatePublished),
		Pages:         b.Pages,
		Binding:       b.Binding,
		Language:      b.Language,
		Image:         b.Image,
		Synopsis:      b.Synopsis,
	}
}

// flexString accepts a JSON string or number; ISBNdb sends publication years
// either way.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}
