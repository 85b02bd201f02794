package ports

import "context"

// BookSummary is the normalized book metadata returned by the catalog proxy.
type BookSummary struct {
	Title         string   `json:"title"`
	TitleLong     string   `json:"title_long,omitempty"`
	Authors       []string `json:"authors,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	ISBN13        string   `json:"isbn13,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"date_published,omitempty"`
	Pages         int      `json:"pages,omitempty"`
	Binding       string   `json:"binding,omitempty"`
	Language      string   `json:"language,omitempty"`
	Image         string   `json:"image,omitempty"`
	Synopsis      string   `json:"synopsis,omitempty"`
}

// SearchResult is one page of catalog search hits.
type SearchResult struct {
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Books    []BookSummary `json:"books"`
}

// CatalogClient talks to the external book-metadata provider. Implementations
// translate provider failures into domain catalog errors.
type CatalogClient interface {
	Book(ctx context.Context, isbn string) (*BookSummary, error)
	Search(ctx context.Context, query string, page, pageSize int) (*SearchResult, error)
	Books(ctx context.Context, isbns []string) ([]BookSummary, error)
}

// CatalogHealth reports the proxy state without revealing credentials.
type CatalogHealth struct {
	Configured bool   `json:"configured"`
	BaseURL    string `json:"base_url"`
	Breaker    string `json:"breaker"`
	CachedKeys int    `json:"cached_keys"`
}

// CatalogService is the catalog lookup proxy exposed to handlers.
type CatalogService interface {
	GetByISBN(ctx context.Context, isbn string) (*BookSummary, error)
	GetByISBNs(ctx context.Context, isbns []string) ([]BookSummary, error)
	Search(ctx context.Context, query string, page, pageSize int) (*SearchResult, error)
	Health() CatalogHealth
}
