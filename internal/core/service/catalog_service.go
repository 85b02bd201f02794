package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/bookquest/bookquest-api/internal/core/domain"
	"github.com/bookquest/bookquest-api/internal/core/ports"
)

const (
	minQueryLength  = 2
	defaultPageSize = 5
	maxPageSize     = 50
	maxBulkISBNs    = 100
)

// CatalogOptions configures the catalog proxy.
type CatalogOptions struct {
	// Configured is false when no provider API key is set.
	Configured bool
	BaseURL    string
	CacheTTL   time.Duration
}

// CatalogService validates lookups locally, serves repeated ISBN lookups from
// an in-process cache, and trips a circuit breaker when the provider keeps
// failing.
type CatalogService struct {
	client  ports.CatalogClient
	cache   *ttlcache.Cache[string, ports.BookSummary]
	breaker *gobreaker.CircuitBreaker
	opts    CatalogOptions
	log     zerolog.Logger
}

func NewCatalogService(client ports.CatalogClient, opts CatalogOptions, log zerolog.Logger) *CatalogService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}

	cache := ttlcache.New[string, ports.BookSummary](
		ttlcache.WithTTL[string, ports.BookSummary](opts.CacheTTL),
	)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		// Lookups that fail for caller reasons are not provider failures.
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, domain.ErrUpstream)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})

	return &CatalogService{client: client, cache: cache, breaker: breaker, opts: opts, log: log}
}

// Start runs the cache's expiry loop until Stop is called.
func (s *CatalogService) Start() { s.cache.Start() }

func (s *CatalogService) Stop() { s.cache.Stop() }

func (s *CatalogService) GetByISBN(ctx context.Context, isbn string) (*ports.BookSummary, error) {
	key, ok := domain.NormalizeISBN(isbn)
	if !ok {
		return nil, domain.ErrInvalidISBN
	}
	if item := s.cache.Get(key); item != nil {
		b := item.Value()
		return &b, nil
	}

	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.Book(ctx, key)
	})
	if err != nil {
		return nil, s.translate(err)
	}

	book := res.(*ports.BookSummary)
	s.remember(key, *book)
	return book, nil
}

// GetByISBNs looks up several books at once; cached entries skip the provider.
func (s *CatalogService) GetByISBNs(ctx context.Context, isbns []string) ([]ports.BookSummary, error) {
	if len(isbns) == 0 {
		return nil, domain.Validation("please provide an array of ISBNs")
	}
	if len(isbns) > maxBulkISBNs {
		return nil, domain.Validation("at most 100 ISBNs can be looked up at once")
	}

	keys := make([]string, 0, len(isbns))
	for _, raw := range isbns {
		key, ok := domain.NormalizeISBN(raw)
		if !ok {
			return nil, domain.Validation("ISBN " + raw + " must be 10 or 13 digits (hyphens allowed)")
		}
		keys = append(keys, key)
	}
	keys = dedupe(keys)

	books := make([]ports.BookSummary, 0, len(keys))
	var missing []string
	for _, key := range keys {
		if item := s.cache.Get(key); item != nil {
			books = append(books, item.Value())
			continue
		}
		missing = append(missing, key)
	}
	if len(missing) == 0 {
		return books, nil
	}

	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.Books(ctx, missing)
	})
	if err != nil {
		return nil, s.translate(err)
	}

	for _, b := range res.([]ports.BookSummary) {
		if b.ISBN13 != "" {
			s.remember(b.ISBN13, b)
		}
		if b.ISBN != "" {
			s.remember(b.ISBN, b)
		}
		books = append(books, b)
	}
	return books, nil
}

func (s *CatalogService) Search(ctx context.Context, query string, page, pageSize int) (*ports.SearchResult, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLength {
		return nil, domain.Validation("search query must be at least 2 characters long")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.Search(ctx, query, page, pageSize)
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return res.(*ports.SearchResult), nil
}

func (s *CatalogService) Health() ports.CatalogHealth {
	return ports.CatalogHealth{
		Configured: s.opts.Configured,
		BaseURL:    s.opts.BaseURL,
		Breaker:    s.breaker.State().String(),
		CachedKeys: s.cache.Len(),
	}
}

func (s *CatalogService) remember(key string, b ports.BookSummary) {
	s.cache.Set(key, b, ttlcache.DefaultTTL)
}

// translate maps breaker rejections to the retryable unavailable error and
// passes everything else through.
func (s *CatalogService) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.ErrCatalogUnavailable
	}
	return err
}
