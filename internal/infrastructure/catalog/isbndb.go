// Package catalog implements the ISBNdb book-metadata client behind the
// catalog lookup proxy.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookquest/bookquest-api/internal/core/domain"
	"github.com/bookquest/bookquest-api/internal/core/ports"
)

const (
	DefaultBaseURL = "https://api2.isbndb.com"
	defaultTimeout = 10 * time.Second
	// Upstream bodies are only logged, never relayed; cap what is read.
	maxErrorBody       = 4 << 10
	maxUpstreamMessage = 200
)

var _ ports.CatalogClient = (*Client)(nil)

// Config holds the provider endpoint and credentials.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client calls the ISBNdb REST API and translates its failures into domain
// catalog errors. The API key never leaves this type.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	log     zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    newHTTPClient(timeout),
		baseURL: base,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		timeout: timeout,
		log:     log,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Configured() bool { return c.apiKey != "" }

func (c *Client) Book(ctx context.Context, isbn string) (*ports.BookSummary, error) {
	var body struct {
		Book isbndbBook `json:"book"`
	}
	if err := c.do(ctx, http.MethodGet, "/book/"+url.PathEscape(isbn), nil, nil, &body); err != nil {
		return nil, err
	}
	b := body.Book.toSummary()
	return &b, nil
}

func (c *Client) Search(ctx context.Context, query string, page, pageSize int) (*ports.SearchResult, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))

	var body struct {
		Total int          `json:"total"`
		Books []isbndbBook `json:"books"`
	}
	err := c.do(ctx, http.MethodGet, "/books/"+url.PathEscape(query), params, nil, &body)
	if errors.Is(err, domain.ErrCatalogNotFound) {
		// ISBNdb answers 404 for a search without hits.
		return &ports.SearchResult{Page: page, PageSize: pageSize, Books: []ports.BookSummary{}}, nil
	}
	if err != nil {
		return nil, err
	}

	res := &ports.SearchResult{Total: body.Total, Page: page, PageSize: pageSize, Books: make([]ports.BookSummary, len(body.Books))}
	for i, b := range body.Books {
		res.Books[i] = b.toSummary()
	}
	return res, nil
}

func (c *Client) Books(ctx context.Context, isbns []string) ([]ports.BookSummary, error) {
	form := url.Values{}
	form.Set("isbns", strings.Join(isbns, ","))

	var body struct {
		Data []isbndbBook `json:"data"`
	}
	err := c.do(ctx, http.MethodPost, "/books", nil, strings.NewReader(form.Encode()), &body)
	if errors.Is(err, domain.ErrCatalogNotFound) {
		return []ports.BookSummary{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]ports.BookSummary, len(body.Data))
	for i, b := range body.Data {
		out[i] = b.toSummary()
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, out any) error {
	if c.apiKey == "" {
		return domain.ErrCatalogMisconfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return domain.ErrCatalogTimeout
		}
		c.log.Warn().Err(err).Str("path", path).Msg("catalog request failed")
		return domain.NewError(domain.ErrUpstream, "catalog service is unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.log.Warn().Err(err).Str("path", path).Msg("catalog response decode failed")
			return domain.NewError(domain.ErrUpstream, "catalog service returned an invalid response")
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrCatalogNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.log.Error().Int("status", resp.StatusCode).Msg("catalog provider rejected the API key")
		return domain.ErrCatalogMisconfigured
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.ErrCatalogUnavailable
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Bytes("body", raw).Msg("catalog provider error")
		return domain.NewError(domain.ErrUpstream, c.upstreamMessage(resp.StatusCode, raw))
	}
}

// upstreamMessage extracts the provider's "message" field, trimmed to a short
// caller-safe string with the API key scrubbed.
func (c *Client) upstreamMessage(status int, raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	msg := fmt.Sprintf("catalog service error (%d)", status)
	if json.Unmarshal(raw, &body) != nil || strings.TrimSpace(body.Message) == "" {
		return msg
	}
	upstream := strings.ReplaceAll(strings.TrimSpace(body.Message), c.apiKey, "[redacted]")
	if len(upstream) > maxUpstreamMessage {
		upstream = upstream[:maxUpstreamMessage]
	}
	return msg + ": " + upstream
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
