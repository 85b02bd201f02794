package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookquest/bookquest-api/internal/api/metrics"
	"github.com/bookquest/bookquest-api/internal/core/domain"
	"github.com/bookquest/bookquest-api/internal/core/ports"
)

var errInvalidQuery = domain.NewError(domain.ErrValidation, "invalid search query")

// CatalogHandler exposes the ISBN lookup proxy. None of its routes need a token.
type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Book handles GET /isbn/book/:isbn.
//
// @Summary      Look up a book by ISBN
// @Tags         isbn
// @Produce      json
// @Param        isbn  path      string  true  "ISBN-10 or ISBN-13, hyphens allowed"
// @Success      200   {object}  envelope{data=ports.BookSummary}
// @Failure      400   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Failure      500   {object}  errorEnvelope
// @Failure      503   {object}  errorEnvelope
// @Failure      504   {object}  errorEnvelope
// @Router       /isbn/book/{isbn} [get]
func (h *CatalogHandler) Book(c echo.Context) error {
	start := time.Now()
	book, err := h.catalog.GetByISBN(c.Request().Context(), c.Param("isbn"))
	observe("book", start, err)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, book)
}

// Search handles GET /isbn/books/:query.
//
// @Summary      Search books
// @Tags         isbn
// @Produce      json
// @Param        query     path      string  true   "Title, author or keyword (min 2 characters)"
// @Param        page      query     int     false  "Page number"  default(1)
// @Param        pageSize  query     int     false  "Results per page (max 50)"  default(5)
// @Success      200       {object}  envelope{data=ports.SearchResult}
// @Failure      400       {object}  errorEnvelope
// @Failure      503       {object}  errorEnvelope
// @Router       /isbn/books/{query} [get]
func (h *CatalogHandler) Search(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	// Echo passes the raw segment when the path carries escapes.
	query, err := url.PathUnescape(c.Param("query"))
	if err != nil {
		return errInvalidQuery
	}

	start := time.Now()
	res, err := h.catalog.Search(c.Request().Context(), query, page, pageSize)
	observe("search", start, err)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// Bulk handles POST /isbn/books/bulk.
//
// @Summary      Look up several ISBNs
// @Tags         isbn
// @Accept       json
// @Produce      json
// @Param        body  body      bulkLookupRequest  true  "Up to 100 ISBNs"
// @Success      200   {object}  envelope{data=[]ports.BookSummary}
// @Failure      400   {object}  errorEnvelope
// @Failure      503   {object}  errorEnvelope
// @Router       /isbn/books/bulk [post]
func (h *CatalogHandler) Bulk(c echo.Context) error {
	var req bulkLookupRequest
	if err := c.Bind(&req); err != nil {
		return domain.Validation("please provide an array of ISBNs")
	}

	start := time.Now()
	books, err := h.catalog.GetByISBNs(c.Request().Context(), req.ISBNs)
	observe("bulk", start, err)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, books)
}

// Health handles GET /isbn/health.
//
// @Summary      Catalog proxy status
// @Tags         isbn
// @Produce      json
// @Success      200  {object}  envelope{data=ports.CatalogHealth}
// @Router       /isbn/health [get]
func (h *CatalogHandler) Health(c echo.Context) error {
	return respond(c, http.StatusOK, h.catalog.Health())
}

func observe(operation string, start time.Time, err error) {
	metrics.CatalogLookupDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation):
		result = "invalid"
	case errors.Is(err, domain.ErrNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.CatalogLookupsTotal.WithLabelValues(operation, result).Inc()
}
