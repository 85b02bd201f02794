package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookquest/bookquest-api/internal/api/metrics"
	"github.com/bookquest/bookquest-api/internal/core/ports"
)

// QuoteHandler serves the quote ledger.
type QuoteHandler struct {
	quotes ports.QuoteService
}

func NewQuoteHandler(quotes ports.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// Submit handles POST /requests/:id/quotes.
//
// @Summary      Quote on a request
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Request ID"
// @Param        body  body      submitQuoteRequest  true  "Offer"
// @Success      201   {object}  envelope{data=quoteResponse}
// @Failure      400   {object}  errorEnvelope
// @Failure      403   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Router       /requests/{id}/quotes [post]
func (h *QuoteHandler) Submit(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req submitQuoteRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	q, err := h.quotes.Submit(c.Request().Context(), id, ports.SubmitQuoteInput{
		RequestID: c.Param("id"),
		Price:     *req.Price,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}

	metrics.QuotesTotal.WithLabelValues("submitted").Inc()
	return respond(c, http.StatusCreated, toQuoteResponse(q))
}

// ListMine handles GET /quotes/my-quotes.
//
// @Summary      Quotes I submitted
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]quoteResponse}
// @Failure      401  {object}  errorEnvelope
// @Failure      403  {object}  errorEnvelope
// @Router       /quotes/my-quotes [get]
func (h *QuoteHandler) ListMine(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	views, err := h.quotes.ListByVendor(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toQuoteViewResponses(views))
}

// ListReceived handles GET /quotes/users/my-quotes.
//
// @Summary      Quotes received on my requests
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]quoteResponse}
// @Failure      401  {object}  errorEnvelope
// @Router       /quotes/users/my-quotes [get]
func (h *QuoteHandler) ListReceived(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	views, err := h.quotes.ListForOwnerRequests(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toQuoteViewResponses(views))
}

// Accept handles PUT /quotes/:id/accept.
//
// @Summary      Accept a quote
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  envelope{data=quoteResponse}
// @Failure      400  {object}  errorEnvelope
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /quotes/{id}/accept [put]
func (h *QuoteHandler) Accept(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	q, err := h.quotes.Accept(c.Request().Context(), c.Param("id"), id)
	if err != nil {
		return err
	}
	metrics.QuotesTotal.WithLabelValues("accepted").Inc()
	return respond(c, http.StatusOK, toQuoteResponse(q))
}

// Reject handles PUT /quotes/:id/reject.
//
// @Summary      Reject a quote
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  envelope{data=quoteResponse}
// @Failure      400  {object}  errorEnvelope
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /quotes/{id}/reject [put]
func (h *QuoteHandler) Reject(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	q, err := h.quotes.Reject(c.Request().Context(), c.Param("id"), id)
	if err != nil {
		return err
	}
	metrics.QuotesTotal.WithLabelValues("rejected").Inc()
	return respond(c, http.StatusOK, toQuoteResponse(q))
}
