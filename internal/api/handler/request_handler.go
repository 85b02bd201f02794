package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookquest/bookquest-api/internal/api/metrics"
	"github.com/bookquest/bookquest-api/internal/core/ports"
)

// RequestHandler serves the book request ledger.
type RequestHandler struct {
	requests ports.RequestService
}

func NewRequestHandler(requests ports.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

// ListOpen handles GET /requests.
//
// @Summary      List open requests
// @Description  Every open request, newest first, with its owner's name and email.
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]requestResponse}
// @Failure      401  {object}  errorEnvelope
// @Router       /requests [get]
func (h *RequestHandler) ListOpen(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}
	views, err := h.requests.ListOpen(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toRequestViewResponses(views))
}

// ListMine handles GET /requests/my-requests.
//
// @Summary      List my requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]requestResponse}
// @Failure      401  {object}  errorEnvelope
// @Router       /requests/my-requests [get]
func (h *RequestHandler) ListMine(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	reqs, err := h.requests.ListByOwner(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toRequestResponses(reqs))
}

// Get handles GET /requests/:id.
//
// @Summary      Get a request with its quotes
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  envelope{data=requestDetailResponse}
// @Failure      401  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /requests/{id} [get]
func (h *RequestHandler) Get(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}
	detail, err := h.requests.GetWithQuotes(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toRequestDetailResponse(detail))
}

// Create handles POST /requests.
//
// @Summary      Open a book request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRequestRequest  true  "Books wanted"
// @Success      201   {object}  envelope{data=requestResponse}
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Router       /requests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.requests.Create(c.Request().Context(), toCreateRequestInput(req, id.UserID))
	if err != nil {
		return err
	}

	metrics.RequestsTotal.WithLabelValues("created").Inc()
	return respond(c, http.StatusCreated, toRequestResponse(created, nil))
}

// Cancel handles PUT /requests/:id/cancel.
//
// @Summary      Cancel my request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  envelope{data=requestResponse}
// @Failure      400  {object}  errorEnvelope
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /requests/{id}/cancel [put]
func (h *RequestHandler) Cancel(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	req, err := h.requests.Cancel(c.Request().Context(), c.Param("id"), id)
	if err != nil {
		return err
	}
	metrics.RequestsTotal.WithLabelValues("cancelled").Inc()
	return respond(c, http.StatusOK, toRequestResponse(req, nil))
}

// Fulfill handles PUT /requests/:id/fulfill.
//
// @Summary      Mark my request fulfilled
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  envelope{data=requestResponse}
// @Failure      400  {object}  errorEnvelope
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /requests/{id}/fulfill [put]
func (h *RequestHandler) Fulfill(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	req, err := h.requests.Fulfill(c.Request().Context(), c.Param("id"), id)
	if err != nil {
		return err
	}
	metrics.RequestsTotal.WithLabelValues("fulfilled").Inc()
	return respond(c, http.StatusOK, toRequestResponse(req, nil))
}
