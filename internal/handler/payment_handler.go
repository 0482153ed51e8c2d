package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nik9hil/SELLX/internal/model"
	"github.com/nik9hil/SELLX/internal/service"
)

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type PayRequest struct {
	CardNumber string `json:"cardNumber"`
	CardExpiry string `json:"cardExpiry"`
	CVV        string `json:"cvv"`
	CardOwner  string `json:"cardOwner"`
}

type PaymentResponse struct {
	ID        uint64 `json:"id"`
	Reference string `json:"reference"`
	ListingID uint64 `json:"listingId"`
	Price     int64  `json:"price"`
	PayerID   uint64 `json:"payerId"`
	CreatedAt string `json:"createdAt"`
}

func toPaymentResponse(p *model.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		Reference: p.Reference,
		ListingID: p.ListingID,
		Price:     p.Price,
		PayerID:   p.PayerID,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func (h *PaymentHandler) Pay(c echo.Context) error {
	uid := viewerID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	var req PayRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	p, err := h.svc.Pay(c.Request().Context(), listingID, uid, service.CardInput{
		Number: req.CardNumber,
		Expiry: req.CardExpiry,
		CVV:    req.CVV,
		Owner:  req.CardOwner,
	})
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		case service.ErrAlreadySold:
			return c.JSON(http.StatusConflict, NewErrorResponse("already_sold", "listing is no longer available"))
		case service.ErrOwnListing:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("own_listing", err.Error()))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, toPaymentResponse(p))
}

func (h *PaymentHandler) GetByListing(c echo.Context) error {
	uid := viewerID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	p, err := h.svc.GetByListing(c.Request().Context(), listingID, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "payment not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch payment"))
		}
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}
