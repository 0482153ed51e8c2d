package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nik9hil/SELLX/internal/service"
)

type ProfileHandler struct {
	svc service.ProfileService
}

func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type PurchaseResponse struct {
	Payment PaymentResponse  `json:"payment"`
	Listing *ListingResponse `json:"listing,omitempty"`
}

type ProfileResponse struct {
	User      UserResponse       `json:"user"`
	Listings  []ListingResponse  `json:"listings"`
	Purchases []PurchaseResponse `json:"purchases"`
}

func (h *ProfileHandler) Get(c echo.Context) error {
	uid := viewerID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	profile, err := h.svc.Get(c.Request().Context(), uid)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "user not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch profile"))
	}
	resp := ProfileResponse{
		User:      toUserResponse(profile.User),
		Listings:  make([]ListingResponse, 0, len(profile.Listings)),
		Purchases: make([]PurchaseResponse, 0, len(profile.Purchases)),
	}
	for i := range profile.Listings {
		resp.Listings = append(resp.Listings, toListingResponse(&profile.Listings[i]))
	}
	for _, pu := range profile.Purchases {
		row := PurchaseResponse{Payment: toPaymentResponse(&pu.Payment)}
		if pu.Listing != nil {
			lr := toListingResponse(pu.Listing)
			row.Listing = &lr
		}
		resp.Purchases = append(resp.Purchases, row)
	}
	return c.JSON(http.StatusOK, resp)
}
