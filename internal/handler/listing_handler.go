package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nik9hil/SELLX/internal/model"
	"github.com/nik9hil/SELLX/internal/service"
	"github.com/nik9hil/SELLX/internal/storage"
)

type ListingHandler struct {
	svc service.ListingService
}

func NewListingHandler(svc service.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

type ListingResponse struct {
	ID          uint64 `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Price       int64  `json:"price"`
	ImagePath   string `json:"imagePath,omitempty"`
	Location    string `json:"location,omitempty"`
	Status      string `json:"status"`
	SellerID    uint64 `json:"sellerId"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type ListingListResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int64             `json:"total"`
}

type CategoryCountResponse struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func toListingResponse(l *model.Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		Description: l.Description,
		Category:    l.Category,
		Subcategory: l.Subcategory,
		Price:       l.Price,
		ImagePath:   l.ImagePath,
		Location:    l.Location,
		Status:      string(l.Status),
		SellerID:    l.SellerID,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.Format(time.RFC3339),
	}
}

func viewerID(c echo.Context) uint64 {
	uid, _ := c.Get("uid").(uint64)
	return uid
}

// Create accepts the new-listing form as multipart: text fields plus the
// image file under "image".
func (h *ListingHandler) Create(c echo.Context) error {
	uid := viewerID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	price, err := strconv.ParseInt(c.FormValue("price"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid price"))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "image file is required"))
	}
	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "unreadable image file"))
	}
	defer src.Close()

	listing, err := h.svc.Create(c.Request().Context(), service.CreateListingInput{
		SellerID:    uid,
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Subcategory: c.FormValue("subcategory"),
		Price:       price,
		Location:    c.FormValue("location"),
		Image:       src,
		ImageName:   fileHeader.Filename,
	})
	if err != nil {
		if err == storage.ErrUnsupportedExtension {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "unsupported image type"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toListingResponse(listing))
}

func (h *ListingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	listing, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listing"))
	}
	return c.JSON(http.StatusOK, toListingResponse(listing))
}

// List is the browse and search surface: available listings newest first,
// optionally narrowed to one category, never including the viewer's own.
func (h *ListingHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	listings, total, err := h.svc.Browse(c.Request().Context(), viewerID(c), c.QueryParam("category"), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listings"))
	}
	resp := ListingListResponse{
		Listings: make([]ListingResponse, 0, len(listings)),
		Total:    total,
	}
	for i := range listings {
		resp.Listings = append(resp.Listings, toListingResponse(&listings[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) Categories(c echo.Context) error {
	counts, err := h.svc.CategoryCounts(c.Request().Context(), viewerID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch categories"))
	}
	resp := make([]CategoryCountResponse, 0, len(counts))
	for _, cc := range counts {
		resp = append(resp, CategoryCountResponse{Name: cc.Name, Count: cc.Count})
	}
	return c.JSON(http.StatusOK, resp)
}

type UpdateListingRequest struct {
	Description string `json:"description"`
	Subcategory string `json:"subcategory"`
	Location    string `json:"location"`
	Price       *int64 `json:"price"`
}

func (h *ListingHandler) Update(c echo.Context) error {
	uid := viewerID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req UpdateListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	listing, err := h.svc.Edit(c.Request().Context(), id, uid, service.EditListingInput{
		Description: req.Description,
		Subcategory: req.Subcategory,
		Location:    req.Location,
		Price:       req.Price,
	})
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not the owner"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) Delete(c echo.Context) error {
	uid := viewerID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id, uid); err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not the owner"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to delete listing"))
		}
	}
	return c.NoContent(http.StatusNoContent)
}
