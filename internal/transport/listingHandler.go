package transport

import (
	"net/http"
	"strconv"
	"time"

	"travelapp/internal/entity"
	"travelapp/internal/service"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingService service.ListingService
}

func NewListingHandler(listingService service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req service.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	listing, err := h.listingService.CreateListing(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, listing)
}

func (h *ListingHandler) GetListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid listing id"})
		return
	}

	listing, err := h.listingService.GetListing(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *ListingHandler) GetAllListings(c *gin.Context) {
	city := c.Query("city")
	country := c.Query("country")

	var (
		listings []*entity.Listing
		err      error
	)
	if city != "" || country != "" {
		listings, err = h.listingService.SearchListings(c.Request.Context(), city, country)
	} else {
		listings, err = h.listingService.GetAllListings(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listings)
}

// GetAvailableListings lists active listings bookable for ?check_in / ?check_out
func (h *ListingHandler) GetAvailableListings(c *gin.Context) {
	from, err := parseDateParam(c.Query("check_in"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid check_in date, expected YYYY-MM-DD"})
		return
	}
	to, err := parseDateParam(c.Query("check_out"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid check_out date, expected YYYY-MM-DD"})
		return
	}

	listings, err := h.listingService.GetAvailableListings(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listings)
}

func (h *ListingHandler) UpdateListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid listing id"})
		return
	}

	var req service.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	listing, err := h.listingService.UpdateListing(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *ListingHandler) DeleteListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid listing id"})
		return
	}

	if err := h.listingService.DeleteListing(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "listing deleted"})
}

func (h *ListingHandler) GetListingReviews(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid listing id"})
		return
	}

	reviews, err := h.listingService.GetListingReviews(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func parseDateParam(s string) (entity.DateOnly, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return entity.DateOnly{}, err
	}
	return entity.DateOnly{Time: t}, nil
}
