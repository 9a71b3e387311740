package transport

import (
	"errors"
	"net/http"

	"travelapp/internal/entity"

	"github.com/gin-gonic/gin"
)

// SuccessResponse is the envelope for successful responses
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope for failed responses
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), ErrorResponse{Success: false, Error: err.Error()})
}

// statusFromError maps domain errors onto HTTP status codes: validation
// failures are 400, missing entities 404, state conflicts 409, gateway
// trouble 502, anything unexpected 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, entity.ErrListingNotFound),
		errors.Is(err, entity.ErrBookingNotFound),
		errors.Is(err, entity.ErrReviewNotFound),
		errors.Is(err, entity.ErrPaymentNotFound),
		errors.Is(err, entity.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, entity.ErrDuplicateBookingWindow),
		errors.Is(err, entity.ErrReviewAlreadyExists),
		errors.Is(err, entity.ErrPaymentInProgress),
		errors.Is(err, entity.ErrPaymentAlreadySettled),
		errors.Is(err, entity.ErrUserAlreadyExists),
		errors.Is(err, entity.ErrInvalidStatusChange):
		return http.StatusConflict

	case errors.Is(err, entity.ErrGatewayUnavailable),
		errors.Is(err, entity.ErrGatewayRejected):
		return http.StatusBadGateway

	case errors.Is(err, entity.ErrInvalidDateRange),
		errors.Is(err, entity.ErrGuestCapacityExceeded),
		errors.Is(err, entity.ErrInvalidTotalPrice),
		errors.Is(err, entity.ErrInvalidRating),
		errors.Is(err, entity.ErrReviewWrongListing),
		errors.Is(err, entity.ErrInvalidAvailability),
		errors.Is(err, entity.ErrInvalidPrice),
		errors.Is(err, entity.ErrListingInactive),
		errors.Is(err, entity.ErrMissingTxRef),
		errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
