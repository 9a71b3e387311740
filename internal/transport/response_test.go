package transport

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"travelapp/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "listing not found", err: entity.ErrListingNotFound, want: http.StatusNotFound},
		{name: "booking not found", err: entity.ErrBookingNotFound, want: http.StatusNotFound},
		{name: "payment not found", err: entity.ErrPaymentNotFound, want: http.StatusNotFound},
		{name: "duplicate window", err: entity.ErrDuplicateBookingWindow, want: http.StatusConflict},
		{name: "review exists", err: entity.ErrReviewAlreadyExists, want: http.StatusConflict},
		{name: "payment in progress", err: entity.ErrPaymentInProgress, want: http.StatusConflict},
		{name: "illegal transition", err: entity.ErrInvalidStatusChange, want: http.StatusConflict},
		{name: "gateway down", err: entity.ErrGatewayUnavailable, want: http.StatusBadGateway},
		{name: "gateway declined", err: entity.ErrGatewayRejected, want: http.StatusBadGateway},
		{name: "bad date range", err: entity.ErrInvalidDateRange, want: http.StatusBadRequest},
		{name: "too many guests", err: entity.ErrGuestCapacityExceeded, want: http.StatusBadRequest},
		{name: "bad rating", err: entity.ErrInvalidRating, want: http.StatusBadRequest},
		{name: "inactive listing", err: entity.ErrListingInactive, want: http.StatusBadRequest},
		{name: "wrapped domain error", err: fmt.Errorf("create booking: %w", entity.ErrDuplicateBookingWindow), want: http.StatusConflict},
		{name: "unexpected error", err: errors.New("pq: connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}
