package service

import (
	"context"
	"testing"
	"time"

	"travelapp/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListingService(t *testing.T) (ListingService, *fakeListingRepo, *fakeUserRepo) {
	t.Helper()

	listings := newFakeListingRepo()
	reviews := newFakeReviewRepo()
	users := newFakeUserRepo()

	owner := &entity.User{Email: "owner@example.com", FirstName: "Olga"}
	require.NoError(t, users.Create(context.Background(), owner))

	return NewListingService(listings, reviews, users, nil), listings, users
}

func validListingRequest() *CreateListingRequest {
	return &CreateListingRequest{
		Title:         "Beachfront Villa",
		PropertyType:  entity.PropertyTypeVilla,
		City:          "Male",
		Country:       "Maldives",
		MaxGuests:     4,
		PricePerNight: 250.00,
		AvailableFrom: entity.NewDateOnly(2026, time.September, 1),
		AvailableTo:   entity.NewDateOnly(2027, time.September, 1),
		OwnerID:       1,
	}
}

func TestCreateListing(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *CreateListingRequest)
		wantErr error
	}{
		{
			name:   "valid listing",
			mutate: func(req *CreateListingRequest) {},
		},
		{
			name:    "unknown property type",
			mutate:  func(req *CreateListingRequest) { req.PropertyType = "castle" },
			wantErr: entity.ErrInvalidInput,
		},
		{
			name:    "zero price",
			mutate:  func(req *CreateListingRequest) { req.PricePerNight = 0 },
			wantErr: entity.ErrInvalidPrice,
		},
		{
			name:    "negative price",
			mutate:  func(req *CreateListingRequest) { req.PricePerNight = -10 },
			wantErr: entity.ErrInvalidPrice,
		},
		{
			name: "availability window inverted",
			mutate: func(req *CreateListingRequest) {
				req.AvailableFrom = entity.NewDateOnly(2027, time.September, 1)
				req.AvailableTo = entity.NewDateOnly(2026, time.September, 1)
			},
			wantErr: entity.ErrInvalidAvailability,
		},
		{
			name:    "missing title",
			mutate:  func(req *CreateListingRequest) { req.Title = "" },
			wantErr: entity.ErrInvalidInput,
		},
		{
			name:    "missing city",
			mutate:  func(req *CreateListingRequest) { req.City = "" },
			wantErr: entity.ErrInvalidInput,
		},
		{
			name:    "unknown owner",
			mutate:  func(req *CreateListingRequest) { req.OwnerID = 999 },
			wantErr: entity.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newListingService(t)

			req := validListingRequest()
			tt.mutate(req)

			listing, err := svc.CreateListing(context.Background(), req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, listing)
			assert.True(t, listing.IsActive)
			assert.NotZero(t, listing.ID)
		})
	}
}

func TestUpdateListing(t *testing.T) {
	svc, _, _ := newListingService(t)

	listing, err := svc.CreateListing(context.Background(), validListingRequest())
	require.NoError(t, err)

	badPrice := -5.0
	_, err = svc.UpdateListing(context.Background(), listing.ID, &UpdateListingRequest{PricePerNight: &badPrice})
	require.ErrorIs(t, err, entity.ErrInvalidPrice)

	newPrice := 300.0
	inactive := false
	updated, err := svc.UpdateListing(context.Background(), listing.ID, &UpdateListingRequest{
		PricePerNight: &newPrice,
		IsActive:      &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, updated.PricePerNight)
	assert.False(t, updated.IsActive)

	// Window edits are re-validated against each other.
	badFrom := entity.NewDateOnly(2028, time.January, 1)
	_, err = svc.UpdateListing(context.Background(), listing.ID, &UpdateListingRequest{AvailableFrom: &badFrom})
	require.ErrorIs(t, err, entity.ErrInvalidAvailability)
}

func TestGetAvailableListings(t *testing.T) {
	svc, _, _ := newListingService(t)

	_, err := svc.CreateListing(context.Background(), validListingRequest())
	require.NoError(t, err)

	_, err = svc.GetAvailableListings(context.Background(),
		entity.NewDateOnly(2026, time.October, 5), entity.NewDateOnly(2026, time.October, 1))
	require.ErrorIs(t, err, entity.ErrInvalidDateRange)

	listings, err := svc.GetAvailableListings(context.Background(),
		entity.NewDateOnly(2026, time.October, 1), entity.NewDateOnly(2026, time.October, 5))
	require.NoError(t, err)
	assert.Len(t, listings, 1)

	// Outside the availability window.
	listings, err = svc.GetAvailableListings(context.Background(),
		entity.NewDateOnly(2028, time.October, 1), entity.NewDateOnly(2028, time.October, 5))
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestGetAvailableListingsExcludesBookedWindows(t *testing.T) {
	tests := []struct {
		name          string
		bookingStatus entity.BookingStatus
		wantOffered   bool
	}{
		{name: "pending booking blocks the window", bookingStatus: entity.BookingStatusPending},
		{name: "confirmed booking blocks the window", bookingStatus: entity.BookingStatusConfirmed},
		{name: "cancelled booking frees the window", bookingStatus: entity.BookingStatusCancelled, wantOffered: true},
		{name: "completed booking frees the window", bookingStatus: entity.BookingStatusCompleted, wantOffered: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, listings, _ := newListingService(t)

			bookings := newFakeBookingRepo()
			listings.bookings = bookings

			listing, err := svc.CreateListing(context.Background(), validListingRequest())
			require.NoError(t, err)

			require.NoError(t, bookings.Create(context.Background(), &entity.Booking{
				ListingID:      listing.ID,
				GuestID:        1,
				CheckIn:        entity.NewDateOnly(2026, time.October, 3),
				CheckOut:       entity.NewDateOnly(2026, time.October, 7),
				NumberOfGuests: 2,
				TotalPrice:     1000.00,
				Status:         tt.bookingStatus,
			}))

			// Overlaps the booked window.
			got, err := svc.GetAvailableListings(context.Background(),
				entity.NewDateOnly(2026, time.October, 1), entity.NewDateOnly(2026, time.October, 5))
			require.NoError(t, err)
			if tt.wantOffered {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}

			// A disjoint window is always offered.
			got, err = svc.GetAvailableListings(context.Background(),
				entity.NewDateOnly(2026, time.November, 1), entity.NewDateOnly(2026, time.November, 5))
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func TestGetListingReviewsUnknownListing(t *testing.T) {
	svc, _, _ := newListingService(t)

	_, err := svc.GetListingReviews(context.Background(), 42)
	require.ErrorIs(t, err, entity.ErrListingNotFound)
}
