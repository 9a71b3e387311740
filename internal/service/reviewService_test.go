package service

import (
	"context"
	"testing"
	"time"

	"travelapp/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	reviews  *fakeReviewRepo
	bookings *fakeBookingRepo
	listings *fakeListingRepo
	service  ReviewService
	listing  *entity.Listing
	booking  *entity.Booking
}

func newReviewFixture(t *testing.T, bookingStatus entity.BookingStatus) *reviewFixture {
	t.Helper()

	reviews := newFakeReviewRepo()
	bookings := newFakeBookingRepo()
	listings := newFakeListingRepo()

	listing := &entity.Listing{
		Title:         "Mountain Cabin",
		PropertyType:  entity.PropertyTypeCabin,
		City:          "Aspen",
		Country:       "USA",
		MaxGuests:     4,
		PricePerNight: 150.00,
		AvailableFrom: entity.NewDateOnly(2026, time.January, 1),
		AvailableTo:   entity.NewDateOnly(2027, time.January, 1),
		OwnerID:       1,
		IsActive:      true,
	}
	require.NoError(t, listings.Create(context.Background(), listing))

	booking := &entity.Booking{
		ListingID:      listing.ID,
		GuestID:        7,
		CheckIn:        entity.NewDateOnly(2026, time.March, 1),
		CheckOut:       entity.NewDateOnly(2026, time.March, 5),
		NumberOfGuests: 2,
		TotalPrice:     600.00,
		Status:         bookingStatus,
	}
	require.NoError(t, bookings.Create(context.Background(), booking))

	return &reviewFixture{
		reviews:  reviews,
		bookings: bookings,
		listings: listings,
		service:  NewReviewService(reviews, bookings, listings, nil),
		listing:  listing,
		booking:  booking,
	}
}

func TestCreateReview(t *testing.T) {
	tests := []struct {
		name          string
		bookingStatus entity.BookingStatus
		request       func(f *reviewFixture) *CreateReviewRequest
		wantErr       error
		wantVerified  bool
	}{
		{
			name:          "completed stay gives verified review",
			bookingStatus: entity.BookingStatusCompleted,
			request: func(f *reviewFixture) *CreateReviewRequest {
				return &CreateReviewRequest{
					ListingID: f.listing.ID,
					BookingID: f.booking.ID,
					GuestID:   f.booking.GuestID,
					Title:     "Great stay",
					Comment:   "Would come back",
					Rating:    5,
				}
			},
			wantVerified: true,
		},
		{
			name:          "confirmed stay gives verified review",
			bookingStatus: entity.BookingStatusConfirmed,
			request: func(f *reviewFixture) *CreateReviewRequest {
				return &CreateReviewRequest{
					ListingID: f.listing.ID,
					BookingID: f.booking.ID,
					GuestID:   f.booking.GuestID,
					Title:     "Nice place",
					Comment:   "Clean and quiet",
					Rating:    4,
				}
			},
			wantVerified: true,
		},
		{
			name:          "pending stay gives unverified review",
			bookingStatus: entity.BookingStatusPending,
			request: func(f *reviewFixture) *CreateReviewRequest {
				return &CreateReviewRequest{
					ListingID: f.listing.ID,
					BookingID: f.booking.ID,
					GuestID:   f.booking.GuestID,
					Title:     "Looks good",
					Comment:   "Booking not confirmed yet",
					Rating:    3,
				}
			},
			wantVerified: false,
		},
		{
			name:          "rating below range",
			bookingStatus: entity.BookingStatusCompleted,
			request: func(f *reviewFixture) *CreateReviewRequest {
				return &CreateReviewRequest{
					ListingID: f.listing.ID,
					BookingID: f.booking.ID,
					GuestID:   f.booking.GuestID,
					Title:     "Bad",
					Comment:   "Zero stars",
					Rating:    0,
				}
			},
			wantErr: entity.ErrInvalidRating,
		},
		{
			name:          "rating above range",
			bookingStatus: entity.BookingStatusCompleted,
			request: func(f *reviewFixture) *CreateReviewRequest {
				return &CreateReviewRequest{
					ListingID: f.listing.ID,
					BookingID: f.booking.ID,
					GuestID:   f.booking.GuestID,
					Title:     "Amazing",
					Comment:   "Six stars",
					Rating:    6,
				}
			},
			wantErr: entity.ErrInvalidRating,
		},
		{
			name:          "missing title",
			bookingStatus: entity.BookingStatusCompleted,
			request: func(f *reviewFixture) *CreateReviewRequest {
				return &CreateReviewRequest{
					ListingID: f.listing.ID,
					BookingID: f.booking.ID,
					GuestID:   f.booking.GuestID,
					Comment:   "No headline",
					Rating:    4,
				}
			},
			wantErr: entity.ErrInvalidInput,
		},
		{
			name:          "booking for another listing",
			bookingStatus: entity.BookingStatusCompleted,
			request: func(f *reviewFixture) *CreateReviewRequest {
				other := &entity.Listing{
					Title:         "City Loft",
					PropertyType:  entity.PropertyTypeApartment,
					City:          "Denver",
					Country:       "USA",
					MaxGuests:     2,
					PricePerNight: 90.00,
					AvailableFrom: entity.NewDateOnly(2026, time.January, 1),
					AvailableTo:   entity.NewDateOnly(2027, time.January, 1),
					OwnerID:       1,
					IsActive:      true,
				}
				require.NoError(t, f.listings.Create(context.Background(), other))
				return &CreateReviewRequest{
					ListingID: other.ID,
					BookingID: f.booking.ID,
					GuestID:   f.booking.GuestID,
					Title:     "Wrong place",
					Comment:   "Stayed elsewhere",
					Rating:    4,
				}
			},
			wantErr: entity.ErrReviewWrongListing,
		},
		{
			name:          "reviewer is not the guest",
			bookingStatus: entity.BookingStatusCompleted,
			request: func(f *reviewFixture) *CreateReviewRequest {
				return &CreateReviewRequest{
					ListingID: f.listing.ID,
					BookingID: f.booking.ID,
					GuestID:   999,
					Title:     "Not my stay",
					Comment:   "Heard it was nice",
					Rating:    4,
				}
			},
			wantErr: entity.ErrInvalidInput,
		},
		{
			name:          "unknown booking",
			bookingStatus: entity.BookingStatusCompleted,
			request: func(f *reviewFixture) *CreateReviewRequest {
				return &CreateReviewRequest{
					ListingID: f.listing.ID,
					BookingID: 999,
					GuestID:   f.booking.GuestID,
					Title:     "Ghost booking",
					Comment:   "Never happened",
					Rating:    4,
				}
			},
			wantErr: entity.ErrBookingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture(t, tt.bookingStatus)

			review, err := f.service.CreateReview(context.Background(), tt.request(f))

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, review)
			assert.Equal(t, tt.wantVerified, review.IsVerified)
		})
	}
}

func TestCreateReviewOncePerBooking(t *testing.T) {
	f := newReviewFixture(t, entity.BookingStatusCompleted)

	req := &CreateReviewRequest{
		ListingID: f.listing.ID,
		BookingID: f.booking.ID,
		GuestID:   f.booking.GuestID,
		Title:     "Great stay",
		Comment:   "Would come back",
		Rating:    5,
	}

	_, err := f.service.CreateReview(context.Background(), req)
	require.NoError(t, err)

	_, err = f.service.CreateReview(context.Background(), req)
	require.ErrorIs(t, err, entity.ErrReviewAlreadyExists)
}

func TestGetBookingReview(t *testing.T) {
	f := newReviewFixture(t, entity.BookingStatusCompleted)

	_, err := f.service.GetBookingReview(context.Background(), f.booking.ID)
	require.ErrorIs(t, err, entity.ErrReviewNotFound)

	created, err := f.service.CreateReview(context.Background(), &CreateReviewRequest{
		ListingID: f.listing.ID,
		BookingID: f.booking.ID,
		GuestID:   f.booking.GuestID,
		Title:     "Great stay",
		Comment:   "Would come back",
		Rating:    5,
	})
	require.NoError(t, err)

	review, err := f.service.GetBookingReview(context.Background(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, review.ID)

	_, err = f.service.GetBookingReview(context.Background(), 999)
	require.ErrorIs(t, err, entity.ErrBookingNotFound)
}

func TestUpdateReview(t *testing.T) {
	f := newReviewFixture(t, entity.BookingStatusCompleted)

	review, err := f.service.CreateReview(context.Background(), &CreateReviewRequest{
		ListingID: f.listing.ID,
		BookingID: f.booking.ID,
		GuestID:   f.booking.GuestID,
		Title:     "Great stay",
		Comment:   "Would come back",
		Rating:    5,
	})
	require.NoError(t, err)

	badRating := 9
	_, err = f.service.UpdateReview(context.Background(), review.ID, &UpdateReviewRequest{Rating: &badRating})
	require.ErrorIs(t, err, entity.ErrInvalidRating)

	newRating := 3
	newComment := "Second visit was noisier"
	updated, err := f.service.UpdateReview(context.Background(), review.ID, &UpdateReviewRequest{
		Rating:  &newRating,
		Comment: &newComment,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Rating)
	assert.Equal(t, "Second visit was noisier", updated.Comment)
	assert.Equal(t, "Great stay", updated.Title)
}
