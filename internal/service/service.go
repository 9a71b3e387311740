package service

import (
	"context"
	"time"

	"travelapp/internal/entity"
)

type ListingService interface {
	// Basic operations
	CreateListing(ctx context.Context, req *CreateListingRequest) (*entity.Listing, error)
	GetListing(ctx context.Context, id int64) (*entity.ListingDetails, error)
	GetAllListings(ctx context.Context) ([]*entity.Listing, error)
	UpdateListing(ctx context.Context, id int64, req *UpdateListingRequest) (*entity.Listing, error)
	DeleteListing(ctx context.Context, id int64) error

	// Query operations
	GetAvailableListings(ctx context.Context, from, to entity.DateOnly) ([]*entity.Listing, error)
	GetListingReviews(ctx context.Context, listingID int64) ([]*entity.Review, error)
	SearchListings(ctx context.Context, city, country string) ([]*entity.Listing, error)
}

type BookingService interface {
	// Basic operations
	CreateBooking(ctx context.Context, req *CreateBookingRequest) (*entity.Booking, error)
	GetBooking(ctx context.Context, id int64) (*entity.Booking, error)
	GetAllBookings(ctx context.Context) ([]*entity.Booking, error)
	UpdateBooking(ctx context.Context, id int64, req *UpdateBookingRequest) (*entity.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error

	// Lifecycle operations
	ConfirmBooking(ctx context.Context, id int64) (*entity.Booking, error)
	CancelBooking(ctx context.Context, id int64) (*entity.Booking, error)
	CompleteFinishedBookings(ctx context.Context) (int64, error)

	// Query operations
	GetGuestBookings(ctx context.Context, guestID int64) ([]*entity.Booking, error)
	GetListingBookings(ctx context.Context, listingID int64) ([]*entity.Booking, error)
	GetBookingsByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, req *CreateReviewRequest) (*entity.Review, error)
	GetReview(ctx context.Context, id int64) (*entity.Review, error)
	GetAllReviews(ctx context.Context) ([]*entity.Review, error)
	GetListingReviews(ctx context.Context, listingID int64) ([]*entity.Review, error)
	GetBookingReview(ctx context.Context, bookingID int64) (*entity.Review, error)
	UpdateReview(ctx context.Context, id int64, req *UpdateReviewRequest) (*entity.Review, error)
	DeleteReview(ctx context.Context, id int64) error
}

type PaymentService interface {
	// InitiatePayment opens a checkout session with the gateway for the
	// booking's total price.
	InitiatePayment(ctx context.Context, bookingID int64) (*PaymentSession, error)

	// VerifyPayment asks the gateway for the transaction's final state and
	// settles the booking when it succeeded.
	VerifyPayment(ctx context.Context, bookingID int64) (*PaymentVerification, error)

	GetBookingPayment(ctx context.Context, bookingID int64) (*entity.Payment, error)
}

type UserService interface {
	RegisterUser(ctx context.Context, req *RegisterUserRequest) (*entity.User, error)
	GetUser(ctx context.Context, id int64) (*entity.User, error)
	GetAllUsers(ctx context.Context) ([]*entity.User, error)
}

// CreateListingRequest carries data for publishing a new listing
type CreateListingRequest struct {
	Title         string              `json:"title" binding:"required,max=255"`
	Description   string              `json:"description"`
	PropertyType  entity.PropertyType `json:"property_type" binding:"required"`
	Location      string              `json:"location"`
	City          string              `json:"city" binding:"required"`
	Country       string              `json:"country" binding:"required"`
	Latitude      *float64            `json:"latitude"`
	Longitude     *float64            `json:"longitude"`
	Bedrooms      int                 `json:"bedrooms" binding:"min=0"`
	Bathrooms     int                 `json:"bathrooms" binding:"min=0"`
	MaxGuests     int                 `json:"max_guests" binding:"required,min=1"`
	PricePerNight float64             `json:"price_per_night" binding:"required,gt=0"`
	AvailableFrom entity.DateOnly     `json:"available_from" binding:"required"`
	AvailableTo   entity.DateOnly     `json:"available_to" binding:"required"`
	Amenities     string              `json:"amenities"`
	OwnerID       int64               `json:"owner_id" binding:"required"`
	ImageURL      *string             `json:"image_url"`
}

// UpdateListingRequest carries partial updates for a listing
type UpdateListingRequest struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	PropertyType  *entity.PropertyType `json:"property_type"`
	Location      *string              `json:"location"`
	City          *string              `json:"city"`
	Country       *string              `json:"country"`
	Latitude      *float64             `json:"latitude"`
	Longitude     *float64             `json:"longitude"`
	Bedrooms      *int                 `json:"bedrooms"`
	Bathrooms     *int                 `json:"bathrooms"`
	MaxGuests     *int                 `json:"max_guests"`
	PricePerNight *float64             `json:"price_per_night"`
	AvailableFrom *entity.DateOnly     `json:"available_from"`
	AvailableTo   *entity.DateOnly     `json:"available_to"`
	Amenities     *string              `json:"amenities"`
	ImageURL      *string              `json:"image_url"`
	IsActive      *bool                `json:"is_active"`
}

// CreateBookingRequest carries data for reserving a stay
type CreateBookingRequest struct {
	ListingID       int64           `json:"listing_id" binding:"required"`
	GuestID         int64           `json:"guest_id" binding:"required"`
	CheckIn         entity.DateOnly `json:"check_in" binding:"required"`
	CheckOut        entity.DateOnly `json:"check_out" binding:"required"`
	NumberOfGuests  int             `json:"number_of_guests" binding:"required,min=1"`
	SpecialRequests string          `json:"special_requests"`
}

// UpdateBookingRequest carries mutable booking fields
type UpdateBookingRequest struct {
	CheckIn         *entity.DateOnly `json:"check_in"`
	CheckOut        *entity.DateOnly `json:"check_out"`
	NumberOfGuests  *int             `json:"number_of_guests"`
	SpecialRequests *string          `json:"special_requests"`
}

// CreateReviewRequest carries data for reviewing a completed stay
type CreateReviewRequest struct {
	ListingID int64  `json:"listing_id" binding:"required"`
	BookingID int64  `json:"booking_id" binding:"required"`
	GuestID   int64  `json:"guest_id" binding:"required"`
	Title     string `json:"title" binding:"required,max=255"`
	Comment   string `json:"comment" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
}

// UpdateReviewRequest carries mutable review fields
type UpdateReviewRequest struct {
	Title   *string `json:"title"`
	Comment *string `json:"comment"`
	Rating  *int    `json:"rating"`
}

// RegisterUserRequest carries data for account registration
type RegisterUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PaymentSession is returned from a successful payment initiation
type PaymentSession struct {
	PaymentID   int64  `json:"payment_id"`
	BookingID   int64  `json:"booking_id"`
	TxRef       string `json:"tx_ref"`
	CheckoutURL string `json:"checkout_url"`
}

// PaymentVerification is the outcome of checking a transaction with the
// gateway
type PaymentVerification struct {
	BookingID     int64                `json:"booking_id"`
	PaymentID     int64                `json:"payment_id"`
	TxRef         string               `json:"tx_ref"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	BookingStatus entity.BookingStatus `json:"booking_status"`
}

// TaskPublisher publishes notification tasks without exposing the queue
// implementation to services
type TaskPublisher interface {
	Publish(ctx context.Context, task *Task) error
}

// Task is the service-level view of a queued notification
type Task struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	ExecuteAt  time.Time              `json:"execute_at"`
	MaxRetries int                    `json:"max_retries"`
	Attempts   int                    `json:"attempts"`
}

// Task types understood by the notification worker
const (
	TaskTypeBookingCreatedEmail   = "booking_created_email"
	TaskTypePaymentConfirmedEmail = "payment_confirmed_email"
)
