package repository

import (
	"context"

	"travelapp/internal/entity"
)

type ListingRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id int64) (*entity.Listing, error)
	GetAll(ctx context.Context) ([]*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id int64) error

	// Query operations
	GetDetails(ctx context.Context, id int64) (*entity.ListingDetails, error)
	GetAvailable(ctx context.Context, from, to entity.DateOnly) ([]*entity.Listing, error)
	GetByOwnerID(ctx context.Context, ownerID int64) ([]*entity.Listing, error)
	SearchByLocation(ctx context.Context, city, country string) ([]*entity.Listing, error)

	// Aggregates
	RefreshRating(ctx context.Context, listingID int64) error
}

type BookingRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id int64) (*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error
	UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error
	Delete(ctx context.Context, id int64) error

	// Query operations
	GetAll(ctx context.Context) ([]*entity.Booking, error)
	GetByGuestID(ctx context.Context, guestID int64) ([]*entity.Booking, error)
	GetByListingID(ctx context.Context, listingID int64) ([]*entity.Booking, error)
	GetByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error)

	// Lifecycle sweep: confirmed stays whose check-out has passed
	CompleteFinished(ctx context.Context, before entity.DateOnly) (int64, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id int64) (*entity.Review, error)
	GetByListingID(ctx context.Context, listingID int64) ([]*entity.Review, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*entity.Review, error)
	GetAll(ctx context.Context) ([]*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id int64) error
}

type PaymentRepository interface {
	// CreatePending claims the booking's payment slot before any gateway
	// call is made. Fails if another live payment exists.
	CreatePending(ctx context.Context, payment *entity.Payment) error

	GetByID(ctx context.Context, id int64) (*entity.Payment, error)
	GetByTxRef(ctx context.Context, txRef string) (*entity.Payment, error)
	GetLatestByBooking(ctx context.Context, bookingID int64) (*entity.Payment, error)

	// UpdateStatus moves a payment to a non-success state. Settled payments
	// are never downgraded.
	UpdateStatus(ctx context.Context, id int64, status entity.PaymentStatus) error
	SetGatewayRef(ctx context.Context, id int64, gatewayRef string) error

	// Settle marks the payment successful and confirms the booking in one
	// transaction. Returns false when the payment was already settled.
	Settle(ctx context.Context, id int64) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetAll(ctx context.Context) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id int64) error
}
