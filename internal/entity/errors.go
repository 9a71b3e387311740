package entity

import "errors"

var (
	// Listing errors
	ErrListingNotFound     = errors.New("listing not found")
	ErrListingInactive     = errors.New("listing is not active")
	ErrInvalidAvailability = errors.New("available_from must be before available_to")
	ErrInvalidPrice        = errors.New("price per night must be positive")

	// Booking errors
	ErrBookingNotFound        = errors.New("booking not found")
	ErrInvalidDateRange       = errors.New("invalid date range")
	ErrGuestCapacityExceeded  = errors.New("guest count exceeds capacity")
	ErrDuplicateBookingWindow = errors.New("duplicate booking window")
	ErrInvalidTotalPrice      = errors.New("total price must be positive")
	ErrInvalidStatusChange    = errors.New("invalid booking status transition")

	// Review errors
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("booking already has a review")
	ErrReviewWrongListing  = errors.New("booking does not belong to listing")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")

	// Payment errors
	ErrPaymentNotFound       = errors.New("no payment found for booking")
	ErrPaymentInProgress     = errors.New("payment already in progress for booking")
	ErrPaymentAlreadySettled = errors.New("booking already has a successful payment")
	ErrMissingTxRef          = errors.New("no transaction reference available to verify")
	ErrGatewayUnavailable    = errors.New("payment gateway unavailable")
	ErrGatewayRejected       = errors.New("payment gateway rejected the request")

	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email already exists")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
