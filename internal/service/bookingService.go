package service

import (
	"context"
	"math"
	"time"

	repository "travelapp/internal/database/postgres"
	"travelapp/internal/entity"

	"github.com/sirupsen/logrus"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	dispatcher  NotificationDispatcher
	logger      *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo repository.BookingRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	dispatcher NotificationDispatcher,
	logger *logrus.Logger,
) BookingService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &bookingService{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// CreateBooking validates a reservation against the listing and persists it.
// The duplicate check covers only the exact (listing, check_in, check_out)
// window; overlapping stays with different dates are accepted.
func (s *bookingService) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*entity.Booking, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, entity.ErrListingInactive
	}

	if _, err := s.userRepo.GetByID(ctx, req.GuestID); err != nil {
		return nil, err
	}

	if err := validateStayWindow(listing, req.CheckIn, req.CheckOut); err != nil {
		return nil, err
	}

	if req.NumberOfGuests > listing.MaxGuests {
		return nil, entity.ErrGuestCapacityExceeded
	}

	nights := req.CheckIn.DaysUntil(req.CheckOut)
	totalPrice := roundMoney(float64(nights) * listing.PricePerNight)
	if totalPrice <= 0 {
		return nil, entity.ErrInvalidTotalPrice
	}

	booking := &entity.Booking{
		ListingID:       req.ListingID,
		GuestID:         req.GuestID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		NumberOfGuests:  req.NumberOfGuests,
		TotalPrice:      totalPrice,
		Status:          entity.BookingStatusPending,
		SpecialRequests: req.SpecialRequests,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"listing_id":  booking.ListingID,
		"guest_id":    booking.GuestID,
		"total_price": booking.TotalPrice,
	}).Info("booking created")

	// Notification failures never fail the booking.
	if err := s.dispatcher.DispatchBookingCreated(ctx, booking.ID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"error":      err,
		}).Warn("booking confirmation email not queued")
	}

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*entity.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *bookingService) GetAllBookings(ctx context.Context) ([]*entity.Booking, error) {
	return s.bookingRepo.GetAll(ctx)
}

func (s *bookingService) UpdateBooking(ctx context.Context, id int64, req *UpdateBookingRequest) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only pending bookings can still be reshaped.
	if booking.Status != entity.BookingStatusPending {
		return nil, entity.ErrInvalidStatusChange
	}

	listing, err := s.listingRepo.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, err
	}

	if req.CheckIn != nil {
		booking.CheckIn = *req.CheckIn
	}
	if req.CheckOut != nil {
		booking.CheckOut = *req.CheckOut
	}
	if req.NumberOfGuests != nil {
		booking.NumberOfGuests = *req.NumberOfGuests
	}
	if req.SpecialRequests != nil {
		booking.SpecialRequests = *req.SpecialRequests
	}

	if err := validateStayWindow(listing, booking.CheckIn, booking.CheckOut); err != nil {
		return nil, err
	}
	if booking.NumberOfGuests < 1 {
		return nil, entity.ErrInvalidInput
	}
	if booking.NumberOfGuests > listing.MaxGuests {
		return nil, entity.ErrGuestCapacityExceeded
	}

	booking.TotalPrice = roundMoney(float64(booking.Nights()) * listing.PricePerNight)
	if booking.TotalPrice <= 0 {
		return nil, entity.ErrInvalidTotalPrice
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.WithField("booking_id", booking.ID).Info("booking updated")
	return booking, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, id int64) error {
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("booking_id", id).Info("booking deleted")
	return nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, id int64) (*entity.Booking, error) {
	return s.transition(ctx, id, entity.BookingStatusConfirmed)
}

func (s *bookingService) CancelBooking(ctx context.Context, id int64) (*entity.Booking, error) {
	return s.transition(ctx, id, entity.BookingStatusCancelled)
}

// transition applies a lifecycle move after checking it is legal from the
// booking's current status.
func (s *bookingService) transition(ctx context.Context, id int64, target entity.BookingStatus) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !legalTransition(booking.Status, target) {
		return nil, entity.ErrInvalidStatusChange
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}

	booking.Status = target

	s.logger.WithFields(logrus.Fields{
		"booking_id": id,
		"status":     target,
	}).Info("booking status changed")

	return booking, nil
}

// CompleteFinishedBookings sweeps confirmed bookings whose check-out date has
// passed into the completed state.
func (s *bookingService) CompleteFinishedBookings(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	today := entity.NewDateOnly(now.Year(), now.Month(), now.Day())

	count, err := s.bookingRepo.CompleteFinished(ctx, today)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.logger.WithField("count", count).Info("bookings completed")
	}
	return count, nil
}

func (s *bookingService) GetGuestBookings(ctx context.Context, guestID int64) ([]*entity.Booking, error) {
	return s.bookingRepo.GetByGuestID(ctx, guestID)
}

func (s *bookingService) GetListingBookings(ctx context.Context, listingID int64) ([]*entity.Booking, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.bookingRepo.GetByListingID(ctx, listingID)
}

func (s *bookingService) GetBookingsByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	if !entity.ValidBookingStatus(status) {
		return nil, entity.ErrInvalidInput
	}
	return s.bookingRepo.GetByStatus(ctx, status)
}

// validateStayWindow checks the stay dates are ordered and fall inside the
// listing's availability window.
func validateStayWindow(listing *entity.Listing, checkIn, checkOut entity.DateOnly) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return entity.ErrInvalidDateRange
	}
	if !checkIn.Before(checkOut.Time) {
		return entity.ErrInvalidDateRange
	}
	if checkIn.Before(listing.AvailableFrom.Time) || checkOut.After(listing.AvailableTo.Time) {
		return entity.ErrInvalidDateRange
	}
	return nil
}

func legalTransition(from, to entity.BookingStatus) bool {
	switch from {
	case entity.BookingStatusPending:
		return to == entity.BookingStatusConfirmed || to == entity.BookingStatusCancelled
	case entity.BookingStatusConfirmed:
		return to == entity.BookingStatusCancelled || to == entity.BookingStatusCompleted
	}
	return false
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
