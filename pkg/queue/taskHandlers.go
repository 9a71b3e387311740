package queue

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	repository "travelapp/internal/database/postgres"
	"travelapp/internal/entity"
	"travelapp/pkg/mailer"
)

const handlerTimeout = 30 * time.Second

// TaskHandler executes notification tasks pulled off the queue. It loads
// fresh state from the repositories rather than trusting the task payload,
// so a booking cancelled between enqueue and execution is handled with
// current data.
type TaskHandler struct {
	bookingRepo repository.BookingRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	mail        mailer.Mailer
	baseURL     string
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(
	bookingRepo repository.BookingRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	mail mailer.Mailer,
	baseURL string,
) *TaskHandler {
	return &TaskHandler{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		mail:        mail,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// HandleTask dispatches a task to its handler by type
func (h *TaskHandler) HandleTask(task *Task) error {
	log.Printf("Processing task %s of type %s", task.ID, task.Type)

	switch task.Type {
	case TaskTypeBookingCreatedEmail:
		return h.handleBookingCreatedEmail(task)
	case TaskTypePaymentConfirmedEmail:
		return h.handlePaymentConfirmedEmail(task)
	default:
		return fmt.Errorf("unknown task type: %s", task.Type)
	}
}

type bookingEmailContext struct {
	booking *entity.Booking
	listing *entity.Listing
	guest   *entity.User
}

func (h *TaskHandler) loadBookingContext(ctx context.Context, task *Task) (*bookingEmailContext, error) {
	bookingID := task.GetInt64("booking_id")
	if bookingID == 0 {
		return nil, fmt.Errorf("validation failed: booking_id is required")
	}

	booking, err := h.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}

	listing, err := h.listingRepo.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load listing %d: %w", booking.ListingID, err)
	}

	guest, err := h.userRepo.GetByID(ctx, booking.GuestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guest %d: %w", booking.GuestID, err)
	}

	return &bookingEmailContext{
		booking: booking,
		listing: listing,
		guest:   guest,
	}, nil
}

func (h *TaskHandler) handleBookingCreatedEmail(task *Task) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	ec, err := h.loadBookingContext(ctx, task)
	if err != nil {
		return err
	}

	if ec.guest.Email == "" {
		log.Printf("Booking %d guest has no email, skipping confirmation", ec.booking.ID)
		return nil
	}

	subject := "Booking Confirmation"
	body := fmt.Sprintf(`Dear %s,

Your booking for %s has been received!

Booking Details:
- Booking ID: %d
- Check-in: %s
- Check-out: %s
- Total Price: $%.2f

View the listing: %s/api/listings/%d

Thank you for booking with us!

Best regards,
The Travel Booking Team`,
		ec.guest.DisplayName(),
		ec.listing.Title,
		ec.booking.ID,
		ec.booking.CheckIn.String(),
		ec.booking.CheckOut.String(),
		ec.booking.TotalPrice,
		h.baseURL,
		ec.listing.ID,
	)

	if err := h.mail.Send(ec.guest.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}

	log.Printf("Booking confirmation sent for booking %d", ec.booking.ID)
	return nil
}

func (h *TaskHandler) handlePaymentConfirmedEmail(task *Task) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	ec, err := h.loadBookingContext(ctx, task)
	if err != nil {
		return err
	}

	if ec.guest.Email == "" {
		log.Printf("Booking %d guest has no email, skipping payment confirmation", ec.booking.ID)
		return nil
	}

	subject := "Payment Confirmed - Your Booking is Confirmed"
	body := fmt.Sprintf(`Dear %s,

Your payment of $%.2f for %s has been processed successfully!

Booking ID: %d

Your booking is now confirmed. Check your email for further details and instructions.

Thank you for your payment!

Best regards,
The Travel Booking Team`,
		ec.guest.DisplayName(),
		ec.booking.TotalPrice,
		ec.listing.Title,
		ec.booking.ID,
	)

	if err := h.mail.Send(ec.guest.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send payment confirmation: %w", err)
	}

	log.Printf("Payment confirmation sent for booking %d", ec.booking.ID)
	return nil
}
