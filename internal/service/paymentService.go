package service

import (
	"context"
	"errors"
	"fmt"

	repository "travelapp/internal/database/postgres"
	"travelapp/internal/entity"
	"travelapp/pkg/chapa"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PaymentGateway is the slice of the gateway client payments need.
type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, req chapa.InitializeRequest) (*chapa.CheckoutSession, error)
	VerifyTransaction(ctx context.Context, txRef string) (*chapa.VerifyResult, error)
}

// PaymentConfig carries gateway-independent payment settings
type PaymentConfig struct {
	Currency string
	BaseURL  string
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	gateway     PaymentGateway
	dispatcher  NotificationDispatcher
	config      PaymentConfig
	logger      *logrus.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	gateway PaymentGateway,
	dispatcher NotificationDispatcher,
	config PaymentConfig,
	logger *logrus.Logger,
) PaymentService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if config.Currency == "" {
		config.Currency = "USD"
	}
	return &paymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		dispatcher:  dispatcher,
		config:      config,
		logger:      logger,
	}
}

// InitiatePayment opens a checkout session for the booking. The payment row
// is claimed before the gateway call, so two concurrent initiations cannot
// both reach the gateway: the loser fails on the claim with a conflict.
func (s *paymentService) InitiatePayment(ctx context.Context, bookingID int64) (*PaymentSession, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusPending {
		return nil, entity.ErrInvalidStatusChange
	}

	guest, err := s.userRepo.GetByID(ctx, booking.GuestID)
	if err != nil {
		return nil, err
	}

	txRef := fmt.Sprintf("booking_%d_%s", booking.ID, uuid.NewString()[:8])

	payment := &entity.Payment{
		BookingID: booking.ID,
		Amount:    booking.TotalPrice,
		Currency:  s.config.Currency,
		TxRef:     txRef,
		Status:    entity.PaymentStatusInitiated,
	}
	if err := s.paymentRepo.CreatePending(ctx, payment); err != nil {
		return nil, err
	}

	verifyURL := fmt.Sprintf("%s/api/bookings/%d/verify_payment", s.config.BaseURL, booking.ID)

	session, err := s.gateway.InitializeTransaction(ctx, chapa.InitializeRequest{
		Amount:      fmt.Sprintf("%.2f", booking.TotalPrice),
		Currency:    s.config.Currency,
		Email:       guest.Email,
		FirstName:   guest.FirstName,
		LastName:    guest.LastName,
		TxRef:       txRef,
		CallbackURL: verifyURL,
		ReturnURL:   verifyURL,
	})
	if err != nil {
		// Release the claim so the guest can retry.
		if markErr := s.paymentRepo.UpdateStatus(ctx, payment.ID, entity.PaymentStatusFailed); markErr != nil {
			s.logger.WithFields(logrus.Fields{
				"payment_id": payment.ID,
				"error":      markErr,
			}).Error("failed to mark payment failed after gateway error")
		}
		return nil, s.mapGatewayError(err, bookingID)
	}

	if session.Ref != "" && session.Ref != txRef {
		if err := s.paymentRepo.SetGatewayRef(ctx, payment.ID, session.Ref); err != nil {
			s.logger.WithFields(logrus.Fields{
				"payment_id": payment.ID,
				"error":      err,
			}).Warn("failed to store gateway reference")
		}
	}
	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, entity.PaymentStatusPending); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"payment_id": payment.ID,
		"tx_ref":     txRef,
		"amount":     payment.Amount,
	}).Info("payment initiated")

	return &PaymentSession{
		PaymentID:   payment.ID,
		BookingID:   booking.ID,
		TxRef:       txRef,
		CheckoutURL: session.CheckoutURL,
	}, nil
}

// VerifyPayment reconciles the booking's latest payment with the gateway.
// Safe to call repeatedly: once the payment settled, further calls return
// the settled state without touching anything.
func (s *paymentService) VerifyPayment(ctx context.Context, bookingID int64) (*PaymentVerification, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.GetLatestByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if payment.Status == entity.PaymentStatusSuccess {
		return &PaymentVerification{
			BookingID:     booking.ID,
			PaymentID:     payment.ID,
			TxRef:         payment.TxRef,
			PaymentStatus: entity.PaymentStatusSuccess,
			BookingStatus: entity.BookingStatusConfirmed,
		}, nil
	}

	txRef := payment.TxRef
	if txRef == "" {
		txRef = payment.GatewayRef
	}
	if txRef == "" {
		return nil, entity.ErrMissingTxRef
	}

	result, err := s.gateway.VerifyTransaction(ctx, txRef)
	if err != nil {
		// A rejection is the gateway's verdict: the reference is unknown
		// or the charge declined, and the payment will never settle.
		// Transport trouble leaves the payment untouched so verification
		// can simply be retried.
		if errors.Is(err, chapa.ErrRejected) {
			if markErr := s.paymentRepo.UpdateStatus(ctx, payment.ID, entity.PaymentStatusFailed); markErr != nil {
				s.logger.WithFields(logrus.Fields{
					"payment_id": payment.ID,
					"error":      markErr,
				}).Error("failed to mark payment failed after gateway rejection")
			}
		}
		return nil, s.mapGatewayError(err, bookingID)
	}

	verification := &PaymentVerification{
		BookingID:     booking.ID,
		PaymentID:     payment.ID,
		TxRef:         payment.TxRef,
		BookingStatus: booking.Status,
	}

	switch result.Status {
	case chapa.StatusSuccess:
		transitioned, err := s.paymentRepo.Settle(ctx, payment.ID)
		if err != nil {
			return nil, err
		}
		verification.PaymentStatus = entity.PaymentStatusSuccess
		verification.BookingStatus = entity.BookingStatusConfirmed

		if transitioned {
			s.logger.WithFields(logrus.Fields{
				"booking_id": booking.ID,
				"payment_id": payment.ID,
			}).Info("payment settled, booking confirmed")

			if err := s.dispatcher.DispatchPaymentConfirmed(ctx, booking.ID); err != nil {
				s.logger.WithFields(logrus.Fields{
					"booking_id": booking.ID,
					"error":      err,
				}).Warn("payment confirmation email not queued")
			}
		}

	case chapa.StatusFailed:
		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, entity.PaymentStatusFailed); err != nil {
			return nil, err
		}
		verification.PaymentStatus = entity.PaymentStatusFailed

		s.logger.WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"payment_id": payment.ID,
		}).Info("payment failed at gateway")

	default:
		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, entity.PaymentStatusPending); err != nil {
			return nil, err
		}
		verification.PaymentStatus = entity.PaymentStatusPending
	}

	return verification, nil
}

func (s *paymentService) GetBookingPayment(ctx context.Context, bookingID int64) (*entity.Payment, error) {
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetLatestByBooking(ctx, bookingID)
}

func (s *paymentService) mapGatewayError(err error, bookingID int64) error {
	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"error":      err,
	}).Error("payment gateway call failed")

	if errors.Is(err, chapa.ErrRejected) {
		return entity.ErrGatewayRejected
	}
	return entity.ErrGatewayUnavailable
}
