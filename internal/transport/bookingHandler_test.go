package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"travelapp/internal/entity"
	"travelapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stubs embed the service interfaces and override only the methods a test
// exercises.

type stubBookingService struct {
	service.BookingService
	createFn  func(ctx context.Context, req *service.CreateBookingRequest) (*entity.Booking, error)
	getFn     func(ctx context.Context, id int64) (*entity.Booking, error)
	confirmFn func(ctx context.Context, id int64) (*entity.Booking, error)
}

func (s *stubBookingService) CreateBooking(ctx context.Context, req *service.CreateBookingRequest) (*entity.Booking, error) {
	return s.createFn(ctx, req)
}

func (s *stubBookingService) GetBooking(ctx context.Context, id int64) (*entity.Booking, error) {
	return s.getFn(ctx, id)
}

func (s *stubBookingService) ConfirmBooking(ctx context.Context, id int64) (*entity.Booking, error) {
	return s.confirmFn(ctx, id)
}

type stubPaymentService struct {
	service.PaymentService
	initiateFn func(ctx context.Context, bookingID int64) (*service.PaymentSession, error)
	verifyFn   func(ctx context.Context, bookingID int64) (*service.PaymentVerification, error)
}

func (s *stubPaymentService) InitiatePayment(ctx context.Context, bookingID int64) (*service.PaymentSession, error) {
	return s.initiateFn(ctx, bookingID)
}

func (s *stubPaymentService) VerifyPayment(ctx context.Context, bookingID int64) (*service.PaymentVerification, error) {
	return s.verifyFn(ctx, bookingID)
}

func newBookingRouter(bookingSvc service.BookingService, paymentSvc service.PaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewBookingHandler(bookingSvc, paymentSvc)

	router.POST("/api/bookings", handler.CreateBooking)
	router.GET("/api/bookings/:id", handler.GetBooking)
	router.POST("/api/bookings/:id/confirm", handler.ConfirmBooking)
	router.POST("/api/bookings/:id/initiate_payment", handler.InitiatePayment)
	router.GET("/api/bookings/:id/verify_payment", handler.VerifyPayment)
	return router
}

func TestCreateBookingHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "created",
			body:       `{"listing_id":1,"guest_id":2,"check_in":"2026-10-01","check_out":"2026-10-05","number_of_guests":2}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed json",
			body:       `{"listing_id":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing required fields",
			body:       `{"listing_id":1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate window conflict",
			body:       `{"listing_id":1,"guest_id":2,"check_in":"2026-10-01","check_out":"2026-10-05","number_of_guests":2}`,
			serviceErr: entity.ErrDuplicateBookingWindow,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "capacity exceeded",
			body:       `{"listing_id":1,"guest_id":2,"check_in":"2026-10-01","check_out":"2026-10-05","number_of_guests":9}`,
			serviceErr: entity.ErrGuestCapacityExceeded,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown listing",
			body:       `{"listing_id":99,"guest_id":2,"check_in":"2026-10-01","check_out":"2026-10-05","number_of_guests":2}`,
			serviceErr: entity.ErrListingNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingSvc := &stubBookingService{
				createFn: func(_ context.Context, req *service.CreateBookingRequest) (*entity.Booking, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &entity.Booking{
						ID:        1,
						ListingID: req.ListingID,
						GuestID:   req.GuestID,
						CheckIn:   req.CheckIn,
						CheckOut:  req.CheckOut,
						Status:    entity.BookingStatusPending,
					}, nil
				},
			}
			router := newBookingRouter(bookingSvc, &stubPaymentService{})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestGetBookingHandler(t *testing.T) {
	bookingSvc := &stubBookingService{
		getFn: func(_ context.Context, id int64) (*entity.Booking, error) {
			if id != 5 {
				return nil, entity.ErrBookingNotFound
			}
			return &entity.Booking{
				ID:       5,
				CheckIn:  entity.NewDateOnly(2026, time.October, 1),
				CheckOut: entity.NewDateOnly(2026, time.October, 5),
				Status:   entity.BookingStatusPending,
			}, nil
		},
	}
	router := newBookingRouter(bookingSvc, &stubPaymentService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/5", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var booking entity.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, int64(5), booking.ID)
	assert.Equal(t, "2026-10-01", booking.CheckIn.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmBookingHandler(t *testing.T) {
	bookingSvc := &stubBookingService{
		confirmFn: func(_ context.Context, id int64) (*entity.Booking, error) {
			if id == 5 {
				return &entity.Booking{ID: 5, Status: entity.BookingStatusConfirmed}, nil
			}
			return nil, entity.ErrInvalidStatusChange
		},
	}
	router := newBookingRouter(bookingSvc, &stubPaymentService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings/5/confirm", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings/6/confirm", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInitiatePaymentHandler(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "checkout session returned", wantStatus: http.StatusOK},
		{name: "payment already running", serviceErr: entity.ErrPaymentInProgress, wantStatus: http.StatusConflict},
		{name: "gateway down", serviceErr: entity.ErrGatewayUnavailable, wantStatus: http.StatusBadGateway},
		{name: "booking not payable", serviceErr: entity.ErrInvalidStatusChange, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paymentSvc := &stubPaymentService{
				initiateFn: func(_ context.Context, bookingID int64) (*service.PaymentSession, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &service.PaymentSession{
						PaymentID:   1,
						BookingID:   bookingID,
						TxRef:       "booking_5_deadbeef",
						CheckoutURL: "https://checkout.test/abc",
					}, nil
				},
			}
			router := newBookingRouter(&stubBookingService{}, paymentSvc)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings/5/initiate_payment", nil))

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.serviceErr == nil {
				var session service.PaymentSession
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
				assert.Equal(t, "https://checkout.test/abc", session.CheckoutURL)
			}
		})
	}
}

func TestVerifyPaymentHandler(t *testing.T) {
	paymentSvc := &stubPaymentService{
		verifyFn: func(_ context.Context, bookingID int64) (*service.PaymentVerification, error) {
			return &service.PaymentVerification{
				BookingID:     bookingID,
				PaymentID:     1,
				TxRef:         "booking_5_deadbeef",
				PaymentStatus: entity.PaymentStatusSuccess,
				BookingStatus: entity.BookingStatusConfirmed,
			}, nil
		},
	}
	router := newBookingRouter(&stubBookingService{}, paymentSvc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/5/verify_payment", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var verification service.PaymentVerification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verification))
	assert.Equal(t, entity.PaymentStatusSuccess, verification.PaymentStatus)
	assert.Equal(t, entity.BookingStatusConfirmed, verification.BookingStatus)
}
