package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"travelapp/internal/entity"

	"github.com/lib/pq"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `
	id, booking_id, amount, currency, tx_ref, gateway_ref, status,
	created_at, updated_at
`

func scanPayment(row interface{ Scan(...interface{}) error }) (*entity.Payment, error) {
	var payment entity.Payment
	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Amount,
		&payment.Currency,
		&payment.TxRef,
		&payment.GatewayRef,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CreatePending claims the booking's payment slot. The booking row is locked
// FOR UPDATE so two concurrent initiations serialize here; the partial unique
// index on (booking_id) for live payments backstops anything that slips
// through.
func (r *paymentRepository) CreatePending(ctx context.Context, payment *entity.Payment) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var bookingStatus entity.BookingStatus
	query := `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, payment.BookingID).Scan(&bookingStatus)
	if err == sql.ErrNoRows {
		return entity.ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock booking: %v", err)
	}

	var activeStatus entity.PaymentStatus
	query = `
		SELECT status FROM payments
		WHERE booking_id = $1 AND status IN ('initiated', 'pending', 'success')
		LIMIT 1
	`
	err = tx.QueryRowContext(ctx, query, payment.BookingID).Scan(&activeStatus)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to check existing payments: %v", err)
	}
	if err == nil {
		if activeStatus == entity.PaymentStatusSuccess {
			return entity.ErrPaymentAlreadySettled
		}
		return entity.ErrPaymentInProgress
	}

	query = `
		INSERT INTO payments (
			booking_id, amount, currency, tx_ref, gateway_ref, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	now := time.Now()
	if payment.Status == "" {
		payment.Status = entity.PaymentStatusInitiated
	}
	err = tx.QueryRowContext(ctx, query,
		payment.BookingID,
		payment.Amount,
		payment.Currency,
		payment.TxRef,
		payment.GatewayRef,
		payment.Status,
		now,
		now,
	).Scan(&payment.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return entity.ErrPaymentInProgress
		}
		return fmt.Errorf("failed to create payment: %v", err)
	}

	payment.CreatedAt = now
	payment.UpdatedAt = now

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %v", err)
	}

	return payment, nil
}

func (r *paymentRepository) GetByTxRef(ctx context.Context, txRef string) (*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE tx_ref = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	payment, err := scanPayment(r.db.QueryRowContext(ctx, query, txRef))
	if err == sql.ErrNoRows {
		return nil, entity.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment by tx_ref: %v", err)
	}

	return payment, nil
}

func (r *paymentRepository) GetLatestByBooking(ctx context.Context, bookingID int64) (*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	payment, err := scanPayment(r.db.QueryRowContext(ctx, query, bookingID))
	if err == sql.ErrNoRows {
		return nil, entity.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest payment: %v", err)
	}

	return payment, nil
}

// UpdateStatus changes a payment's status. Settled payments are terminal and
// never move again.
func (r *paymentRepository) UpdateStatus(ctx context.Context, id int64, status entity.PaymentStatus) error {
	query := `
		UPDATE payments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status <> 'success'
	`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return entity.ErrPaymentNotFound
	}

	return nil
}

func (r *paymentRepository) SetGatewayRef(ctx context.Context, id int64, gatewayRef string) error {
	query := `UPDATE payments SET gateway_ref = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, gatewayRef, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set gateway ref: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return entity.ErrPaymentNotFound
	}

	return nil
}

// Settle marks the payment successful and confirms its booking atomically.
// The guarded UPDATE makes the call idempotent: only the first caller sees
// transitioned = true, so side effects like confirmation emails fire once.
func (r *paymentRepository) Settle(ctx context.Context, id int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var bookingID int64
	query := `
		UPDATE payments
		SET status = 'success', updated_at = $1
		WHERE id = $2 AND status <> 'success'
		RETURNING booking_id
	`
	err = tx.QueryRowContext(ctx, query, time.Now(), id).Scan(&bookingID)
	if err == sql.ErrNoRows {
		// Already settled, or no such payment. Distinguish the two.
		var exists bool
		if checkErr := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM payments WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
			return false, fmt.Errorf("failed to check payment existence: %v", checkErr)
		}
		if !exists {
			return false, entity.ErrPaymentNotFound
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to settle payment: %v", err)
	}

	query = `UPDATE bookings SET status = 'confirmed', updated_at = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, time.Now(), bookingID); err != nil {
		return false, fmt.Errorf("failed to confirm booking: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return true, nil
}
