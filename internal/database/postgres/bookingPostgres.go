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

const pgUniqueViolation = "23505"

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `
	id, listing_id, guest_id, check_in, check_out, number_of_guests,
	total_price, status, special_requests, created_at, updated_at
`

func scanBooking(row interface{ Scan(...interface{}) error }) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.ListingID,
		&booking.GuestID,
		&booking.CheckIn,
		&booking.CheckOut,
		&booking.NumberOfGuests,
		&booking.TotalPrice,
		&booking.Status,
		&booking.SpecialRequests,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Create inserts a booking inside a transaction. The exact duplicate window
// check runs first so concurrent requests race on the unique constraint, not
// past it.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var duplicateCount int
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE listing_id = $1 AND check_in = $2 AND check_out = $3
	`
	err = tx.QueryRowContext(ctx, query, booking.ListingID, booking.CheckIn, booking.CheckOut).Scan(&duplicateCount)
	if err != nil {
		return fmt.Errorf("failed to check duplicate window: %v", err)
	}
	if duplicateCount > 0 {
		return entity.ErrDuplicateBookingWindow
	}

	query = `
		INSERT INTO bookings (
			listing_id, guest_id, check_in, check_out, number_of_guests,
			total_price, status, special_requests, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	now := time.Now()
	err = tx.QueryRowContext(ctx, query,
		booking.ListingID,
		booking.GuestID,
		booking.CheckIn,
		booking.CheckOut,
		booking.NumberOfGuests,
		booking.TotalPrice,
		booking.Status,
		booking.SpecialRequests,
		now,
		now,
	).Scan(&booking.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return entity.ErrDuplicateBookingWindow
		}
		return fmt.Errorf("failed to create booking: %v", err)
	}

	booking.CreatedAt = now
	booking.UpdatedAt = now

	if err := tx.Commit(); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return entity.ErrDuplicateBookingWindow
		}
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %v", err)
	}

	return booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET listing_id = $1, guest_id = $2, check_in = $3, check_out = $4,
		    number_of_guests = $5, total_price = $6, status = $7,
		    special_requests = $8, updated_at = $9
		WHERE id = $10
	`

	result, err := r.db.ExecContext(ctx, query,
		booking.ListingID,
		booking.GuestID,
		booking.CheckIn,
		booking.CheckOut,
		booking.NumberOfGuests,
		booking.TotalPrice,
		booking.Status,
		booking.SpecialRequests,
		time.Now(),
		booking.ID,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return entity.ErrDuplicateBookingWindow
		}
		return fmt.Errorf("failed to update booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrBookingNotFound
	}

	booking.UpdatedAt = time.Now()
	return nil
}

// UpdateStatus updates the status of a booking
func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return entity.ErrBookingNotFound
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM bookings WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrBookingNotFound
	}

	return nil
}

func (r *bookingRepository) GetAll(ctx context.Context) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) GetByGuestID(ctx context.Context, guestID int64) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE guest_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings by guest: %v", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) GetByListingID(ctx context.Context, listingID int64) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE listing_id = $1
		ORDER BY check_in
	`

	rows, err := r.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings by listing: %v", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) GetByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings by status: %v", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// CompleteFinished moves confirmed bookings whose stay has ended to completed
// and returns the number of rows updated.
func (r *bookingRepository) CompleteFinished(ctx context.Context, before entity.DateOnly) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'completed', updated_at = $1
		WHERE status = 'confirmed' AND check_out <= $2
	`

	result, err := r.db.ExecContext(ctx, query, time.Now(), before)
	if err != nil {
		return 0, fmt.Errorf("failed to complete finished bookings: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %v", err)
	}

	return rowsAffected, nil
}

func collectBookings(rows *sql.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %v", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %v", err)
	}

	return bookings, nil
}
