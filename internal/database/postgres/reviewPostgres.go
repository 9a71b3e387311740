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

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `
	id, listing_id, booking_id, guest_id, title, comment, rating,
	is_verified, created_at, updated_at
`

func scanReview(row interface{ Scan(...interface{}) error }) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.ListingID,
		&review.BookingID,
		&review.GuestID,
		&review.Title,
		&review.Comment,
		&review.Rating,
		&review.IsVerified,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Create inserts a review and refreshes the listing's denormalized rating in
// the same transaction. The booking_id unique constraint enforces one review
// per booking.
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO reviews (
			listing_id, booking_id, guest_id, title, comment, rating,
			is_verified, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	now := time.Now()
	err = tx.QueryRowContext(ctx, query,
		review.ListingID,
		review.BookingID,
		review.GuestID,
		review.Title,
		review.Comment,
		review.Rating,
		review.IsVerified,
		now,
		now,
	).Scan(&review.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return entity.ErrReviewAlreadyExists
		}
		return fmt.Errorf("failed to create review: %v", err)
	}

	query = `
		UPDATE listings
		SET rating = COALESCE((SELECT AVG(rating)::float8 FROM reviews WHERE listing_id = $1), 0),
		    updated_at = $2
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, query, review.ListingID, now); err != nil {
		return fmt.Errorf("failed to refresh listing rating: %v", err)
	}

	review.CreatedAt = now
	review.UpdatedAt = now

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %v", err)
	}

	return review, nil
}

func (r *reviewRepository) GetByListingID(ctx context.Context, listingID int64) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE listing_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews by listing: %v", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

func (r *reviewRepository) GetByBookingID(ctx context.Context, bookingID int64) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE booking_id = $1`

	review, err := scanReview(r.db.QueryRowContext(ctx, query, bookingID))
	if err == sql.ErrNoRows {
		return nil, entity.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review by booking: %v", err)
	}

	return review, nil
}

func (r *reviewRepository) GetAll(ctx context.Context) ([]*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all reviews: %v", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

// Update rewrites the review text and rating, then refreshes the listing
// rating in the same transaction.
func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE reviews
		SET title = $1, comment = $2, rating = $3, updated_at = $4
		WHERE id = $5
	`

	now := time.Now()
	result, err := tx.ExecContext(ctx, query,
		review.Title,
		review.Comment,
		review.Rating,
		now,
		review.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrReviewNotFound
	}

	query = `
		UPDATE listings
		SET rating = COALESCE((SELECT AVG(rating)::float8 FROM reviews WHERE listing_id = $1), 0),
		    updated_at = $2
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, query, review.ListingID, now); err != nil {
		return fmt.Errorf("failed to refresh listing rating: %v", err)
	}

	review.UpdatedAt = now

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var listingID int64
	if err := tx.QueryRowContext(ctx, `SELECT listing_id FROM reviews WHERE id = $1`, id).Scan(&listingID); err != nil {
		if err == sql.ErrNoRows {
			return entity.ErrReviewNotFound
		}
		return fmt.Errorf("failed to get review listing: %v", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	query := `
		UPDATE listings
		SET rating = COALESCE((SELECT AVG(rating)::float8 FROM reviews WHERE listing_id = $1), 0),
		    updated_at = $2
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, query, listingID, time.Now()); err != nil {
		return fmt.Errorf("failed to refresh listing rating: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func collectReviews(rows *sql.Rows) ([]*entity.Review, error) {
	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %v", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %v", err)
	}

	return reviews, nil
}
