package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"travelapp/internal/entity"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) ListingRepository {
	return &listingRepository{db: db}
}

const listingColumns = `
	id, title, description, property_type, location, city, country,
	latitude, longitude, bedrooms, bathrooms, max_guests, price_per_night,
	available_from, available_to, amenities, owner_id, image_url,
	rating, is_active, created_at, updated_at
`

func scanListing(row interface{ Scan(...interface{}) error }) (*entity.Listing, error) {
	var listing entity.Listing
	err := row.Scan(
		&listing.ID,
		&listing.Title,
		&listing.Description,
		&listing.PropertyType,
		&listing.Location,
		&listing.City,
		&listing.Country,
		&listing.Latitude,
		&listing.Longitude,
		&listing.Bedrooms,
		&listing.Bathrooms,
		&listing.MaxGuests,
		&listing.PricePerNight,
		&listing.AvailableFrom,
		&listing.AvailableTo,
		&listing.Amenities,
		&listing.OwnerID,
		&listing.ImageURL,
		&listing.Rating,
		&listing.IsActive,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	query := `
		INSERT INTO listings (
			title, description, property_type, location, city, country,
			latitude, longitude, bedrooms, bathrooms, max_guests, price_per_night,
			available_from, available_to, amenities, owner_id, image_url,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		listing.Title,
		listing.Description,
		listing.PropertyType,
		listing.Location,
		listing.City,
		listing.Country,
		listing.Latitude,
		listing.Longitude,
		listing.Bedrooms,
		listing.Bathrooms,
		listing.MaxGuests,
		listing.PricePerNight,
		listing.AvailableFrom,
		listing.AvailableTo,
		listing.Amenities,
		listing.OwnerID,
		listing.ImageURL,
		listing.IsActive,
		now,
		now,
	).Scan(&listing.ID)

	if err != nil {
		return fmt.Errorf("failed to create listing: %v", err)
	}

	listing.CreatedAt = now
	listing.UpdatedAt = now
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	listing, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %v", err)
	}

	return listing, nil
}

// GetDetails returns a listing joined with its review average and booking count
func (r *listingRepository) GetDetails(ctx context.Context, id int64) (*entity.ListingDetails, error) {
	query := `
		SELECT ` + listingColumns + `,
			COALESCE((SELECT AVG(rating)::float8 FROM reviews WHERE listing_id = listings.id), 0) as average_rating,
			(SELECT COUNT(*) FROM bookings WHERE listing_id = listings.id AND status IN ('confirmed', 'completed')) as booking_count
		FROM listings
		WHERE id = $1
	`

	var details entity.ListingDetails
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&details.ID,
		&details.Title,
		&details.Description,
		&details.PropertyType,
		&details.Location,
		&details.City,
		&details.Country,
		&details.Latitude,
		&details.Longitude,
		&details.Bedrooms,
		&details.Bathrooms,
		&details.MaxGuests,
		&details.PricePerNight,
		&details.AvailableFrom,
		&details.AvailableTo,
		&details.Amenities,
		&details.OwnerID,
		&details.ImageURL,
		&details.Rating,
		&details.IsActive,
		&details.CreatedAt,
		&details.UpdatedAt,
		&details.AverageRating,
		&details.BookingCount,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing details: %v", err)
	}

	details.AmenityItems = details.AmenitiesList()
	return &details, nil
}

func (r *listingRepository) GetAll(ctx context.Context) ([]*entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %v", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

// GetAvailable returns active listings whose availability window covers the
// requested range and that have no pending or confirmed booking overlapping
// it.
func (r *listingRepository) GetAvailable(ctx context.Context, from, to entity.DateOnly) ([]*entity.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE is_active = TRUE
		  AND available_from <= $1
		  AND available_to >= $2
		  AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.listing_id = listings.id
			  AND b.status IN ('pending', 'confirmed')
			  AND b.check_in < $2
			  AND b.check_out > $1
		  )
		ORDER BY price_per_night
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query available listings: %v", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

func (r *listingRepository) GetByOwnerID(ctx context.Context, ownerID int64) ([]*entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings by owner: %v", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

func (r *listingRepository) SearchByLocation(ctx context.Context, city, country string) ([]*entity.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE is_active = TRUE
		  AND ($1 = '' OR city ILIKE $1)
		  AND ($2 = '' OR country ILIKE $2)
		ORDER BY rating DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, city, country)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %v", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

func (r *listingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	query := `
		UPDATE listings
		SET title = $1, description = $2, property_type = $3, location = $4,
		    city = $5, country = $6, latitude = $7, longitude = $8,
		    bedrooms = $9, bathrooms = $10, max_guests = $11, price_per_night = $12,
		    available_from = $13, available_to = $14, amenities = $15,
		    image_url = $16, is_active = $17, updated_at = $18
		WHERE id = $19
	`

	result, err := r.db.ExecContext(ctx, query,
		listing.Title,
		listing.Description,
		listing.PropertyType,
		listing.Location,
		listing.City,
		listing.Country,
		listing.Latitude,
		listing.Longitude,
		listing.Bedrooms,
		listing.Bathrooms,
		listing.MaxGuests,
		listing.PricePerNight,
		listing.AvailableFrom,
		listing.AvailableTo,
		listing.Amenities,
		listing.ImageURL,
		listing.IsActive,
		time.Now(),
		listing.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrListingNotFound
	}

	listing.UpdatedAt = time.Now()
	return nil
}

func (r *listingRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM listings WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrListingNotFound
	}

	return nil
}

// RefreshRating recomputes the denormalized rating column from reviews
func (r *listingRepository) RefreshRating(ctx context.Context, listingID int64) error {
	query := `
		UPDATE listings
		SET rating = COALESCE((SELECT AVG(rating)::float8 FROM reviews WHERE listing_id = $1), 0),
		    updated_at = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, listingID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to refresh listing rating: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return entity.ErrListingNotFound
	}

	return nil
}

func collectListings(rows *sql.Rows) ([]*entity.Listing, error) {
	var listings []*entity.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %v", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %v", err)
	}

	return listings, nil
}
