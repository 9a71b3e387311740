package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"travelapp/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			first_name VARCHAR(100) NOT NULL DEFAULT '',
			last_name VARCHAR(100) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS listings (
			id SERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			property_type VARCHAR(50) NOT NULL DEFAULT 'apartment',
			location VARCHAR(255) NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL DEFAULT '',
			country VARCHAR(100) NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			bedrooms INTEGER NOT NULL DEFAULT 0,
			bathrooms INTEGER NOT NULL DEFAULT 0,
			max_guests INTEGER NOT NULL DEFAULT 1,
			price_per_night NUMERIC(10,2) NOT NULL,
			available_from DATE NOT NULL,
			available_to DATE NOT NULL,
			amenities TEXT NOT NULL DEFAULT '',
			owner_id INTEGER REFERENCES users(id),
			image_url TEXT,
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id SERIAL PRIMARY KEY,
			listing_id INTEGER NOT NULL REFERENCES listings(id),
			guest_id INTEGER NOT NULL REFERENCES users(id),
			check_in DATE NOT NULL,
			check_out DATE NOT NULL,
			number_of_guests INTEGER NOT NULL,
			total_price NUMERIC(10,2) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			special_requests TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (listing_id, check_in, check_out)
		)`,

		`CREATE TABLE IF NOT EXISTS reviews (
			id SERIAL PRIMARY KEY,
			listing_id INTEGER NOT NULL REFERENCES listings(id),
			booking_id INTEGER NOT NULL UNIQUE REFERENCES bookings(id),
			guest_id INTEGER NOT NULL REFERENCES users(id),
			title VARCHAR(255) NOT NULL,
			comment TEXT NOT NULL,
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id SERIAL PRIMARY KEY,
			booking_id INTEGER NOT NULL REFERENCES bookings(id),
			amount NUMERIC(10,2) NOT NULL,
			currency VARCHAR(10) NOT NULL DEFAULT 'USD',
			tx_ref VARCHAR(255) NOT NULL,
			gateway_ref VARCHAR(255) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'initiated',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_listings_city_country ON listings(city, country)`,
		`CREATE INDEX IF NOT EXISTS idx_listings_is_active ON listings(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_guest_status ON bookings(guest_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_window ON bookings(listing_id, check_in, check_out)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_listing_rating ON reviews(listing_id, rating)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_booking ON payments(booking_id)`,

		// One live payment per booking; failed payments do not block a retry.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_payments_active_booking
			ON payments(booking_id)
			WHERE status IN ('initiated', 'pending', 'success')`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
