package entity

import "time"

type Review struct {
	ID         int64     `json:"id" db:"id"`
	ListingID  int64     `json:"listing_id" db:"listing_id"`
	BookingID  int64     `json:"booking_id" db:"booking_id"`
	GuestID    int64     `json:"guest_id" db:"guest_id"`
	Title      string    `json:"title" db:"title"`
	Comment    string    `json:"comment" db:"comment"`
	Rating     int       `json:"rating" db:"rating"`
	IsVerified bool      `json:"is_verified" db:"is_verified"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
