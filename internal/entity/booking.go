package entity

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed,
		BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

type Booking struct {
	ID              int64         `json:"id" db:"id"`
	ListingID       int64         `json:"listing_id" db:"listing_id"`
	GuestID         int64         `json:"guest_id" db:"guest_id"`
	CheckIn         DateOnly      `json:"check_in" db:"check_in"`
	CheckOut        DateOnly      `json:"check_out" db:"check_out"`
	NumberOfGuests  int           `json:"number_of_guests" db:"number_of_guests"`
	TotalPrice      float64       `json:"total_price" db:"total_price"`
	Status          BookingStatus `json:"status" db:"status"`
	SpecialRequests string        `json:"special_requests,omitempty" db:"special_requests"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// Nights returns the length of the stay in nights.
func (b *Booking) Nights() int {
	return b.CheckIn.DaysUntil(b.CheckOut)
}
