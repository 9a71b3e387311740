package entity

import (
	"strings"
	"time"
)

type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeCabin     PropertyType = "cabin"
	PropertyTypeResort    PropertyType = "resort"
	PropertyTypeHostel    PropertyType = "hostel"
	PropertyTypeHotel     PropertyType = "hotel"
)

func ValidPropertyType(t PropertyType) bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeVilla,
		PropertyTypeCabin, PropertyTypeResort, PropertyTypeHostel, PropertyTypeHotel:
		return true
	}
	return false
}

type Listing struct {
	ID            int64        `json:"id" db:"id"`
	Title         string       `json:"title" db:"title"`
	Description   string       `json:"description" db:"description"`
	PropertyType  PropertyType `json:"property_type" db:"property_type"`
	Location      string       `json:"location" db:"location"`
	City          string       `json:"city" db:"city"`
	Country       string       `json:"country" db:"country"`
	Latitude      *float64     `json:"latitude,omitempty" db:"latitude"`
	Longitude     *float64     `json:"longitude,omitempty" db:"longitude"`
	Bedrooms      int          `json:"bedrooms" db:"bedrooms"`
	Bathrooms     int          `json:"bathrooms" db:"bathrooms"`
	MaxGuests     int          `json:"max_guests" db:"max_guests"`
	PricePerNight float64      `json:"price_per_night" db:"price_per_night"`
	AvailableFrom DateOnly     `json:"available_from" db:"available_from"`
	AvailableTo   DateOnly     `json:"available_to" db:"available_to"`
	Amenities     string       `json:"amenities" db:"amenities"`
	OwnerID       int64        `json:"owner_id" db:"owner_id"`
	ImageURL      *string      `json:"image_url,omitempty" db:"image_url"`
	Rating        float64      `json:"rating" db:"rating"`
	IsActive      bool         `json:"is_active" db:"is_active"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`
}

// AmenitiesList splits the comma-separated amenities column into a slice.
func (l *Listing) AmenitiesList() []string {
	var out []string
	for _, a := range strings.Split(l.Amenities, ",") {
		if s := strings.TrimSpace(a); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ListingDetails is a listing enriched with review and booking aggregates.
type ListingDetails struct {
	Listing
	AmenityItems  []string `json:"amenities_list"`
	AverageRating float64  `json:"average_rating"`
	BookingCount  int      `json:"booking_count"`
}
