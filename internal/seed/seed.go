package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	repository "travelapp/internal/database/postgres"
	"travelapp/internal/entity"

	"github.com/sirupsen/logrus"
)

// Seeder fills the database with sample owners, guests, listings, bookings
// and reviews. Running it twice is safe: existing rows are reused.
type Seeder struct {
	listingRepo repository.ListingRepository
	bookingRepo repository.BookingRepository
	reviewRepo  repository.ReviewRepository
	userRepo    repository.UserRepository
	logger      *logrus.Logger
}

func NewSeeder(
	listingRepo repository.ListingRepository,
	bookingRepo repository.BookingRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	logger *logrus.Logger,
) *Seeder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Seeder{
		listingRepo: listingRepo,
		bookingRepo: bookingRepo,
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

type listingSeed struct {
	title         string
	description   string
	propertyType  entity.PropertyType
	location      string
	city          string
	country       string
	bedrooms      int
	bathrooms     int
	maxGuests     int
	pricePerNight float64
	amenities     string
	imageURL      string
}

type bookingSeed struct {
	listing  int
	checkIn  int
	checkOut int
	guests   int
	status   entity.BookingStatus
	requests string
}

type reviewSeed struct {
	title   string
	comment string
	rating  int
}

var listingSeeds = []listingSeed{
	{
		title:         "Luxury Beach Villa in Maldives",
		description:   "Beautiful beachfront villa with private pool and stunning ocean views.",
		propertyType:  entity.PropertyTypeVilla,
		location:      "South Male Atoll, Maldives",
		city:          "Male",
		country:       "Maldives",
		bedrooms:      4,
		bathrooms:     3,
		maxGuests:     10,
		pricePerNight: 500.00,
		amenities:     "Pool, WiFi, AC, TV, Kitchen, Beach Access, Private Chef",
		imageURL:      "https://images.unsplash.com/photo-1470114716159-e389f8712fda?w=400",
	},
	{
		title:         "Cozy Apartment in Paris",
		description:   "Charming 2-bedroom apartment in the heart of Paris, near Eiffel Tower.",
		propertyType:  entity.PropertyTypeApartment,
		location:      "7th Arrondissement, Paris",
		city:          "Paris",
		country:       "France",
		bedrooms:      2,
		bathrooms:     1,
		maxGuests:     4,
		pricePerNight: 150.00,
		amenities:     "WiFi, AC, TV, Kitchen, Balcony, Metro Access",
		imageURL:      "https://images.unsplash.com/photo-1502672260266-1c1ef2d93688?w=400",
	},
	{
		title:         "Modern Cabin in Swiss Alps",
		description:   "Contemporary cabin nestled in the Swiss Alps with mountain views.",
		propertyType:  entity.PropertyTypeCabin,
		location:      "Valais, Swiss Alps",
		city:          "Zermatt",
		country:       "Switzerland",
		bedrooms:      3,
		bathrooms:     2,
		maxGuests:     8,
		pricePerNight: 250.00,
		amenities:     "Fireplace, WiFi, Heating, Hot Tub, Mountain View, Sauna",
		imageURL:      "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=400",
	},
	{
		title:         "Historic Villa in Tuscany",
		description:   "Restored Renaissance villa surrounded by vineyards and olive groves.",
		propertyType:  entity.PropertyTypeVilla,
		location:      "Val d'Orcia, Tuscany",
		city:          "Siena",
		country:       "Italy",
		bedrooms:      6,
		bathrooms:     4,
		maxGuests:     12,
		pricePerNight: 400.00,
		amenities:     "Pool, Wine Cellar, Tennis Court, WiFi, Kitchen, Garden",
		imageURL:      "https://images.unsplash.com/photo-1512207736139-7c2d7a03d5b0?w=400",
	},
	{
		title:         "Beachfront Resort in Bali",
		description:   "All-inclusive beachfront resort with multiple pools and water sports.",
		propertyType:  entity.PropertyTypeResort,
		location:      "Seminyak Beach, Bali",
		city:          "Bali",
		country:       "Indonesia",
		bedrooms:      8,
		bathrooms:     5,
		maxGuests:     16,
		pricePerNight: 300.00,
		amenities:     "Multiple Pools, Beach Access, Restaurant, Spa, WiFi, Water Sports",
		imageURL:      "https://images.unsplash.com/photo-1473095169519-e21eeae34e6f?w=400",
	},
	{
		title:         "Downtown Hostel in Barcelona",
		description:   "Budget-friendly hostel in the vibrant heart of Barcelona.",
		propertyType:  entity.PropertyTypeHostel,
		location:      "Gothic Quarter, Barcelona",
		city:          "Barcelona",
		country:       "Spain",
		bedrooms:      5,
		bathrooms:     3,
		maxGuests:     20,
		pricePerNight: 50.00,
		amenities:     "WiFi, Shared Kitchen, Common Area, Tours, Bar",
		imageURL:      "https://images.unsplash.com/photo-1552321554-5fefe8c9ef14?w=400",
	},
	{
		title:         "Luxury Hotel Suite in Tokyo",
		description:   "Premium suite with city views in a 5-star hotel in Shibuya.",
		propertyType:  entity.PropertyTypeHotel,
		location:      "Shibuya, Tokyo",
		city:          "Tokyo",
		country:       "Japan",
		bedrooms:      2,
		bathrooms:     2,
		maxGuests:     4,
		pricePerNight: 350.00,
		amenities:     "Gym, Spa, Restaurant, Bar, Concierge, WiFi, City View",
		imageURL:      "https://images.unsplash.com/photo-1566073771259-6a8506099945?w=400",
	},
	{
		title:         "Countryside House in New Zealand",
		description:   "Spacious house with stunning views of rolling hills and valleys.",
		propertyType:  entity.PropertyTypeHouse,
		location:      "Waikato Region, North Island",
		city:          "Hamilton",
		country:       "New Zealand",
		bedrooms:      4,
		bathrooms:     2,
		maxGuests:     8,
		pricePerNight: 200.00,
		amenities:     "Garden, WiFi, Kitchen, Fireplace, Parking, Hiking Access",
		imageURL:      "https://images.unsplash.com/photo-1570129477492-45201b8c7e89?w=400",
	},
}

var bookingSeeds = []bookingSeed{
	{listing: 0, checkIn: 30, checkOut: 35, guests: 4, status: entity.BookingStatusConfirmed, requests: "Early check-in preferred"},
	{listing: 0, checkIn: 50, checkOut: 55, guests: 6, status: entity.BookingStatusCompleted, requests: ""},
	{listing: 1, checkIn: 15, checkOut: 20, guests: 2, status: entity.BookingStatusConfirmed, requests: "Late checkout if possible"},
	{listing: 2, checkIn: 10, checkOut: 15, guests: 4, status: entity.BookingStatusConfirmed, requests: "Quiet room"},
	{listing: 3, checkIn: 45, checkOut: 52, guests: 8, status: entity.BookingStatusCompleted, requests: ""},
	{listing: 4, checkIn: 20, checkOut: 25, guests: 10, status: entity.BookingStatusConfirmed, requests: "Early check-in preferred"},
	{listing: 5, checkIn: 5, checkOut: 8, guests: 3, status: entity.BookingStatusConfirmed, requests: ""},
	{listing: 6, checkIn: 60, checkOut: 63, guests: 2, status: entity.BookingStatusCompleted, requests: "Quiet room"},
}

var reviewSeeds = []reviewSeed{
	{
		title:   "Amazing experience!",
		comment: "The property exceeded all expectations. Beautiful location, great amenities, and fantastic hospitality. Highly recommended!",
		rating:  5,
	},
	{
		title:   "Great stay",
		comment: "Very comfortable accommodations with excellent service. Everything was clean and well-maintained. Would definitely stay again.",
		rating:  4,
	},
	{
		title:   "Perfect vacation spot",
		comment: "Could not ask for a better place to spend our holidays. The views were breathtaking and the owner was very helpful.",
		rating:  5,
	},
	{
		title:   "Good value for money",
		comment: "Decent place with good facilities. The location is convenient for exploring the area. Minor issues but overall a good stay.",
		rating:  4,
	},
}

// Run seeds users, listings, bookings and reviews
func (s *Seeder) Run(ctx context.Context) error {
	owners, err := s.seedUsers(ctx, 5, "owner")
	if err != nil {
		return err
	}
	guests, err := s.seedUsers(ctx, 10, "guest")
	if err != nil {
		return err
	}

	listings, err := s.seedListings(ctx, owners)
	if err != nil {
		return err
	}

	bookings, err := s.seedBookings(ctx, listings, guests)
	if err != nil {
		return err
	}

	if err := s.seedReviews(ctx, bookings); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"owners":   len(owners),
		"guests":   len(guests),
		"listings": len(listings),
		"bookings": len(bookings),
	}).Info("database seeding completed")

	return nil
}

func (s *Seeder) seedUsers(ctx context.Context, count int, prefix string) ([]*entity.User, error) {
	var users []*entity.User
	for i := 1; i <= count; i++ {
		email := fmt.Sprintf("%s_%d@example.com", prefix, i)

		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err == nil {
			users = append(users, existing)
			continue
		}
		if !errors.Is(err, entity.ErrUserNotFound) {
			return nil, err
		}

		user := &entity.User{
			Email:     email,
			FirstName: capitalize(prefix),
			LastName:  fmt.Sprintf("User%d", i),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}

		s.logger.WithField("email", email).Info("created user")
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedListings(ctx context.Context, owners []*entity.User) ([]*entity.Listing, error) {
	existing, err := s.listingRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byTitle := make(map[string]*entity.Listing, len(existing))
	for _, l := range existing {
		byTitle[l.Title] = l
	}

	now := time.Now().UTC()
	availableFrom := entity.NewDateOnly(now.Year(), now.Month(), now.Day())
	availableTo := entity.DateOnly{Time: availableFrom.AddDate(1, 0, 0)}

	var listings []*entity.Listing
	for i, seed := range listingSeeds {
		if l, ok := byTitle[seed.title]; ok {
			listings = append(listings, l)
			continue
		}

		imageURL := seed.imageURL
		listing := &entity.Listing{
			Title:         seed.title,
			Description:   seed.description,
			PropertyType:  seed.propertyType,
			Location:      seed.location,
			City:          seed.city,
			Country:       seed.country,
			Bedrooms:      seed.bedrooms,
			Bathrooms:     seed.bathrooms,
			MaxGuests:     seed.maxGuests,
			PricePerNight: seed.pricePerNight,
			AvailableFrom: availableFrom,
			AvailableTo:   availableTo,
			Amenities:     seed.amenities,
			OwnerID:       owners[i%len(owners)].ID,
			ImageURL:      &imageURL,
			IsActive:      true,
		}
		if err := s.listingRepo.Create(ctx, listing); err != nil {
			return nil, err
		}

		s.logger.WithField("title", listing.Title).Info("created listing")
		listings = append(listings, listing)
	}
	return listings, nil
}

func (s *Seeder) seedBookings(ctx context.Context, listings []*entity.Listing, guests []*entity.User) ([]*entity.Booking, error) {
	now := time.Now().UTC()
	today := entity.NewDateOnly(now.Year(), now.Month(), now.Day())

	var bookings []*entity.Booking
	for i, seed := range bookingSeeds {
		listing := listings[seed.listing]
		guest := guests[i%len(guests)]

		checkIn := entity.DateOnly{Time: today.AddDate(0, 0, seed.checkIn)}
		checkOut := entity.DateOnly{Time: today.AddDate(0, 0, seed.checkOut)}
		nights := checkIn.DaysUntil(checkOut)

		booking := &entity.Booking{
			ListingID:       listing.ID,
			GuestID:         guest.ID,
			CheckIn:         checkIn,
			CheckOut:        checkOut,
			NumberOfGuests:  seed.guests,
			TotalPrice:      float64(nights) * listing.PricePerNight,
			Status:          seed.status,
			SpecialRequests: seed.requests,
		}
		err := s.bookingRepo.Create(ctx, booking)
		if errors.Is(err, entity.ErrDuplicateBookingWindow) {
			continue // Already seeded
		}
		if err != nil {
			return nil, err
		}

		s.logger.WithFields(logrus.Fields{
			"listing":   listing.Title,
			"check_in":  checkIn.String(),
			"check_out": checkOut.String(),
		}).Info("created booking")
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

func (s *Seeder) seedReviews(ctx context.Context, bookings []*entity.Booking) error {
	n := 0
	for _, booking := range bookings {
		if booking.Status != entity.BookingStatusCompleted {
			continue
		}

		if _, err := s.reviewRepo.GetByBookingID(ctx, booking.ID); err == nil {
			continue
		} else if !errors.Is(err, entity.ErrReviewNotFound) {
			return err
		}

		seed := reviewSeeds[n%len(reviewSeeds)]
		review := &entity.Review{
			ListingID:  booking.ListingID,
			BookingID:  booking.ID,
			GuestID:    booking.GuestID,
			Title:      seed.title,
			Comment:    seed.comment,
			Rating:     seed.rating,
			IsVerified: true,
		}
		if err := s.reviewRepo.Create(ctx, review); err != nil {
			if errors.Is(err, entity.ErrReviewAlreadyExists) {
				continue
			}
			return err
		}
		n++

		s.logger.WithField("booking_id", booking.ID).Info("created review")
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
