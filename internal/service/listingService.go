package service

import (
	"context"

	repository "travelapp/internal/database/postgres"
	"travelapp/internal/entity"

	"github.com/sirupsen/logrus"
)

type listingService struct {
	listingRepo repository.ListingRepository
	reviewRepo  repository.ReviewRepository
	userRepo    repository.UserRepository
	logger      *logrus.Logger
}

// NewListingService creates a new ListingService
func NewListingService(
	listingRepo repository.ListingRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	logger *logrus.Logger,
) ListingService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &listingService{
		listingRepo: listingRepo,
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

func (s *listingService) CreateListing(ctx context.Context, req *CreateListingRequest) (*entity.Listing, error) {
	if !entity.ValidPropertyType(req.PropertyType) {
		return nil, entity.ErrInvalidInput
	}
	if req.PricePerNight <= 0 {
		return nil, entity.ErrInvalidPrice
	}
	if !req.AvailableFrom.Before(req.AvailableTo.Time) {
		return nil, entity.ErrInvalidAvailability
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	listing := &entity.Listing{
		Title:         req.Title,
		Description:   req.Description,
		PropertyType:  req.PropertyType,
		Location:      req.Location,
		City:          req.City,
		Country:       req.Country,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		MaxGuests:     req.MaxGuests,
		PricePerNight: req.PricePerNight,
		AvailableFrom: req.AvailableFrom,
		AvailableTo:   req.AvailableTo,
		Amenities:     req.Amenities,
		OwnerID:       req.OwnerID,
		ImageURL:      req.ImageURL,
		IsActive:      true,
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"listing_id": listing.ID,
		"owner_id":   listing.OwnerID,
		"city":       listing.City,
	}).Info("listing created")

	return listing, nil
}

func (s *listingService) GetListing(ctx context.Context, id int64) (*entity.ListingDetails, error) {
	return s.listingRepo.GetDetails(ctx, id)
}

func (s *listingService) GetAllListings(ctx context.Context) ([]*entity.Listing, error) {
	return s.listingRepo.GetAll(ctx)
}

func (s *listingService) UpdateListing(ctx context.Context, id int64, req *UpdateListingRequest) (*entity.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.PropertyType != nil {
		if !entity.ValidPropertyType(*req.PropertyType) {
			return nil, entity.ErrInvalidInput
		}
		listing.PropertyType = *req.PropertyType
	}
	if req.Location != nil {
		listing.Location = *req.Location
	}
	if req.City != nil {
		listing.City = *req.City
	}
	if req.Country != nil {
		listing.Country = *req.Country
	}
	if req.Latitude != nil {
		listing.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		listing.Longitude = req.Longitude
	}
	if req.Bedrooms != nil {
		listing.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		listing.Bathrooms = *req.Bathrooms
	}
	if req.MaxGuests != nil {
		if *req.MaxGuests < 1 {
			return nil, entity.ErrInvalidInput
		}
		listing.MaxGuests = *req.MaxGuests
	}
	if req.PricePerNight != nil {
		if *req.PricePerNight <= 0 {
			return nil, entity.ErrInvalidPrice
		}
		listing.PricePerNight = *req.PricePerNight
	}
	if req.AvailableFrom != nil {
		listing.AvailableFrom = *req.AvailableFrom
	}
	if req.AvailableTo != nil {
		listing.AvailableTo = *req.AvailableTo
	}
	if !listing.AvailableFrom.Before(listing.AvailableTo.Time) {
		return nil, entity.ErrInvalidAvailability
	}
	if req.Amenities != nil {
		listing.Amenities = *req.Amenities
	}
	if req.ImageURL != nil {
		listing.ImageURL = req.ImageURL
	}
	if req.IsActive != nil {
		listing.IsActive = *req.IsActive
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	s.logger.WithField("listing_id", listing.ID).Info("listing updated")
	return listing, nil
}

func (s *listingService) DeleteListing(ctx context.Context, id int64) error {
	if err := s.listingRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("listing_id", id).Info("listing deleted")
	return nil
}

func (s *listingService) GetAvailableListings(ctx context.Context, from, to entity.DateOnly) ([]*entity.Listing, error) {
	if from.IsZero() || to.IsZero() || !from.Before(to.Time) {
		return nil, entity.ErrInvalidDateRange
	}
	return s.listingRepo.GetAvailable(ctx, from, to)
}

func (s *listingService) GetListingReviews(ctx context.Context, listingID int64) ([]*entity.Review, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.reviewRepo.GetByListingID(ctx, listingID)
}

func (s *listingService) SearchListings(ctx context.Context, city, country string) ([]*entity.Listing, error) {
	return s.listingRepo.SearchByLocation(ctx, city, country)
}
