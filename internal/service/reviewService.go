package service

import (
	"context"

	repository "travelapp/internal/database/postgres"
	"travelapp/internal/entity"

	"github.com/sirupsen/logrus"
)

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	bookingRepo repository.BookingRepository
	listingRepo repository.ListingRepository
	logger      *logrus.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookingRepo repository.BookingRepository,
	listingRepo repository.ListingRepository,
	logger *logrus.Logger,
) ReviewService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &reviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		logger:      logger,
	}
}

// CreateReview checks the review against its booking before persisting it.
// A review is verified when the stay actually happened: the booking is
// confirmed or completed and belongs to the reviewer.
func (s *reviewService) CreateReview(ctx context.Context, req *CreateReviewRequest) (*entity.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, entity.ErrInvalidRating
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.listingRepo.GetByID(ctx, req.ListingID); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.ListingID != req.ListingID {
		return nil, entity.ErrReviewWrongListing
	}
	if booking.GuestID != req.GuestID {
		return nil, entity.ErrInvalidInput
	}

	verified := booking.Status == entity.BookingStatusConfirmed ||
		booking.Status == entity.BookingStatusCompleted

	review := &entity.Review{
		ListingID:  req.ListingID,
		BookingID:  req.BookingID,
		GuestID:    req.GuestID,
		Title:      req.Title,
		Comment:    req.Comment,
		Rating:     req.Rating,
		IsVerified: verified,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"review_id":  review.ID,
		"listing_id": review.ListingID,
		"booking_id": review.BookingID,
		"rating":     review.Rating,
	}).Info("review created")

	return review, nil
}

func (s *reviewService) GetReview(ctx context.Context, id int64) (*entity.Review, error) {
	return s.reviewRepo.GetByID(ctx, id)
}

func (s *reviewService) GetAllReviews(ctx context.Context) ([]*entity.Review, error) {
	return s.reviewRepo.GetAll(ctx)
}

func (s *reviewService) GetListingReviews(ctx context.Context, listingID int64) ([]*entity.Review, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.reviewRepo.GetByListingID(ctx, listingID)
}

func (s *reviewService) GetBookingReview(ctx context.Context, bookingID int64) (*entity.Review, error) {
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.reviewRepo.GetByBookingID(ctx, bookingID)
}

func (s *reviewService) UpdateReview(ctx context.Context, id int64, req *UpdateReviewRequest) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		review.Title = *req.Title
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, entity.ErrInvalidRating
		}
		review.Rating = *req.Rating
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	s.logger.WithField("review_id", review.ID).Info("review updated")
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, id int64) error {
	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("review_id", id).Info("review deleted")
	return nil
}
