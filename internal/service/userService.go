package service

import (
	"context"
	"strings"

	repository "travelapp/internal/database/postgres"
	"travelapp/internal/entity"

	"github.com/sirupsen/logrus"
)

type userService struct {
	userRepo repository.UserRepository
	logger   *logrus.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, logger *logrus.Logger) UserService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *userService) RegisterUser(ctx context.Context, req *RegisterUserRequest) (*entity.User, error) {
	normalized := &RegisterUserRequest{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	if err := validateRequest(normalized); err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:     normalized.Email,
		FirstName: normalized.FirstName,
		LastName:  normalized.LastName,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("user registered")

	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]*entity.User, error) {
	return s.userRepo.GetAll(ctx)
}
