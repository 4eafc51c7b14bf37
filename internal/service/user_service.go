package service

import (
	"context"

	"bloghub/internal/models"
	"bloghub/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetCurrentUser returns the authenticated user without relations.
func (s *UserService) GetCurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// GetUserProfile returns a user with all of their posts.
func (s *UserService) GetUserProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByIDWithPosts(ctx, userID)
}
