// Package service holds the business rules that sit between HTTP handlers and repositories.
package service

import (
	"context"
	"errors"

	"bloghub/internal/auth"
	"bloghub/internal/models"
	"bloghub/internal/repository"
	"bloghub/internal/validation"
)

const (
	invalidCredentials = "Invalid credentials"
	emailTaken         = "The email has already been taken."
)

// WelcomeNotifier is told about every newly registered user.
type WelcomeNotifier interface {
	WelcomeEmail(ctx context.Context, user *models.User)
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	welcome  WelcomeNotifier
}

// NewAuthService returns an AuthService. welcome may be nil.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, welcome WelcomeNotifier) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		welcome:  welcome,
	}
}

// Register creates the account, queues the welcome email and issues a token.
func (s *AuthService) Register(ctx context.Context, req validation.RegisterRequest) (*AuthResult, error) {
	req.Normalize()
	if fields := validation.Struct(req); fields != nil {
		return nil, models.NewFieldValidationError(fields)
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewFieldValidationError(map[string][]string{"email": {emailTaken}})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same address.
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeConflict {
			return nil, models.NewFieldValidationError(appErr.Fields)
		}
		return nil, err
	}

	if s.welcome != nil {
		s.welcome.WelcomeEmail(ctx, user)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login checks the credentials and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, req validation.LoginRequest) (*AuthResult, error) {
	req.Normalize()
	if fields := validation.Struct(req); fields != nil {
		return nil, models.NewFieldValidationError(fields)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.Password, req.Password) {
		return nil, models.NewUnauthorizedError(invalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes the token the request was authenticated with.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
