package server

import (
	"bloghub/internal/models"
	"bloghub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/register
// @Summary Register a user
// @Description Create an account, queue the welcome email and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.RegisterRequest true "Account details"
// @Success 201 {object} models.Envelope{data=service.AuthResult}
// @Failure 400 {object} models.Envelope
// @Failure 422 {object} models.Envelope
// @Router /register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req validation.RegisterRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	result, err := s.authService.Register(c.UserContext(), req)
	if err != nil {
		return models.RespondWithError(c, s.logger, err)
	}

	return models.Created(c, result, "User registered successfully")
}

// Login handles POST /api/login
// @Summary User login
// @Description Authenticate with email and password and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.LoginRequest true "Login credentials"
// @Success 200 {object} models.Envelope{data=service.AuthResult}
// @Failure 401 {object} models.Envelope
// @Failure 422 {object} models.Envelope
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req validation.LoginRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	result, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return models.RespondWithError(c, s.logger, err)
	}

	return models.Success(c, result, "Login successful")
}

// Logout handles POST /api/logout
// @Summary Log out
// @Description Revoke the bearer token used for this request
// @Tags auth
// @Produce json
// @Success 200 {object} models.Envelope
// @Failure 401 {object} models.Envelope
// @Security BearerAuth
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.UserContext(), currentClaims(c)); err != nil {
		return models.RespondWithError(c, s.logger, err)
	}
	return models.Success(c, nil, "Logout successful")
}

// GetCurrentUser handles GET /api/user
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.Envelope{data=models.User}
// @Failure 401 {object} models.Envelope
// @Security BearerAuth
// @Router /user [get]
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	user, err := s.userService.GetCurrentUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, s.logger, err)
	}
	return models.Success(c, user, "User retrieved successfully")
}
