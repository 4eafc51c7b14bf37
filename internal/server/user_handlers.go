package server

import (
	"bloghub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:id
// @Summary User profile
// @Description A user with all of their posts
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Envelope{data=models.UserProfile}
// @Failure 401 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "User not found")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserProfile(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, s.logger, err)
	}
	return models.Success(c, models.NewUserProfile(user), "User retrieved successfully")
}
