package server

import (
	"bloghub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetWeather handles GET /api/weather. Upstream and configuration failures answer 503.
// @Summary Current weather
// @Description OpenWeather payload for the configured location, cached for 15 minutes
// @Tags weather
// @Produce json
// @Success 200 {object} models.Envelope
// @Failure 503 {object} models.Envelope
// @Router /weather [get]
func (s *Server) GetWeather(c *fiber.Ctx) error {
	payload, ok := s.weather.GetCurrentWeather(c.UserContext(), s.weatherLocation)
	if !ok {
		return models.ServiceUnavailable(c, "Failed to fetch weather data")
	}
	return models.Success(c, payload, "Weather data retrieved successfully")
}
