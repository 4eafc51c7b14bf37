package server

import (
	"errors"

	"bloghub/internal/auth"
	"bloghub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errorHandler envelopes errors that escape handlers and middleware: unknown routes,
// wrong methods, oversized bodies and recovered panics.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch {
		case fe.Code == fiber.StatusNotFound:
			return models.NotFound(c)
		case fe.Code == fiber.StatusMethodNotAllowed:
			return models.MethodNotAllowed(c)
		case fe.Code < fiber.StatusInternalServerError:
			return models.Failed(c, fe.Code, []string{fe.Message})
		}
	}
	return models.RespondWithError(c, s.logger, err)
}

func isTokenRejection(err error) bool {
	return errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrTokenRevoked)
}
